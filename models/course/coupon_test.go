package course

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int              { return &v }
func floatPtr(v float64) *float64    { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func TestCouponDiscount(t *testing.T) {
	percent := Coupon{DiscountType: DiscountPercent, DiscountValue: 25}
	assert.Equal(t, 75.0, percent.Discount(100))

	fixed := Coupon{DiscountType: DiscountFixed, DiscountValue: 300}
	assert.Equal(t, 200.0, fixed.Discount(500))

	// Never below zero
	assert.Equal(t, 0.0, fixed.Discount(100))

	unknown := Coupon{DiscountType: "bogus", DiscountValue: 50}
	assert.Equal(t, 100.0, unknown.Discount(100))
}

func TestCouponCanBeUsed(t *testing.T) {
	now := time.Now()

	active := Coupon{IsActive: true}
	assert.True(t, active.CanBeUsed(now))

	inactive := Coupon{IsActive: false}
	assert.False(t, inactive.CanBeUsed(now))

	exhausted := Coupon{IsActive: true, MaxUses: intPtr(2), CurrentUses: 2}
	assert.False(t, exhausted.CanBeUsed(now))

	expired := Coupon{IsActive: true, ValidTo: timePtr(now.Add(-time.Hour))}
	assert.False(t, expired.CanBeUsed(now))

	notYet := Coupon{IsActive: true, ValidFrom: timePtr(now.Add(time.Hour))}
	assert.False(t, notYet.CanBeUsed(now))

	inWindow := Coupon{
		IsActive:  true,
		ValidFrom: timePtr(now.Add(-time.Hour)),
		ValidTo:   timePtr(now.Add(time.Hour)),
		MaxUses:   intPtr(10),
	}
	assert.True(t, inWindow.CanBeUsed(now))
}

func TestEffectivePrice(t *testing.T) {
	now := time.Now()

	free := CoursePricing{IsFree: true, Price: 499}
	assert.Equal(t, 0.0, free.EffectivePrice(now))

	plain := CoursePricing{Price: 499}
	assert.Equal(t, 499.0, plain.EffectivePrice(now))

	onSale := CoursePricing{
		Price:         499,
		SalePrice:     floatPtr(299),
		SaleStartDate: timePtr(now.Add(-time.Hour)),
		SaleEndDate:   timePtr(now.Add(time.Hour)),
	}
	assert.Equal(t, 299.0, onSale.EffectivePrice(now))

	saleOver := CoursePricing{
		Price:       499,
		SalePrice:   floatPtr(299),
		SaleEndDate: timePtr(now.Add(-time.Hour)),
	}
	assert.Equal(t, 499.0, saleOver.EffectivePrice(now))

	saleNotStarted := CoursePricing{
		Price:         499,
		SalePrice:     floatPtr(299),
		SaleStartDate: timePtr(now.Add(time.Hour)),
	}
	assert.Equal(t, 499.0, saleNotStarted.EffectivePrice(now))

	// Sale price with no window is always on
	openEnded := CoursePricing{Price: 499, SalePrice: floatPtr(299)}
	assert.Equal(t, 299.0, openEnded.EffectivePrice(now))
}
