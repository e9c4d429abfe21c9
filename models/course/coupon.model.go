package course

import (
	"time"

	"gorm.io/gorm"
)

// Coupon discount types
const (
	DiscountPercent = "percent"
	DiscountFixed   = "fixed"
)

// Coupon is a discount code, optionally restricted to courses and students
type Coupon struct {
	gorm.Model
	Code          string     `json:"code" gorm:"unique;not null"`
	DiscountType  string     `json:"discount_type" gorm:"not null"` // percent, fixed
	DiscountValue float64    `json:"discount_value" gorm:"not null"`
	ValidFrom     *time.Time `json:"valid_from"`
	ValidTo       *time.Time `json:"valid_to"`
	IsActive      bool       `json:"is_active" gorm:"default:true"`
	MaxUses       *int       `json:"max_uses"` // nil = unlimited
	CurrentUses   int        `json:"current_uses" gorm:"default:0"`
	IsDeleted     bool       `json:"-" gorm:"default:false"`
}

// IsExpired reports whether the coupon is outside its validity window
func (cp *Coupon) IsExpired(at time.Time) bool {
	if cp.ValidFrom != nil && at.Before(*cp.ValidFrom) {
		return true
	}
	if cp.ValidTo != nil && at.After(*cp.ValidTo) {
		return true
	}
	return false
}

// CanBeUsed checks active status, usage limits and the validity window
func (cp *Coupon) CanBeUsed(at time.Time) bool {
	if !cp.IsActive {
		return false
	}
	if cp.MaxUses != nil && cp.CurrentUses >= *cp.MaxUses {
		return false
	}
	return !cp.IsExpired(at)
}

// Discount applies the coupon to a price, never going below zero
func (cp *Coupon) Discount(price float64) float64 {
	var discounted float64
	switch cp.DiscountType {
	case DiscountPercent:
		discounted = price - price*cp.DiscountValue/100
	case DiscountFixed:
		discounted = price - cp.DiscountValue
	default:
		return price
	}
	if discounted < 0 {
		return 0
	}
	return discounted
}

// CouponCourse restricts a coupon to a course (M2M). A coupon with no rows
// applies to every course.
type CouponCourse struct {
	gorm.Model
	CouponID     uint `json:"coupon_id" gorm:"index:idx_coupon_course,unique;not null"`
	CourseID     uint `json:"course_id" gorm:"index:idx_coupon_course,unique;not null"`
	IsApplicable bool `json:"is_applicable" gorm:"default:true"`
}

// StudentCouponEligibility restricts a coupon to specific students. A coupon
// with no rows is available to all users.
type StudentCouponEligibility struct {
	gorm.Model
	StudentID uint       `json:"student_id" gorm:"index:idx_student_coupon,unique;not null"`
	CouponID  uint       `json:"coupon_id" gorm:"index:idx_student_coupon,unique;not null"`
	IsUsed    bool       `json:"is_used" gorm:"default:false"`
	UsedAt    *time.Time `json:"used_at"`
}
