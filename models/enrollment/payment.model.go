package enrollment

import "gorm.io/gorm"

// Payment order statuses
const (
	OrderCreated  = "created"
	OrderPaid     = "paid"
	OrderFailed   = "failed"
	OrderRefunded = "refunded"
)

// PaymentOrder mirrors a gateway order created for a course purchase.
// Amounts are stored in the smallest currency unit, matching the gateway.
type PaymentOrder struct {
	gorm.Model
	UserID           uint    `json:"user_id" gorm:"index;not null"`
	CourseID         uint    `json:"course_id" gorm:"index;not null"`
	GatewayOrderID   string  `json:"gateway_order_id" gorm:"uniqueIndex"`
	GatewayPaymentID string  `json:"gateway_payment_id"`
	Receipt          string  `json:"receipt" gorm:"uniqueIndex;not null"`
	Amount           int64   `json:"amount" gorm:"not null"`
	Currency         string  `json:"currency" gorm:"default:'INR'"`
	CouponID         *uint   `json:"coupon_id"`
	DiscountApplied  float64 `json:"discount_applied" gorm:"default:0"`
	Status           string  `json:"status" gorm:"default:'created'"` // created, paid, failed, refunded
	FailureReason    string  `json:"failure_reason"`
}
