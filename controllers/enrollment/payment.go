package enrollmentController

import (
	"encoding/json"
	"log"
	"math"
	"time"

	courseController "learnhub/controllers/course"
	"learnhub/database"
	"learnhub/middleware"
	courseModel "learnhub/models/course"
	enrollmentModel "learnhub/models/enrollment"
	"learnhub/utils"
	enrollmentValidator "learnhub/validators/enrollment"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// toSmallestUnit converts a price like 499.00 to the gateway's integer unit
func toSmallestUnit(price float64) int64 {
	return int64(math.Round(price * 100))
}

// CreateOrder prices a course purchase and creates the gateway order
func CreateOrder(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	reqData := c.Locals("validatedOrder").(*enrollmentValidator.CreateOrderRequest)

	db := database.Database.Db

	var crs courseModel.Course
	if err := db.Where("id = ? AND is_deleted = ? AND status = ?", reqData.CourseID, false, courseModel.StatusPublished).First(&crs).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Course not found!")
	}

	var existing enrollmentModel.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND status <> ?", userID, crs.ID, enrollmentModel.StatusCancelled).First(&existing).Error; err == nil {
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeAlreadyEnrolled, "You are already enrolled in this course!")
	}

	var pricing courseModel.CoursePricing
	if err := db.Where("course_id = ?", crs.ID).First(&pricing).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Course pricing is missing!")
	}

	now := time.Now()
	price := pricing.EffectivePrice(now)
	if price <= 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "This course is free, enroll directly!")
	}

	var couponID *uint
	discount := 0.0
	if reqData.CouponCode != "" {
		coupon, err := courseController.ResolveCoupon(db, reqData.CouponCode, crs.ID, userID, now)
		if err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "COUPON_INVALID", "Coupon cannot be applied to this purchase!")
		}
		discounted := coupon.Discount(price)
		discount = price - discounted
		price = discounted
		couponID = &coupon.ID
	}

	receipt := uuid.NewString()
	amount := toSmallestUnit(price)

	order := enrollmentModel.PaymentOrder{
		UserID:          userID,
		CourseID:        crs.ID,
		Receipt:         receipt,
		Amount:          amount,
		Currency:        pricing.Currency,
		CouponID:        couponID,
		DiscountApplied: discount,
		Status:          enrollmentModel.OrderCreated,
	}

	// A fully discounted order skips the gateway
	if amount > 0 {
		gatewayOrder, err := utils.CreateGatewayOrder(amount, pricing.Currency, receipt)
		if err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadGateway, "GATEWAY_ERROR", "Failed to create payment order!")
		}
		order.GatewayOrderID = gatewayOrder.ID
	} else {
		order.GatewayOrderID = "free-" + receipt
		order.Status = enrollmentModel.OrderPaid
	}

	tx := db.Begin()
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		log.Printf("Error creating payment order: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to create payment order!")
	}
	if order.Status == enrollmentModel.OrderPaid && couponID != nil {
		if err := courseController.ConsumeCoupon(tx, *couponID, userID); err != nil {
			tx.Rollback()
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to create payment order!")
		}
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, "Payment order created successfully!", order)
}

// markOrderPaid captures an order and consumes its coupon inside one tx
func markOrderPaid(order *enrollmentModel.PaymentOrder, paymentID string) error {
	tx := database.Database.Db.Begin()
	if err := tx.Model(order).Updates(map[string]interface{}{
		"status":             enrollmentModel.OrderPaid,
		"gateway_payment_id": paymentID,
	}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if order.CouponID != nil {
		if err := courseController.ConsumeCoupon(tx, *order.CouponID, order.UserID); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit().Error
}

// activatePaidEnrollment enrolls the order's buyer, or re-activates and
// marks paid an enrollment that already exists.
func activatePaidEnrollment(db *gorm.DB, userID, courseID uint) error {
	var enr enrollmentModel.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enr).Error; err == nil {
		return db.Model(&enr).Updates(map[string]interface{}{
			"status":         enrollmentModel.StatusActive,
			"payment_status": enrollmentModel.PaymentPaid,
		}).Error
	}

	enr = enrollmentModel.Enrollment{
		UserID:         userID,
		CourseID:       courseID,
		Status:         enrollmentModel.StatusActive,
		PaymentStatus:  enrollmentModel.PaymentPaid,
		EnrollmentDate: time.Now(),
	}

	tx := db.Begin()
	if err := tx.Create(&enr).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Model(&courseModel.CourseMetadata{}).Where("course_id = ?", courseID).
		UpdateColumn("total_enrollments", gorm.Expr("total_enrollments + 1")).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// refundOrder marks an order refunded and deactivates the enrollment it paid
// for.
func refundOrder(db *gorm.DB, order *enrollmentModel.PaymentOrder) error {
	if err := db.Model(order).Update("status", enrollmentModel.OrderRefunded).Error; err != nil {
		return err
	}
	var enr enrollmentModel.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", order.UserID, order.CourseID).First(&enr).Error; err != nil {
		return nil
	}
	return db.Model(&enr).Updates(map[string]interface{}{
		"status":         enrollmentModel.StatusCancelled,
		"payment_status": enrollmentModel.PaymentRefunded,
	}).Error
}

// VerifyPayment confirms a client-side capture against the gateway signature
func VerifyPayment(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	reqData := c.Locals("validatedVerifyPayment").(*enrollmentValidator.VerifyPaymentRequest)

	db := database.Database.Db

	var order enrollmentModel.PaymentOrder
	if err := db.Where("gateway_order_id = ? AND user_id = ?", reqData.OrderID, userID).First(&order).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Payment order not found!")
	}

	if order.Status == enrollmentModel.OrderPaid {
		return middleware.JsonResponse(c, fiber.StatusOK, "Payment already verified!", order)
	}

	if !utils.VerifyPaymentSignature(reqData.OrderID, reqData.PaymentID, reqData.Signature) {
		db.Model(&order).Updates(map[string]interface{}{
			"status":         enrollmentModel.OrderFailed,
			"failure_reason": "signature mismatch",
		})
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "PAYMENT_INVALID", "Payment signature verification failed!")
	}

	if err := markOrderPaid(&order, reqData.PaymentID); err != nil {
		log.Printf("Error capturing payment order %d: %v", order.ID, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to capture payment!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Payment verified successfully!", order)
}

// gatewayWebhookEvent is the subset of the webhook payload we read
type gatewayWebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// PaymentWebhook handles asynchronous capture/failure events from the gateway
func PaymentWebhook(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get("X-Webhook-Signature")

	if !utils.VerifyWebhookSignature(body, signature) {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.CodeUnauthorized, "Invalid webhook signature!")
	}

	var event gatewayWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid webhook payload!")
	}

	db := database.Database.Db

	var order enrollmentModel.PaymentOrder
	if err := db.Where("gateway_order_id = ?", event.Payload.Payment.Entity.OrderID).First(&order).Error; err != nil {
		// Unknown orders are acknowledged so the gateway stops retrying
		return middleware.JsonResponse(c, fiber.StatusOK, "Webhook processed!", nil)
	}

	switch event.Event {
	case "payment.captured":
		if order.Status != enrollmentModel.OrderPaid {
			if err := markOrderPaid(&order, event.Payload.Payment.Entity.ID); err != nil {
				log.Printf("Error capturing payment order %d from webhook: %v", order.ID, err)
				return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to process webhook!")
			}
		}
		if err := activatePaidEnrollment(db, order.UserID, order.CourseID); err != nil {
			log.Printf("Error activating enrollment for order %d: %v", order.ID, err)
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to process webhook!")
		}
	case "payment.failed":
		if order.Status == enrollmentModel.OrderCreated {
			db.Model(&order).Updates(map[string]interface{}{
				"status":         enrollmentModel.OrderFailed,
				"failure_reason": "gateway reported failure",
			})
		}
	case "refund.processed":
		if order.Status == enrollmentModel.OrderPaid {
			if err := refundOrder(db, &order); err != nil {
				log.Printf("Error refunding payment order %d: %v", order.ID, err)
				return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to process webhook!")
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Webhook processed!", nil)
}

// MyOrders lists the caller's payment orders
func MyOrders(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	var orders []enrollmentModel.PaymentOrder
	if err := database.Database.Db.Where("user_id = ?", userID).Order("created_at desc").Find(&orders).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to fetch orders!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Orders fetched successfully!", orders)
}
