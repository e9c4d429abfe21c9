package enrollmentValidator

import (
	"strings"

	"learnhub/middleware"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

// ProgressRequest is the validated lecture progress payload
type ProgressRequest struct {
	WatchedSeconds int   `json:"watched_seconds"`
	TotalSeconds   int   `json:"total_seconds"`
	IsCompleted    *bool `json:"is_completed"`
}

// UpdateProgress validates lecture progress updates
func UpdateProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := validators.ParseIDParam(c, "course_id"); err != nil {
			return err
		}
		if _, err := validators.ParseIDParam(c, "lecture_id"); err != nil {
			return err
		}

		reqData := new(ProgressRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		if reqData.WatchedSeconds < 0 {
			errors["watched_seconds"] = "Watched seconds must not be negative!"
		}
		if reqData.TotalSeconds < 0 {
			errors["total_seconds"] = "Total seconds must not be negative!"
		}
		if reqData.TotalSeconds > 0 && reqData.WatchedSeconds > reqData.TotalSeconds {
			reqData.WatchedSeconds = reqData.TotalSeconds
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}

// BookmarkRequest is the validated bookmark payload
type BookmarkRequest struct {
	LectureID        uint   `json:"lecture_id"`
	Title            string `json:"title"`
	Note             string `json:"note"`
	TimestampSeconds int    `json:"timestamp_seconds"`
}

// CreateBookmark validates bookmark creation requests
func CreateBookmark() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := validators.ParseIDParam(c, "course_id"); err != nil {
			return err
		}

		reqData := new(BookmarkRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)
		if reqData.LectureID == 0 {
			errors["lecture_id"] = "Lecture ID is required!"
		}
		if reqData.TimestampSeconds < 0 {
			errors["timestamp_seconds"] = "Timestamp must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBookmark", reqData)
		return c.Next()
	}
}

// NoteRequest is the validated note payload
type NoteRequest struct {
	LectureID        uint   `json:"lecture_id"`
	Content          string `json:"content"`
	TimestampSeconds *int   `json:"timestamp_seconds"`
}

// CreateNote validates note creation requests
func CreateNote() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := validators.ParseIDParam(c, "course_id"); err != nil {
			return err
		}

		reqData := new(NoteRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)
		if reqData.LectureID == 0 {
			errors["lecture_id"] = "Lecture ID is required!"
		}
		if strings.TrimSpace(reqData.Content) == "" {
			errors["content"] = "Content is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedNote", reqData)
		return c.Next()
	}
}

// CreateOrderRequest is the validated payment order payload
type CreateOrderRequest struct {
	CourseID   uint   `json:"course_id"`
	CouponCode string `json:"coupon_code"`
}

// CreateOrder validates payment order creation requests
func CreateOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateOrderRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		if reqData.CourseID == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"course_id": "Course ID is required!"})
		}
		reqData.CouponCode = strings.ToUpper(strings.TrimSpace(reqData.CouponCode))

		c.Locals("validatedOrder", reqData)
		return c.Next()
	}
}

// VerifyPaymentRequest is the validated client-side capture payload
type VerifyPaymentRequest struct {
	OrderID   string `json:"gateway_order_id"`
	PaymentID string `json:"gateway_payment_id"`
	Signature string `json:"signature"`
}

// VerifyPayment validates payment verification requests
func VerifyPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(VerifyPaymentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)
		if reqData.OrderID == "" {
			errors["gateway_order_id"] = "Gateway order ID is required!"
		}
		if reqData.PaymentID == "" {
			errors["gateway_payment_id"] = "Gateway payment ID is required!"
		}
		if reqData.Signature == "" {
			errors["signature"] = "Signature is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVerifyPayment", reqData)
		return c.Next()
	}
}
