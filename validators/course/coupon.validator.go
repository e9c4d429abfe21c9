package courseValidator

import (
	"strings"
	"time"

	"learnhub/middleware"
	"learnhub/models/course"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

// CouponRequest is the validated coupon payload
type CouponRequest struct {
	Code          string     `json:"code"`
	DiscountType  string     `json:"discount_type"`
	DiscountValue float64    `json:"discount_value"`
	ValidFrom     *time.Time `json:"valid_from"`
	ValidTo       *time.Time `json:"valid_to"`
	MaxUses       *int       `json:"max_uses"`
	CourseIDs     []uint     `json:"course_ids"`
	StudentIDs    []uint     `json:"student_ids"`
}

// CreateCoupon validates coupon creation requests
func CreateCoupon() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CouponRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		reqData.Code = strings.ToUpper(strings.TrimSpace(reqData.Code))

		switch reqData.DiscountType {
		case course.DiscountPercent:
			if reqData.DiscountValue <= 0 || reqData.DiscountValue > 100 {
				errors["discount_value"] = "Percent discount must be between 0 and 100!"
			}
		case course.DiscountFixed:
			if reqData.DiscountValue <= 0 {
				errors["discount_value"] = "Fixed discount must be positive!"
			}
		default:
			errors["discount_type"] = "Discount type must be percent or fixed!"
		}

		if reqData.ValidFrom != nil && reqData.ValidTo != nil && reqData.ValidTo.Before(*reqData.ValidFrom) {
			errors["valid_to"] = "valid_to must be after valid_from!"
		}
		if reqData.MaxUses != nil && *reqData.MaxUses <= 0 {
			errors["max_uses"] = "max_uses must be positive!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCoupon", reqData)
		return c.Next()
	}
}

// ApplyCouponRequest is the validated payload for checking a coupon price
type ApplyCouponRequest struct {
	Code     string `json:"code"`
	CourseID uint   `json:"course_id"`
}

// ApplyCoupon validates coupon application requests
func ApplyCoupon() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ApplyCouponRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		reqData.Code = strings.ToUpper(strings.TrimSpace(reqData.Code))
		if reqData.Code == "" {
			errors["code"] = "Coupon code is required!"
		}
		if reqData.CourseID == 0 {
			errors["course_id"] = "Course ID is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedApplyCoupon", reqData)
		return c.Next()
	}
}

// GrantEligibilityRequest grants students access to a restricted coupon
type GrantEligibilityRequest struct {
	StudentIDs []uint `json:"student_ids"`
}

// GrantEligibility validates eligibility grant requests
func GrantEligibility() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := validators.ParseIDParam(c, "id"); err != nil {
			return err
		}

		reqData := new(GrantEligibilityRequest)
		if err := c.BodyParser(reqData); err != nil || len(reqData.StudentIDs) == 0 {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "student_ids is required!")
		}

		c.Locals("validatedEligibility", reqData)
		return c.Next()
	}
}
