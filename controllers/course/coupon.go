package courseController

import (
	"errors"
	"log"
	"time"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModel "learnhub/models/course"
	"learnhub/utils"
	"learnhub/validators"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Coupon resolution failures surfaced to callers (payment flow reuses these)
var (
	ErrCouponNotFound    = errors.New("coupon not found")
	ErrCouponNotUsable   = errors.New("coupon cannot be used")
	ErrCouponWrongCourse = errors.New("coupon does not apply to this course")
	ErrCouponNotEligible = errors.New("user is not eligible for this coupon")
	ErrCouponAlreadyUsed = errors.New("coupon already used by this user")
)

// ResolveCoupon validates a coupon code against a course and user, returning
// the coupon when it is usable for this purchase.
func ResolveCoupon(db *gorm.DB, code string, courseID, userID uint, at time.Time) (*courseModel.Coupon, error) {
	var coupon courseModel.Coupon
	if err := db.Where("code = ? AND is_deleted = ?", code, false).First(&coupon).Error; err != nil {
		return nil, ErrCouponNotFound
	}

	if !coupon.CanBeUsed(at) {
		return nil, ErrCouponNotUsable
	}

	// Course restriction applies only when restriction rows exist
	var courseLinks int64
	db.Model(&courseModel.CouponCourse{}).Where("coupon_id = ?", coupon.ID).Count(&courseLinks)
	if courseLinks > 0 {
		var applicable int64
		db.Model(&courseModel.CouponCourse{}).
			Where("coupon_id = ? AND course_id = ? AND is_applicable = ?", coupon.ID, courseID, true).
			Count(&applicable)
		if applicable == 0 {
			return nil, ErrCouponWrongCourse
		}
	}

	// Same for student restriction
	var studentLinks int64
	db.Model(&courseModel.StudentCouponEligibility{}).Where("coupon_id = ?", coupon.ID).Count(&studentLinks)
	if studentLinks > 0 {
		var eligibility courseModel.StudentCouponEligibility
		if err := db.Where("coupon_id = ? AND student_id = ?", coupon.ID, userID).First(&eligibility).Error; err != nil {
			return nil, ErrCouponNotEligible
		}
		if eligibility.IsUsed {
			return nil, ErrCouponAlreadyUsed
		}
	}

	return &coupon, nil
}

// ConsumeCoupon records a successful use of the coupon inside tx
func ConsumeCoupon(tx *gorm.DB, couponID, userID uint) error {
	if err := tx.Model(&courseModel.Coupon{}).Where("id = ?", couponID).
		UpdateColumn("current_uses", gorm.Expr("current_uses + 1")).Error; err != nil {
		return err
	}
	now := time.Now()
	return tx.Model(&courseModel.StudentCouponEligibility{}).
		Where("coupon_id = ? AND student_id = ?", couponID, userID).
		Updates(map[string]interface{}{"is_used": true, "used_at": now}).Error
}

// ListCoupons lists coupons (admin only)
func ListCoupons(c *fiber.Ctx) error {
	page := validators.ParsePagination(c)

	db := database.Database.Db.Model(&courseModel.Coupon{}).Where("is_deleted = ?", false)

	var total int64
	db.Count(&total)

	var coupons []courseModel.Coupon
	if err := db.Offset(page.Offset()).Limit(page.Limit).Order("created_at desc").Find(&coupons).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to fetch coupons!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Coupons fetched successfully!", fiber.Map{
		"coupons": coupons,
		"pagination": fiber.Map{
			"total": total,
			"page":  page.Page,
			"limit": page.Limit,
		},
	})
}

// CreateCoupon creates a coupon with optional course and student restrictions
func CreateCoupon(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCoupon").(*courseValidator.CouponRequest)

	db := database.Database.Db

	code := reqData.Code
	if code == "" {
		code = "LH" + utils.GenerateCode(8)
	}

	var existing courseModel.Coupon
	if err := db.Where("code = ?", code).First(&existing).Error; err == nil {
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "Coupon code already exists!")
	}

	coupon := courseModel.Coupon{
		Code:          code,
		DiscountType:  reqData.DiscountType,
		DiscountValue: reqData.DiscountValue,
		ValidFrom:     reqData.ValidFrom,
		ValidTo:       reqData.ValidTo,
		IsActive:      true,
		MaxUses:       reqData.MaxUses,
	}

	tx := db.Begin()
	if err := tx.Create(&coupon).Error; err != nil {
		tx.Rollback()
		log.Printf("Error creating coupon: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to create coupon!")
	}
	for _, courseID := range reqData.CourseIDs {
		if err := tx.Create(&courseModel.CouponCourse{CouponID: coupon.ID, CourseID: courseID, IsApplicable: true}).Error; err != nil {
			tx.Rollback()
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to create coupon!")
		}
	}
	for _, studentID := range reqData.StudentIDs {
		if err := tx.Create(&courseModel.StudentCouponEligibility{CouponID: coupon.ID, StudentID: studentID}).Error; err != nil {
			tx.Rollback()
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to create coupon!")
		}
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, "Coupon created successfully!", coupon)
}

// DeactivateCoupon turns a coupon off without deleting its usage history
func DeactivateCoupon(c *fiber.Ctx) error {
	couponID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	db := database.Database.Db

	var coupon courseModel.Coupon
	if err := db.Where("id = ? AND is_deleted = ?", couponID, false).First(&coupon).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Coupon not found!")
	}

	if err := db.Model(&coupon).Update("is_active", false).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to deactivate coupon!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Coupon deactivated successfully!", coupon)
}

// GrantEligibility grants students access to a restricted coupon
func GrantEligibility(c *fiber.Ctx) error {
	couponID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedEligibility").(*courseValidator.GrantEligibilityRequest)

	db := database.Database.Db

	var coupon courseModel.Coupon
	if err := db.Where("id = ? AND is_deleted = ?", couponID, false).First(&coupon).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Coupon not found!")
	}

	granted := 0
	for _, studentID := range reqData.StudentIDs {
		var user models.User
		if err := db.Where("id = ? AND is_deleted = ?", studentID, false).First(&user).Error; err != nil {
			continue
		}
		var existing courseModel.StudentCouponEligibility
		if err := db.Where("coupon_id = ? AND student_id = ?", coupon.ID, studentID).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&courseModel.StudentCouponEligibility{CouponID: coupon.ID, StudentID: studentID}).Error; err == nil {
			granted++
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Eligibility granted successfully!", fiber.Map{
		"granted": granted,
	})
}

// ApplyCoupon checks a coupon against a course and returns the priced result
func ApplyCoupon(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	reqData := c.Locals("validatedApplyCoupon").(*courseValidator.ApplyCouponRequest)

	db := database.Database.Db

	var crs courseModel.Course
	if err := db.Where("id = ? AND is_deleted = ? AND status = ?", reqData.CourseID, false, courseModel.StatusPublished).First(&crs).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Course not found!")
	}

	var pricing courseModel.CoursePricing
	if err := db.Where("course_id = ?", crs.ID).First(&pricing).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Course pricing is missing!")
	}

	now := time.Now()
	coupon, err := ResolveCoupon(db, reqData.Code, crs.ID, userID, now)
	if err != nil {
		switch err {
		case ErrCouponNotFound:
			return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Coupon not found!")
		case ErrCouponWrongCourse:
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "COUPON_INVALID", "Coupon does not apply to this course!")
		case ErrCouponNotEligible, ErrCouponAlreadyUsed:
			return middleware.ErrorResponse(c, fiber.StatusForbidden, middleware.CodeForbidden, "You are not eligible to use this coupon!")
		default:
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "COUPON_INVALID", "Coupon is not usable right now!")
		}
	}

	price := pricing.EffectivePrice(now)
	discounted := coupon.Discount(price)

	return middleware.JsonResponse(c, fiber.StatusOK, "Coupon applied successfully!", fiber.Map{
		"coupon_code":      coupon.Code,
		"original_price":   price,
		"discounted_price": discounted,
		"discount_amount":  price - discounted,
		"currency":         pricing.Currency,
	})
}
