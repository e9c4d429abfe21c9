package enrollmentController

import (
	"log"
	"time"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModel "learnhub/models/course"
	enrollmentModel "learnhub/models/enrollment"
	"learnhub/utils"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// loadEnrollment fetches the caller's enrollment for a course. A nil
// enrollment means a response has already been written.
func loadEnrollment(c *fiber.Ctx, userID, courseID uint) (*enrollmentModel.Enrollment, error) {
	var enr enrollmentModel.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enr).Error; err != nil {
		return nil, middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "You are not enrolled in this course!")
	}
	return &enr, nil
}

// Enroll enrolls the caller in a course. Free courses enroll directly; paid
// courses require a captured payment order for the course.
func Enroll(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID, err := validators.ParseIDParam(c, "course_id")
	if err != nil {
		return err
	}

	db := database.Database.Db

	var crs courseModel.Course
	if err := db.Where("id = ? AND is_deleted = ? AND status = ?", courseID, false, courseModel.StatusPublished).First(&crs).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Course not found!")
	}

	var existing enrollmentModel.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", userID, crs.ID).First(&existing).Error; err == nil {
		if existing.Status == enrollmentModel.StatusCancelled {
			// Re-activate a cancelled enrollment instead of failing
			if err := db.Model(&existing).Updates(map[string]interface{}{
				"status":          enrollmentModel.StatusActive,
				"enrollment_date": time.Now(),
			}).Error; err != nil {
				return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to enroll!")
			}
			return middleware.JsonResponse(c, fiber.StatusOK, "Enrolled successfully!", existing)
		}
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeAlreadyEnrolled, "You are already enrolled in this course!")
	}

	var pricing courseModel.CoursePricing
	if err := db.Where("course_id = ?", crs.ID).First(&pricing).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Course pricing is missing!")
	}

	paymentStatus := enrollmentModel.PaymentFree
	if pricing.EffectivePrice(time.Now()) > 0 {
		var order enrollmentModel.PaymentOrder
		if err := db.Where("user_id = ? AND course_id = ? AND status = ?", userID, crs.ID, enrollmentModel.OrderPaid).
			Order("created_at desc").First(&order).Error; err != nil {
			return middleware.ErrorResponse(c, fiber.StatusPaymentRequired, "PAYMENT_REQUIRED", "This course requires payment before enrolling!")
		}
		paymentStatus = enrollmentModel.PaymentPaid
	}

	enr := enrollmentModel.Enrollment{
		UserID:         userID,
		CourseID:       crs.ID,
		Status:         enrollmentModel.StatusActive,
		PaymentStatus:  paymentStatus,
		EnrollmentDate: time.Now(),
	}

	tx := db.Begin()
	if err := tx.Create(&enr).Error; err != nil {
		tx.Rollback()
		log.Printf("Error creating enrollment: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to enroll!")
	}
	if err := tx.Model(&courseModel.CourseMetadata{}).Where("course_id = ?", crs.ID).
		UpdateColumn("total_enrollments", gorm.Expr("total_enrollments + 1")).Error; err != nil {
		tx.Rollback()
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to enroll!")
	}
	tx.Commit()

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err == nil {
		go func(email, title string) {
			if err := utils.SendEnrollmentEmail(email, title); err != nil {
				log.Printf("Error sending enrollment email: %v", err)
			}
		}(user.Email, crs.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Enrolled successfully!", enr)
}

// MyEnrollments lists the caller's enrollments with course summaries
func MyEnrollments(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	page := validators.ParsePagination(c)

	db := database.Database.Db

	q := db.Model(&enrollmentModel.Enrollment{}).Where("user_id = ?", userID)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	q.Count(&total)

	var enrollments []enrollmentModel.Enrollment
	if err := q.Offset(page.Offset()).Limit(page.Limit).Order("enrollment_date desc").Find(&enrollments).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to fetch enrollments!")
	}

	type enrollmentPayload struct {
		enrollmentModel.Enrollment
		Course courseModel.Course `json:"course"`
	}
	payload := make([]enrollmentPayload, 0, len(enrollments))
	for _, enr := range enrollments {
		var crs courseModel.Course
		db.Where("id = ?", enr.CourseID).First(&crs)
		payload = append(payload, enrollmentPayload{Enrollment: enr, Course: crs})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": payload,
		"pagination": fiber.Map{
			"total": total,
			"page":  page.Page,
			"limit": page.Limit,
		},
	})
}

// GetEnrollment returns the caller's enrollment with per-lecture progress
func GetEnrollment(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID, err := validators.ParseIDParam(c, "course_id")
	if err != nil {
		return err
	}

	enr, err := loadEnrollment(c, userID, courseID)
	if enr == nil {
		return err
	}

	var progress []enrollmentModel.LectureProgress
	database.Database.Db.Where("enrollment_id = ?", enr.ID).Find(&progress)

	return middleware.JsonResponse(c, fiber.StatusOK, "Enrollment fetched successfully!", fiber.Map{
		"enrollment": enr,
		"progress":   progress,
	})
}

// CancelEnrollment cancels the caller's active enrollment
func CancelEnrollment(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID, err := validators.ParseIDParam(c, "course_id")
	if err != nil {
		return err
	}

	enr, err := loadEnrollment(c, userID, courseID)
	if enr == nil {
		return err
	}

	if enr.Status == enrollmentModel.StatusCompleted {
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "Completed enrollments cannot be cancelled!")
	}
	if enr.Status == enrollmentModel.StatusCancelled {
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "Enrollment is already cancelled!")
	}

	if err := database.Database.Db.Model(enr).Update("status", enrollmentModel.StatusCancelled).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to cancel enrollment!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Enrollment cancelled successfully!", enr)
}
