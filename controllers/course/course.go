package courseController

import (
	"fmt"
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

// LoadOwnedCourse fetches a course the caller may manage: admins manage any
// course, instructors only their own. A nil course means a response has
// already been written. Other controller packages use it for course-scoped
// resources.
func LoadOwnedCourse(c *fiber.Ctx, courseID uint) (*courseModel.Course, error) {
	userID := c.Locals("userId").(uint)

	db := database.Database.Db

	var crs courseModel.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&crs).Error; err != nil {
		return nil, middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Course not found!")
	}

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return nil, middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.CodeUnauthorized, "User not found!")
	}

	if user.Role != models.RoleAdmin {
		if crs.CreatedByID == nil || *crs.CreatedByID != userID {
			return nil, middleware.ErrorResponse(c, fiber.StatusForbidden, middleware.CodeForbidden, "You do not manage this course!")
		}
	}

	return &crs, nil
}

// GetAllCourses lists published courses with filters and pagination
func GetAllCourses(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourseList").(*courseValidator.CourseListQuery)
	page := validators.ParsePagination(c)

	db := database.Database.Db.Model(&courseModel.Course{}).
		Where("is_deleted = ? AND status = ?", false, courseModel.StatusPublished)

	if reqData.CategoryID != nil {
		db = db.Where("category_id = ?", *reqData.CategoryID)
	}
	if reqData.Level != "" {
		db = db.Where("level = ?", reqData.Level)
	}
	if reqData.Search != "" {
		like := "%" + reqData.Search + "%"
		db = db.Where("title LIKE ? OR short_description LIKE ?", like, like)
	}

	var total int64
	db.Count(&total)

	var courses []courseModel.Course
	if err := db.Offset(page.Offset()).Limit(page.Limit).Order("published_at desc").Find(&courses).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to fetch courses!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page.Page,
			"limit": page.Limit,
		},
	})
}

// GetCourseBySlug returns a published course with its full curriculum
func GetCourseBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")

	db := database.Database.Db

	var crs courseModel.Course
	if err := db.Where("slug = ? AND is_deleted = ? AND status = ?", slug, false, courseModel.StatusPublished).First(&crs).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Course not found!")
	}

	var metadata courseModel.CourseMetadata
	db.Where("course_id = ?", crs.ID).First(&metadata)
	var pricing courseModel.CoursePricing
	db.Where("course_id = ?", crs.ID).First(&pricing)

	var sections []courseModel.Section
	db.Where("course_id = ? AND is_deleted = ? AND is_published = ?", crs.ID, false, true).
		Order("order_index asc").Find(&sections)

	type sectionPayload struct {
		courseModel.Section
		Lectures []courseModel.Lecture `json:"lectures"`
	}
	curriculum := make([]sectionPayload, 0, len(sections))
	for _, s := range sections {
		var lectures []courseModel.Lecture
		db.Where("section_id = ? AND is_deleted = ? AND is_published = ?", s.ID, false, true).
			Order("order_index asc").Find(&lectures)
		curriculum = append(curriculum, sectionPayload{Section: s, Lectures: lectures})
	}

	var instructors []courseModel.Instructor
	db.Joins("JOIN course_instructors ON course_instructors.instructor_id = instructors.id").
		Where("course_instructors.course_id = ?", crs.ID).
		Order("course_instructors.order_index asc").
		Find(&instructors)

	return middleware.JsonResponse(c, fiber.StatusOK, "Course fetched successfully!", fiber.Map{
		"course":      crs,
		"metadata":    metadata,
		"pricing":     pricing,
		"sections":    curriculum,
		"instructors": instructors,
	})
}

// CreateCourse creates a draft course with its metadata and pricing rows
func CreateCourse(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	reqData := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)

	db := database.Database.Db

	slug := utils.Slugify(reqData.Title)
	var clash courseModel.Course
	if err := db.Where("slug = ?", slug).First(&clash).Error; err == nil {
		// Suffix keeps slugs unique across same-titled courses
		slug = fmt.Sprintf("%s-%s", slug, utils.GenerateCode(4))
	}

	crs := courseModel.Course{
		CourseCode:       utils.GenerateCode(8),
		Title:            reqData.Title,
		Slug:             slug,
		ShortDescription: reqData.ShortDescription,
		Description:      reqData.Description,
		Level:            reqData.Level,
		Language:         reqData.Language,
		Status:           courseModel.StatusDraft,
		CategoryID:       reqData.CategoryID,
		ThumbnailURL:     reqData.ThumbnailURL,
		PromoVideoURL:    reqData.PromoVideoURL,
		CreatedByID:      &userID,
	}
	if crs.Language == "" {
		crs.Language = "English"
	}

	tx := db.Begin()
	if err := tx.Create(&crs).Error; err != nil {
		tx.Rollback()
		log.Printf("Error creating course: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to create course!")
	}
	if err := tx.Create(&courseModel.CourseMetadata{CourseID: crs.ID}).Error; err != nil {
		tx.Rollback()
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to create course!")
	}
	pricing := courseModel.CoursePricing{
		CourseID:  crs.ID,
		Price:     reqData.Price,
		SalePrice: reqData.SalePrice,
		Currency:  reqData.Currency,
		IsFree:    reqData.IsFree || reqData.Price == 0,
	}
	if err := tx.Create(&pricing).Error; err != nil {
		tx.Rollback()
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to create course!")
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, "Course created successfully!", fiber.Map{
		"course":  crs,
		"pricing": pricing,
	})
}

// UpdateCourse applies partial updates to a managed course
func UpdateCourse(c *fiber.Ctx) error {
	courseID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedCourseUpdate").(*courseValidator.UpdateCourseRequest)

	crs, err := LoadOwnedCourse(c, courseID)
	if crs == nil {
		return err
	}

	db := database.Database.Db

	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.ShortDescription != nil {
		updates["short_description"] = *reqData.ShortDescription
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.Level != nil {
		updates["level"] = *reqData.Level
	}
	if reqData.Language != nil {
		updates["language"] = *reqData.Language
	}
	if reqData.CategoryID != nil {
		updates["category_id"] = *reqData.CategoryID
	}
	if reqData.ThumbnailURL != nil {
		updates["thumbnail_url"] = *reqData.ThumbnailURL
	}
	if reqData.PromoVideoURL != nil {
		updates["promo_video_url"] = *reqData.PromoVideoURL
	}

	if len(updates) > 0 {
		if err := db.Model(crs).Updates(updates).Error; err != nil {
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to update course!")
		}
	}

	pricingUpdates := map[string]interface{}{}
	if reqData.Price != nil {
		pricingUpdates["price"] = *reqData.Price
	}
	if reqData.SalePrice != nil {
		pricingUpdates["sale_price"] = *reqData.SalePrice
	}
	if reqData.IsFree != nil {
		pricingUpdates["is_free"] = *reqData.IsFree
	}
	if len(pricingUpdates) > 0 {
		if err := db.Model(&courseModel.CoursePricing{}).Where("course_id = ?", crs.ID).Updates(pricingUpdates).Error; err != nil {
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to update pricing!")
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Course updated successfully!", crs)
}

// PublishCourse moves a draft course to published and recounts its structure
func PublishCourse(c *fiber.Ctx) error {
	courseID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	crs, err := LoadOwnedCourse(c, courseID)
	if crs == nil {
		return err
	}

	if crs.Status == courseModel.StatusPublished {
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "Course is already published!")
	}

	db := database.Database.Db

	var lectureCount int64
	db.Model(&courseModel.Lecture{}).
		Joins("JOIN sections ON sections.id = lectures.section_id").
		Where("sections.course_id = ? AND lectures.is_deleted = ? AND sections.is_deleted = ?", crs.ID, false, false).
		Count(&lectureCount)
	if lectureCount == 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "EMPTY_COURSE", "A course needs at least one lecture before publishing!")
	}

	now := time.Now()
	if err := db.Model(crs).Updates(map[string]interface{}{
		"status":       courseModel.StatusPublished,
		"published_at": now,
	}).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to publish course!")
	}

	RecountCourseStructure(db, crs.ID)

	return middleware.JsonResponse(c, fiber.StatusOK, "Course published successfully!", crs)
}

// ArchiveCourse retires a published course from the catalog
func ArchiveCourse(c *fiber.Ctx) error {
	courseID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	crs, err := LoadOwnedCourse(c, courseID)
	if crs == nil {
		return err
	}

	if err := database.Database.Db.Model(crs).Update("status", courseModel.StatusArchived).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to archive course!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Course archived successfully!", crs)
}

// DeleteCourse soft-deletes a managed course
func DeleteCourse(c *fiber.Ctx) error {
	courseID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	crs, err := LoadOwnedCourse(c, courseID)
	if crs == nil {
		return err
	}

	if err := database.Database.Db.Model(crs).Update("is_deleted", true).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to delete course!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Course deleted successfully!", nil)
}

// ListManagedCourses lists courses the caller manages, any status
func ListManagedCourses(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	page := validators.ParsePagination(c)

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.CodeUnauthorized, "User not found!")
	}

	q := db.Model(&courseModel.Course{}).Where("is_deleted = ?", false)
	if user.Role != models.RoleAdmin {
		q = q.Where("created_by_id = ?", userID)
	}

	var total int64
	q.Count(&total)

	var courses []courseModel.Course
	if err := q.Offset(page.Offset()).Limit(page.Limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to fetch courses!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page.Page,
			"limit": page.Limit,
		},
	})
}

// RecountCourseStructure refreshes the section/lecture/duration counters on
// the course metadata row.
func RecountCourseStructure(db *gorm.DB, courseID uint) {
	var sectionCount int64
	db.Model(&courseModel.Section{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Count(&sectionCount)

	var lectureCount int64
	db.Model(&courseModel.Lecture{}).
		Joins("JOIN sections ON sections.id = lectures.section_id").
		Where("sections.course_id = ? AND lectures.is_deleted = ? AND sections.is_deleted = ?", courseID, false, false).
		Count(&lectureCount)

	var durationSeconds int64
	db.Model(&courseModel.VideoContent{}).
		Joins("JOIN lectures ON lectures.id = video_contents.lecture_id").
		Joins("JOIN sections ON sections.id = lectures.section_id").
		Where("sections.course_id = ? AND lectures.is_deleted = ?", courseID, false).
		Select("COALESCE(SUM(video_contents.duration_seconds), 0)").
		Scan(&durationSeconds)

	db.Model(&courseModel.CourseMetadata{}).Where("course_id = ?", courseID).Updates(map[string]interface{}{
		"total_sections":   sectionCount,
		"total_lectures":   lectureCount,
		"duration_minutes": durationSeconds / 60,
	})
}
