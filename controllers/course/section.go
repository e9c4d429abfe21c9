package courseController

import (
	"learnhub/database"
	"learnhub/middleware"
	courseModel "learnhub/models/course"
	"learnhub/validators"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// loadOwnedSection resolves a section through its course ownership check.
// A nil section means a response has already been written.
func loadOwnedSection(c *fiber.Ctx, sectionID uint) (*courseModel.Section, error) {
	var section courseModel.Section
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", sectionID, false).First(&section).Error; err != nil {
		return nil, middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Section not found!")
	}

	if crs, err := LoadOwnedCourse(c, section.CourseID); crs == nil {
		return nil, err
	}

	return &section, nil
}

func sectionOrderTaken(db *gorm.DB, courseID uint, orderIndex int, excludeID uint) bool {
	var count int64
	q := db.Model(&courseModel.Section{}).
		Where("course_id = ? AND order_index = ? AND is_deleted = ?", courseID, orderIndex, false)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	q.Count(&count)
	return count > 0
}

// ListSections returns a course's sections in order (management view)
func ListSections(c *fiber.Ctx) error {
	courseID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	crs, err := LoadOwnedCourse(c, courseID)
	if crs == nil {
		return err
	}

	var sections []courseModel.Section
	if err := database.Database.Db.
		Where("course_id = ? AND is_deleted = ?", crs.ID, false).
		Order("order_index asc").
		Find(&sections).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to fetch sections!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Sections fetched successfully!", sections)
}

// CreateSection adds a section to a managed course
func CreateSection(c *fiber.Ctx) error {
	courseID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedSection").(*courseValidator.SectionRequest)

	crs, err := LoadOwnedCourse(c, courseID)
	if crs == nil {
		return err
	}

	db := database.Database.Db

	orderIndex := 0
	if reqData.OrderIndex != nil {
		orderIndex = *reqData.OrderIndex
		if sectionOrderTaken(db, crs.ID, orderIndex, 0) {
			return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "Order index is already taken in this course!")
		}
	} else {
		// Append to the end when no position is given
		var maxOrder *int
		db.Model(&courseModel.Section{}).
			Where("course_id = ? AND is_deleted = ?", crs.ID, false).
			Select("MAX(order_index)").Scan(&maxOrder)
		if maxOrder != nil {
			orderIndex = *maxOrder + 1
		}
	}

	section := courseModel.Section{
		CourseID:    crs.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		OrderIndex:  orderIndex,
		IsPublished: true,
	}
	if reqData.IsPublished != nil {
		section.IsPublished = *reqData.IsPublished
	}

	if err := db.Create(&section).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to create section!")
	}

	RecountCourseStructure(db, crs.ID)

	return middleware.JsonResponse(c, fiber.StatusCreated, "Section created successfully!", section)
}

// UpdateSection updates a section of a managed course
func UpdateSection(c *fiber.Ctx) error {
	sectionID, err := validators.ParseIDParam(c, "section_id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedSection").(*courseValidator.SectionRequest)

	section, err := loadOwnedSection(c, sectionID)
	if section == nil {
		return err
	}

	db := database.Database.Db

	updates := map[string]interface{}{}
	if reqData.Title != "" {
		updates["title"] = reqData.Title
	}
	if reqData.Description != "" {
		updates["description"] = reqData.Description
	}
	if reqData.OrderIndex != nil {
		if sectionOrderTaken(db, section.CourseID, *reqData.OrderIndex, section.ID) {
			return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "Order index is already taken in this course!")
		}
		updates["order_index"] = *reqData.OrderIndex
	}
	if reqData.IsPublished != nil {
		updates["is_published"] = *reqData.IsPublished
	}

	if err := db.Model(section).Updates(updates).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to update section!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Section updated successfully!", section)
}

// DeleteSection soft-deletes a section and its lectures
func DeleteSection(c *fiber.Ctx) error {
	sectionID, err := validators.ParseIDParam(c, "section_id")
	if err != nil {
		return err
	}

	section, err := loadOwnedSection(c, sectionID)
	if section == nil {
		return err
	}

	db := database.Database.Db

	tx := db.Begin()
	if err := tx.Model(&courseModel.Lecture{}).Where("section_id = ?", section.ID).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to delete section!")
	}
	if err := tx.Model(section).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to delete section!")
	}
	tx.Commit()

	RecountCourseStructure(db, section.CourseID)

	return middleware.JsonResponse(c, fiber.StatusOK, "Section deleted successfully!", nil)
}
