package courseController

import (
	"encoding/json"
	"log"

	"learnhub/database"
	"learnhub/middleware"
	courseModel "learnhub/models/course"
	"learnhub/utils"
	"learnhub/validators"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// GetAllCategories lists active categories ordered for display
func GetAllCategories(c *fiber.Ctx) error {
	var categories []courseModel.Category
	if err := database.Database.Db.
		Where("is_deleted = ? AND is_active = ?", false, true).
		Order("display_order asc, name asc").
		Find(&categories).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to fetch categories!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Categories fetched successfully!", categories)
}

// CreateCategory creates a category (admin only)
func CreateCategory(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCategory").(*courseValidator.CategoryRequest)

	db := database.Database.Db

	var existing courseModel.Category
	if err := db.Where("name = ?", reqData.Name).First(&existing).Error; err == nil {
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "Category already exists!")
	}

	category := courseModel.Category{
		Name:             reqData.Name,
		Slug:             utils.Slugify(reqData.Name),
		Description:      reqData.Description,
		Icon:             reqData.Icon,
		ParentCategoryID: reqData.ParentCategoryID,
		IsActive:         true,
	}
	if reqData.DisplayOrder != nil {
		category.DisplayOrder = *reqData.DisplayOrder
	}

	if err := db.Create(&category).Error; err != nil {
		log.Printf("Error creating category: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to create category!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Category created successfully!", category)
}

// UpdateCategory updates a category (admin only)
func UpdateCategory(c *fiber.Ctx) error {
	categoryID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedCategory").(*courseValidator.CategoryRequest)

	db := database.Database.Db

	var category courseModel.Category
	if err := db.Where("id = ? AND is_deleted = ?", categoryID, false).First(&category).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Category not found!")
	}

	updates := map[string]interface{}{}
	if reqData.Name != "" {
		updates["name"] = reqData.Name
		updates["slug"] = utils.Slugify(reqData.Name)
	}
	if reqData.Description != "" {
		updates["description"] = reqData.Description
	}
	if reqData.Icon != "" {
		updates["icon"] = reqData.Icon
	}
	if reqData.ParentCategoryID != nil {
		updates["parent_category_id"] = *reqData.ParentCategoryID
	}
	if reqData.DisplayOrder != nil {
		updates["display_order"] = *reqData.DisplayOrder
	}
	if reqData.IsActive != nil {
		updates["is_active"] = *reqData.IsActive
	}

	if err := db.Model(&category).Updates(updates).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to update category!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Category updated successfully!", category)
}

// DeleteCategory soft-deletes a category (admin only)
func DeleteCategory(c *fiber.Ctx) error {
	categoryID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	db := database.Database.Db

	var category courseModel.Category
	if err := db.Where("id = ? AND is_deleted = ?", categoryID, false).First(&category).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Category not found!")
	}

	var inUse int64
	db.Model(&courseModel.Course{}).Where("category_id = ? AND is_deleted = ?", categoryID, false).Count(&inUse)
	if inUse > 0 {
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "Category still has courses assigned!")
	}

	if err := db.Model(&category).Update("is_deleted", true).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to delete category!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Category deleted successfully!", nil)
}

// GetAllInstructors lists instructors with pagination
func GetAllInstructors(c *fiber.Ctx) error {
	page := validators.ParsePagination(c)

	db := database.Database.Db.Model(&courseModel.Instructor{}).Where("is_deleted = ?", false)

	var total int64
	db.Count(&total)

	var instructors []courseModel.Instructor
	if err := db.Offset(page.Offset()).Limit(page.Limit).Order("name asc").Find(&instructors).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to fetch instructors!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Instructors fetched successfully!", fiber.Map{
		"instructors": instructors,
		"pagination": fiber.Map{
			"total": total,
			"page":  page.Page,
			"limit": page.Limit,
		},
	})
}

// GetInstructor returns one instructor with their courses
func GetInstructor(c *fiber.Ctx) error {
	instructorID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	db := database.Database.Db

	var instructor courseModel.Instructor
	if err := db.Where("id = ? AND is_deleted = ?", instructorID, false).First(&instructor).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Instructor not found!")
	}

	var courses []courseModel.Course
	db.Joins("JOIN course_instructors ON course_instructors.course_id = courses.id").
		Where("course_instructors.instructor_id = ? AND courses.is_deleted = ? AND courses.status = ?",
			instructorID, false, courseModel.StatusPublished).
		Find(&courses)

	return middleware.JsonResponse(c, fiber.StatusOK, "Instructor fetched successfully!", fiber.Map{
		"instructor": instructor,
		"courses":    courses,
	})
}

// CreateInstructor creates an instructor profile (admin only)
func CreateInstructor(c *fiber.Ctx) error {
	reqData := c.Locals("validatedInstructor").(*courseValidator.InstructorRequest)

	expertise, err := json.Marshal(reqData.Expertise)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid expertise list!")
	}

	instructor := courseModel.Instructor{
		UserID:    reqData.UserID,
		Name:      reqData.Name,
		Title:     reqData.Title,
		Bio:       reqData.Bio,
		AvatarURL: reqData.AvatarURL,
		Expertise: datatypes.JSON(expertise),
	}

	if err := database.Database.Db.Create(&instructor).Error; err != nil {
		log.Printf("Error creating instructor: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to create instructor!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Instructor created successfully!", instructor)
}

// AssignInstructor links an instructor to a course
func AssignInstructor(c *fiber.Ctx) error {
	courseID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedAssignInstructor").(*courseValidator.AssignInstructorRequest)

	crs, err := LoadOwnedCourse(c, courseID)
	if crs == nil {
		return err
	}

	db := database.Database.Db

	var instructor courseModel.Instructor
	if err := db.Where("id = ? AND is_deleted = ?", reqData.InstructorID, false).First(&instructor).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Instructor not found!")
	}

	var existing courseModel.CourseInstructor
	if err := db.Where("course_id = ? AND instructor_id = ?", crs.ID, instructor.ID).First(&existing).Error; err == nil {
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "Instructor is already assigned to this course!")
	}

	link := courseModel.CourseInstructor{
		CourseID:     crs.ID,
		InstructorID: instructor.ID,
		Role:         reqData.Role,
		OrderIndex:   reqData.OrderIndex,
	}
	if err := db.Create(&link).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to assign instructor!")
	}

	db.Model(&instructor).Update("total_courses", instructor.TotalCourses+1)

	return middleware.JsonResponse(c, fiber.StatusCreated, "Instructor assigned successfully!", link)
}

// UnassignInstructor removes an instructor from a course
func UnassignInstructor(c *fiber.Ctx) error {
	courseID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	instructorID, err := validators.ParseIDParam(c, "instructor_id")
	if err != nil {
		return err
	}

	crs, err := LoadOwnedCourse(c, courseID)
	if crs == nil {
		return err
	}

	db := database.Database.Db

	var link courseModel.CourseInstructor
	if err := db.Where("course_id = ? AND instructor_id = ?", crs.ID, instructorID).First(&link).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Instructor is not assigned to this course!")
	}

	if err := db.Delete(&link).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to unassign instructor!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Instructor unassigned successfully!", nil)
}
