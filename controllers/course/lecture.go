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

// loadOwnedLecture resolves a lecture through its section and course
// ownership checks. A nil lecture means a response has already been written.
func loadOwnedLecture(c *fiber.Ctx, lectureID uint) (*courseModel.Lecture, *courseModel.Section, error) {
	var lecture courseModel.Lecture
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lectureID, false).First(&lecture).Error; err != nil {
		return nil, nil, middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Lecture not found!")
	}

	section, err := loadOwnedSection(c, lecture.SectionID)
	if section == nil {
		return nil, nil, err
	}

	return &lecture, section, nil
}

func lectureOrderTaken(db *gorm.DB, sectionID uint, orderIndex int, excludeID uint) bool {
	var count int64
	q := db.Model(&courseModel.Lecture{}).
		Where("section_id = ? AND order_index = ? AND is_deleted = ?", sectionID, orderIndex, false)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	q.Count(&count)
	return count > 0
}

// saveLectureContent upserts the per-type content rows for a lecture
func saveLectureContent(tx *gorm.DB, lectureID uint, reqData *courseValidator.LectureRequest) error {
	if reqData.Video != nil {
		var video courseModel.VideoContent
		err := tx.Where("lecture_id = ?", lectureID).First(&video).Error
		video.LectureID = lectureID
		video.VideoURL = reqData.Video.VideoURL
		if reqData.Video.VideoProvider != "" {
			video.VideoProvider = reqData.Video.VideoProvider
		}
		video.ThumbnailURL = reqData.Video.ThumbnailURL
		video.CaptionsURL = reqData.Video.CaptionsURL
		video.DurationSeconds = reqData.Video.DurationSeconds
		if err != nil {
			return tx.Create(&video).Error
		}
		return tx.Save(&video).Error
	}

	if reqData.PDF != nil {
		var pdf courseModel.PDFContent
		err := tx.Where("lecture_id = ?", lectureID).First(&pdf).Error
		pdf.LectureID = lectureID
		pdf.PDFURL = reqData.PDF.PDFURL
		pdf.FileName = reqData.PDF.FileName
		pdf.TotalPages = reqData.PDF.TotalPages
		if err != nil {
			return tx.Create(&pdf).Error
		}
		return tx.Save(&pdf).Error
	}

	return nil
}

// GetLecture returns a lecture with its content rows (management view)
func GetLecture(c *fiber.Ctx) error {
	lectureID, err := validators.ParseIDParam(c, "lecture_id")
	if err != nil {
		return err
	}

	lecture, _, err := loadOwnedLecture(c, lectureID)
	if lecture == nil {
		return err
	}

	db := database.Database.Db

	payload := fiber.Map{"lecture": lecture}

	var video courseModel.VideoContent
	if err := db.Where("lecture_id = ?", lecture.ID).First(&video).Error; err == nil {
		payload["video"] = video
	}
	var pdf courseModel.PDFContent
	if err := db.Where("lecture_id = ?", lecture.ID).First(&pdf).Error; err == nil {
		payload["pdf"] = pdf
	}
	var resources []courseModel.LectureResource
	db.Where("lecture_id = ? AND is_deleted = ?", lecture.ID, false).Find(&resources)
	payload["resources"] = resources

	return middleware.JsonResponse(c, fiber.StatusOK, "Lecture fetched successfully!", payload)
}

// CreateLecture adds a lecture to a section of a managed course
func CreateLecture(c *fiber.Ctx) error {
	sectionID, err := validators.ParseIDParam(c, "section_id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedLecture").(*courseValidator.LectureRequest)

	section, err := loadOwnedSection(c, sectionID)
	if section == nil {
		return err
	}

	db := database.Database.Db

	orderIndex := 0
	if reqData.OrderIndex != nil {
		orderIndex = *reqData.OrderIndex
		if lectureOrderTaken(db, section.ID, orderIndex, 0) {
			return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "Order index is already taken in this section!")
		}
	} else {
		var maxOrder *int
		db.Model(&courseModel.Lecture{}).
			Where("section_id = ? AND is_deleted = ?", section.ID, false).
			Select("MAX(order_index)").Scan(&maxOrder)
		if maxOrder != nil {
			orderIndex = *maxOrder + 1
		}
	}

	lecture := courseModel.Lecture{
		SectionID:   section.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		ContentType: reqData.ContentType,
		ContentURL:  reqData.ContentURL,
		TextContent: reqData.TextContent,
		OrderIndex:  orderIndex,
		IsPublished: true,
	}
	if reqData.IsPublished != nil {
		lecture.IsPublished = *reqData.IsPublished
	}

	tx := db.Begin()
	if err := tx.Create(&lecture).Error; err != nil {
		tx.Rollback()
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to create lecture!")
	}
	if err := saveLectureContent(tx, lecture.ID, reqData); err != nil {
		tx.Rollback()
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to save lecture content!")
	}
	tx.Commit()

	RecountCourseStructure(db, section.CourseID)

	return middleware.JsonResponse(c, fiber.StatusCreated, "Lecture created successfully!", lecture)
}

// UpdateLecture updates a lecture and its content rows
func UpdateLecture(c *fiber.Ctx) error {
	lectureID, err := validators.ParseIDParam(c, "lecture_id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedLecture").(*courseValidator.LectureRequest)

	lecture, section, err := loadOwnedLecture(c, lectureID)
	if lecture == nil {
		return err
	}

	db := database.Database.Db

	updates := map[string]interface{}{
		"title":        reqData.Title,
		"description":  reqData.Description,
		"content_type": reqData.ContentType,
		"content_url":  reqData.ContentURL,
		"text_content": reqData.TextContent,
	}
	if reqData.OrderIndex != nil {
		if lectureOrderTaken(db, lecture.SectionID, *reqData.OrderIndex, lecture.ID) {
			return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "Order index is already taken in this section!")
		}
		updates["order_index"] = *reqData.OrderIndex
	}
	if reqData.IsPublished != nil {
		updates["is_published"] = *reqData.IsPublished
	}

	tx := db.Begin()
	if err := tx.Model(lecture).Updates(updates).Error; err != nil {
		tx.Rollback()
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to update lecture!")
	}
	if err := saveLectureContent(tx, lecture.ID, reqData); err != nil {
		tx.Rollback()
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to save lecture content!")
	}
	tx.Commit()

	RecountCourseStructure(db, section.CourseID)

	return middleware.JsonResponse(c, fiber.StatusOK, "Lecture updated successfully!", lecture)
}

// DeleteLecture soft-deletes a lecture
func DeleteLecture(c *fiber.Ctx) error {
	lectureID, err := validators.ParseIDParam(c, "lecture_id")
	if err != nil {
		return err
	}

	lecture, section, err := loadOwnedLecture(c, lectureID)
	if lecture == nil {
		return err
	}

	if err := database.Database.Db.Model(lecture).Update("is_deleted", true).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to delete lecture!")
	}

	RecountCourseStructure(database.Database.Db, section.CourseID)

	return middleware.JsonResponse(c, fiber.StatusOK, "Lecture deleted successfully!", nil)
}

// AddLectureResource attaches a downloadable resource to a lecture
func AddLectureResource(c *fiber.Ctx) error {
	lectureID, err := validators.ParseIDParam(c, "lecture_id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedResource").(*courseValidator.ResourceRequest)

	lecture, _, err := loadOwnedLecture(c, lectureID)
	if lecture == nil {
		return err
	}

	resource := courseModel.LectureResource{
		LectureID:    lecture.ID,
		Title:        reqData.Title,
		ResourceType: reqData.ResourceType,
		FileURL:      reqData.FileURL,
		FileName:     reqData.FileName,
		FileSizeMB:   reqData.FileSizeMB,
	}
	if err := database.Database.Db.Create(&resource).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to add resource!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Resource added successfully!", resource)
}

// DeleteLectureResource removes a resource from a lecture
func DeleteLectureResource(c *fiber.Ctx) error {
	lectureID, err := validators.ParseIDParam(c, "lecture_id")
	if err != nil {
		return err
	}
	resourceID, err := validators.ParseIDParam(c, "resource_id")
	if err != nil {
		return err
	}

	lecture, _, err := loadOwnedLecture(c, lectureID)
	if lecture == nil {
		return err
	}

	db := database.Database.Db

	var resource courseModel.LectureResource
	if err := db.Where("id = ? AND lecture_id = ? AND is_deleted = ?", resourceID, lecture.ID, false).First(&resource).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Resource not found!")
	}

	if err := db.Model(&resource).Update("is_deleted", true).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to delete resource!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Resource deleted successfully!", nil)
}
