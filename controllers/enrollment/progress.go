package enrollmentController

import (
	"time"

	"learnhub/database"
	"learnhub/middleware"
	courseModel "learnhub/models/course"
	enrollmentModel "learnhub/models/enrollment"
	"learnhub/utils"
	"learnhub/validators"
	enrollmentValidator "learnhub/validators/enrollment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// lectureBelongsToCourse checks a lecture sits in the given course and is live
func lectureBelongsToCourse(db *gorm.DB, lectureID, courseID uint) bool {
	var count int64
	db.Model(&courseModel.Lecture{}).
		Joins("JOIN sections ON sections.id = lectures.section_id").
		Where("lectures.id = ? AND sections.course_id = ? AND lectures.is_deleted = ? AND sections.is_deleted = ?",
			lectureID, courseID, false, false).
		Count(&count)
	return count > 0
}

// recomputeProgress refreshes the enrollment's overall progress from its
// completed lectures and finishes the enrollment at 100%.
func recomputeProgress(db *gorm.DB, enr *enrollmentModel.Enrollment) {
	var totalLectures int64
	db.Model(&courseModel.Lecture{}).
		Joins("JOIN sections ON sections.id = lectures.section_id").
		Where("sections.course_id = ? AND lectures.is_deleted = ? AND sections.is_deleted = ? AND lectures.is_published = ? AND sections.is_published = ?",
			enr.CourseID, false, false, true, true).
		Count(&totalLectures)

	var completed int64
	db.Model(&enrollmentModel.LectureProgress{}).
		Where("enrollment_id = ? AND is_completed = ?", enr.ID, true).
		Count(&completed)

	pct := utils.Percent(int(completed), int(totalLectures))

	updates := map[string]interface{}{"progress_percentage": pct}
	if pct >= 100 && enr.Status == enrollmentModel.StatusActive {
		now := time.Now()
		updates["status"] = enrollmentModel.StatusCompleted
		updates["completion_date"] = now
		if !enr.CertificateIssued {
			var crs courseModel.Course
			db.Where("id = ?", enr.CourseID).First(&crs)
			updates["certificate_issued"] = true
			updates["certificate_number"] = utils.CertificateNumber(crs.CourseCode, enr.ID)
		}
	}
	db.Model(enr).Updates(updates)
}

// UpdateLectureProgress upserts per-lecture progress and refreshes the
// enrollment's overall percentage.
func UpdateLectureProgress(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID, err := validators.ParseIDParam(c, "course_id")
	if err != nil {
		return err
	}
	lectureID, err := validators.ParseIDParam(c, "lecture_id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedProgress").(*enrollmentValidator.ProgressRequest)

	enr, err := loadEnrollment(c, userID, courseID)
	if enr == nil {
		return err
	}
	if enr.Status == enrollmentModel.StatusCancelled {
		return middleware.ErrorResponse(c, fiber.StatusForbidden, middleware.CodeForbidden, "Enrollment is cancelled!")
	}

	db := database.Database.Db

	if !lectureBelongsToCourse(db, lectureID, enr.CourseID) {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Lecture not found in this course!")
	}

	now := time.Now()

	var progress enrollmentModel.LectureProgress
	err = db.Where("enrollment_id = ? AND lecture_id = ?", enr.ID, lectureID).First(&progress).Error
	isNew := err != nil

	progress.EnrollmentID = enr.ID
	progress.LectureID = lectureID
	progress.WatchedSeconds = reqData.WatchedSeconds
	progress.TotalSeconds = reqData.TotalSeconds
	progress.LastWatchedAt = now
	if reqData.TotalSeconds > 0 {
		progress.CompletionPercentage = utils.Percent(reqData.WatchedSeconds, reqData.TotalSeconds)
	}
	if reqData.IsCompleted != nil {
		// Completion never reverts once reached
		progress.IsCompleted = progress.IsCompleted || *reqData.IsCompleted
	}
	if progress.CompletionPercentage >= 100 {
		progress.IsCompleted = true
	}

	if isNew {
		err = db.Create(&progress).Error
	} else {
		err = db.Save(&progress).Error
	}
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to save progress!")
	}

	db.Model(enr).Update("last_accessed_at", now)
	recomputeProgress(db, enr)

	// Re-read so callers see the refreshed enrollment state
	db.Where("id = ?", enr.ID).First(enr)

	return middleware.JsonResponse(c, fiber.StatusOK, "Progress saved successfully!", fiber.Map{
		"progress":   progress,
		"enrollment": enr,
	})
}

// ListBookmarks returns the caller's bookmarks for a course
func ListBookmarks(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID, err := validators.ParseIDParam(c, "course_id")
	if err != nil {
		return err
	}

	enr, err := loadEnrollment(c, userID, courseID)
	if enr == nil {
		return err
	}

	var bookmarks []enrollmentModel.Bookmark
	if err := database.Database.Db.Where("enrollment_id = ?", enr.ID).Order("created_at desc").Find(&bookmarks).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to fetch bookmarks!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Bookmarks fetched successfully!", bookmarks)
}

// CreateBookmark bookmarks a point in a lecture
func CreateBookmark(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID, err := validators.ParseIDParam(c, "course_id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedBookmark").(*enrollmentValidator.BookmarkRequest)

	enr, err := loadEnrollment(c, userID, courseID)
	if enr == nil {
		return err
	}

	db := database.Database.Db

	if !lectureBelongsToCourse(db, reqData.LectureID, enr.CourseID) {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Lecture not found in this course!")
	}

	bookmark := enrollmentModel.Bookmark{
		EnrollmentID:     enr.ID,
		LectureID:        reqData.LectureID,
		Title:            reqData.Title,
		Note:             reqData.Note,
		TimestampSeconds: reqData.TimestampSeconds,
	}
	if err := db.Create(&bookmark).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to create bookmark!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Bookmark created successfully!", bookmark)
}

// DeleteBookmark removes one of the caller's bookmarks
func DeleteBookmark(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID, err := validators.ParseIDParam(c, "course_id")
	if err != nil {
		return err
	}
	bookmarkID, err := validators.ParseIDParam(c, "bookmark_id")
	if err != nil {
		return err
	}

	enr, err := loadEnrollment(c, userID, courseID)
	if enr == nil {
		return err
	}

	db := database.Database.Db

	var bookmark enrollmentModel.Bookmark
	if err := db.Where("id = ? AND enrollment_id = ?", bookmarkID, enr.ID).First(&bookmark).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Bookmark not found!")
	}

	if err := db.Delete(&bookmark).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to delete bookmark!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Bookmark deleted successfully!", nil)
}

// ListNotes returns the caller's notes for a course, optionally per lecture
func ListNotes(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID, err := validators.ParseIDParam(c, "course_id")
	if err != nil {
		return err
	}

	enr, err := loadEnrollment(c, userID, courseID)
	if enr == nil {
		return err
	}

	q := database.Database.Db.Where("enrollment_id = ?", enr.ID)
	if lectureID := c.QueryInt("lecture_id"); lectureID > 0 {
		q = q.Where("lecture_id = ?", lectureID)
	}

	var notes []enrollmentModel.Note
	if err := q.Order("created_at desc").Find(&notes).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to fetch notes!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Notes fetched successfully!", notes)
}

// CreateNote adds a note to a lecture
func CreateNote(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID, err := validators.ParseIDParam(c, "course_id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedNote").(*enrollmentValidator.NoteRequest)

	enr, err := loadEnrollment(c, userID, courseID)
	if enr == nil {
		return err
	}

	db := database.Database.Db

	if !lectureBelongsToCourse(db, reqData.LectureID, enr.CourseID) {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Lecture not found in this course!")
	}

	note := enrollmentModel.Note{
		EnrollmentID:     enr.ID,
		LectureID:        reqData.LectureID,
		Content:          reqData.Content,
		TimestampSeconds: reqData.TimestampSeconds,
	}
	if err := db.Create(&note).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to create note!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Note created successfully!", note)
}

// DeleteNote removes one of the caller's notes
func DeleteNote(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID, err := validators.ParseIDParam(c, "course_id")
	if err != nil {
		return err
	}
	noteID, err := validators.ParseIDParam(c, "note_id")
	if err != nil {
		return err
	}

	enr, err := loadEnrollment(c, userID, courseID)
	if enr == nil {
		return err
	}

	db := database.Database.Db

	var note enrollmentModel.Note
	if err := db.Where("id = ? AND enrollment_id = ?", noteID, enr.ID).First(&note).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Note not found!")
	}

	if err := db.Delete(&note).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to delete note!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Note deleted successfully!", nil)
}
