package assignmentController

import (
	"time"

	courseController "learnhub/controllers/course"
	"learnhub/database"
	"learnhub/middleware"
	assignmentModel "learnhub/models/assignment"
	enrollmentModel "learnhub/models/enrollment"
	"learnhub/validators"
	assignmentValidator "learnhub/validators/assignment"

	"github.com/gofiber/fiber/v2"
)

// requireEnrollment fetches the caller's active or completed enrollment for
// a course. A nil enrollment means a response has already been written.
func requireEnrollment(c *fiber.Ctx, userID, courseID uint) (*enrollmentModel.Enrollment, error) {
	var enr enrollmentModel.Enrollment
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND status <> ?", userID, courseID, enrollmentModel.StatusCancelled).
		First(&enr).Error; err != nil {
		return nil, middleware.ErrorResponse(c, fiber.StatusForbidden, middleware.CodeForbidden, "You are not enrolled in this course!")
	}
	return &enr, nil
}

// ListAssignments lists a course's published assignments for students
func ListAssignments(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID, err := validators.ParseIDParam(c, "course_id")
	if err != nil {
		return err
	}

	enr, err := requireEnrollment(c, userID, courseID)
	if enr == nil {
		return err
	}

	db := database.Database.Db

	var assignments []assignmentModel.Assignment
	if err := db.Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Order("order_index asc, created_at asc").Find(&assignments).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to fetch assignments!")
	}

	// Attach the caller's submission state per assignment
	type assignmentPayload struct {
		assignmentModel.Assignment
		Submission *assignmentModel.AssignmentSubmission `json:"submission"`
	}
	payload := make([]assignmentPayload, 0, len(assignments))
	for _, a := range assignments {
		item := assignmentPayload{Assignment: a}
		var sub assignmentModel.AssignmentSubmission
		if err := db.Where("assignment_id = ? AND enrollment_id = ?", a.ID, enr.ID).First(&sub).Error; err == nil {
			item.Submission = &sub
		}
		payload = append(payload, item)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Assignments fetched successfully!", payload)
}

// CreateAssignment adds an assignment to a managed course
func CreateAssignment(c *fiber.Ctx) error {
	courseID, err := validators.ParseIDParam(c, "course_id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedAssignment").(*assignmentValidator.AssignmentRequest)

	crs, err := courseController.LoadOwnedCourse(c, courseID)
	if crs == nil {
		return err
	}

	a := assignmentModel.Assignment{
		CourseID:      crs.ID,
		Title:         reqData.Title,
		Description:   reqData.Description,
		Instructions:  reqData.Instructions,
		AttachmentURL: reqData.AttachmentURL,
		MaxScore:      100,
		PassingScore:  60,
		DueDate:       reqData.DueDate,
		IsPublished:   true,
	}
	if reqData.MaxScore != nil {
		a.MaxScore = *reqData.MaxScore
	}
	if reqData.PassingScore != nil {
		a.PassingScore = *reqData.PassingScore
	}
	if reqData.OrderIndex != nil {
		a.OrderIndex = *reqData.OrderIndex
	}
	if reqData.IsPublished != nil {
		a.IsPublished = *reqData.IsPublished
	}

	if err := database.Database.Db.Create(&a).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to create assignment!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Assignment created successfully!", a)
}

// loadOwnedAssignment resolves an assignment through the course ownership
// check. A nil assignment means a response has already been written.
func loadOwnedAssignment(c *fiber.Ctx, assignmentID uint) (*assignmentModel.Assignment, error) {
	var a assignmentModel.Assignment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assignmentID, false).First(&a).Error; err != nil {
		return nil, middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Assignment not found!")
	}
	if crs, err := courseController.LoadOwnedCourse(c, a.CourseID); crs == nil {
		return nil, err
	}
	return &a, nil
}

// UpdateAssignment updates an assignment on a managed course
func UpdateAssignment(c *fiber.Ctx) error {
	assignmentID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedAssignment").(*assignmentValidator.AssignmentRequest)

	a, err := loadOwnedAssignment(c, assignmentID)
	if a == nil {
		return err
	}

	updates := map[string]interface{}{
		"title":          reqData.Title,
		"description":    reqData.Description,
		"instructions":   reqData.Instructions,
		"attachment_url": reqData.AttachmentURL,
	}
	if reqData.MaxScore != nil {
		updates["max_score"] = *reqData.MaxScore
	}
	if reqData.PassingScore != nil {
		updates["passing_score"] = *reqData.PassingScore
	}
	if reqData.DueDate != nil {
		updates["due_date"] = *reqData.DueDate
	}
	if reqData.OrderIndex != nil {
		updates["order_index"] = *reqData.OrderIndex
	}
	if reqData.IsPublished != nil {
		updates["is_published"] = *reqData.IsPublished
	}

	if err := database.Database.Db.Model(a).Updates(updates).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to update assignment!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Assignment updated successfully!", a)
}

// DeleteAssignment soft-deletes an assignment
func DeleteAssignment(c *fiber.Ctx) error {
	assignmentID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	a, err := loadOwnedAssignment(c, assignmentID)
	if a == nil {
		return err
	}

	if err := database.Database.Db.Model(a).Update("is_deleted", true).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to delete assignment!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Assignment deleted successfully!", nil)
}

// SubmitAssignment records a student's submission. Resubmission is allowed
// until the submission is graded.
func SubmitAssignment(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	assignmentID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedSubmission").(*assignmentValidator.SubmissionRequest)

	db := database.Database.Db

	var a assignmentModel.Assignment
	if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", assignmentID, false, true).First(&a).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Assignment not found!")
	}

	enr, err := requireEnrollment(c, userID, a.CourseID)
	if enr == nil {
		return err
	}

	now := time.Now()
	if a.DueDate != nil && now.After(*a.DueDate) {
		return middleware.ErrorResponse(c, fiber.StatusForbidden, "PAST_DUE_DATE", "The due date for this assignment has passed!")
	}

	var sub assignmentModel.AssignmentSubmission
	if err := db.Where("assignment_id = ? AND enrollment_id = ?", a.ID, enr.ID).First(&sub).Error; err == nil {
		if sub.Status == assignmentModel.SubmissionGraded {
			return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "Graded submissions cannot be resubmitted!")
		}
		if err := db.Model(&sub).Updates(map[string]interface{}{
			"content":        reqData.Content,
			"attachment_url": reqData.AttachmentURL,
			"submitted_at":   now,
			"status":         assignmentModel.SubmissionSubmitted,
		}).Error; err != nil {
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to submit assignment!")
		}
		return middleware.JsonResponse(c, fiber.StatusOK, "Assignment resubmitted successfully!", sub)
	}

	sub = assignmentModel.AssignmentSubmission{
		AssignmentID:  a.ID,
		EnrollmentID:  enr.ID,
		Content:       reqData.Content,
		AttachmentURL: reqData.AttachmentURL,
		Status:        assignmentModel.SubmissionSubmitted,
		SubmittedAt:   now,
	}
	if err := db.Create(&sub).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to submit assignment!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Assignment submitted successfully!", sub)
}

// ListSubmissions lists submissions for an assignment (instructor view)
func ListSubmissions(c *fiber.Ctx) error {
	assignmentID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	page := validators.ParsePagination(c)

	a, err := loadOwnedAssignment(c, assignmentID)
	if a == nil {
		return err
	}

	q := database.Database.Db.Model(&assignmentModel.AssignmentSubmission{}).Where("assignment_id = ?", a.ID)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	q.Count(&total)

	var submissions []assignmentModel.AssignmentSubmission
	if err := q.Offset(page.Offset()).Limit(page.Limit).Order("submitted_at asc").Find(&submissions).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to fetch submissions!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Submissions fetched successfully!", fiber.Map{
		"submissions": submissions,
		"pagination": fiber.Map{
			"total": total,
			"page":  page.Page,
			"limit": page.Limit,
		},
	})
}

// GradeSubmission scores a submission and records the grader
func GradeSubmission(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	submissionID, err := validators.ParseIDParam(c, "submission_id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedGrade").(*assignmentValidator.GradeRequest)

	db := database.Database.Db

	var sub assignmentModel.AssignmentSubmission
	if err := db.Where("id = ?", submissionID).First(&sub).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Submission not found!")
	}

	a, err := loadOwnedAssignment(c, sub.AssignmentID)
	if a == nil {
		return err
	}

	if reqData.Score > a.MaxScore {
		return middleware.ValidationErrorResponse(c, map[string]string{"score": "Score must not exceed the assignment max score!"})
	}

	now := time.Now()
	if err := db.Model(&sub).Updates(map[string]interface{}{
		"score":        reqData.Score,
		"feedback":     reqData.Feedback,
		"graded_by_id": userID,
		"graded_at":    now,
		"status":       assignmentModel.SubmissionGraded,
	}).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to grade submission!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Submission graded successfully!", sub)
}
