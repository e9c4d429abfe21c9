package assignmentValidator

import (
	"strings"
	"time"

	"learnhub/middleware"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

// AssignmentRequest is the validated assignment payload
type AssignmentRequest struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Instructions  string     `json:"instructions"`
	AttachmentURL string     `json:"attachment_url"`
	MaxScore      *float64   `json:"max_score"`
	PassingScore  *float64   `json:"passing_score"`
	DueDate       *time.Time `json:"due_date"`
	OrderIndex    *int       `json:"order_index"`
	IsPublished   *bool      `json:"is_published"`
}

// CreateAssignment validates assignment creation requests
func CreateAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := validators.ParseIDParam(c, "course_id"); err != nil {
			return err
		}
		return validateAssignmentBody(c)
	}
}

// UpdateAssignment validates assignment update requests
func UpdateAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := validators.ParseIDParam(c, "id"); err != nil {
			return err
		}
		return validateAssignmentBody(c)
	}
}

func validateAssignmentBody(c *fiber.Ctx) error {
	reqData := new(AssignmentRequest)
	if err := c.BodyParser(reqData); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
	}

	errors := make(map[string]string)

	reqData.Title = strings.TrimSpace(reqData.Title)
	if reqData.Title == "" {
		errors["title"] = "Title is required!"
	}
	if strings.TrimSpace(reqData.Description) == "" {
		errors["description"] = "Description is required!"
	}

	maxScore := 100.0
	if reqData.MaxScore != nil {
		maxScore = *reqData.MaxScore
		if maxScore <= 0 {
			errors["max_score"] = "Max score must be positive!"
		}
	}
	if reqData.PassingScore != nil && (*reqData.PassingScore < 0 || *reqData.PassingScore > maxScore) {
		errors["passing_score"] = "Passing score must be between 0 and the max score!"
	}

	if len(errors) > 0 {
		return middleware.ValidationErrorResponse(c, errors)
	}

	c.Locals("validatedAssignment", reqData)
	return c.Next()
}

// SubmissionRequest is the validated submission payload
type SubmissionRequest struct {
	Content       string `json:"content"`
	AttachmentURL string `json:"attachment_url"`
}

// SubmitAssignment validates assignment submission requests
func SubmitAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := validators.ParseIDParam(c, "id"); err != nil {
			return err
		}

		reqData := new(SubmissionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		if strings.TrimSpace(reqData.Content) == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{"content": "Content is required!"})
		}

		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}

// GradeRequest is the validated grading payload
type GradeRequest struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// GradeSubmission validates grading requests
func GradeSubmission() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := validators.ParseIDParam(c, "submission_id"); err != nil {
			return err
		}

		reqData := new(GradeRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		if reqData.Score < 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"score": "Score must not be negative!"})
		}

		c.Locals("validatedGrade", reqData)
		return c.Next()
	}
}
