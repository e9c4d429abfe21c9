package courseValidator

import (
	"strings"

	"learnhub/middleware"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

// CategoryRequest is the validated category payload
type CategoryRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	Icon             string `json:"icon"`
	ParentCategoryID *uint  `json:"parent_category_id"`
	DisplayOrder     *int   `json:"display_order"`
	IsActive         *bool  `json:"is_active"`
}

// CreateCategory validates category creation requests
func CreateCategory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CategoryRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		reqData.Name = strings.TrimSpace(reqData.Name)
		if reqData.Name == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{"name": "Name is required!"})
		}

		c.Locals("validatedCategory", reqData)
		return c.Next()
	}
}

// UpdateCategory validates category update requests
func UpdateCategory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := validators.ParseIDParam(c, "id"); err != nil {
			return err
		}

		reqData := new(CategoryRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		c.Locals("validatedCategory", reqData)
		return c.Next()
	}
}

// InstructorRequest is the validated instructor payload
type InstructorRequest struct {
	UserID    *uint    `json:"user_id"`
	Name      string   `json:"name"`
	Title     string   `json:"title"`
	Bio       string   `json:"bio"`
	AvatarURL string   `json:"avatar_url"`
	Expertise []string `json:"expertise"`
}

// CreateInstructor validates instructor creation requests
func CreateInstructor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(InstructorRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		reqData.Name = strings.TrimSpace(reqData.Name)
		if reqData.Name == "" {
			errors["name"] = "Name is required!"
		}
		if !validators.IsURL(reqData.AvatarURL) {
			errors["avatar_url"] = "Avatar URL is invalid!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedInstructor", reqData)
		return c.Next()
	}
}

// AssignInstructorRequest links an instructor to a course
type AssignInstructorRequest struct {
	InstructorID uint   `json:"instructor_id"`
	Role         string `json:"role"`
	OrderIndex   int    `json:"order_index"`
}

// AssignInstructor validates course-instructor assignment requests
func AssignInstructor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := validators.ParseIDParam(c, "id"); err != nil {
			return err
		}

		reqData := new(AssignInstructorRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		if reqData.InstructorID == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"instructor_id": "Instructor ID is required!"})
		}
		if reqData.Role == "" {
			reqData.Role = "primary"
		}

		c.Locals("validatedAssignInstructor", reqData)
		return c.Next()
	}
}
