package courseValidator

import (
	"strings"

	"learnhub/middleware"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

var validLevels = map[string]bool{
	"":             true,
	"Beginner":     true,
	"Intermediate": true,
	"Advanced":     true,
	"All Levels":   true,
}

// CreateCourseRequest is the validated course creation payload
type CreateCourseRequest struct {
	Title            string   `json:"title"`
	ShortDescription string   `json:"short_description"`
	Description      string   `json:"description"`
	Level            string   `json:"level"`
	Language         string   `json:"language"`
	CategoryID       *uint    `json:"category_id"`
	ThumbnailURL     string   `json:"thumbnail_url"`
	PromoVideoURL    string   `json:"promo_video_url"`
	Price            float64  `json:"price"`
	SalePrice        *float64 `json:"sale_price"`
	Currency         string   `json:"currency"`
	IsFree           bool     `json:"is_free"`
}

// CreateCourse validates course creation requests
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if !validLevels[reqData.Level] {
			errors["level"] = "Level must be Beginner, Intermediate, Advanced or All Levels!"
		}
		if !validators.IsURL(reqData.ThumbnailURL) {
			errors["thumbnail_url"] = "Thumbnail URL is invalid!"
		}
		if !validators.IsURL(reqData.PromoVideoURL) {
			errors["promo_video_url"] = "Promo video URL is invalid!"
		}
		if reqData.Price < 0 {
			errors["price"] = "Price must not be negative!"
		}
		if reqData.SalePrice != nil && (*reqData.SalePrice < 0 || *reqData.SalePrice > reqData.Price) {
			errors["sale_price"] = "Sale price must be between 0 and the price!"
		}
		if reqData.Currency == "" {
			reqData.Currency = "INR"
		} else if len(reqData.Currency) != 3 {
			errors["currency"] = "Currency must be a 3-letter code!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourseRequest carries optional course fields; nil means unchanged
type UpdateCourseRequest struct {
	Title            *string  `json:"title"`
	ShortDescription *string  `json:"short_description"`
	Description      *string  `json:"description"`
	Level            *string  `json:"level"`
	Language         *string  `json:"language"`
	CategoryID       *uint    `json:"category_id"`
	ThumbnailURL     *string  `json:"thumbnail_url"`
	PromoVideoURL    *string  `json:"promo_video_url"`
	Price            *float64 `json:"price"`
	SalePrice        *float64 `json:"sale_price"`
	IsFree           *bool    `json:"is_free"`
}

// UpdateCourse validates course update requests
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := validators.ParseIDParam(c, "id"); err != nil {
			return err
		}

		reqData := new(UpdateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		if reqData.Title != nil && len(strings.TrimSpace(*reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if reqData.Level != nil && !validLevels[*reqData.Level] {
			errors["level"] = "Level must be Beginner, Intermediate, Advanced or All Levels!"
		}
		if reqData.ThumbnailURL != nil && !validators.IsURL(*reqData.ThumbnailURL) {
			errors["thumbnail_url"] = "Thumbnail URL is invalid!"
		}
		if reqData.Price != nil && *reqData.Price < 0 {
			errors["price"] = "Price must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// CourseListQuery carries validated catalog listing filters
type CourseListQuery struct {
	CategoryID *uint  `query:"category_id"`
	Level      string `query:"level"`
	Search     string `query:"search"`
}

// CourseList validates public catalog listing queries
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseListQuery)

		if err := c.QueryParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid query parameters!")
		}

		if !validLevels[reqData.Level] {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"level": "Level must be Beginner, Intermediate, Advanced or All Levels!",
			})
		}

		c.Locals("validatedCourseList", reqData)
		return c.Next()
	}
}
