package validators

import (
	"strconv"
	"strings"

	"learnhub/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// IsEmail checks email format
func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// IsURL checks URL format; empty strings are allowed
func IsURL(s string) bool {
	if s == "" {
		return true
	}
	return validate.Var(s, "url") == nil
}

// ParseIDParam parses a positive integer route parameter. A zero return
// means the parameter was invalid and a response has been written.
func ParseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid "+name+" parameter!")
	}
	return uint(id), nil
}

// Pagination holds validated page/limit query values
type Pagination struct {
	Page  int
	Limit int
}

// Offset returns the row offset for the current page
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePagination reads page/limit query params with defaults and caps
func ParsePagination(c *fiber.Ctx) Pagination {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return Pagination{Page: page, Limit: limit}
}
