package middleware

import "github.com/gofiber/fiber/v2"

// Common error codes used across the API
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeServerError  = "SERVER_ERROR"

	CodeEmailNotVerified = "EMAIL_NOT_VERIFIED"
	CodeAlreadyEnrolled  = "ALREADY_ENROLLED"
)

// JsonResponse writes the standard success envelope
func JsonResponse(c *fiber.Ctx, statusCode int, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// ErrorResponse writes the standard error envelope
func ErrorResponse(c *fiber.Ctx, statusCode int, code string, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"success": false,
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidationErrorResponse writes field-level validation errors
func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"success": false,
		"error": fiber.Map{
			"code":    CodeValidation,
			"message": "Validation failed!",
			"details": errors,
		},
	})
}
