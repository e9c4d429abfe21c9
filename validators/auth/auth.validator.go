package authValidator

import (
	"strings"

	"learnhub/middleware"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

// SignupRequest is the validated signup payload
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Signup validates user registration requests
func Signup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SignupRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		reqData.Email = strings.TrimSpace(strings.ToLower(reqData.Email))
		reqData.FullName = strings.TrimSpace(reqData.FullName)

		if reqData.Email == "" {
			errors["email"] = "Email is required!"
		} else if !validators.IsEmail(reqData.Email) {
			errors["email"] = "Email format is invalid!"
		}

		if len(reqData.Password) < 8 {
			errors["password"] = "Password must be at least 8 characters long!"
		}

		// Only student and instructor can self-register; admins are seeded
		switch reqData.Role {
		case "":
			reqData.Role = "student"
		case "student", "instructor":
		default:
			errors["role"] = "Role must be student or instructor!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSignup", reqData)
		return c.Next()
	}
}

// LoginRequest is the validated login payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login validates login requests
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		reqData.Email = strings.TrimSpace(strings.ToLower(reqData.Email))

		if reqData.Email == "" {
			errors["email"] = "Email is required!"
		}
		if reqData.Password == "" {
			errors["password"] = "Password is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}

// RefreshRequest carries the refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh validates token refresh requests
func Refresh() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RefreshRequest)

		if err := c.BodyParser(reqData); err != nil || strings.TrimSpace(reqData.RefreshToken) == "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "refresh_token is required!")
		}

		c.Locals("validatedRefresh", reqData)
		return c.Next()
	}
}

// ChangePasswordRequest is the validated change-password payload
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword validates password change requests
func ChangePassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ChangePasswordRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		if reqData.OldPassword == "" {
			errors["old_password"] = "Old password is required!"
		}
		if len(reqData.NewPassword) < 8 {
			errors["new_password"] = "New password must be at least 8 characters long!"
		}
		if reqData.OldPassword != "" && reqData.OldPassword == reqData.NewPassword {
			errors["new_password"] = "New password must differ from the old one!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedChangePassword", reqData)
		return c.Next()
	}
}

// ResetRequestRequest carries the email asking for a reset link
type ResetRequestRequest struct {
	Email string `json:"email"`
}

// PasswordResetRequest validates reset-link requests
func PasswordResetRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ResetRequestRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		reqData.Email = strings.TrimSpace(strings.ToLower(reqData.Email))
		if !validators.IsEmail(reqData.Email) {
			return middleware.ValidationErrorResponse(c, map[string]string{"email": "Email format is invalid!"})
		}

		c.Locals("validatedResetRequest", reqData)
		return c.Next()
	}
}

// ResetConfirmRequest carries the reset token and the new password
type ResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// PasswordResetConfirm validates reset confirmation requests
func PasswordResetConfirm() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ResetConfirmRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)
		if strings.TrimSpace(reqData.Token) == "" {
			errors["token"] = "Token is required!"
		}
		if len(reqData.NewPassword) < 8 {
			errors["new_password"] = "New password must be at least 8 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedResetConfirm", reqData)
		return c.Next()
	}
}
