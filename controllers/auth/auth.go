package authController

import (
	"fmt"
	"log"
	"strings"
	"time"

	"learnhub/config"
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	"learnhub/utils"
	authValidator "learnhub/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Signup registers a new user and sends the verification email
func Signup(c *fiber.Ctx) error {
	reqData := c.Locals("validatedSignup").(*authValidator.SignupRequest)

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "Email is already registered!")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to process your request!")
	}

	newUser := models.User{
		Email:    reqData.Email,
		Password: string(hashedPassword),
		Role:     reqData.Role,
	}

	tx := db.Begin()
	if err := tx.Create(&newUser).Error; err != nil {
		tx.Rollback()
		log.Printf("Error saving user to database: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to sign up user!")
	}
	// Every account gets its profile and settings rows up front
	if err := tx.Create(&models.UserProfile{UserID: newUser.ID, FullName: reqData.FullName}).Error; err != nil {
		tx.Rollback()
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to sign up user!")
	}
	if err := tx.Create(&models.UserSettings{UserID: newUser.ID}).Error; err != nil {
		tx.Rollback()
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to sign up user!")
	}
	tx.Commit()

	go sendVerificationLink(newUser)

	return middleware.JsonResponse(c, fiber.StatusCreated, "Account created successfully. Please check your email to verify your account.", fiber.Map{
		"id":    newUser.ID,
		"email": newUser.Email,
		"role":  newUser.Role,
	})
}

func sendVerificationLink(user models.User) {
	token, err := middleware.GeneratePurposeToken(user.ID, middleware.TokenEmailVerify)
	if err != nil {
		log.Printf("Error generating verification token: %v", err)
		return
	}
	link := fmt.Sprintf("%s/auth/verify/email?token=%s", config.AppConfig.BaseURL, token)
	if err := utils.SendVerificationEmail(user.Email, link); err != nil {
		log.Printf("Error sending verification email to %s: %v", user.Email, err)
	}
}

// Login authenticates a user and issues access and refresh tokens
func Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*authValidator.LoginRequest)

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.CodeUnauthorized, "Invalid email or password!")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.CodeUnauthorized, "Invalid email or password!")
	}

	if !user.IsActive {
		return middleware.ErrorResponse(c, fiber.StatusForbidden, middleware.CodeForbidden, "Account is deactivated!")
	}

	if !user.EmailVerified {
		go sendVerificationLink(user)
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.CodeEmailNotVerified, "Email is not verified. A new verification link has been sent.")
	}

	accessToken, err := middleware.GenerateAccessToken(user.ID, user.Role, user.Email)
	if err != nil {
		log.Printf("Error generating access token: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to log in!")
	}
	refreshToken, err := middleware.GenerateRefreshToken(user.ID, user.Role, user.Email)
	if err != nil {
		log.Printf("Error generating refresh token: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to log in!")
	}

	now := time.Now()
	db.Model(&user).Update("last_login_at", now)

	return middleware.JsonResponse(c, fiber.StatusOK, "Logged in successfully!", fiber.Map{
		"access":  accessToken,
		"refresh": refreshToken,
	})
}

// Refresh exchanges a valid refresh token for a new token pair
func Refresh(c *fiber.Ctx) error {
	reqData := c.Locals("validatedRefresh").(*authValidator.RefreshRequest)

	claims, err := middleware.ParseToken(reqData.RefreshToken, middleware.TokenRefresh)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.CodeUnauthorized, "Invalid or expired refresh token!")
	}
	if middleware.IsTokenRevoked(claims) {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.CodeUnauthorized, "Refresh token has been revoked!")
	}

	userID := uint(claims["userId"].(float64))

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_active = ?", userID, false, true).First(&user).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.CodeUnauthorized, "User not found!")
	}

	// Rotate: the old refresh token is revoked before issuing a new pair
	if err := middleware.RevokeToken(claims); err != nil {
		log.Printf("Error revoking refresh token: %v", err)
	}

	accessToken, err := middleware.GenerateAccessToken(user.ID, user.Role, user.Email)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to refresh tokens!")
	}
	refreshToken, err := middleware.GenerateRefreshToken(user.ID, user.Role, user.Email)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to refresh tokens!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Tokens refreshed successfully!", fiber.Map{
		"access":  accessToken,
		"refresh": refreshToken,
	})
}

// Logout revokes the current access token and, when provided via the
// X-Refresh-Token header, the refresh token too.
func Logout(c *fiber.Ctx) error {
	accessHeader := c.Get("Authorization")
	tokenString := strings.TrimPrefix(accessHeader, "Bearer ")
	accessClaims, err := middleware.ParseToken(tokenString, middleware.TokenAccess)
	if err == nil {
		if err := middleware.RevokeToken(accessClaims); err != nil {
			log.Printf("Error revoking access token: %v", err)
		}
	}

	if refresh := c.Get("X-Refresh-Token"); refresh != "" {
		refreshClaims, err := middleware.ParseToken(refresh, middleware.TokenRefresh)
		if err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid refresh token!")
		}
		if err := middleware.RevokeToken(refreshClaims); err != nil {
			log.Printf("Error revoking refresh token: %v", err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Logged out successfully!", nil)
}

// VerifyEmail confirms a user's email address from the mailed token
func VerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "token query parameter is required!")
	}

	claims, err := middleware.ParseToken(token, middleware.TokenEmailVerify)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid or expired verification token!")
	}

	userID := uint(claims["userId"].(float64))

	res := database.Database.Db.Model(&models.User{}).
		Where("id = ? AND is_deleted = ?", userID, false).
		Update("email_verified", true)
	if res.Error != nil || res.RowsAffected == 0 {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "User not found!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Email verified successfully!", nil)
}

// SendVerification re-sends the verification email to the logged-in user
func SendVerification(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "User not found!")
	}
	if user.EmailVerified {
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "Email is already verified!")
	}

	go sendVerificationLink(user)

	return middleware.JsonResponse(c, fiber.StatusOK, "Verification email sent!", nil)
}

// ChangePassword updates the password of the logged-in user
func ChangePassword(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	reqData := c.Locals("validatedChangePassword").(*authValidator.ChangePasswordRequest)

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "User not found!")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.OldPassword)); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.CodeUnauthorized, "Old password is incorrect!")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to change password!")
	}

	if err := db.Model(&user).Update("password", string(hashed)).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to change password!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Password changed successfully!", nil)
}

// PasswordResetRequest mails a reset link. The response is identical whether
// or not the email exists.
func PasswordResetRequest(c *fiber.Ctx) error {
	reqData := c.Locals("validatedResetRequest").(*authValidator.ResetRequestRequest)

	var user models.User
	if err := database.Database.Db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err == nil {
		go func() {
			token, err := middleware.GeneratePurposeToken(user.ID, middleware.TokenPasswordReset)
			if err != nil {
				log.Printf("Error generating reset token: %v", err)
				return
			}
			link := fmt.Sprintf("%s/auth/password/reset/confirm?token=%s", config.AppConfig.BaseURL, token)
			if err := utils.SendPasswordResetEmail(user.Email, link); err != nil {
				log.Printf("Error sending reset email to %s: %v", user.Email, err)
			}
		}()
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "If the email exists, a reset link has been sent.", nil)
}

// PasswordResetConfirm sets a new password from a mailed reset token
func PasswordResetConfirm(c *fiber.Ctx) error {
	reqData := c.Locals("validatedResetConfirm").(*authValidator.ResetConfirmRequest)

	claims, err := middleware.ParseToken(reqData.Token, middleware.TokenPasswordReset)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid or expired reset token!")
	}
	if middleware.IsTokenRevoked(claims) {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Reset token has already been used!")
	}

	userID := uint(claims["userId"].(float64))

	hashed, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to reset password!")
	}

	res := database.Database.Db.Model(&models.User{}).
		Where("id = ? AND is_deleted = ?", userID, false).
		Update("password", string(hashed))
	if res.Error != nil || res.RowsAffected == 0 {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "User not found!")
	}

	// Reset tokens are one-shot
	if err := middleware.RevokeToken(claims); err != nil {
		log.Printf("Error revoking reset token: %v", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Password reset successfully!", nil)
}

// Me returns the logged-in user with profile, settings and social links
func Me(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "User not found!")
	}

	var profile models.UserProfile
	db.Where("user_id = ?", userID).First(&profile)
	var settings models.UserSettings
	db.Where("user_id = ?", userID).First(&settings)
	var social models.UserSocial
	db.Where("user_id = ?", userID).First(&social)

	return middleware.JsonResponse(c, fiber.StatusOK, "User fetched successfully!", fiber.Map{
		"user":     user,
		"profile":  profile,
		"settings": settings,
		"social":   social,
	})
}
