package authRoutes

import (
	authControllers "learnhub/controllers/auth"
	"learnhub/middleware"
	authValidators "learnhub/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidators.Signup(), authControllers.Signup)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Post("/refresh", authValidators.Refresh(), authControllers.Refresh)
	authGroup.Post("/logout", middleware.JWTMiddleware, authControllers.Logout)

	authGroup.Get("/verify/email", authControllers.VerifyEmail)
	authGroup.Post("/send/verification", middleware.JWTMiddleware, authControllers.SendVerification)

	authGroup.Put("/change/password", middleware.JWTMiddleware, authValidators.ChangePassword(), authControllers.ChangePassword)
	authGroup.Post("/password/reset/request", authValidators.PasswordResetRequest(), authControllers.PasswordResetRequest)
	authGroup.Post("/password/reset/confirm", authValidators.PasswordResetConfirm(), authControllers.PasswordResetConfirm)

	authGroup.Get("/me", middleware.JWTMiddleware, authControllers.Me)
}
