package userRoutes

import (
	userControllers "learnhub/controllers/user"
	"learnhub/middleware"
	userValidators "learnhub/validators/user"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user", middleware.JWTMiddleware)

	userGroup.Get("/profile", userControllers.GetProfile)
	userGroup.Patch("/profile", userValidators.UpdateProfile(), userControllers.UpdateProfile)
	userGroup.Post("/profile/avatar", userControllers.UploadAvatar)

	userGroup.Get("/settings", userControllers.GetSettings)
	userGroup.Patch("/settings", userValidators.UpdateSettings(), userControllers.UpdateSettings)

	userGroup.Get("/social", userControllers.GetSocial)
	userGroup.Patch("/social", userValidators.UpdateSocial(), userControllers.UpdateSocial)

	userGroup.Get("/skills", userControllers.ListSkills)
	userGroup.Post("/skills", userValidators.AddSkill(), userControllers.AddSkill)
	userGroup.Delete("/skills/:id", userControllers.DeleteSkill)
}
