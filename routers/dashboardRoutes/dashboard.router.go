package dashboardRoutes

import (
	controllers "learnhub/controllers/dashboard"
	"learnhub/middleware"
	"learnhub/models"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(app *fiber.App) {
	dashGroup := app.Group("/dashboard", middleware.JWTMiddleware)

	dashGroup.Get("/student", controllers.StudentDashboard)
	dashGroup.Get("/instructor", middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), controllers.InstructorDashboard)
}
