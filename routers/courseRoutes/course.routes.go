package courseRoutes

import (
	controllers "learnhub/controllers/course"
	"learnhub/middleware"
	validators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the public catalog routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog browsing (published courses only)
	courseGroup.Get("/list", validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/categories", controllers.GetAllCategories)
	courseGroup.Get("/instructors", controllers.GetAllInstructors)
	courseGroup.Get("/instructors/:id", controllers.GetInstructor)
	courseGroup.Get("/:slug", controllers.GetCourseBySlug)

	// Coupon price check for a logged-in buyer
	courseGroup.Post("/coupon/apply", middleware.JWTMiddleware, validators.ApplyCoupon(), controllers.ApplyCoupon)
}
