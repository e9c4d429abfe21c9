package courseRoutes

import (
	controllers "learnhub/controllers/course"
	"learnhub/middleware"
	"learnhub/models"
	validators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up course management routes for instructors
// and admins.
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin))

	// Course lifecycle
	adminGroup.Get("/courses", controllers.ListManagedCourses)
	adminGroup.Post("/courses", validators.CreateCourse(), controllers.CreateCourse)
	adminGroup.Patch("/courses/:id", validators.UpdateCourse(), controllers.UpdateCourse)
	adminGroup.Post("/courses/:id/publish", controllers.PublishCourse)
	adminGroup.Post("/courses/:id/archive", controllers.ArchiveCourse)
	adminGroup.Delete("/courses/:id", controllers.DeleteCourse)

	// Curriculum
	adminGroup.Get("/courses/:id/sections", controllers.ListSections)
	adminGroup.Post("/courses/:id/sections", validators.CreateSection(), controllers.CreateSection)
	adminGroup.Patch("/sections/:section_id", validators.UpdateSection(), controllers.UpdateSection)
	adminGroup.Delete("/sections/:section_id", controllers.DeleteSection)

	adminGroup.Post("/sections/:section_id/lectures", validators.CreateLecture(), controllers.CreateLecture)
	adminGroup.Get("/lectures/:lecture_id", controllers.GetLecture)
	adminGroup.Patch("/lectures/:lecture_id", validators.UpdateLecture(), controllers.UpdateLecture)
	adminGroup.Delete("/lectures/:lecture_id", controllers.DeleteLecture)
	adminGroup.Post("/lectures/:lecture_id/resources", validators.AddResource(), controllers.AddLectureResource)
	adminGroup.Delete("/lectures/:lecture_id/resources/:resource_id", controllers.DeleteLectureResource)

	// Instructor assignment
	adminGroup.Post("/courses/:id/instructors", validators.AssignInstructor(), controllers.AssignInstructor)
	adminGroup.Delete("/courses/:id/instructors/:instructor_id", controllers.UnassignInstructor)

	// Admin-only catalog management
	superGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))
	superGroup.Post("/categories", validators.CreateCategory(), controllers.CreateCategory)
	superGroup.Patch("/categories/:id", validators.UpdateCategory(), controllers.UpdateCategory)
	superGroup.Delete("/categories/:id", controllers.DeleteCategory)
	superGroup.Post("/instructors", validators.CreateInstructor(), controllers.CreateInstructor)

	// Coupons (admin only)
	superGroup.Get("/coupons", controllers.ListCoupons)
	superGroup.Post("/coupons", validators.CreateCoupon(), controllers.CreateCoupon)
	superGroup.Post("/coupons/:id/deactivate", controllers.DeactivateCoupon)
	superGroup.Post("/coupons/:id/eligibility", validators.GrantEligibility(), controllers.GrantEligibility)
}
