package calendarRoutes

import (
	controllers "learnhub/controllers/calendar"
	"learnhub/middleware"
	"learnhub/models"
	validators "learnhub/validators/calendar"

	"github.com/gofiber/fiber/v2"
)

func SetupCalendarRoutes(app *fiber.App) {
	instructorOnly := middleware.RequireRole(models.RoleInstructor, models.RoleAdmin)

	eventGroup := app.Group("/calendar", middleware.JWTMiddleware)

	eventGroup.Get("/events", controllers.ListEvents)
	eventGroup.Get("/events/mine", controllers.MyEvents)
	eventGroup.Get("/events/:id", controllers.GetEvent)

	eventGroup.Post("/events", instructorOnly, validators.CreateEvent(), controllers.CreateEvent)
	eventGroup.Patch("/events/:id", instructorOnly, validators.UpdateEvent(), controllers.UpdateEvent)
	eventGroup.Delete("/events/:id", instructorOnly, controllers.DeleteEvent)

	eventGroup.Post("/events/:id/register", controllers.RegisterForEvent)
	eventGroup.Delete("/events/:id/register", controllers.UnregisterFromEvent)

	eventGroup.Get("/events/:id/attendees", instructorOnly, controllers.ListAttendees)
	eventGroup.Post("/events/:id/attendees/:user_id/attended", instructorOnly, controllers.MarkAttendance)
}
