package enrollmentRoutes

import (
	controllers "learnhub/controllers/enrollment"
	"learnhub/middleware"
	validators "learnhub/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

func SetupEnrollmentRoutes(app *fiber.App) {
	// Gateway webhook authenticates with its own signature, not a JWT
	app.Post("/payment/webhook", controllers.PaymentWebhook)

	enrollGroup := app.Group("/enrollment", middleware.JWTMiddleware)

	enrollGroup.Get("/list", controllers.MyEnrollments)
	enrollGroup.Post("/course/:course_id", controllers.Enroll)
	enrollGroup.Get("/course/:course_id", controllers.GetEnrollment)
	enrollGroup.Delete("/course/:course_id", controllers.CancelEnrollment)

	// Progress
	enrollGroup.Put("/course/:course_id/lecture/:lecture_id/progress",
		validators.UpdateProgress(), controllers.UpdateLectureProgress)

	// Bookmarks and notes
	enrollGroup.Get("/course/:course_id/bookmarks", controllers.ListBookmarks)
	enrollGroup.Post("/course/:course_id/bookmarks", validators.CreateBookmark(), controllers.CreateBookmark)
	enrollGroup.Delete("/course/:course_id/bookmarks/:bookmark_id", controllers.DeleteBookmark)

	enrollGroup.Get("/course/:course_id/notes", controllers.ListNotes)
	enrollGroup.Post("/course/:course_id/notes", validators.CreateNote(), controllers.CreateNote)
	enrollGroup.Delete("/course/:course_id/notes/:note_id", controllers.DeleteNote)

	// Payments
	paymentGroup := app.Group("/payment", middleware.JWTMiddleware)
	paymentGroup.Get("/orders", controllers.MyOrders)
	paymentGroup.Post("/order", validators.CreateOrder(), controllers.CreateOrder)
	paymentGroup.Post("/verify", validators.VerifyPayment(), controllers.VerifyPayment)
}
