package assignmentRoutes

import (
	controllers "learnhub/controllers/assignment"
	"learnhub/middleware"
	"learnhub/models"
	validators "learnhub/validators/assignment"

	"github.com/gofiber/fiber/v2"
)

func SetupAssignmentRoutes(app *fiber.App) {
	instructorOnly := middleware.RequireRole(models.RoleInstructor, models.RoleAdmin)

	// Student-facing assignment routes
	assignGroup := app.Group("/assignment", middleware.JWTMiddleware)
	assignGroup.Get("/course/:course_id", controllers.ListAssignments)
	assignGroup.Post("/:id/submit", validators.SubmitAssignment(), controllers.SubmitAssignment)

	// Instructor assignment management
	assignGroup.Post("/course/:course_id", instructorOnly, validators.CreateAssignment(), controllers.CreateAssignment)
	assignGroup.Patch("/:id", instructorOnly, validators.UpdateAssignment(), controllers.UpdateAssignment)
	assignGroup.Delete("/:id", instructorOnly, controllers.DeleteAssignment)
	assignGroup.Get("/:id/submissions", instructorOnly, controllers.ListSubmissions)
	assignGroup.Post("/submissions/:submission_id/grade", instructorOnly, validators.GradeSubmission(), controllers.GradeSubmission)

	// Quizzes
	quizGroup := app.Group("/quiz", middleware.JWTMiddleware)
	quizGroup.Get("/course/:course_id", controllers.ListQuizzes)
	quizGroup.Post("/:id/attempt", controllers.StartAttempt)
	quizGroup.Post("/attempt/:attempt_id/submit", validators.SubmitAttempt(), controllers.SubmitAttempt)
	quizGroup.Get("/:id/attempts", controllers.MyAttempts)

	quizGroup.Post("/course/:course_id", instructorOnly, validators.CreateQuiz(), controllers.CreateQuiz)
	quizGroup.Patch("/:id", instructorOnly, validators.UpdateQuiz(), controllers.UpdateQuiz)
	quizGroup.Delete("/:id", instructorOnly, controllers.DeleteQuiz)
	quizGroup.Post("/:id/questions", instructorOnly, validators.AddQuestion(), controllers.AddQuestion)
	quizGroup.Delete("/:id/questions/:question_id", instructorOnly, controllers.DeleteQuestion)
}
