package dashboardController

import (
	"time"

	calendarController "learnhub/controllers/calendar"
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	assignmentModel "learnhub/models/assignment"
	courseModel "learnhub/models/course"
	enrollmentModel "learnhub/models/enrollment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StudentDashboard aggregates the caller's learning state
func StudentDashboard(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	db := database.Database.Db

	var active, completed int64
	db.Model(&enrollmentModel.Enrollment{}).Where("user_id = ? AND status = ?", userID, enrollmentModel.StatusActive).Count(&active)
	db.Model(&enrollmentModel.Enrollment{}).Where("user_id = ? AND status = ?", userID, enrollmentModel.StatusCompleted).Count(&completed)

	var avgProgress float64
	db.Model(&enrollmentModel.Enrollment{}).
		Where("user_id = ? AND status <> ?", userID, enrollmentModel.StatusCancelled).
		Select("COALESCE(AVG(progress_percentage), 0)").
		Scan(&avgProgress)

	var certificates int64
	db.Model(&enrollmentModel.Enrollment{}).Where("user_id = ? AND certificate_issued = ?", userID, true).Count(&certificates)

	// Courses touched most recently
	var recent []enrollmentModel.Enrollment
	db.Where("user_id = ? AND status = ? AND last_accessed_at IS NOT NULL", userID, enrollmentModel.StatusActive).
		Order("last_accessed_at desc").Limit(5).Find(&recent)

	type recentCourse struct {
		enrollmentModel.Enrollment
		Course courseModel.Course `json:"course"`
	}
	recentPayload := make([]recentCourse, 0, len(recent))
	courseIDs := make([]uint, 0, len(recent))
	for _, enr := range recent {
		var crs courseModel.Course
		db.Where("id = ?", enr.CourseID).First(&crs)
		recentPayload = append(recentPayload, recentCourse{Enrollment: enr, Course: crs})
	}

	var enrolled []enrollmentModel.Enrollment
	db.Where("user_id = ? AND status <> ?", userID, enrollmentModel.StatusCancelled).Find(&enrolled)
	for _, enr := range enrolled {
		courseIDs = append(courseIDs, enr.CourseID)
	}

	deadlines := calendarController.UpcomingDeadlines(db, courseIDs, 7)

	// Pending assignments across enrolled courses
	var pendingAssignments int64
	if len(courseIDs) > 0 {
		db.Model(&assignmentModel.Assignment{}).
			Where("course_id IN ? AND is_deleted = ? AND is_published = ?", courseIDs, false, true).
			Where("due_date IS NULL OR due_date > ?", time.Now()).
			Where("id NOT IN (?)",
				db.Model(&assignmentModel.AssignmentSubmission{}).
					Select("assignment_id").
					Joins("JOIN enrollments ON enrollments.id = assignment_submissions.enrollment_id").
					Where("enrollments.user_id = ?", userID)).
			Count(&pendingAssignments)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Dashboard fetched successfully!", fiber.Map{
		"active_enrollments":    active,
		"completed_enrollments": completed,
		"average_progress":      avgProgress,
		"certificates_earned":   certificates,
		"recent_courses":        recentPayload,
		"upcoming_deadlines":    deadlines,
		"pending_assignments":   pendingAssignments,
	})
}

// InstructorDashboard aggregates stats for the courses the caller manages
func InstructorDashboard(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	role := c.Locals("role").(string)

	db := database.Database.Db

	ownScope := func(q *gorm.DB) *gorm.DB {
		q = q.Where("is_deleted = ?", false)
		if role != models.RoleAdmin {
			q = q.Where("created_by_id = ?", userID)
		}
		return q
	}

	var totalCourses, publishedCourses int64
	ownScope(db.Model(&courseModel.Course{})).Count(&totalCourses)
	ownScope(db.Model(&courseModel.Course{})).Where("status = ?", courseModel.StatusPublished).Count(&publishedCourses)

	var courses []courseModel.Course
	ownScope(db.Model(&courseModel.Course{})).Find(&courses)

	courseIDs := make([]uint, 0, len(courses))
	for _, crs := range courses {
		courseIDs = append(courseIDs, crs.ID)
	}

	var totalEnrollments int64
	var revenue int64
	var pendingGrading int64
	var pendingAttempts int64
	if len(courseIDs) > 0 {
		db.Model(&enrollmentModel.Enrollment{}).
			Where("course_id IN ? AND status <> ?", courseIDs, enrollmentModel.StatusCancelled).
			Count(&totalEnrollments)

		db.Model(&enrollmentModel.PaymentOrder{}).
			Where("course_id IN ? AND status = ?", courseIDs, enrollmentModel.OrderPaid).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&revenue)

		db.Model(&assignmentModel.AssignmentSubmission{}).
			Joins("JOIN assignments ON assignments.id = assignment_submissions.assignment_id").
			Where("assignments.course_id IN ? AND assignment_submissions.status = ?",
				courseIDs, assignmentModel.SubmissionSubmitted).
			Count(&pendingGrading)

		db.Model(&assignmentModel.QuizAttempt{}).
			Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
			Where("quizzes.course_id IN ? AND quiz_attempts.status = ?",
				courseIDs, assignmentModel.AttemptSubmitted).
			Count(&pendingAttempts)
	}

	// Per-course enrollment counts for the top courses
	type courseStat struct {
		Course      courseModel.Course `json:"course"`
		Enrollments int64              `json:"enrollments"`
	}
	stats := make([]courseStat, 0, len(courses))
	for _, crs := range courses {
		var count int64
		db.Model(&enrollmentModel.Enrollment{}).
			Where("course_id = ? AND status <> ?", crs.ID, enrollmentModel.StatusCancelled).
			Count(&count)
		stats = append(stats, courseStat{Course: crs, Enrollments: count})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Dashboard fetched successfully!", fiber.Map{
		"total_courses":         totalCourses,
		"published_courses":     publishedCourses,
		"total_enrollments":     totalEnrollments,
		"revenue_smallest_unit": revenue,
		"pending_grading":       pendingGrading,
		"pending_quiz_review":   pendingAttempts,
		"courses":               stats,
	})
}
