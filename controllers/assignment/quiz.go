package assignmentController

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	courseController "learnhub/controllers/course"
	"learnhub/database"
	"learnhub/middleware"
	assignmentModel "learnhub/models/assignment"
	"learnhub/utils"
	"learnhub/validators"
	assignmentValidator "learnhub/validators/assignment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// loadOwnedQuiz resolves a quiz through the course ownership check. A nil
// quiz means a response has already been written.
func loadOwnedQuiz(c *fiber.Ctx, quizID uint) (*assignmentModel.Quiz, error) {
	var quiz assignmentModel.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return nil, middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Quiz not found!")
	}
	if crs, err := courseController.LoadOwnedCourse(c, quiz.CourseID); crs == nil {
		return nil, err
	}
	return &quiz, nil
}

// ListQuizzes lists a course's published quizzes for enrolled students
func ListQuizzes(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID, err := validators.ParseIDParam(c, "course_id")
	if err != nil {
		return err
	}

	enr, err := requireEnrollment(c, userID, courseID)
	if enr == nil {
		return err
	}

	db := database.Database.Db

	var quizzes []assignmentModel.Quiz
	if err := db.Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Order("created_at asc").Find(&quizzes).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to fetch quizzes!")
	}

	type quizPayload struct {
		assignmentModel.Quiz
		AttemptsUsed int64 `json:"attempts_used"`
	}
	payload := make([]quizPayload, 0, len(quizzes))
	for _, q := range quizzes {
		var used int64
		db.Model(&assignmentModel.QuizAttempt{}).
			Where("quiz_id = ? AND enrollment_id = ?", q.ID, enr.ID).Count(&used)
		payload = append(payload, quizPayload{Quiz: q, AttemptsUsed: used})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Quizzes fetched successfully!", payload)
}

// CreateQuiz adds a quiz to a managed course
func CreateQuiz(c *fiber.Ctx) error {
	courseID, err := validators.ParseIDParam(c, "course_id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedQuiz").(*assignmentValidator.QuizRequest)

	crs, err := courseController.LoadOwnedCourse(c, courseID)
	if crs == nil {
		return err
	}

	db := database.Database.Db

	if reqData.LectureID != nil {
		var existing assignmentModel.Quiz
		if err := db.Where("lecture_id = ?", *reqData.LectureID).First(&existing).Error; err == nil {
			return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "This lecture already has a quiz!")
		}
	}

	quiz := assignmentModel.Quiz{
		LectureID:          reqData.LectureID,
		CourseID:           crs.ID,
		Title:              reqData.Title,
		Description:        reqData.Description,
		Instructions:       reqData.Instructions,
		TimeLimitMinutes:   reqData.TimeLimitMinutes,
		PassingScore:       70,
		MaxAttempts:        3,
		ShowCorrectAnswers: true,
		IsPublished:        true,
	}
	if reqData.PassingScore != nil {
		quiz.PassingScore = *reqData.PassingScore
	}
	if reqData.MaxAttempts != nil {
		quiz.MaxAttempts = *reqData.MaxAttempts
	}
	if reqData.ShuffleQuestions != nil {
		quiz.ShuffleQuestions = *reqData.ShuffleQuestions
	}
	if reqData.ShowCorrectAnswers != nil {
		quiz.ShowCorrectAnswers = *reqData.ShowCorrectAnswers
	}
	if reqData.IsPublished != nil {
		quiz.IsPublished = *reqData.IsPublished
	}

	if err := db.Create(&quiz).Error; err != nil {
		log.Printf("Error creating quiz: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to create quiz!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Quiz created successfully!", quiz)
}

// UpdateQuiz updates a quiz on a managed course
func UpdateQuiz(c *fiber.Ctx) error {
	quizID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedQuiz").(*assignmentValidator.QuizRequest)

	quiz, err := loadOwnedQuiz(c, quizID)
	if quiz == nil {
		return err
	}

	updates := map[string]interface{}{
		"title":        reqData.Title,
		"description":  reqData.Description,
		"instructions": reqData.Instructions,
	}
	if reqData.TimeLimitMinutes != nil {
		updates["time_limit_minutes"] = *reqData.TimeLimitMinutes
	}
	if reqData.PassingScore != nil {
		updates["passing_score"] = *reqData.PassingScore
	}
	if reqData.MaxAttempts != nil {
		updates["max_attempts"] = *reqData.MaxAttempts
	}
	if reqData.ShuffleQuestions != nil {
		updates["shuffle_questions"] = *reqData.ShuffleQuestions
	}
	if reqData.ShowCorrectAnswers != nil {
		updates["show_correct_answers"] = *reqData.ShowCorrectAnswers
	}
	if reqData.IsPublished != nil {
		updates["is_published"] = *reqData.IsPublished
	}

	if err := database.Database.Db.Model(quiz).Updates(updates).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to update quiz!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Quiz updated successfully!", quiz)
}

// DeleteQuiz soft-deletes a quiz
func DeleteQuiz(c *fiber.Ctx) error {
	quizID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	quiz, err := loadOwnedQuiz(c, quizID)
	if quiz == nil {
		return err
	}

	if err := database.Database.Db.Model(quiz).Update("is_deleted", true).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to delete quiz!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Quiz deleted successfully!", nil)
}

// AddQuestion appends a question to a quiz
func AddQuestion(c *fiber.Ctx) error {
	quizID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedQuestion").(*assignmentValidator.QuestionRequest)

	quiz, err := loadOwnedQuiz(c, quizID)
	if quiz == nil {
		return err
	}

	options, err := json.Marshal(reqData.Options)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid options!")
	}
	correct, err := json.Marshal(reqData.CorrectAnswer)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid correct answer!")
	}

	question := assignmentModel.Question{
		QuizID:        quiz.ID,
		QuestionText:  reqData.QuestionText,
		QuestionType:  reqData.QuestionType,
		Options:       datatypes.JSON(options),
		CorrectAnswer: datatypes.JSON(correct),
		Points:        1,
		Explanation:   reqData.Explanation,
	}
	if reqData.Points != nil {
		question.Points = *reqData.Points
	}
	if reqData.OrderIndex != nil {
		question.OrderIndex = *reqData.OrderIndex
	}

	if err := database.Database.Db.Create(&question).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to add question!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Question added successfully!", question)
}

// DeleteQuestion soft-deletes a question from a quiz
func DeleteQuestion(c *fiber.Ctx) error {
	quizID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	questionID, err := validators.ParseIDParam(c, "question_id")
	if err != nil {
		return err
	}

	quiz, err := loadOwnedQuiz(c, quizID)
	if quiz == nil {
		return err
	}

	db := database.Database.Db

	var question assignmentModel.Question
	if err := db.Where("id = ? AND quiz_id = ? AND is_deleted = ?", questionID, quiz.ID, false).First(&question).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Question not found!")
	}

	if err := db.Model(&question).Update("is_deleted", true).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to delete question!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Question deleted successfully!", nil)
}

// StartAttempt opens a new quiz attempt for an enrolled student
func StartAttempt(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	quizID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	db := database.Database.Db

	var quiz assignmentModel.Quiz
	if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", quizID, false, true).First(&quiz).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Quiz not found!")
	}

	enr, err := requireEnrollment(c, userID, quiz.CourseID)
	if enr == nil {
		return err
	}

	var open assignmentModel.QuizAttempt
	if err := db.Where("quiz_id = ? AND enrollment_id = ? AND status = ?",
		quiz.ID, enr.ID, assignmentModel.AttemptInProgress).First(&open).Error; err == nil {
		if !attemptExpired(&quiz, &open) {
			return middleware.JsonResponse(c, fiber.StatusOK, "Attempt already in progress!", open)
		}
		// A timed-out attempt is closed as a zero-score failure so the
		// next attempt can open
		if err := expireAttempt(db, &open); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to start attempt!")
		}
	}

	var used int64
	db.Model(&assignmentModel.QuizAttempt{}).Where("quiz_id = ? AND enrollment_id = ?", quiz.ID, enr.ID).Count(&used)
	if int(used) >= quiz.MaxAttempts {
		return middleware.ErrorResponse(c, fiber.StatusForbidden, "MAX_ATTEMPTS_REACHED", "You have used all attempts for this quiz!")
	}

	attempt := assignmentModel.QuizAttempt{
		QuizID:        quiz.ID,
		EnrollmentID:  enr.ID,
		AttemptNumber: int(used) + 1,
		Status:        assignmentModel.AttemptInProgress,
		StartedAt:     time.Now(),
	}
	if err := db.Create(&attempt).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to start attempt!")
	}

	var questions []assignmentModel.Question
	db.Where("quiz_id = ? AND is_deleted = ?", quiz.ID, false).Order("order_index asc").Find(&questions)

	return middleware.JsonResponse(c, fiber.StatusCreated, "Attempt started successfully!", fiber.Map{
		"attempt":   attempt,
		"questions": questions,
	})
}

// answerMatches compares a student's answers against the stored correct set,
// order-insensitive.
func answerMatches(given []string, correct []string) bool {
	if len(given) != len(correct) {
		return false
	}
	set := make(map[string]int, len(correct))
	for _, v := range correct {
		set[v]++
	}
	for _, v := range given {
		if set[v] == 0 {
			return false
		}
		set[v]--
	}
	return true
}

// attemptExpired reports whether an in-progress attempt is past its deadline
func attemptExpired(quiz *assignmentModel.Quiz, attempt *assignmentModel.QuizAttempt) bool {
	if quiz.TimeLimitMinutes == nil {
		return false
	}
	deadline := attempt.StartedAt.Add(time.Duration(*quiz.TimeLimitMinutes) * time.Minute)
	return time.Now().After(deadline)
}

// expireAttempt closes a timed-out attempt as a zero-score failure. The
// attempt still counts against the quiz's max attempts.
func expireAttempt(db *gorm.DB, attempt *assignmentModel.QuizAttempt) error {
	now := time.Now()
	return db.Model(attempt).Updates(map[string]interface{}{
		"score":        0.0,
		"percentage":   0.0,
		"passed":       false,
		"status":       assignmentModel.AttemptGraded,
		"submitted_at": now,
	}).Error
}

// SubmitAttempt closes an attempt and auto-grades what it can. Attempts with
// only auto-gradable questions are graded immediately; the rest stay
// submitted until an instructor scores them.
func SubmitAttempt(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	attemptID, err := validators.ParseIDParam(c, "attempt_id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedAttempt").(*assignmentValidator.AttemptSubmitRequest)

	db := database.Database.Db

	var attempt assignmentModel.QuizAttempt
	if err := db.Where("id = ?", attemptID).First(&attempt).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Attempt not found!")
	}

	var quiz assignmentModel.Quiz
	if err := db.Where("id = ?", attempt.QuizID).First(&quiz).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Quiz not found!")
	}

	enr, err := requireEnrollment(c, userID, quiz.CourseID)
	if enr == nil {
		return err
	}
	if attempt.EnrollmentID != enr.ID {
		return middleware.ErrorResponse(c, fiber.StatusForbidden, middleware.CodeForbidden, "This attempt does not belong to you!")
	}
	if attempt.Status != assignmentModel.AttemptInProgress {
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "Attempt has already been submitted!")
	}

	if attemptExpired(&quiz, &attempt) {
		if err := expireAttempt(db, &attempt); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to submit attempt!")
		}
		return middleware.ErrorResponse(c, fiber.StatusForbidden, "TIME_LIMIT_EXCEEDED", "The time limit for this attempt has passed!")
	}

	var questions []assignmentModel.Question
	db.Where("quiz_id = ? AND is_deleted = ?", quiz.ID, false).Find(&questions)

	score := 0.0
	totalPoints := 0.0
	allAutoGradable := true
	for _, q := range questions {
		totalPoints += q.Points
		if !q.AutoGradable() {
			allAutoGradable = false
			continue
		}
		var correct []string
		if err := json.Unmarshal(q.CorrectAnswer, &correct); err != nil {
			continue
		}
		given := reqData.Answers[fmt.Sprint(q.ID)]
		if answerMatches(given, correct) {
			score += q.Points
		}
	}

	answers, err := json.Marshal(reqData.Answers)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid answers!")
	}

	now := time.Now()
	percentage := 0.0
	if totalPoints > 0 {
		percentage = utils.ClampPercent(score / totalPoints * 100)
	}

	status := assignmentModel.AttemptSubmitted
	passed := false
	if allAutoGradable {
		status = assignmentModel.AttemptGraded
		passed = percentage >= quiz.PassingScore
	}

	if err := db.Model(&attempt).Updates(map[string]interface{}{
		"answers":      datatypes.JSON(answers),
		"score":        score,
		"total_points": totalPoints,
		"percentage":   percentage,
		"passed":       passed,
		"status":       status,
		"submitted_at": now,
	}).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to submit attempt!")
	}

	payload := fiber.Map{"attempt": attempt}
	if quiz.ShowCorrectAnswers && status == assignmentModel.AttemptGraded {
		type revealedQuestion struct {
			ID            uint           `json:"id"`
			CorrectAnswer datatypes.JSON `json:"correct_answer"`
			Explanation   string         `json:"explanation"`
		}
		revealed := make([]revealedQuestion, 0, len(questions))
		for _, q := range questions {
			revealed = append(revealed, revealedQuestion{ID: q.ID, CorrectAnswer: q.CorrectAnswer, Explanation: q.Explanation})
		}
		payload["correct_answers"] = revealed
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Attempt submitted successfully!", payload)
}

// MyAttempts lists the caller's attempts for a quiz
func MyAttempts(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	quizID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	db := database.Database.Db

	var quiz assignmentModel.Quiz
	if err := db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Quiz not found!")
	}

	enr, err := requireEnrollment(c, userID, quiz.CourseID)
	if enr == nil {
		return err
	}

	var attempts []assignmentModel.QuizAttempt
	if err := db.Where("quiz_id = ? AND enrollment_id = ?", quiz.ID, enr.ID).
		Order("attempt_number asc").Find(&attempts).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to fetch attempts!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Attempts fetched successfully!", attempts)
}
