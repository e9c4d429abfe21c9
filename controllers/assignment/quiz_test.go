package assignmentController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learnhub/config"
	"learnhub/database"
	"learnhub/models"
	assignmentModel "learnhub/models/assignment"
	courseModel "learnhub/models/course"
	enrollmentModel "learnhub/models/enrollment"
	assignmentValidator "learnhub/validators/assignment"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func authAs(userID *uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userId", *userID)
		return c.Next()
	}
}

func setupAssignmentTest(t *testing.T) (*fiber.App, *uint) {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: "test-secret"}
	database.ConnectTestDb()

	actAs := new(uint)
	app := fiber.New()

	quiz := app.Group("/quiz", authAs(actAs))
	quiz.Post("/course/:course_id", assignmentValidator.CreateQuiz(), CreateQuiz)
	quiz.Post("/:id/questions", assignmentValidator.AddQuestion(), AddQuestion)
	quiz.Post("/:id/attempt", StartAttempt)
	quiz.Post("/attempt/:attempt_id/submit", assignmentValidator.SubmitAttempt(), SubmitAttempt)

	grp := app.Group("/assignment", authAs(actAs))
	grp.Post("/:id/submit", assignmentValidator.SubmitAssignment(), SubmitAssignment)
	grp.Post("/submissions/:submission_id/grade", assignmentValidator.GradeSubmission(), GradeSubmission)

	return app, actAs
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return resp, env
}

func createUser(t *testing.T, email, role string) models.User {
	t.Helper()
	user := models.User{Email: email, Password: "x", Role: role, EmailVerified: true, IsActive: true}
	require.NoError(t, database.Database.Db.Create(&user).Error)
	return user
}

// seedEnrolledStudent plants a published course owned by the instructor and
// an active enrollment for the student.
func seedEnrolledStudent(t *testing.T, code string, instructorID, studentID uint) courseModel.Course {
	t.Helper()
	db := database.Database.Db

	crs := courseModel.Course{
		CourseCode:  code,
		Title:       "Seeded " + code,
		Slug:        "seeded-" + code,
		Status:      courseModel.StatusPublished,
		CreatedByID: &instructorID,
	}
	require.NoError(t, db.Create(&crs).Error)
	require.NoError(t, db.Create(&enrollmentModel.Enrollment{
		UserID:         studentID,
		CourseID:       crs.ID,
		Status:         enrollmentModel.StatusActive,
		PaymentStatus:  enrollmentModel.PaymentFree,
		EnrollmentDate: time.Now(),
	}).Error)
	return crs
}

func TestAnswerMatches(t *testing.T) {
	assert.True(t, answerMatches([]string{"a"}, []string{"a"}))
	assert.True(t, answerMatches([]string{"b", "a"}, []string{"a", "b"}))
	assert.False(t, answerMatches([]string{"a"}, []string{"b"}))
	assert.False(t, answerMatches([]string{"a"}, []string{"a", "b"}))
	assert.False(t, answerMatches([]string{"a", "a"}, []string{"a", "b"}))
	assert.True(t, answerMatches(nil, nil))
}

func TestQuizAttemptFlow(t *testing.T) {
	app, actAs := setupAssignmentTest(t)
	instructor := createUser(t, "quizinst@example.com", models.RoleInstructor)
	student := createUser(t, "quizstud@example.com", models.RoleStudent)
	crs := seedEnrolledStudent(t, "QUIZ0001", instructor.ID, student.ID)

	*actAs = instructor.ID
	resp, env := doJSON(t, app, "POST", fmt.Sprintf("/quiz/course/%d", crs.ID), fiber.Map{
		"title":        "Checkpoint Quiz",
		"max_attempts": 2,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var quiz assignmentModel.Quiz
	require.NoError(t, json.Unmarshal(env.Data, &quiz))
	assert.Equal(t, 70.0, quiz.PassingScore)
	assert.True(t, quiz.ShowCorrectAnswers)

	resp, env = doJSON(t, app, "POST", fmt.Sprintf("/quiz/%d/questions", quiz.ID), fiber.Map{
		"question_text":  "Which keyword declares a variable?",
		"question_type":  assignmentModel.QuestionMultipleChoice,
		"options":        []string{"var", "let", "def"},
		"correct_answer": []string{"var"},
		"points":         3,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var mcq assignmentModel.Question
	require.NoError(t, json.Unmarshal(env.Data, &mcq))

	resp, env = doJSON(t, app, "POST", fmt.Sprintf("/quiz/%d/questions", quiz.ID), fiber.Map{
		"question_text":  "Slices are reference types.",
		"question_type":  assignmentModel.QuestionTrueFalse,
		"correct_answer": []string{"true"},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var tf assignmentModel.Question
	require.NoError(t, json.Unmarshal(env.Data, &tf))

	type attemptPayload struct {
		Attempt        assignmentModel.QuizAttempt `json:"attempt"`
		CorrectAnswers []struct {
			ID uint `json:"id"`
		} `json:"correct_answers"`
	}

	// First attempt: everything wrong, auto-graded as failed
	*actAs = student.ID
	resp, env = doJSON(t, app, "POST", fmt.Sprintf("/quiz/%d/attempt", quiz.ID), nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var started attemptPayload
	require.NoError(t, json.Unmarshal(env.Data, &started))
	attemptID := started.Attempt.ID
	assert.Equal(t, 1, started.Attempt.AttemptNumber)

	resp, env = doJSON(t, app, "POST", fmt.Sprintf("/quiz/attempt/%d/submit", attemptID), fiber.Map{
		"answers": map[string][]string{
			fmt.Sprint(mcq.ID): {"def"},
			fmt.Sprint(tf.ID):  {"false"},
		},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var graded attemptPayload
	require.NoError(t, json.Unmarshal(env.Data, &graded))
	assert.Equal(t, assignmentModel.AttemptGraded, graded.Attempt.Status)
	assert.False(t, graded.Attempt.Passed)
	require.NotNil(t, graded.Attempt.Percentage)
	assert.Equal(t, 0.0, *graded.Attempt.Percentage)
	assert.Len(t, graded.CorrectAnswers, 2)

	// Second attempt: the 3-point question alone clears the 70% bar
	resp, env = doJSON(t, app, "POST", fmt.Sprintf("/quiz/%d/attempt", quiz.ID), nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &started))
	assert.Equal(t, 2, started.Attempt.AttemptNumber)

	resp, env = doJSON(t, app, "POST", fmt.Sprintf("/quiz/attempt/%d/submit", started.Attempt.ID), fiber.Map{
		"answers": map[string][]string{
			fmt.Sprint(mcq.ID): {"var"},
			fmt.Sprint(tf.ID):  {"false"},
		},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &graded))
	assert.True(t, graded.Attempt.Passed)
	require.NotNil(t, graded.Attempt.Percentage)
	assert.Equal(t, 75.0, *graded.Attempt.Percentage)

	// Attempts are capped
	resp, env = doJSON(t, app, "POST", fmt.Sprintf("/quiz/%d/attempt", quiz.ID), nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "MAX_ATTEMPTS_REACHED", env.Error.Code)
}

func TestTimedOutAttemptFreesNextAttempt(t *testing.T) {
	app, actAs := setupAssignmentTest(t)
	instructor := createUser(t, "timeinst@example.com", models.RoleInstructor)
	student := createUser(t, "timestud@example.com", models.RoleStudent)
	crs := seedEnrolledStudent(t, "QUIZ0003", instructor.ID, student.ID)

	*actAs = instructor.ID
	resp, env := doJSON(t, app, "POST", fmt.Sprintf("/quiz/course/%d", crs.ID), fiber.Map{
		"title":              "Timed Quiz",
		"time_limit_minutes": 1,
		"max_attempts":       3,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var quiz assignmentModel.Quiz
	require.NoError(t, json.Unmarshal(env.Data, &quiz))

	resp, env = doJSON(t, app, "POST", fmt.Sprintf("/quiz/%d/questions", quiz.ID), fiber.Map{
		"question_text":  "2 + 2?",
		"question_type":  assignmentModel.QuestionMultipleChoice,
		"options":        []string{"3", "4"},
		"correct_answer": []string{"4"},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var q assignmentModel.Question
	require.NoError(t, json.Unmarshal(env.Data, &q))

	type attemptPayload struct {
		Attempt assignmentModel.QuizAttempt `json:"attempt"`
	}

	*actAs = student.ID
	resp, env = doJSON(t, app, "POST", fmt.Sprintf("/quiz/%d/attempt", quiz.ID), nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var started attemptPayload
	require.NoError(t, json.Unmarshal(env.Data, &started))
	firstID := started.Attempt.ID

	db := database.Database.Db
	require.NoError(t, db.Model(&assignmentModel.QuizAttempt{}).Where("id = ?", firstID).
		Update("started_at", time.Now().Add(-2*time.Minute)).Error)

	// Submitting past the deadline closes the attempt as a zero-score
	// failure instead of leaving it open
	resp, env = doJSON(t, app, "POST", fmt.Sprintf("/quiz/attempt/%d/submit", firstID), fiber.Map{
		"answers": map[string][]string{fmt.Sprint(q.ID): {"4"}},
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "TIME_LIMIT_EXCEEDED", env.Error.Code)

	var expired assignmentModel.QuizAttempt
	require.NoError(t, db.Where("id = ?", firstID).First(&expired).Error)
	assert.Equal(t, assignmentModel.AttemptGraded, expired.Status)
	assert.False(t, expired.Passed)

	// The next attempt opens as a fresh one
	resp, env = doJSON(t, app, "POST", fmt.Sprintf("/quiz/%d/attempt", quiz.ID), nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &started))
	assert.NotEqual(t, firstID, started.Attempt.ID)
	assert.Equal(t, 2, started.Attempt.AttemptNumber)

	// An abandoned timed-out attempt is also closed on the next start
	require.NoError(t, db.Model(&assignmentModel.QuizAttempt{}).Where("id = ?", started.Attempt.ID).
		Update("started_at", time.Now().Add(-2*time.Minute)).Error)

	resp, env = doJSON(t, app, "POST", fmt.Sprintf("/quiz/%d/attempt", quiz.ID), nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &started))
	assert.Equal(t, 3, started.Attempt.AttemptNumber)
}

func TestStartAttemptRequiresEnrollment(t *testing.T) {
	app, actAs := setupAssignmentTest(t)
	instructor := createUser(t, "inst@example.com", models.RoleInstructor)
	student := createUser(t, "enrolled@example.com", models.RoleStudent)
	outsider := createUser(t, "outsider@example.com", models.RoleStudent)
	crs := seedEnrolledStudent(t, "QUIZ0002", instructor.ID, student.ID)

	*actAs = instructor.ID
	resp, env := doJSON(t, app, "POST", fmt.Sprintf("/quiz/course/%d", crs.ID), fiber.Map{
		"title": "Members Only",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var quiz assignmentModel.Quiz
	require.NoError(t, json.Unmarshal(env.Data, &quiz))

	*actAs = outsider.ID
	resp, env = doJSON(t, app, "POST", fmt.Sprintf("/quiz/%d/attempt", quiz.ID), nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)
}

func TestAssignmentSubmissionFlow(t *testing.T) {
	app, actAs := setupAssignmentTest(t)
	instructor := createUser(t, "gradeinst@example.com", models.RoleInstructor)
	student := createUser(t, "gradestud@example.com", models.RoleStudent)
	crs := seedEnrolledStudent(t, "ASGN0001", instructor.ID, student.ID)

	db := database.Database.Db
	due := time.Now().Add(48 * time.Hour)
	a := assignmentModel.Assignment{
		CourseID:    crs.ID,
		Title:       "Essay",
		MaxScore:    100,
		DueDate:     &due,
		IsPublished: true,
	}
	require.NoError(t, db.Create(&a).Error)

	*actAs = student.ID
	resp, env := doJSON(t, app, "POST", fmt.Sprintf("/assignment/%d/submit", a.ID), fiber.Map{
		"content": "First draft",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var sub assignmentModel.AssignmentSubmission
	require.NoError(t, json.Unmarshal(env.Data, &sub))

	// Resubmitting before grading replaces the submission
	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/assignment/%d/submit", a.ID), fiber.Map{
		"content": "Second draft",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// A score above the assignment maximum is rejected
	*actAs = instructor.ID
	resp, env = doJSON(t, app, "POST", fmt.Sprintf("/assignment/submissions/%d/grade", sub.ID), fiber.Map{
		"score": 150.0,
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/assignment/submissions/%d/grade", sub.ID), fiber.Map{
		"score":    85.0,
		"feedback": "Good work",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Graded submissions are locked
	*actAs = student.ID
	resp, env = doJSON(t, app, "POST", fmt.Sprintf("/assignment/%d/submit", a.ID), fiber.Map{
		"content": "Third draft",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestSubmitAssignmentPastDueDate(t *testing.T) {
	app, actAs := setupAssignmentTest(t)
	instructor := createUser(t, "lateinst@example.com", models.RoleInstructor)
	student := createUser(t, "latestud@example.com", models.RoleStudent)
	crs := seedEnrolledStudent(t, "LATE0001", instructor.ID, student.ID)

	due := time.Now().Add(-time.Hour)
	a := assignmentModel.Assignment{
		CourseID:    crs.ID,
		Title:       "Closed",
		DueDate:     &due,
		IsPublished: true,
	}
	require.NoError(t, database.Database.Db.Create(&a).Error)

	*actAs = student.ID
	resp, env := doJSON(t, app, "POST", fmt.Sprintf("/assignment/%d/submit", a.ID), fiber.Map{
		"content": "Too late",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "PAST_DUE_DATE", env.Error.Code)
}
