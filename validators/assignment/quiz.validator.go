package assignmentValidator

import (
	"strings"

	"learnhub/middleware"
	"learnhub/models/assignment"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

// QuizRequest is the validated quiz payload
type QuizRequest struct {
	LectureID          *uint   `json:"lecture_id"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Instructions       string  `json:"instructions"`
	TimeLimitMinutes   *int    `json:"time_limit_minutes"`
	PassingScore       *float64 `json:"passing_score"`
	MaxAttempts        *int    `json:"max_attempts"`
	ShuffleQuestions   *bool   `json:"shuffle_questions"`
	ShowCorrectAnswers *bool   `json:"show_correct_answers"`
	IsPublished        *bool   `json:"is_published"`
}

// CreateQuiz validates quiz creation requests
func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := validators.ParseIDParam(c, "course_id"); err != nil {
			return err
		}
		return validateQuizBody(c)
	}
}

// UpdateQuiz validates quiz update requests
func UpdateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := validators.ParseIDParam(c, "id"); err != nil {
			return err
		}
		return validateQuizBody(c)
	}
}

func validateQuizBody(c *fiber.Ctx) error {
	reqData := new(QuizRequest)
	if err := c.BodyParser(reqData); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
	}

	errors := make(map[string]string)

	reqData.Title = strings.TrimSpace(reqData.Title)
	if reqData.Title == "" {
		errors["title"] = "Title is required!"
	}
	if reqData.TimeLimitMinutes != nil && *reqData.TimeLimitMinutes <= 0 {
		errors["time_limit_minutes"] = "Time limit must be positive!"
	}
	if reqData.PassingScore != nil && (*reqData.PassingScore < 0 || *reqData.PassingScore > 100) {
		errors["passing_score"] = "Passing score must be between 0 and 100!"
	}
	if reqData.MaxAttempts != nil && *reqData.MaxAttempts <= 0 {
		errors["max_attempts"] = "Max attempts must be positive!"
	}

	if len(errors) > 0 {
		return middleware.ValidationErrorResponse(c, errors)
	}

	c.Locals("validatedQuiz", reqData)
	return c.Next()
}

var validQuestionTypes = map[string]bool{
	assignment.QuestionMultipleChoice: true,
	assignment.QuestionTrueFalse:      true,
	assignment.QuestionShortAnswer:    true,
	assignment.QuestionEssay:          true,
}

// QuestionRequest is the validated question payload
type QuestionRequest struct {
	QuestionText  string   `json:"question_text"`
	QuestionType  string   `json:"question_type"`
	Options       []string `json:"options"`
	CorrectAnswer []string `json:"correct_answer"`
	Points        *float64 `json:"points"`
	OrderIndex    *int     `json:"order_index"`
	Explanation   string   `json:"explanation"`
}

// AddQuestion validates question creation requests
func AddQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := validators.ParseIDParam(c, "id"); err != nil {
			return err
		}

		reqData := new(QuestionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.QuestionText) == "" {
			errors["question_text"] = "Question text is required!"
		}

		if reqData.QuestionType == "" {
			reqData.QuestionType = assignment.QuestionMultipleChoice
		}
		if !validQuestionTypes[reqData.QuestionType] {
			errors["question_type"] = "Question type must be multiple_choice, true_false, short_answer or essay!"
		}

		switch reqData.QuestionType {
		case assignment.QuestionMultipleChoice:
			if len(reqData.Options) < 2 {
				errors["options"] = "Multiple choice questions need at least 2 options!"
			}
			if len(reqData.CorrectAnswer) == 0 {
				errors["correct_answer"] = "At least one correct answer is required!"
			}
		case assignment.QuestionTrueFalse:
			reqData.Options = []string{"true", "false"}
			if len(reqData.CorrectAnswer) != 1 || (reqData.CorrectAnswer[0] != "true" && reqData.CorrectAnswer[0] != "false") {
				errors["correct_answer"] = "True/false questions need exactly one answer of true or false!"
			}
		}

		if reqData.Points != nil && *reqData.Points <= 0 {
			errors["points"] = "Points must be positive!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}

// AttemptSubmitRequest carries answers keyed by question ID
type AttemptSubmitRequest struct {
	Answers map[string][]string `json:"answers"`
}

// SubmitAttempt validates quiz attempt submission requests
func SubmitAttempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := validators.ParseIDParam(c, "attempt_id"); err != nil {
			return err
		}

		reqData := new(AttemptSubmitRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		if len(reqData.Answers) == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"answers": "Answers are required!"})
		}

		c.Locals("validatedAttempt", reqData)
		return c.Next()
	}
}
