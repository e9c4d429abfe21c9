package assignment

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question types
const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionTrueFalse      = "true_false"
	QuestionShortAnswer    = "short_answer"
	QuestionEssay          = "essay"
)

// Attempt statuses
const (
	AttemptInProgress = "in_progress"
	AttemptSubmitted  = "submitted"
	AttemptGraded     = "graded"
)

// Quiz is a set of questions, optionally attached to a lecture (1:1)
type Quiz struct {
	gorm.Model
	LectureID          *uint   `json:"lecture_id" gorm:"uniqueIndex"`
	CourseID           uint    `json:"course_id" gorm:"index;not null"`
	Title              string  `json:"title" gorm:"not null"`
	Description        string  `json:"description" gorm:"type:text"`
	Instructions       string  `json:"instructions" gorm:"type:text"`
	TimeLimitMinutes   *int    `json:"time_limit_minutes"`
	PassingScore       float64 `json:"passing_score" gorm:"default:70"` // percentage
	MaxAttempts        int     `json:"max_attempts" gorm:"default:3"`
	ShuffleQuestions   bool    `json:"shuffle_questions" gorm:"default:false"`
	ShowCorrectAnswers bool    `json:"show_correct_answers" gorm:"default:true"`
	IsPublished        bool    `json:"is_published" gorm:"default:true"`
	IsDeleted          bool    `json:"-" gorm:"default:false"`
}

// Question is a single quiz question. Options and CorrectAnswer are JSON
// arrays; CorrectAnswer may hold several values for multi-select questions.
type Question struct {
	gorm.Model
	QuizID        uint           `json:"quiz_id" gorm:"index;not null"`
	QuestionText  string         `json:"question_text" gorm:"type:text;not null"`
	QuestionType  string         `json:"question_type" gorm:"default:'multiple_choice'"`
	Options       datatypes.JSON `json:"options"`
	CorrectAnswer datatypes.JSON `json:"-"` // hidden from students
	Points        float64        `json:"points" gorm:"default:1"`
	OrderIndex    int            `json:"order_index" gorm:"default:0"`
	Explanation   string         `json:"explanation" gorm:"type:text"`
	IsDeleted     bool           `json:"-" gorm:"default:false"`
}

// AutoGradable reports whether the question can be scored without a human
func (q *Question) AutoGradable() bool {
	return q.QuestionType == QuestionMultipleChoice || q.QuestionType == QuestionTrueFalse
}

// QuizAttempt tracks a student's attempt, answers keyed by question ID
type QuizAttempt struct {
	gorm.Model
	QuizID        uint           `json:"quiz_id" gorm:"index;not null"`
	EnrollmentID  uint           `json:"enrollment_id" gorm:"index;not null"`
	AttemptNumber int            `json:"attempt_number" gorm:"default:1"`
	Answers       datatypes.JSON `json:"answers"` // {questionID: answer(s)}
	Score         *float64       `json:"score"`
	TotalPoints   *float64       `json:"total_points"`
	Percentage    *float64       `json:"percentage"`
	Passed        bool           `json:"passed" gorm:"default:false"`
	Status        string         `json:"status" gorm:"default:'in_progress'"` // in_progress, submitted, graded
	StartedAt     time.Time      `json:"started_at"`
	SubmittedAt   *time.Time     `json:"submitted_at"`
}
