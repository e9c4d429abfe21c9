package assignment

import (
	"time"

	"gorm.io/gorm"
)

// Submission statuses
const (
	SubmissionPending   = "pending"
	SubmissionSubmitted = "submitted"
	SubmissionGraded    = "graded"
)

// Assignment is a gradable task attached to a course
type Assignment struct {
	gorm.Model
	CourseID      uint       `json:"course_id" gorm:"index;not null"`
	Title         string     `json:"title" gorm:"not null"`
	Description   string     `json:"description" gorm:"type:text"`
	Instructions  string     `json:"instructions" gorm:"type:text"`
	AttachmentURL string     `json:"attachment_url"`
	MaxScore      float64    `json:"max_score" gorm:"default:100"`
	PassingScore  float64    `json:"passing_score" gorm:"default:60"`
	DueDate       *time.Time `json:"due_date"`
	IsPublished   bool       `json:"is_published" gorm:"default:true"`
	OrderIndex    int        `json:"order_index" gorm:"default:0"`
	IsDeleted     bool       `json:"-" gorm:"default:false"`
}

// AssignmentSubmission is a student's submission for an assignment,
// one per enrollment.
type AssignmentSubmission struct {
	gorm.Model
	AssignmentID  uint       `json:"assignment_id" gorm:"index:idx_assignment_enrollment,unique;not null"`
	EnrollmentID  uint       `json:"enrollment_id" gorm:"index:idx_assignment_enrollment,unique;not null"`
	Content       string     `json:"content" gorm:"type:text;not null"`
	AttachmentURL string     `json:"attachment_url"`
	Score         *float64   `json:"score"`
	Feedback      string     `json:"feedback" gorm:"type:text"`
	GradedByID    *uint      `json:"graded_by_id"`
	GradedAt      *time.Time `json:"graded_at"`
	Status        string     `json:"status" gorm:"default:'submitted'"` // pending, submitted, graded
	SubmittedAt   time.Time  `json:"submitted_at"`
}
