package enrollment

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Payment statuses
const (
	PaymentFree     = "free"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Enrollment tracks a user's enrollment in a course with progress state
type Enrollment struct {
	gorm.Model
	UserID             uint       `json:"user_id" gorm:"index:idx_user_course,unique;not null"`
	CourseID           uint       `json:"course_id" gorm:"index:idx_user_course,unique;not null"`
	Status             string     `json:"status" gorm:"default:'active'"`        // active, completed, cancelled
	PaymentStatus      string     `json:"payment_status" gorm:"default:'free'"`  // free, paid, refunded
	ProgressPercentage float64    `json:"progress_percentage" gorm:"default:0"`  // 0..100
	CertificateIssued  bool       `json:"certificate_issued" gorm:"default:false"`
	CertificateNumber  *string    `json:"certificate_number" gorm:"uniqueIndex"`
	EnrollmentDate     time.Time  `json:"enrollment_date"`
	CompletionDate     *time.Time `json:"completion_date"`
	LastAccessedAt     *time.Time `json:"last_accessed_at"`
}

// LectureProgress tracks per-lecture progress within an enrollment
type LectureProgress struct {
	gorm.Model
	EnrollmentID         uint      `json:"enrollment_id" gorm:"index:idx_enrollment_lecture,unique;not null"`
	LectureID            uint      `json:"lecture_id" gorm:"index:idx_enrollment_lecture,unique;not null"`
	WatchedSeconds       int       `json:"watched_seconds" gorm:"default:0"`
	TotalSeconds         int       `json:"total_seconds" gorm:"default:0"`
	IsCompleted          bool      `json:"is_completed" gorm:"default:false"`
	CompletionPercentage float64   `json:"completion_percentage" gorm:"default:0"`
	LastWatchedAt        time.Time `json:"last_watched_at"`
}

// Bookmark marks a point in a lecture for later review
type Bookmark struct {
	gorm.Model
	EnrollmentID     uint   `json:"enrollment_id" gorm:"index;not null"`
	LectureID        uint   `json:"lecture_id" gorm:"index;not null"`
	Title            string `json:"title"`
	Note             string `json:"note" gorm:"type:text"`
	TimestampSeconds int    `json:"timestamp_seconds" gorm:"default:0"`
}

// Note is a free-form note taken during a lecture
type Note struct {
	gorm.Model
	EnrollmentID     uint   `json:"enrollment_id" gorm:"index;not null"`
	LectureID        uint   `json:"lecture_id" gorm:"index;not null"`
	Content          string `json:"content" gorm:"type:text;not null"`
	TimestampSeconds *int   `json:"timestamp_seconds"`
}
