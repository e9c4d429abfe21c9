package calendar

import (
	"time"

	"gorm.io/gorm"
)

// Event statuses
const (
	EventScheduled = "scheduled"
	EventOngoing   = "ongoing"
	EventCompleted = "completed"
	EventCancelled = "cancelled"
	EventPostponed = "postponed"
)

// CalendarEvent is a scheduled session, deadline or other dated item,
// optionally tied to a course.
type CalendarEvent struct {
	gorm.Model
	Title            string    `json:"title" gorm:"not null"`
	Description      string    `json:"description" gorm:"type:text"`
	EventType        string    `json:"event_type" gorm:"default:'class'"` // class, workshop, webinar, assignment, exam, deadline, holiday, other
	StartTime        time.Time `json:"start_time" gorm:"index;not null"`
	EndTime          time.Time `json:"end_time" gorm:"not null"`
	Timezone         string    `json:"timezone" gorm:"default:'UTC'"`
	Location         string    `json:"location"`
	MeetingLink      string    `json:"meeting_link"`
	InstructorID     uint      `json:"instructor_id" gorm:"index;not null"`
	CourseID         *uint     `json:"course_id" gorm:"index"`
	MaxCapacity      *int      `json:"max_capacity"` // nil = unlimited
	CurrentAttendees int       `json:"current_attendees" gorm:"default:0"`
	Status           string    `json:"status" gorm:"default:'scheduled'"`
	IsPublic         bool      `json:"is_public" gorm:"default:true"`
	IsDeleted        bool      `json:"-" gorm:"default:false"`
}

// EventAttendee registers a user for an event (unique per event+user)
type EventAttendee struct {
	gorm.Model
	EventID uint   `json:"event_id" gorm:"index:idx_event_user,unique;not null"`
	UserID  uint   `json:"user_id" gorm:"index:idx_event_user,unique;not null"`
	Status  string `json:"status" gorm:"default:'registered'"` // registered, attended, cancelled
}
