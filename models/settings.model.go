package models

import "gorm.io/gorm"

// UserSettings stores user preferences and notification settings (1:1 with User)
type UserSettings struct {
	gorm.Model
	UserID uint `json:"user_id" gorm:"uniqueIndex;not null"`

	// Notification settings
	EmailCourseUpdates bool `json:"email_course_updates" gorm:"default:true"`
	EmailAssignments   bool `json:"email_assignments" gorm:"default:true"`
	EmailAnnouncements bool `json:"email_announcements" gorm:"default:true"`
	EmailWeeklyDigest  bool `json:"email_weekly_digest" gorm:"default:false"`
	PushCourseUpdates  bool `json:"push_course_updates" gorm:"default:true"`
	PushAssignments    bool `json:"push_assignments" gorm:"default:true"`
	PushAnnouncements  bool `json:"push_announcements" gorm:"default:true"`

	// Privacy settings
	ProfileVisibility   string `json:"profile_visibility" gorm:"default:'public'"` // public, private, connections
	ShowEnrolledCourses bool   `json:"show_enrolled_courses" gorm:"default:true"`
	ShowProgress        bool   `json:"show_progress" gorm:"default:true"`

	// Preference settings
	Theme                string  `json:"theme" gorm:"default:'light'"` // light, dark, auto
	Language             string  `json:"language" gorm:"default:'en'"`
	AutoplayVideos       bool    `json:"autoplay_videos" gorm:"default:true"`
	DefaultPlaybackSpeed float64 `json:"default_playback_speed" gorm:"default:1.0"`
	CaptionsEnabled      bool    `json:"captions_enabled" gorm:"default:false"`
}
