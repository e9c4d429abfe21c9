package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Instructor stores instructor information, optionally linked to a platform user
type Instructor struct {
	gorm.Model
	UserID        *uint          `json:"user_id" gorm:"index"`
	Name          string         `json:"name" gorm:"not null"`
	Title         string         `json:"title"`
	Bio           string         `json:"bio" gorm:"type:text"`
	AvatarURL     string         `json:"avatar_url"`
	Expertise     datatypes.JSON `json:"expertise"` // array of expertise areas
	TotalStudents int            `json:"total_students" gorm:"default:0"`
	TotalCourses  int            `json:"total_courses" gorm:"default:0"`
	AvgRating     float64        `json:"avg_rating" gorm:"default:0"`
	IsVerified    bool           `json:"is_verified" gorm:"default:false"`
	IsDeleted     bool           `json:"-" gorm:"default:false"`
}

// CourseInstructor links instructors to courses (M2M)
type CourseInstructor struct {
	gorm.Model
	CourseID     uint   `json:"course_id" gorm:"index:idx_course_instructor,unique;not null"`
	InstructorID uint   `json:"instructor_id" gorm:"index:idx_course_instructor,unique;not null"`
	Role         string `json:"role" gorm:"default:'primary'"`
	OrderIndex   int    `json:"order_index" gorm:"default:0"`
}
