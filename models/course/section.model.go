package course

import "gorm.io/gorm"

// Section organizes lectures within a course, ordered by OrderIndex.
// Order uniqueness per course is enforced in the handlers so soft-deleted
// rows do not block index reuse.
type Section struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	OrderIndex  int    `json:"order_index" gorm:"not null"`
	IsPublished bool   `json:"is_published" gorm:"default:true"`
	IsDeleted   bool   `json:"-" gorm:"default:false"`
}
