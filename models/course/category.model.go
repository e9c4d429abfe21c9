package course

import "gorm.io/gorm"

// Category organizes courses, optionally nested under a parent category
type Category struct {
	gorm.Model
	Name             string `json:"name" gorm:"unique;not null"`
	Slug             string `json:"slug" gorm:"unique;not null"`
	Description      string `json:"description" gorm:"type:text"`
	Icon             string `json:"icon"`
	ParentCategoryID *uint  `json:"parent_category_id" gorm:"index"`
	IsActive         bool   `json:"is_active" gorm:"default:true"`
	DisplayOrder     int    `json:"display_order" gorm:"default:0"`
	IsDeleted        bool   `json:"-" gorm:"default:false"`
}
