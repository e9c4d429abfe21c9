package models

import "gorm.io/gorm"

// UserProfile stores extended user information (1:1 with User)
type UserProfile struct {
	gorm.Model
	UserID      uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	FullName    string `json:"full_name"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio" gorm:"type:text"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	Timezone    string `json:"timezone" gorm:"default:'UTC'"`
	Website     string `json:"website"`
	Education   string `json:"education" gorm:"type:text"`
}

// UserSocial stores social media usernames (1:1 with User)
type UserSocial struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	Linkedin  string `json:"linkedin"`
	Github    string `json:"github"`
	Instagram string `json:"instagram"`
}

// UserSkill stores user skills and proficiency levels (1:N with User)
type UserSkill struct {
	gorm.Model
	UserID      uint   `json:"user_id" gorm:"index:idx_user_skill,unique;not null"`
	Name        string `json:"name" gorm:"index:idx_user_skill,unique;not null"`
	Proficiency string `json:"proficiency" gorm:"default:'beginner'"` // beginner, intermediate, advanced
}
