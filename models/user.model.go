package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

type User struct {
	gorm.Model
	Email         string     `json:"email" gorm:"unique;not null"`
	Password      string     `json:"-" gorm:"not null"`
	Role          string     `json:"role" gorm:"default:'student'"` // student, instructor, admin
	EmailVerified bool       `json:"email_verified" gorm:"default:false"`
	IsActive      bool       `json:"is_active" gorm:"default:true"`
	LastLoginAt   *time.Time `json:"last_login_at"`
	IsDeleted     bool       `json:"-" gorm:"default:false"`
}

// RevokedToken blacklists JWT IDs after logout until their natural expiry
type RevokedToken struct {
	gorm.Model
	JTI       string    `json:"jti" gorm:"uniqueIndex;not null"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	TokenType string    `json:"token_type"` // access, refresh
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
}
