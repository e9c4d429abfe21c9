package course

import (
	"time"

	"gorm.io/gorm"
)

// Course statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Course is the core course record
type Course struct {
	gorm.Model
	CourseCode       string     `json:"course_code" gorm:"unique;not null"`
	Title            string     `json:"title" gorm:"not null"`
	Slug             string     `json:"slug" gorm:"unique;not null"`
	ShortDescription string     `json:"short_description"`
	Description      string     `json:"description" gorm:"type:text"`
	Level            string     `json:"level"` // Beginner, Intermediate, Advanced, All Levels
	Language         string     `json:"language" gorm:"default:'English'"`
	Status           string     `json:"status" gorm:"default:'draft'"` // draft, published, archived
	CategoryID       *uint      `json:"category_id" gorm:"index"`
	ThumbnailURL     string     `json:"thumbnail_url"`
	PromoVideoURL    string     `json:"promo_video_url"`
	CreatedByID      *uint      `json:"created_by_id" gorm:"index"`
	PublishedAt      *time.Time `json:"published_at"`
	IsDeleted        bool       `json:"-" gorm:"default:false"`
}

// CourseMetadata stores course statistics and feature flags (1:1 with Course)
type CourseMetadata struct {
	gorm.Model
	CourseID        uint    `json:"course_id" gorm:"uniqueIndex;not null"`
	DurationMinutes int     `json:"duration_minutes" gorm:"default:0"`
	TotalLectures   int     `json:"total_lectures" gorm:"default:0"`
	TotalSections   int     `json:"total_sections" gorm:"default:0"`
	IsFeatured      bool    `json:"is_featured" gorm:"default:false"`
	IsBestseller    bool    `json:"is_bestseller" gorm:"default:false"`
	HasCertificate  bool    `json:"has_certificate" gorm:"default:true"`
	DripContent     bool    `json:"drip_content" gorm:"default:false"`
	CommentsEnabled bool    `json:"comments_enabled" gorm:"default:true"`
	AvgRating       float64 `json:"avg_rating" gorm:"default:0"`
	TotalReviews    int     `json:"total_reviews" gorm:"default:0"`
	TotalEnrollments int    `json:"total_enrollments" gorm:"default:0"`
}

// CoursePricing stores pricing information (1:1 with Course)
type CoursePricing struct {
	gorm.Model
	CourseID      uint       `json:"course_id" gorm:"uniqueIndex;not null"`
	Price         float64    `json:"price" gorm:"default:0"`
	SalePrice     *float64   `json:"sale_price"`
	Currency      string     `json:"currency" gorm:"default:'INR'"`
	IsFree        bool       `json:"is_free" gorm:"default:false"`
	SaleStartDate *time.Time `json:"sale_start_date"`
	SaleEndDate   *time.Time `json:"sale_end_date"`
}

// EffectivePrice returns the price a buyer pays right now, honoring an
// active sale window.
func (p *CoursePricing) EffectivePrice(at time.Time) float64 {
	if p.IsFree {
		return 0
	}
	if p.SalePrice != nil {
		if p.SaleStartDate != nil && at.Before(*p.SaleStartDate) {
			return p.Price
		}
		if p.SaleEndDate != nil && at.After(*p.SaleEndDate) {
			return p.Price
		}
		return *p.SalePrice
	}
	return p.Price
}
