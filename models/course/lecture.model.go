package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Lecture content types
const (
	ContentVideo = "video"
	ContentPDF   = "pdf"
	ContentQuiz  = "quiz"
	ContentText  = "text"
)

// Lecture is an atomic content unit within a section
type Lecture struct {
	gorm.Model
	SectionID   uint   `json:"section_id" gorm:"index;not null"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	ContentType string `json:"content_type" gorm:"default:'video'"` // video, pdf, quiz, text
	ContentURL  string `json:"content_url"`
	TextContent string `json:"text_content" gorm:"type:text"` // for text lectures
	OrderIndex  int    `json:"order_index" gorm:"not null"`
	IsPublished bool   `json:"is_published" gorm:"default:true"`
	IsDeleted   bool   `json:"-" gorm:"default:false"`
}

// VideoContent stores video-specific data for a lecture (1:1)
type VideoContent struct {
	gorm.Model
	LectureID       uint           `json:"lecture_id" gorm:"uniqueIndex;not null"`
	VideoURL        string         `json:"video_url" gorm:"not null"`
	VideoProvider   string         `json:"video_provider" gorm:"default:'custom'"` // youtube, vimeo, aws, custom
	VideoQuality    datatypes.JSON `json:"video_quality"`                          // {"1080p": url, "720p": url}
	ThumbnailURL    string         `json:"thumbnail_url"`
	CaptionsURL     string         `json:"captions_url"`
	DurationSeconds int            `json:"duration_seconds" gorm:"default:0"`
	FileSizeMB      float64        `json:"file_size_mb" gorm:"default:0"`
}

// PDFContent stores PDF-specific data for a lecture (1:1)
type PDFContent struct {
	gorm.Model
	LectureID  uint    `json:"lecture_id" gorm:"uniqueIndex;not null"`
	PDFURL     string  `json:"pdf_url" gorm:"not null"`
	FileName   string  `json:"file_name"`
	FileSizeMB float64 `json:"file_size_mb" gorm:"default:0"`
	TotalPages int     `json:"total_pages" gorm:"default:0"`
}

// LectureResource is a downloadable resource attached to a lecture (1:N)
type LectureResource struct {
	gorm.Model
	LectureID    uint    `json:"lecture_id" gorm:"index;not null"`
	Title        string  `json:"title" gorm:"not null"`
	ResourceType string  `json:"resource_type" gorm:"default:'other'"` // pdf, document, code, other
	FileURL      string  `json:"file_url" gorm:"not null"`
	FileName     string  `json:"file_name"`
	FileSizeMB   float64 `json:"file_size_mb" gorm:"default:0"`
	IsDeleted    bool    `json:"-" gorm:"default:false"`
}
