package courseValidator

import (
	"strings"

	"learnhub/middleware"
	"learnhub/models/course"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

// SectionRequest is the validated section payload
type SectionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  *int   `json:"order_index"`
	IsPublished *bool  `json:"is_published"`
}

// CreateSection validates section creation requests
func CreateSection() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := validators.ParseIDParam(c, "id"); err != nil {
			return err
		}

		reqData := new(SectionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		}
		if reqData.OrderIndex != nil && *reqData.OrderIndex < 0 {
			errors["order_index"] = "Order index must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSection", reqData)
		return c.Next()
	}
}

// UpdateSection validates section update requests
func UpdateSection() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := validators.ParseIDParam(c, "section_id"); err != nil {
			return err
		}

		reqData := new(SectionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		if reqData.OrderIndex != nil && *reqData.OrderIndex < 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"order_index": "Order index must not be negative!"})
		}

		c.Locals("validatedSection", reqData)
		return c.Next()
	}
}

var validContentTypes = map[string]bool{
	course.ContentVideo: true,
	course.ContentPDF:   true,
	course.ContentQuiz:  true,
	course.ContentText:  true,
}

// LectureRequest is the validated lecture payload, including the optional
// per-type content blocks.
type LectureRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ContentType string `json:"content_type"`
	ContentURL  string `json:"content_url"`
	TextContent string `json:"text_content"`
	OrderIndex  *int   `json:"order_index"`
	IsPublished *bool  `json:"is_published"`

	Video *struct {
		VideoURL        string `json:"video_url"`
		VideoProvider   string `json:"video_provider"`
		ThumbnailURL    string `json:"thumbnail_url"`
		CaptionsURL     string `json:"captions_url"`
		DurationSeconds int    `json:"duration_seconds"`
	} `json:"video"`

	PDF *struct {
		PDFURL     string `json:"pdf_url"`
		FileName   string `json:"file_name"`
		TotalPages int    `json:"total_pages"`
	} `json:"pdf"`
}

// CreateLecture validates lecture creation requests
func CreateLecture() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := validators.ParseIDParam(c, "section_id"); err != nil {
			return err
		}
		return validateLectureBody(c)
	}
}

// UpdateLecture validates lecture update requests
func UpdateLecture() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := validators.ParseIDParam(c, "lecture_id"); err != nil {
			return err
		}
		return validateLectureBody(c)
	}
}

func validateLectureBody(c *fiber.Ctx) error {
	reqData := new(LectureRequest)
	if err := c.BodyParser(reqData); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
	}

	errors := make(map[string]string)

	reqData.Title = strings.TrimSpace(reqData.Title)
	if reqData.Title == "" {
		errors["title"] = "Title is required!"
	}

	if reqData.ContentType == "" {
		reqData.ContentType = course.ContentVideo
	}
	if !validContentTypes[reqData.ContentType] {
		errors["content_type"] = "Content type must be video, pdf, quiz or text!"
	}

	switch reqData.ContentType {
	case course.ContentVideo:
		if reqData.Video != nil && !validators.IsURL(reqData.Video.VideoURL) {
			errors["video.video_url"] = "Video URL is invalid!"
		}
	case course.ContentPDF:
		if reqData.PDF != nil && !validators.IsURL(reqData.PDF.PDFURL) {
			errors["pdf.pdf_url"] = "PDF URL is invalid!"
		}
	case course.ContentText:
		if strings.TrimSpace(reqData.TextContent) == "" {
			errors["text_content"] = "Text content is required for text lectures!"
		}
	}

	if reqData.OrderIndex != nil && *reqData.OrderIndex < 0 {
		errors["order_index"] = "Order index must not be negative!"
	}

	if len(errors) > 0 {
		return middleware.ValidationErrorResponse(c, errors)
	}

	c.Locals("validatedLecture", reqData)
	return c.Next()
}

// ResourceRequest is the validated lecture resource payload
type ResourceRequest struct {
	Title        string  `json:"title"`
	ResourceType string  `json:"resource_type"`
	FileURL      string  `json:"file_url"`
	FileName     string  `json:"file_name"`
	FileSizeMB   float64 `json:"file_size_mb"`
}

// AddResource validates lecture resource creation requests
func AddResource() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := validators.ParseIDParam(c, "lecture_id"); err != nil {
			return err
		}

		reqData := new(ResourceRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		}
		if !validators.IsURL(reqData.FileURL) || reqData.FileURL == "" {
			errors["file_url"] = "File URL is invalid!"
		}
		switch reqData.ResourceType {
		case "":
			reqData.ResourceType = "other"
		case "pdf", "document", "code", "other":
		default:
			errors["resource_type"] = "Resource type must be pdf, document, code or other!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedResource", reqData)
		return c.Next()
	}
}
