package calendarValidator

import (
	"strings"
	"time"

	"learnhub/middleware"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

var validEventTypes = map[string]bool{
	"class": true, "workshop": true, "webinar": true, "assignment": true,
	"exam": true, "deadline": true, "holiday": true, "other": true,
}

// EventRequest is the validated calendar event payload
type EventRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	EventType   string     `json:"event_type"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Timezone    string     `json:"timezone"`
	Location    string     `json:"location"`
	MeetingLink string     `json:"meeting_link"`
	CourseID    *uint      `json:"course_id"`
	MaxCapacity *int       `json:"max_capacity"`
	IsPublic    *bool      `json:"is_public"`
}

// CreateEvent validates event creation requests
func CreateEvent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(EventRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		}

		if reqData.EventType == "" {
			reqData.EventType = "class"
		}
		if !validEventTypes[reqData.EventType] {
			errors["event_type"] = "Invalid event type!"
		}

		if reqData.StartTime == nil {
			errors["start_time"] = "Start time is required!"
		}
		if reqData.EndTime == nil {
			errors["end_time"] = "End time is required!"
		}
		if reqData.StartTime != nil && reqData.EndTime != nil && !reqData.EndTime.After(*reqData.StartTime) {
			errors["end_time"] = "End time must be after start time!"
		}

		if !validators.IsURL(reqData.MeetingLink) {
			errors["meeting_link"] = "Meeting link must be a valid URL!"
		}
		if reqData.MaxCapacity != nil && *reqData.MaxCapacity <= 0 {
			errors["max_capacity"] = "Max capacity must be positive!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEvent", reqData)
		return c.Next()
	}
}

// UpdateEventRequest carries optional event fields; nil means unchanged
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	EventType   *string    `json:"event_type"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Location    *string    `json:"location"`
	MeetingLink *string    `json:"meeting_link"`
	MaxCapacity *int       `json:"max_capacity"`
	Status      *string    `json:"status"`
	IsPublic    *bool      `json:"is_public"`
}

// UpdateEvent validates event update requests
func UpdateEvent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := validators.ParseIDParam(c, "id"); err != nil {
			return err
		}

		reqData := new(UpdateEventRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		if reqData.EventType != nil && !validEventTypes[*reqData.EventType] {
			errors["event_type"] = "Invalid event type!"
		}
		if reqData.Status != nil {
			switch *reqData.Status {
			case "scheduled", "ongoing", "completed", "cancelled", "postponed":
			default:
				errors["status"] = "Invalid event status!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEventUpdate", reqData)
		return c.Next()
	}
}
