package calendarController

import (
	"time"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	calendarModel "learnhub/models/calendar"
	"learnhub/validators"
	calendarValidator "learnhub/validators/calendar"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// loadOwnedEvent fetches an event the caller may manage: admins manage any
// event, instructors only their own. A nil event means a response has
// already been written.
func loadOwnedEvent(c *fiber.Ctx, eventID uint) (*calendarModel.CalendarEvent, error) {
	userID := c.Locals("userId").(uint)
	role := c.Locals("role").(string)

	var event calendarModel.CalendarEvent
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", eventID, false).First(&event).Error; err != nil {
		return nil, middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Event not found!")
	}

	if role != models.RoleAdmin && event.InstructorID != userID {
		return nil, middleware.ErrorResponse(c, fiber.StatusForbidden, middleware.CodeForbidden, "You do not manage this event!")
	}

	return &event, nil
}

// ListEvents lists public events in a date window. Defaults to the current
// week; ?week=next shifts the window forward.
func ListEvents(c *fiber.Ctx) error {
	db := database.Database.Db

	from := now.BeginningOfWeek()
	to := now.EndOfWeek()
	switch c.Query("week") {
	case "next":
		from = from.AddDate(0, 0, 7)
		to = to.AddDate(0, 0, 7)
	case "prev":
		from = from.AddDate(0, 0, -7)
		to = to.AddDate(0, 0, -7)
	}

	q := db.Model(&calendarModel.CalendarEvent{}).
		Where("is_deleted = ? AND is_public = ?", false, true).
		Where("start_time >= ? AND start_time <= ?", from, to)

	if courseID := c.QueryInt("course_id"); courseID > 0 {
		q = q.Where("course_id = ?", courseID)
	}
	if eventType := c.Query("event_type"); eventType != "" {
		q = q.Where("event_type = ?", eventType)
	}

	var events []calendarModel.CalendarEvent
	if err := q.Order("start_time asc").Find(&events).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to fetch events!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Events fetched successfully!", fiber.Map{
		"events": events,
		"from":   from,
		"to":     to,
	})
}

// MyEvents lists events the caller hosts or is registered for
func MyEvents(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	db := database.Database.Db

	var hosting []calendarModel.CalendarEvent
	db.Where("instructor_id = ? AND is_deleted = ?", userID, false).
		Order("start_time asc").Find(&hosting)

	var attending []calendarModel.CalendarEvent
	db.Joins("JOIN event_attendees ON event_attendees.event_id = calendar_events.id").
		Where("event_attendees.user_id = ? AND event_attendees.status = ? AND calendar_events.is_deleted = ?",
			userID, "registered", false).
		Order("calendar_events.start_time asc").
		Find(&attending)

	return middleware.JsonResponse(c, fiber.StatusOK, "Events fetched successfully!", fiber.Map{
		"hosting":   hosting,
		"attending": attending,
	})
}

// GetEvent returns one event with its attendee count
func GetEvent(c *fiber.Ctx) error {
	eventID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	db := database.Database.Db

	var event calendarModel.CalendarEvent
	if err := db.Where("id = ? AND is_deleted = ?", eventID, false).First(&event).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Event not found!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Event fetched successfully!", event)
}

// CreateEvent creates an event hosted by the caller
func CreateEvent(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	reqData := c.Locals("validatedEvent").(*calendarValidator.EventRequest)

	event := calendarModel.CalendarEvent{
		Title:        reqData.Title,
		Description:  reqData.Description,
		EventType:    reqData.EventType,
		StartTime:    *reqData.StartTime,
		EndTime:      *reqData.EndTime,
		Timezone:     reqData.Timezone,
		Location:     reqData.Location,
		MeetingLink:  reqData.MeetingLink,
		InstructorID: userID,
		CourseID:     reqData.CourseID,
		MaxCapacity:  reqData.MaxCapacity,
		Status:       calendarModel.EventScheduled,
		IsPublic:     true,
	}
	if event.Timezone == "" {
		event.Timezone = "UTC"
	}
	if reqData.IsPublic != nil {
		event.IsPublic = *reqData.IsPublic
	}

	if err := database.Database.Db.Create(&event).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to create event!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Event created successfully!", event)
}

// UpdateEvent applies partial updates to a managed event
func UpdateEvent(c *fiber.Ctx) error {
	eventID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedEventUpdate").(*calendarValidator.UpdateEventRequest)

	event, err := loadOwnedEvent(c, eventID)
	if event == nil {
		return err
	}

	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.EventType != nil {
		updates["event_type"] = *reqData.EventType
	}
	if reqData.StartTime != nil {
		updates["start_time"] = *reqData.StartTime
	}
	if reqData.EndTime != nil {
		updates["end_time"] = *reqData.EndTime
	}
	if reqData.Location != nil {
		updates["location"] = *reqData.Location
	}
	if reqData.MeetingLink != nil {
		updates["meeting_link"] = *reqData.MeetingLink
	}
	if reqData.MaxCapacity != nil {
		if *reqData.MaxCapacity < event.CurrentAttendees {
			return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "Max capacity cannot drop below current attendees!")
		}
		updates["max_capacity"] = *reqData.MaxCapacity
	}
	if reqData.Status != nil {
		updates["status"] = *reqData.Status
	}
	if reqData.IsPublic != nil {
		updates["is_public"] = *reqData.IsPublic
	}

	if len(updates) > 0 {
		if err := database.Database.Db.Model(event).Updates(updates).Error; err != nil {
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to update event!")
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Event updated successfully!", event)
}

// DeleteEvent soft-deletes a managed event
func DeleteEvent(c *fiber.Ctx) error {
	eventID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	event, err := loadOwnedEvent(c, eventID)
	if event == nil {
		return err
	}

	if err := database.Database.Db.Model(event).Update("is_deleted", true).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to delete event!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Event deleted successfully!", nil)
}

// RegisterForEvent registers the caller, enforcing capacity
func RegisterForEvent(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	eventID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	db := database.Database.Db

	var event calendarModel.CalendarEvent
	if err := db.Where("id = ? AND is_deleted = ?", eventID, false).First(&event).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Event not found!")
	}

	if event.Status == calendarModel.EventCancelled || event.Status == calendarModel.EventCompleted {
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "Registration is closed for this event!")
	}

	var existing calendarModel.EventAttendee
	if err := db.Where("event_id = ? AND user_id = ?", event.ID, userID).First(&existing).Error; err == nil {
		if existing.Status == "registered" {
			return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "You are already registered for this event!")
		}
		// Cancelled registration: reopen it if capacity allows
		if event.MaxCapacity != nil && event.CurrentAttendees >= *event.MaxCapacity {
			return middleware.ErrorResponse(c, fiber.StatusConflict, "EVENT_FULL", "This event is at capacity!")
		}
		tx := db.Begin()
		if err := tx.Model(&existing).Update("status", "registered").Error; err != nil {
			tx.Rollback()
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to register!")
		}
		if err := tx.Model(&event).UpdateColumn("current_attendees", gorm.Expr("current_attendees + 1")).Error; err != nil {
			tx.Rollback()
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to register!")
		}
		tx.Commit()
		return middleware.JsonResponse(c, fiber.StatusOK, "Registered successfully!", existing)
	}

	if event.MaxCapacity != nil && event.CurrentAttendees >= *event.MaxCapacity {
		return middleware.ErrorResponse(c, fiber.StatusConflict, "EVENT_FULL", "This event is at capacity!")
	}

	attendee := calendarModel.EventAttendee{
		EventID: event.ID,
		UserID:  userID,
		Status:  "registered",
	}

	tx := db.Begin()
	if err := tx.Create(&attendee).Error; err != nil {
		tx.Rollback()
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to register!")
	}
	if err := tx.Model(&event).UpdateColumn("current_attendees", gorm.Expr("current_attendees + 1")).Error; err != nil {
		tx.Rollback()
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to register!")
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, "Registered successfully!", attendee)
}

// UnregisterFromEvent cancels the caller's registration
func UnregisterFromEvent(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	eventID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	db := database.Database.Db

	var attendee calendarModel.EventAttendee
	if err := db.Where("event_id = ? AND user_id = ? AND status = ?", eventID, userID, "registered").First(&attendee).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "You are not registered for this event!")
	}

	tx := db.Begin()
	if err := tx.Model(&attendee).Update("status", "cancelled").Error; err != nil {
		tx.Rollback()
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to unregister!")
	}
	if err := tx.Model(&calendarModel.CalendarEvent{}).Where("id = ? AND current_attendees > 0", eventID).
		UpdateColumn("current_attendees", gorm.Expr("current_attendees - 1")).Error; err != nil {
		tx.Rollback()
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to unregister!")
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, "Unregistered successfully!", nil)
}

// ListAttendees lists registrations for a managed event
func ListAttendees(c *fiber.Ctx) error {
	eventID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	event, err := loadOwnedEvent(c, eventID)
	if event == nil {
		return err
	}

	var attendees []calendarModel.EventAttendee
	if err := database.Database.Db.Where("event_id = ?", event.ID).Find(&attendees).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to fetch attendees!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Attendees fetched successfully!", attendees)
}

// MarkAttendance marks a registered attendee as attended
func MarkAttendance(c *fiber.Ctx) error {
	eventID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	attendeeUserID, err := validators.ParseIDParam(c, "user_id")
	if err != nil {
		return err
	}

	event, err := loadOwnedEvent(c, eventID)
	if event == nil {
		return err
	}

	db := database.Database.Db

	var attendee calendarModel.EventAttendee
	if err := db.Where("event_id = ? AND user_id = ? AND status = ?", event.ID, attendeeUserID, "registered").First(&attendee).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Attendee not found!")
	}

	if err := db.Model(&attendee).Update("status", "attended").Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to mark attendance!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Attendance marked successfully!", attendee)
}

// UpcomingDeadlines returns course-scoped deadline, exam and assignment
// events inside the next n days. The dashboard uses it too.
func UpcomingDeadlines(db *gorm.DB, courseIDs []uint, days int) []calendarModel.CalendarEvent {
	var events []calendarModel.CalendarEvent
	if len(courseIDs) == 0 {
		return events
	}
	from := time.Now()
	to := from.AddDate(0, 0, days)
	db.Where("course_id IN ? AND is_deleted = ? AND event_type IN ?", courseIDs, false, []string{"deadline", "exam", "assignment"}).
		Where("start_time >= ? AND start_time <= ?", from, to).
		Order("start_time asc").
		Find(&events)
	return events
}
