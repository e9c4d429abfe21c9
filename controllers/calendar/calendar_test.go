package calendarController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learnhub/config"
	"learnhub/database"
	"learnhub/models"
	calendarModel "learnhub/models/calendar"
	calendarValidator "learnhub/validators/calendar"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testIdentity struct {
	userID uint
	role   string
}

func authAs(id *testIdentity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userId", id.userID)
		c.Locals("role", id.role)
		return c.Next()
	}
}

func setupCalendarTest(t *testing.T) (*fiber.App, *testIdentity) {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: "test-secret"}
	database.ConnectTestDb()

	id := new(testIdentity)
	app := fiber.New()

	grp := app.Group("/calendar", authAs(id))
	grp.Get("/events", ListEvents)
	grp.Post("/events", calendarValidator.CreateEvent(), CreateEvent)
	grp.Patch("/events/:id", calendarValidator.UpdateEvent(), UpdateEvent)
	grp.Post("/events/:id/register", RegisterForEvent)
	grp.Delete("/events/:id/register", UnregisterFromEvent)

	return app, id
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return resp, env
}

func createUser(t *testing.T, email, role string) models.User {
	t.Helper()
	user := models.User{Email: email, Password: "x", Role: role, EmailVerified: true, IsActive: true}
	require.NoError(t, database.Database.Db.Create(&user).Error)
	return user
}

func createEvent(t *testing.T, app *fiber.App, title string, start time.Time, capacity *int) calendarModel.CalendarEvent {
	t.Helper()
	body := fiber.Map{
		"title":      title,
		"event_type": "workshop",
		"start_time": start,
		"end_time":   start.Add(time.Hour),
	}
	if capacity != nil {
		body["max_capacity"] = *capacity
	}
	resp, env := doJSON(t, app, "POST", "/calendar/events", body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var event calendarModel.CalendarEvent
	require.NoError(t, json.Unmarshal(env.Data, &event))
	return event
}

func TestEventCapacity(t *testing.T) {
	app, id := setupCalendarTest(t)
	instructor := createUser(t, "host@example.com", models.RoleInstructor)
	first := createUser(t, "first@example.com", models.RoleStudent)
	second := createUser(t, "second@example.com", models.RoleStudent)

	*id = testIdentity{instructor.ID, models.RoleInstructor}
	capacity := 1
	event := createEvent(t, app, "Tiny Workshop", time.Now().Add(24*time.Hour), &capacity)
	assert.Equal(t, calendarModel.EventScheduled, event.Status)

	*id = testIdentity{first.ID, models.RoleStudent}
	resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/calendar/events/%d/register", event.ID), nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Registering twice is a conflict, not a second seat
	resp, env := doJSON(t, app, "POST", fmt.Sprintf("/calendar/events/%d/register", event.ID), nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	*id = testIdentity{second.ID, models.RoleStudent}
	resp, env = doJSON(t, app, "POST", fmt.Sprintf("/calendar/events/%d/register", event.ID), nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EVENT_FULL", env.Error.Code)

	// Unregistering frees the seat
	*id = testIdentity{first.ID, models.RoleStudent}
	resp, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/calendar/events/%d/register", event.ID), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	*id = testIdentity{second.ID, models.RoleStudent}
	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/calendar/events/%d/register", event.ID), nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestRegisterClosedEvent(t *testing.T) {
	app, id := setupCalendarTest(t)
	instructor := createUser(t, "host@example.com", models.RoleInstructor)
	student := createUser(t, "student@example.com", models.RoleStudent)

	*id = testIdentity{instructor.ID, models.RoleInstructor}
	event := createEvent(t, app, "Done Deal", time.Now().Add(24*time.Hour), nil)

	require.NoError(t, database.Database.Db.Model(&event).
		Update("status", calendarModel.EventCancelled).Error)

	*id = testIdentity{student.ID, models.RoleStudent}
	resp, env := doJSON(t, app, "POST", fmt.Sprintf("/calendar/events/%d/register", event.ID), nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestShrinkCapacityBelowAttendees(t *testing.T) {
	app, id := setupCalendarTest(t)
	instructor := createUser(t, "host@example.com", models.RoleInstructor)
	first := createUser(t, "first@example.com", models.RoleStudent)
	second := createUser(t, "second@example.com", models.RoleStudent)

	*id = testIdentity{instructor.ID, models.RoleInstructor}
	event := createEvent(t, app, "Popular Class", time.Now().Add(24*time.Hour), nil)

	for _, u := range []models.User{first, second} {
		*id = testIdentity{u.ID, models.RoleStudent}
		resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/calendar/events/%d/register", event.ID), nil)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	*id = testIdentity{instructor.ID, models.RoleInstructor}
	resp, env := doJSON(t, app, "PATCH", fmt.Sprintf("/calendar/events/%d", event.ID), fiber.Map{
		"max_capacity": 1,
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestWeeklyListing(t *testing.T) {
	app, id := setupCalendarTest(t)
	instructor := createUser(t, "host@example.com", models.RoleInstructor)

	*id = testIdentity{instructor.ID, models.RoleInstructor}
	weekStart := now.BeginningOfWeek().Add(2 * time.Hour)
	thisWeek := createEvent(t, app, "This Week", weekStart, nil)
	nextWeek := createEvent(t, app, "Next Week", weekStart.AddDate(0, 0, 7), nil)

	assertListed := func(query string, wantID uint) {
		resp, env := doJSON(t, app, "GET", "/calendar/events"+query, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var data struct {
			Events []calendarModel.CalendarEvent `json:"events"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		require.Len(t, data.Events, 1)
		assert.Equal(t, wantID, data.Events[0].ID)
	}

	assertListed("", thisWeek.ID)
	assertListed("?week=next", nextWeek.ID)
}
