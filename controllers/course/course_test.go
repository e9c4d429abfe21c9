package courseController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"learnhub/config"
	"learnhub/database"
	"learnhub/models"
	courseModel "learnhub/models/course"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
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

// authAs stands in for JWTMiddleware so tests can act as any user
func authAs(userID *uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userId", *userID)
		return c.Next()
	}
}

func createUser(t *testing.T, email, role string) models.User {
	t.Helper()
	user := models.User{Email: email, Password: "x", Role: role, EmailVerified: true, IsActive: true}
	require.NoError(t, database.Database.Db.Create(&user).Error)
	return user
}

func setupCourseTest(t *testing.T) (*fiber.App, *uint) {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: "test-secret"}
	database.ConnectTestDb()

	// actAs is swapped per request to impersonate different users
	actAs := new(uint)
	app := fiber.New()

	app.Get("/course/list", courseValidator.CourseList(), GetAllCourses)
	app.Get("/course/:slug", GetCourseBySlug)

	admin := app.Group("/admin", authAs(actAs))
	admin.Post("/courses", courseValidator.CreateCourse(), CreateCourse)
	admin.Post("/courses/:id/publish", PublishCourse)
	admin.Post("/courses/:id/sections", courseValidator.CreateSection(), CreateSection)
	admin.Post("/sections/:section_id/lectures", courseValidator.CreateLecture(), CreateLecture)

	return app, actAs
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

func createTestCourse(t *testing.T, app *fiber.App, title string, price float64) courseModel.Course {
	t.Helper()
	resp, env := doJSON(t, app, "POST", "/admin/courses", fiber.Map{
		"title": title,
		"price": price,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var data struct {
		Course courseModel.Course `json:"course"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Course
}

func TestCreateCourseGeneratesSlugAndCode(t *testing.T) {
	app, actAs := setupCourseTest(t)
	instructor := createUser(t, "inst@example.com", models.RoleInstructor)
	*actAs = instructor.ID

	crs := createTestCourse(t, app, "Go Fundamentals", 49.99)
	assert.Equal(t, "go-fundamentals", crs.Slug)
	assert.Len(t, crs.CourseCode, 8)
	assert.Equal(t, courseModel.StatusDraft, crs.Status)

	// A second course with the same title gets a suffixed slug
	clash := createTestCourse(t, app, "Go Fundamentals", 0)
	assert.NotEqual(t, crs.Slug, clash.Slug)
	assert.Contains(t, clash.Slug, "go-fundamentals-")

	var pricing courseModel.CoursePricing
	require.NoError(t, database.Database.Db.Where("course_id = ?", clash.ID).First(&pricing).Error)
	assert.True(t, pricing.IsFree)
}

func TestPublishRequiresLecture(t *testing.T) {
	app, actAs := setupCourseTest(t)
	instructor := createUser(t, "inst@example.com", models.RoleInstructor)
	*actAs = instructor.ID

	crs := createTestCourse(t, app, "Empty Course", 0)

	resp, env := doJSON(t, app, "POST", fmt.Sprintf("/admin/courses/%d/publish", crs.ID), nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "EMPTY_COURSE", env.Error.Code)

	resp, env = doJSON(t, app, "POST", fmt.Sprintf("/admin/courses/%d/sections", crs.ID), fiber.Map{
		"title": "Intro",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var section courseModel.Section
	require.NoError(t, json.Unmarshal(env.Data, &section))

	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/admin/sections/%d/lectures", section.ID), fiber.Map{
		"title":        "Welcome",
		"content_type": "video",
		"video":        fiber.Map{"video_url": "https://cdn.example.com/welcome.mp4", "duration_seconds": 300},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/admin/courses/%d/publish", crs.ID), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Publishing twice is rejected
	resp, env = doJSON(t, app, "POST", fmt.Sprintf("/admin/courses/%d/publish", crs.ID), nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestSectionOrderConflict(t *testing.T) {
	app, actAs := setupCourseTest(t)
	instructor := createUser(t, "inst@example.com", models.RoleInstructor)
	*actAs = instructor.ID

	crs := createTestCourse(t, app, "Ordered Course", 0)

	resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/admin/courses/%d/sections", crs.ID), fiber.Map{
		"title":       "First",
		"order_index": 1,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, env := doJSON(t, app, "POST", fmt.Sprintf("/admin/courses/%d/sections", crs.ID), fiber.Map{
		"title":       "Clashing",
		"order_index": 1,
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	// Without an explicit position the section is appended after the max
	resp, env = doJSON(t, app, "POST", fmt.Sprintf("/admin/courses/%d/sections", crs.ID), fiber.Map{
		"title": "Appended",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var section courseModel.Section
	require.NoError(t, json.Unmarshal(env.Data, &section))
	assert.Equal(t, 2, section.OrderIndex)
}

func TestCourseOwnership(t *testing.T) {
	app, actAs := setupCourseTest(t)
	owner := createUser(t, "owner@example.com", models.RoleInstructor)
	other := createUser(t, "other@example.com", models.RoleInstructor)
	admin := createUser(t, "admin@example.com", models.RoleAdmin)

	*actAs = owner.ID
	crs := createTestCourse(t, app, "Owned Course", 0)

	*actAs = other.ID
	resp, env := doJSON(t, app, "POST", fmt.Sprintf("/admin/courses/%d/sections", crs.ID), fiber.Map{
		"title": "Hijack",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	// Admins manage any course
	*actAs = admin.ID
	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/admin/courses/%d/sections", crs.ID), fiber.Map{
		"title": "Admin Section",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestCatalogOnlyShowsPublished(t *testing.T) {
	app, actAs := setupCourseTest(t)
	instructor := createUser(t, "inst@example.com", models.RoleInstructor)
	*actAs = instructor.ID

	draft := createTestCourse(t, app, "Hidden Draft", 0)

	resp, env := doJSON(t, app, "GET", "/course/list", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list struct {
		Courses []courseModel.Course `json:"courses"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Empty(t, list.Courses)

	resp, _ = doJSON(t, app, "GET", "/course/"+draft.Slug, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
