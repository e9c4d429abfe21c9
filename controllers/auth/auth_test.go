package authController

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"learnhub/config"
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	authValidator "learnhub/validators/auth"

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

func setupAuthTest(t *testing.T) *fiber.App {
	t.Helper()
	config.AppConfig = &config.Config{
		BaseURL:            "http://localhost:3000",
		JWTKey:             "test-secret",
		SaltRound:          4,
		AccessTokenTTLMin:  15,
		RefreshTokenTTLHrs: 24,
	}
	database.ConnectTestDb()

	app := fiber.New()
	app.Post("/auth/signup", authValidator.Signup(), Signup)
	app.Post("/auth/login", authValidator.Login(), Login)
	app.Post("/auth/refresh", authValidator.Refresh(), Refresh)
	app.Post("/auth/logout", middleware.JWTMiddleware, Logout)
	app.Get("/auth/me", middleware.JWTMiddleware, Me)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, headers map[string]string) (*http.Response, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return resp, env
}

func signupAndVerify(t *testing.T, app *fiber.App, email, password, role string) {
	t.Helper()
	resp, env := doJSON(t, app, "POST", "/auth/signup", fiber.Map{
		"email":     email,
		"password":  password,
		"full_name": "Test User",
		"role":      role,
	}, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.True(t, env.Success)

	require.NoError(t, database.Database.Db.Model(&models.User{}).
		Where("email = ?", email).Update("email_verified", true).Error)
}

func login(t *testing.T, app *fiber.App, email, password string) (string, string) {
	t.Helper()
	resp, env := doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var tokens struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tokens))
	require.NotEmpty(t, tokens.Access)
	require.NotEmpty(t, tokens.Refresh)
	return tokens.Access, tokens.Refresh
}

func TestSignupValidation(t *testing.T) {
	app := setupAuthTest(t)

	resp, env := doJSON(t, app, "POST", "/auth/signup", fiber.Map{
		"email":    "not-an-email",
		"password": "short",
	}, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestSignupDuplicateEmail(t *testing.T) {
	app := setupAuthTest(t)

	signupAndVerify(t, app, "dup@example.com", "password123", "student")

	resp, env := doJSON(t, app, "POST", "/auth/signup", fiber.Map{
		"email":    "dup@example.com",
		"password": "password123",
	}, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	app := setupAuthTest(t)

	resp, env := doJSON(t, app, "POST", "/auth/signup", fiber.Map{
		"email":    "unverified@example.com",
		"password": "password123",
	}, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, env = doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email":    "unverified@example.com",
		"password": "password123",
	}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "EMAIL_NOT_VERIFIED", env.Error.Code)
}

func TestLoginAndMe(t *testing.T) {
	app := setupAuthTest(t)

	signupAndVerify(t, app, "login@example.com", "password123", "student")

	// Wrong password does not reveal which part was wrong
	resp, env := doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email":    "login@example.com",
		"password": "wrongpassword",
	}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	access, _ := login(t, app, "login@example.com", "password123")

	resp, env = doJSON(t, app, "GET", "/auth/me", nil, map[string]string{
		"Authorization": "Bearer " + access,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var me struct {
		User struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
		Profile struct {
			FullName string `json:"full_name"`
		} `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "login@example.com", me.User.Email)
	assert.Equal(t, "student", me.User.Role)
	assert.Equal(t, "Test User", me.Profile.FullName)
}

func TestRefreshRotation(t *testing.T) {
	app := setupAuthTest(t)

	signupAndVerify(t, app, "rotate@example.com", "password123", "student")
	_, refresh := login(t, app, "rotate@example.com", "password123")

	resp, env := doJSON(t, app, "POST", "/auth/refresh", fiber.Map{
		"refresh_token": refresh,
	}, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)

	// The old refresh token is revoked on rotation
	resp, env = doJSON(t, app, "POST", "/auth/refresh", fiber.Map{
		"refresh_token": refresh,
	}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	app := setupAuthTest(t)

	signupAndVerify(t, app, "logout@example.com", "password123", "student")
	access, _ := login(t, app, "logout@example.com", "password123")

	resp, _ := doJSON(t, app, "POST", "/auth/logout", nil, map[string]string{
		"Authorization": "Bearer " + access,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, env := doJSON(t, app, "GET", "/auth/me", nil, map[string]string{
		"Authorization": "Bearer " + access,
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}
