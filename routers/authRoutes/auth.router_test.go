package authRoutes

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"learnhub/config"
	"learnhub/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Change-password must reject unauthenticated callers before the body is
// ever parsed.
func TestChangePasswordRequiresAuthBeforeValidation(t *testing.T) {
	config.AppConfig = &config.Config{JWTKey: "test-secret"}
	database.ConnectTestDb()

	app := fiber.New()
	SetupAuthRoutes(app)

	req := httptest.NewRequest("PUT", "/auth/change/password", strings.NewReader(`{"old_password":1}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}
