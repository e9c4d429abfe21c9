package middleware

import (
	"testing"

	"learnhub/config"
	"learnhub/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupJWTTest(t *testing.T) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey:             "test-secret",
		AccessTokenTTLMin:  15,
		RefreshTokenTTLHrs: 24,
	}
	database.ConnectTestDb()
}

func TestTokenRoundTrip(t *testing.T) {
	setupJWTTest(t)

	token, err := GenerateAccessToken(7, "student", "student@example.com")
	require.NoError(t, err)

	claims, err := ParseToken(token, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, float64(7), claims["userId"])
	assert.Equal(t, "student", claims["role"])
	assert.Equal(t, "student@example.com", claims["email"])
	assert.NotEmpty(t, claims["jti"])
}

func TestParseTokenRejectsWrongType(t *testing.T) {
	setupJWTTest(t)

	refresh, err := GenerateRefreshToken(7, "student", "student@example.com")
	require.NoError(t, err)

	_, err = ParseToken(refresh, TokenAccess)
	assert.Error(t, err)

	_, err = ParseToken(refresh, TokenRefresh)
	assert.NoError(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	setupJWTTest(t)

	_, err := ParseToken("not.a.token", TokenAccess)
	assert.Error(t, err)
}

func TestPurposeTokenType(t *testing.T) {
	setupJWTTest(t)

	token, err := GeneratePurposeToken(3, TokenEmailVerify)
	require.NoError(t, err)

	_, err = ParseToken(token, TokenEmailVerify)
	assert.NoError(t, err)

	_, err = ParseToken(token, TokenPasswordReset)
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	setupJWTTest(t)

	token, err := GenerateAccessToken(9, "student", "revoke@example.com")
	require.NoError(t, err)

	claims, err := ParseToken(token, TokenAccess)
	require.NoError(t, err)

	assert.False(t, IsTokenRevoked(claims))
	require.NoError(t, RevokeToken(claims))
	assert.True(t, IsTokenRevoked(claims))
}
