package middleware

import (
	"fmt"
	"strings"
	"time"

	"learnhub/config"
	"learnhub/database"
	"learnhub/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Token types carried in the "type" claim
const (
	TokenAccess        = "access"
	TokenRefresh       = "refresh"
	TokenEmailVerify   = "email_verification"
	TokenPasswordReset = "password_reset"
)

// GenerateAccessToken generates a short-lived access JWT for the user
func GenerateAccessToken(userID uint, role, email string) (string, error) {
	ttl := time.Duration(config.AppConfig.AccessTokenTTLMin) * time.Minute
	return signToken(userID, role, email, TokenAccess, ttl)
}

// GenerateRefreshToken generates a long-lived refresh JWT for the user
func GenerateRefreshToken(userID uint, role, email string) (string, error) {
	ttl := time.Duration(config.AppConfig.RefreshTokenTTLHrs) * time.Hour
	return signToken(userID, role, email, TokenRefresh, ttl)
}

// GeneratePurposeToken generates a short-lived token for email verification
// or password reset links. Expires in 10 minutes.
func GeneratePurposeToken(userID uint, purpose string) (string, error) {
	return signToken(userID, "", "", purpose, 10*time.Minute)
}

func signToken(userID uint, role, email, tokenType string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"type":   tokenType,
		"jti":    uuid.NewString(),
		"iat":    time.Now().Unix(),
		"exp":    time.Now().Add(ttl).Unix(),
	}
	if role != "" {
		claims["role"] = role
	}
	if email != "" {
		claims["email"] = email
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTKey))
}

// ParseToken validates a JWT and enforces the expected "type" claim
func ParseToken(tokenString, expectedType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["userId"] == nil {
		return nil, fmt.Errorf("invalid token payload")
	}
	if typ, _ := claims["type"].(string); typ != expectedType {
		return nil, fmt.Errorf("unexpected token type")
	}
	return claims, nil
}

// IsTokenRevoked checks the logout blacklist for the token's JTI
func IsTokenRevoked(claims jwt.MapClaims) bool {
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return false
	}
	var revoked models.RevokedToken
	err := database.Database.Db.Where("jti = ?", jti).First(&revoked).Error
	return err == nil
}

// RevokeToken blacklists a token by JTI until its expiry
func RevokeToken(claims jwt.MapClaims) error {
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return fmt.Errorf("token has no jti")
	}
	userID, _ := claims["userId"].(float64)
	tokenType, _ := claims["type"].(string)
	exp, _ := claims["exp"].(float64)

	return database.Database.Db.Create(&models.RevokedToken{
		JTI:       jti,
		UserID:    uint(userID),
		TokenType: tokenType,
		ExpiresAt: time.Unix(int64(exp), 0),
	}).Error
}

// JWTMiddleware checks for a valid access token in the request
func JWTMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ErrorResponse(c, fiber.StatusUnauthorized, CodeUnauthorized, "Missing or invalid Authorization header")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ErrorResponse(c, fiber.StatusUnauthorized, CodeUnauthorized, "Invalid Authorization header format")
	}

	tokenString := authHeader[len("Bearer "):]

	claims, err := ParseToken(tokenString, TokenAccess)
	if err != nil {
		return ErrorResponse(c, fiber.StatusUnauthorized, CodeUnauthorized, "Invalid or expired token")
	}

	if IsTokenRevoked(claims) {
		return ErrorResponse(c, fiber.StatusUnauthorized, CodeUnauthorized, "Token has been revoked")
	}

	// JWT number claims decode as float64
	userID := claims["userId"].(float64)
	c.Locals("userId", uint(userID))
	if role, ok := claims["role"].(string); ok {
		c.Locals("role", role)
	}
	if email, ok := claims["email"].(string); ok {
		c.Locals("email", email)
	}
	c.Locals("claims", claims)

	return c.Next()
}
