package utils

import (
	"testing"

	"learnhub/config"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "go-for-beginners", Slugify("Go for Beginners"))
	assert.Equal(t, "advanced-sql-2024", Slugify("  Advanced SQL: 2024!  "))
	assert.Equal(t, "a-b-c", Slugify("a---b___c"))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestGenerateCode(t *testing.T) {
	code := GenerateCode(8)
	assert.Len(t, code, 8)
	// Ambiguous characters are excluded from the charset
	assert.NotContains(t, code, "0")
	assert.NotContains(t, code, "O")
	assert.NotContains(t, code, "1")
	assert.NotContains(t, code, "I")
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, Percent(5, 0))
	assert.Equal(t, 50.0, Percent(1, 2))
	assert.Equal(t, 100.0, Percent(3, 3))
	assert.Equal(t, 100.0, Percent(5, 3)) // clamped
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0.0, ClampPercent(-4))
	assert.Equal(t, 42.5, ClampPercent(42.5))
	assert.Equal(t, 100.0, ClampPercent(120))
}

func TestCertificateNumber(t *testing.T) {
	assert.Equal(t, "LH-ABCD1234-000042", CertificateNumber("ABCD1234", 42))
}

func TestVerifyPaymentSignature(t *testing.T) {
	config.AppConfig = &config.Config{GatewayKeySecret: "test-secret"}

	// HMAC-SHA256("order_1|pay_1", "test-secret")
	valid := "ba2a3986f33d5a6e148e445a747b407633361cc2fbc1d2faadd70ca5e101984e"
	assert.True(t, VerifyPaymentSignature("order_1", "pay_1", valid))
	assert.False(t, VerifyPaymentSignature("order_1", "pay_1", "deadbeef"))
	assert.False(t, VerifyPaymentSignature("order_2", "pay_1", valid))
}
