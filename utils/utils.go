package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"
)

// Slugify converts a title to a URL-safe slug
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true // trim leading dashes
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// GenerateCode generates a random uppercase alphanumeric code of the given
// length, used for course codes and coupon codes.
func GenerateCode(length int) string {
	const charset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	code := make([]byte, length)
	for i := range code {
		code[i] = charset[rng.Intn(len(charset))]
	}
	return string(code)
}

// ClampPercent bounds a percentage to [0, 100]
func ClampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Percent computes part/total as a percentage, clamped to [0, 100]
func Percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return ClampPercent(float64(part) / float64(total) * 100)
}

// CertificateNumber builds a printable certificate number
func CertificateNumber(courseCode string, enrollmentID uint) string {
	return fmt.Sprintf("LH-%s-%06d", courseCode, enrollmentID)
}
