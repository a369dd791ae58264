package utils

import (
	"fmt"
	"math"
	rndm "math/rand"
	"net/http"
	"time"

	"github.com/Prabhu6626/Glonix-Website/globals"
	"github.com/google/uuid"
)

func GetUUID() string {
	return uuid.New().String()
}

var digitRunes = []rune("0123456789")

// GenerateRandomDigitString creates a random numeric string of length n.
func GenerateRandomDigitString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = digitRunes[rndm.Intn(len(digitRunes))]
	}
	return string(b)
}

// NewOrderNumber returns a human-facing order reference like ORD-20260831-493027.
func NewOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), GenerateRandomDigitString(6))
}

// MinorUnits converts a major-unit price (e.g. 25.99) to integer minor units
// (2599). Rounded, not truncated, so 0.1+0.2 style float noise cannot shave a
// cent off.
func MinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

// MajorUnits renders minor units back to a display value.
func MajorUnits(minor int64) float64 {
	return float64(minor) / 100
}

// GetUserIDFromRequest returns the authenticated user ID placed in the
// request context by the middleware, or "" when the request is anonymous.
func GetUserIDFromRequest(r *http.Request) string {
	requestingUserID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

// GetRoleFromRequest returns the authenticated role, or "".
func GetRoleFromRequest(r *http.Request) string {
	role, ok := r.Context().Value(globals.RoleKey).(string)
	if !ok {
		return ""
	}
	return role
}
