package entity

import (
	"time"

	"github.com/google/uuid"
)

type OTPFlow string

const (
	OTPFlowLogin         OTPFlow = "login"
	OTPFlowPasswordReset OTPFlow = "password_reset"
)

func (f OTPFlow) Valid() bool {
	return f == OTPFlowLogin || f == OTPFlowPasswordReset
}

// OTPChallenge is the short-lived server-side record behind one OTP prompt.
// It lives in the cache, not in Postgres.
type OTPChallenge struct {
	ID        uuid.UUID `json:"id"`
	Flow      OTPFlow   `json:"flow"`
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Verified  bool      `json:"verified"`
	Next      string    `json:"next,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *OTPChallenge) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
