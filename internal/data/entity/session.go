package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is an authenticated browser. The token is stored in the session cookie.
type Session struct {
	BaseSimple
	UserID    int64      `db:"user_id"`
	Token     uuid.UUID  `db:"token"`
	UserAgent *string    `db:"user_agent"`
	IPAddress *string    `db:"ip_address"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}
