package response

import "time"

// ChallengeResponse carries the signed token that binds an OTP challenge to
// the browser. It is stored in the challenge cookie.
type ChallengeResponse struct {
	Token     string
	ExpiresAt time.Time
}

type LoginResponse struct {
	SessionToken string
	ExpiresAt    time.Time
	Next         string
}
