package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidChallengeToken = errors.New("invalid challenge token")

type challengeClaims struct {
	ChallengeID string `json:"cid"`
	Flow        string `json:"flow"`
	jwt.RegisteredClaims
}

// SignChallengeToken binds an OTP challenge id and flow to the browser that
// holds the returned token.
func SignChallengeToken(secret string, challengeID uuid.UUID, flow string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &challengeClaims{
		ChallengeID: challengeID.String(),
		Flow:        flow,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseChallengeToken validates the token signature and expiry and returns the
// embedded challenge id and flow.
func ParseChallengeToken(secret, tokenString string) (uuid.UUID, string, error) {
	claims := &challengeClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return uuid.Nil, "", ErrInvalidChallengeToken
	}

	id, err := uuid.Parse(claims.ChallengeID)
	if err != nil {
		return uuid.Nil, "", ErrInvalidChallengeToken
	}

	return id, claims.Flow, nil
}
