package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallengeTokenRoundTrip(t *testing.T) {
	id := uuid.New()

	token, err := SignChallengeToken("secret", id, "login", time.Minute)
	require.NoError(t, err)

	gotID, flow, err := ParseChallengeToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, "login", flow)
}

func TestChallengeTokenRejectsWrongSecret(t *testing.T) {
	token, err := SignChallengeToken("secret", uuid.New(), "login", time.Minute)
	require.NoError(t, err)

	_, _, err = ParseChallengeToken("other", token)
	assert.ErrorIs(t, err, ErrInvalidChallengeToken)
}

func TestChallengeTokenRejectsExpired(t *testing.T) {
	token, err := SignChallengeToken("secret", uuid.New(), "password_reset", -time.Minute)
	require.NoError(t, err)

	_, _, err = ParseChallengeToken("secret", token)
	assert.ErrorIs(t, err, ErrInvalidChallengeToken)
}

func TestGenerateOTP(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}$`)
	for range 50 {
		code, err := GenerateOTP(6)
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}

	code, err := GenerateOTP(0)
	require.NoError(t, err)
	assert.Len(t, code, 6, "non-positive length falls back to 6")
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("Zx9#Lm2@")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("Zx9#Lm2@", hash))
	assert.False(t, CheckPasswordHash("Zx9#Lm2!", hash))
}
