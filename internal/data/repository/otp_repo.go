package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finance-tracker/internal/data/entity"
	"finance-tracker/pkg/cache"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OTPRepository keeps OTP challenges in the cache keyed by challenge id.
type OTPRepository interface {
	Save(ctx context.Context, challenge *entity.OTPChallenge, ttl time.Duration) error
	Find(ctx context.Context, id uuid.UUID) (*entity.OTPChallenge, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type otpRepository struct {
	cache cache.Cache
	log   *zap.Logger
}

func NewOTPRepository(c cache.Cache, log *zap.Logger) OTPRepository {
	return &otpRepository{
		cache: c,
		log:   log.With(zap.String("repository", "otp")),
	}
}

func otpKey(id uuid.UUID) string {
	return "otp:challenge:" + id.String()
}

func (r *otpRepository) Save(ctx context.Context, challenge *entity.OTPChallenge, ttl time.Duration) error {
	if err := r.cache.SetJSON(ctx, otpKey(challenge.ID), challenge, ttl); err != nil {
		r.log.Error("Failed to save OTP challenge",
			zap.Error(err),
			zap.String("challenge_id", challenge.ID.String()),
			zap.String("flow", string(challenge.Flow)),
		)
		return fmt.Errorf("save OTP challenge %s: %w", challenge.ID, err)
	}
	return nil
}

// Find returns nil, nil when no challenge is stored under id.
func (r *otpRepository) Find(ctx context.Context, id uuid.UUID) (*entity.OTPChallenge, error) {
	var challenge entity.OTPChallenge
	err := r.cache.GetJSON(ctx, otpKey(id), &challenge)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to load OTP challenge",
			zap.Error(err),
			zap.String("challenge_id", id.String()),
		)
		return nil, fmt.Errorf("load OTP challenge %s: %w", id, err)
	}
	return &challenge, nil
}

func (r *otpRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.cache.Delete(ctx, otpKey(id)); err != nil {
		r.log.Error("Failed to delete OTP challenge",
			zap.Error(err),
			zap.String("challenge_id", id.String()),
		)
		return fmt.Errorf("delete OTP challenge %s: %w", id, err)
	}
	return nil
}
