package usecase

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"finance-tracker/internal/data/entity"
	"finance-tracker/internal/data/repository"
	"finance-tracker/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// challenges outlive their code so an expired code is reported as such
	challengeGrace = 15 * time.Minute
	// lifetime of the signed cookie that binds a challenge to a browser
	challengeCookieTTL = time.Hour
)

// OTPNotifier delivers a code to an email address.
type OTPNotifier interface {
	SendOTP(ctx context.Context, to, code, purpose string, validFor time.Duration) error
}

type OTPService interface {
	Issue(ctx context.Context, flow entity.OTPFlow, user *entity.User, next string) (*entity.OTPChallenge, error)
	Resend(ctx context.Context, id uuid.UUID, flow entity.OTPFlow) (*entity.OTPChallenge, error)
	Verify(ctx context.Context, id uuid.UUID, flow entity.OTPFlow, code string) (*entity.OTPChallenge, error)
	ConsumeVerifiedReset(ctx context.Context, id uuid.UUID) (*entity.OTPChallenge, error)
	Clear(ctx context.Context, id uuid.UUID) error
}

type otpService struct {
	repo     repository.OTPRepository
	notifier OTPNotifier
	config   utils.OTPConfig
	log      *zap.Logger
	now      func() time.Time
}

func NewOTPService(repo repository.OTPRepository, notifier OTPNotifier, config utils.OTPConfig, log *zap.Logger) OTPService {
	return &otpService{
		repo:     repo,
		notifier: notifier,
		config:   config,
		log:      log.With(zap.String("service", "otp")),
		now:      time.Now,
	}
}

func (s *otpService) validity(flow entity.OTPFlow) time.Duration {
	if flow == entity.OTPFlowPasswordReset {
		return time.Duration(s.config.ResetExpiryMinutes) * time.Minute
	}
	return time.Duration(s.config.LoginExpiryMinutes) * time.Minute
}

func purpose(flow entity.OTPFlow) string {
	if flow == entity.OTPFlowPasswordReset {
		return "Verify OTP to reset your password"
	}
	return "Verify OTP to Login"
}

// Issue creates and stores a fresh challenge, then emails its code. When
// delivery fails the stored challenge is still returned together with an
// error wrapping ErrOTPDelivery, so the caller can offer a resend.
func (s *otpService) Issue(ctx context.Context, flow entity.OTPFlow, user *entity.User, next string) (*entity.OTPChallenge, error) {
	code, err := utils.GenerateOTP(s.config.Length)
	if err != nil {
		return nil, err
	}

	now := s.now()
	challenge := &entity.OTPChallenge{
		ID:        uuid.New(),
		Flow:      flow,
		UserID:    user.UserID,
		Email:     user.Email,
		Code:      code,
		ExpiresAt: now.Add(s.validity(flow)),
		Next:      next,
		CreatedAt: now,
	}

	if err := s.repo.Save(ctx, challenge, s.validity(flow)+challengeGrace); err != nil {
		return nil, err
	}

	s.log.Info("OTP issued",
		zap.String("challenge_id", challenge.ID.String()),
		zap.String("flow", string(flow)),
		zap.Int64("user_id", user.UserID),
		zap.Time("expires_at", challenge.ExpiresAt),
	)

	return challenge, s.deliver(ctx, challenge)
}

// Resend replaces the code and expiry of an existing challenge and emails the new code.
func (s *otpService) Resend(ctx context.Context, id uuid.UUID, flow entity.OTPFlow) (*entity.OTPChallenge, error) {
	challenge, err := s.load(ctx, id, flow)
	if err != nil {
		return nil, err
	}

	code, err := utils.GenerateOTP(s.config.Length)
	if err != nil {
		return nil, err
	}

	challenge.Code = code
	challenge.ExpiresAt = s.now().Add(s.validity(flow))
	challenge.Verified = false

	if err := s.repo.Save(ctx, challenge, s.validity(flow)+challengeGrace); err != nil {
		return nil, err
	}

	s.log.Info("OTP resent",
		zap.String("challenge_id", id.String()),
		zap.String("flow", string(flow)),
	)

	return challenge, s.deliver(ctx, challenge)
}

// Verify checks code against the challenge. Expired challenges are removed
// regardless of the code. A login challenge is removed on success; a reset
// challenge is marked verified and kept for the password change.
func (s *otpService) Verify(ctx context.Context, id uuid.UUID, flow entity.OTPFlow, code string) (*entity.OTPChallenge, error) {
	challenge, err := s.load(ctx, id, flow)
	if err != nil {
		return nil, err
	}

	if challenge.IsExpired(s.now()) {
		if err := s.repo.Delete(ctx, id); err != nil {
			s.log.Warn("Failed to delete expired challenge", zap.Error(err))
		}
		s.log.Info("OTP expired", zap.String("challenge_id", id.String()))
		return nil, ErrOTPExpired
	}

	code = strings.TrimSpace(code)
	if code == "" || subtle.ConstantTimeCompare([]byte(code), []byte(challenge.Code)) != 1 {
		s.log.Warn("OTP mismatch",
			zap.String("challenge_id", id.String()),
			zap.String("flow", string(flow)),
		)
		return nil, ErrInvalidOTP
	}

	if flow == entity.OTPFlowLogin {
		if err := s.repo.Delete(ctx, id); err != nil {
			return nil, err
		}
		return challenge, nil
	}

	challenge.Verified = true
	if err := s.repo.Save(ctx, challenge, challengeGrace); err != nil {
		return nil, err
	}
	return challenge, nil
}

// ConsumeVerifiedReset returns the reset challenge only once its code has been
// verified. It does not remove it; call Clear after the password change.
func (s *otpService) ConsumeVerifiedReset(ctx context.Context, id uuid.UUID) (*entity.OTPChallenge, error) {
	challenge, err := s.load(ctx, id, entity.OTPFlowPasswordReset)
	if err != nil {
		return nil, err
	}
	if !challenge.Verified {
		return nil, ErrNoChallenge
	}
	return challenge, nil
}

func (s *otpService) Clear(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *otpService) load(ctx context.Context, id uuid.UUID, flow entity.OTPFlow) (*entity.OTPChallenge, error) {
	challenge, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if challenge == nil || challenge.Flow != flow {
		return nil, ErrNoChallenge
	}
	return challenge, nil
}

func (s *otpService) deliver(ctx context.Context, challenge *entity.OTPChallenge) error {
	err := s.notifier.SendOTP(ctx, challenge.Email, challenge.Code, purpose(challenge.Flow), s.validity(challenge.Flow))
	if err != nil {
		s.log.Error("Failed to deliver OTP",
			zap.Error(err),
			zap.String("challenge_id", challenge.ID.String()),
			zap.String("email", challenge.Email),
		)
		return fmt.Errorf("%w: %w", ErrOTPDelivery, err)
	}
	return nil
}
