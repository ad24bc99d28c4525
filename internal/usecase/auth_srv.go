package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"finance-tracker/internal/data/entity"
	"finance-tracker/internal/data/repository"
	"finance-tracker/internal/dto/request"
	"finance-tracker/internal/dto/response"
	"finance-tracker/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*entity.User, error)
	Login(ctx context.Context, req *request.LoginRequest, next string) (*response.ChallengeResponse, error)
	VerifyLogin(ctx context.Context, challengeToken, code string, client ClientInfo) (*response.LoginResponse, error)
	ResendOTP(ctx context.Context, challengeToken string, flow entity.OTPFlow) error
	ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) (*response.ChallengeResponse, error)
	VerifyResetOTP(ctx context.Context, challengeToken, code string) error
	CheckResetAllowed(ctx context.Context, challengeToken string) error
	ResetPassword(ctx context.Context, challengeToken string, req *request.ResetPasswordRequest) error
	Logout(ctx context.Context, sessionToken string) error
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// ClientInfo describes the browser an auth session is created for.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

type authService struct {
	repo   *repository.Repository
	otp    OTPService
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	otp OTPService,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		otp:    otp,
		config: config,
		log:    log.With(zap.String("service", "auth")),
		now:    time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register checks the form in a fixed order and returns the first failing
// reason as a *ValidationError.
func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*entity.User, error) {
	req.Email = normalizeEmail(req.Email)

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, invalid(utils.FirstValidationError(errs, "Email"))
	}

	if req.Password != req.ConfirmPassword {
		return nil, invalid("Passwords do not match.")
	}

	for _, name := range []string{req.FirstName, req.LastName} {
		if ok, reason := utils.IsValidName(name); !ok {
			s.log.Info("Name rejected", zap.String("reason", reason))
			return nil, invalid(reason)
		}
		if utf8.RuneCountInString(name) > utils.MaxNameLength {
			return nil, invalid(fmt.Sprintf("Name must be at most %d characters.", utils.MaxNameLength))
		}
	}

	if ok, reason := utils.IsStrongPassword(req.Password); !ok {
		s.log.Info("Password rejected", zap.String("reason", reason))
		return nil, invalid(reason)
	}

	existingUser, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hashedPassword,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("User registered",
		zap.Int64("user_id", user.UserID),
		zap.String("email", user.Email))

	return user, nil
}

// Login checks the password and starts a login OTP challenge. On a mail
// failure the challenge is still returned alongside an ErrOTPDelivery error.
func (s *authService) Login(ctx context.Context, req *request.LoginRequest, next string) (*response.ChallengeResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		s.log.Warn("Login for unknown email", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.Int64("user_id", user.UserID))
		return nil, ErrInvalidCredentials
	}

	challenge, err := s.otp.Issue(ctx, entity.OTPFlowLogin, user, utils.SafeRedirect(next))
	if challenge == nil {
		return nil, err
	}

	resp, tokenErr := s.challengeResponse(challenge)
	if tokenErr != nil {
		return nil, tokenErr
	}
	return resp, err
}

// VerifyLogin completes the login flow: it checks the code, marks the user
// verified and opens an auth session.
func (s *authService) VerifyLogin(ctx context.Context, challengeToken, code string, client ClientInfo) (*response.LoginResponse, error) {
	id, err := s.challengeID(challengeToken, entity.OTPFlowLogin)
	if err != nil {
		return nil, err
	}

	challenge, err := s.otp.Verify(ctx, id, entity.OTPFlowLogin, code)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByID(ctx, challenge.UserID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, ErrNoChallenge
	}

	if !user.IsVerified {
		if err := s.repo.User.MarkVerified(ctx, user.UserID); err != nil {
			return nil, fmt.Errorf("mark verified: %w", err)
		}
	}

	session, err := s.createSession(ctx, user.UserID, client)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.Info("User logged in",
		zap.Int64("user_id", user.UserID),
		zap.String("email", user.Email))

	return &response.LoginResponse{
		SessionToken: session.Token.String(),
		ExpiresAt:    session.ExpiresAt,
		Next:         utils.SafeRedirect(challenge.Next),
	}, nil
}

func (s *authService) ResendOTP(ctx context.Context, challengeToken string, flow entity.OTPFlow) error {
	id, err := s.challengeID(challengeToken, flow)
	if err != nil {
		return err
	}
	_, err = s.otp.Resend(ctx, id, flow)
	return err
}

// ForgotPassword starts a reset challenge. An unknown email returns nil, nil
// so callers show the same message either way.
func (s *authService) ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) (*response.ChallengeResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, nil
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		s.log.Info("Password reset for unknown email", zap.String("email", req.Email))
		return nil, nil
	}

	challenge, err := s.otp.Issue(ctx, entity.OTPFlowPasswordReset, user, "")
	if challenge == nil {
		return nil, err
	}

	resp, tokenErr := s.challengeResponse(challenge)
	if tokenErr != nil {
		return nil, tokenErr
	}
	return resp, err
}

func (s *authService) VerifyResetOTP(ctx context.Context, challengeToken, code string) error {
	id, err := s.challengeID(challengeToken, entity.OTPFlowPasswordReset)
	if err != nil {
		return err
	}
	_, err = s.otp.Verify(ctx, id, entity.OTPFlowPasswordReset, code)
	return err
}

func (s *authService) CheckResetAllowed(ctx context.Context, challengeToken string) error {
	id, err := s.challengeID(challengeToken, entity.OTPFlowPasswordReset)
	if err != nil {
		return err
	}
	_, err = s.otp.ConsumeVerifiedReset(ctx, id)
	return err
}

// ResetPassword sets a new password for the user behind a verified reset
// challenge and signs that user out everywhere.
func (s *authService) ResetPassword(ctx context.Context, challengeToken string, req *request.ResetPasswordRequest) error {
	id, err := s.challengeID(challengeToken, entity.OTPFlowPasswordReset)
	if err != nil {
		return err
	}

	challenge, err := s.otp.ConsumeVerifiedReset(ctx, id)
	if err != nil {
		return err
	}

	if req.Password != req.ConfirmPassword {
		return invalid("Passwords do not match.")
	}
	if ok, reason := utils.IsStrongPassword(req.Password); !ok {
		return invalid(reason)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.User.UpdatePassword(ctx, challenge.UserID, hashedPassword); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.repo.Session.RevokeAllUserSessions(ctx, challenge.UserID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	if err := s.otp.Clear(ctx, id); err != nil {
		s.log.Warn("Failed to clear reset challenge", zap.Error(err))
	}

	s.log.Info("Password reset", zap.Int64("user_id", challenge.UserID))
	return nil
}

func (s *authService) Logout(ctx context.Context, sessionToken string) error {
	tokenUUID, err := uuid.Parse(sessionToken)
	if err != nil {
		s.log.Warn("Invalid token format", zap.Error(err))
		return nil
	}

	if err := s.repo.Session.Revoke(ctx, tokenUUID.String()); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.log.Info("User logged out")
	return nil
}

func (s *authService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.repo.Session.CleanExpiredSessions(ctx)
}

// ==================== HELPER METHODS ====================

func (s *authService) createSession(ctx context.Context, userID int64, client ClientInfo) (*entity.Session, error) {
	now := s.now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    userID,
		Token:     utils.GenerateSessionToken(),
		ExpiresAt: now.Add(s.config.Session.Lifetime),
	}
	if client.UserAgent != "" {
		session.UserAgent = &client.UserAgent
	}
	if client.IPAddress != "" {
		session.IPAddress = &client.IPAddress
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *authService) challengeResponse(challenge *entity.OTPChallenge) (*response.ChallengeResponse, error) {
	token, err := utils.SignChallengeToken(s.config.App.SecretKey, challenge.ID, string(challenge.Flow), challengeCookieTTL)
	if err != nil {
		return nil, fmt.Errorf("sign challenge token: %w", err)
	}
	return &response.ChallengeResponse{
		Token:     token,
		ExpiresAt: s.now().Add(challengeCookieTTL),
	}, nil
}

func (s *authService) challengeID(token string, flow entity.OTPFlow) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrNoChallenge
	}
	id, tokenFlow, err := utils.ParseChallengeToken(s.config.App.SecretKey, token)
	if err != nil || entity.OTPFlow(tokenFlow) != flow {
		return uuid.Nil, ErrNoChallenge
	}
	return id, nil
}
