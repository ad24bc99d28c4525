package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"finance-tracker/internal/data/entity"
	"finance-tracker/internal/data/repository"
	"finance-tracker/internal/dto/request"
	"finance-tracker/pkg/utils"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const strongPassword = "Zx9#Lm2@"

type AuthServiceSuite struct {
	suite.Suite
	ctx      context.Context
	repo     *repository.Repository
	fakes    *fakes
	notifier *fakeNotifier
	clock    time.Time
	otp      *otpService
	auth     *authService
}

func (s *AuthServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo, s.fakes = newFakeRepository()
	s.notifier = &fakeNotifier{}
	s.clock = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	config := &utils.Config{
		App:     utils.AppConfig{SecretKey: "test-secret"},
		OTP:     utils.OTPConfig{LoginExpiryMinutes: 5, ResetExpiryMinutes: 10, Length: 6},
		Session: utils.SessionConfig{Lifetime: 24 * time.Hour},
	}

	now := func() time.Time { return s.clock }
	s.otp = NewOTPService(s.repo.OTP, s.notifier, config.OTP, zap.NewNop()).(*otpService)
	s.otp.now = now
	s.auth = NewAuthService(s.repo, s.otp, config, zap.NewNop()).(*authService)
	s.auth.now = now
}

func (s *AuthServiceSuite) register(email string) *entity.User {
	user, err := s.auth.Register(s.ctx, &request.RegisterRequest{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           email,
		Password:        strongPassword,
		ConfirmPassword: strongPassword,
	})
	s.Require().NoError(err)
	return user
}

func (s *AuthServiceSuite) login(email, next string) string {
	resp, err := s.auth.Login(s.ctx, &request.LoginRequest{Email: email, Password: strongPassword}, next)
	s.Require().NoError(err)
	s.Require().NotEmpty(resp.Token)
	return resp.Token
}

func (s *AuthServiceSuite) reason(err error) string {
	var ve *ValidationError
	s.Require().True(errors.As(err, &ve), "expected ValidationError, got %v", err)
	return ve.Reason
}

func (s *AuthServiceSuite) TestRegisterNormalizesEmail() {
	user := s.register("  Ada@Example.COM ")
	s.Equal("ada@example.com", user.Email)
	s.False(user.IsVerified)
	s.NotEqual(strongPassword, user.PasswordHash)
}

func (s *AuthServiceSuite) TestRegisterRejectsDuplicateEmail() {
	s.register("ada@example.com")

	_, err := s.auth.Register(s.ctx, &request.RegisterRequest{
		FirstName:       "Grace",
		LastName:        "Hopper",
		Email:           "ADA@example.com",
		Password:        strongPassword,
		ConfirmPassword: strongPassword,
	})
	s.ErrorIs(err, ErrEmailTaken)

	ids, _ := s.fakes.users.ListIDs(s.ctx)
	s.Len(ids, 1)
}

func (s *AuthServiceSuite) TestRegisterReasons() {
	base := request.RegisterRequest{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		Password:        strongPassword,
		ConfirmPassword: strongPassword,
	}

	tests := []struct {
		name   string
		mutate func(r *request.RegisterRequest)
		want   string
	}{
		{"mismatch", func(r *request.RegisterRequest) { r.ConfirmPassword = "other" }, "Passwords do not match."},
		{"lowercase first name", func(r *request.RegisterRequest) { r.FirstName = "ada" }, "Name must start with a capital letter."},
		{"hyphenated last name", func(r *request.RegisterRequest) { r.LastName = "Love-Lace" }, "Name must contain only alphabetic characters (no spaces, hyphens, or apostrophes)."},
		{"empty last name", func(r *request.RegisterRequest) { r.LastName = "" }, "Name is required."},
		{"first name longer than column", func(r *request.RegisterRequest) {
			r.FirstName = "A" + strings.Repeat("d", 50)
		}, "Name must be at most 50 characters."},
		{"sequential password", func(r *request.RegisterRequest) {
			r.Password, r.ConfirmPassword = "Abcdef1!", "Abcdef1!"
		}, "Password must not contain 3-character sequential runs (e.g. abc or 123)."},
		{"bad email", func(r *request.RegisterRequest) { r.Email = "not-an-email" }, "Email: Invalid email format"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := base
			tt.mutate(&req)
			_, err := s.auth.Register(s.ctx, &req)
			s.Equal(tt.want, s.reason(err))
		})
	}
}

func (s *AuthServiceSuite) TestLoginInvalidCredentials() {
	s.register("ada@example.com")

	_, err := s.auth.Login(s.ctx, &request.LoginRequest{Email: "ada@example.com", Password: "wrong"}, "")
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.auth.Login(s.ctx, &request.LoginRequest{Email: "nobody@example.com", Password: strongPassword}, "")
	s.ErrorIs(err, ErrInvalidCredentials)

	s.Empty(s.notifier.sent)
}

func (s *AuthServiceSuite) TestLoginSendsCode() {
	s.register("ada@example.com")
	s.login(" ADA@example.com", "/dashboard")

	sent := s.notifier.last()
	s.Equal("ada@example.com", sent.to)
	s.Regexp(`^\d{6}$`, sent.code)
	s.Equal(5*time.Minute, sent.validFor)
}

func (s *AuthServiceSuite) TestVerifyLoginSuccess() {
	user := s.register("ada@example.com")
	token := s.login("ada@example.com", "/dashboard?start_date=2024-01-01")

	resp, err := s.auth.VerifyLogin(s.ctx, token, s.notifier.last().code, ClientInfo{UserAgent: "test", IPAddress: "127.0.0.1"})
	s.Require().NoError(err)
	s.Equal("/dashboard?start_date=2024-01-01", resp.Next)
	s.Equal(s.clock.Add(24*time.Hour), resp.ExpiresAt)

	session, err := s.fakes.sessions.FindValidSession(s.ctx, resp.SessionToken)
	s.Require().NoError(err)
	s.Require().NotNil(session)
	s.Equal(user.UserID, session.UserID)

	stored, _ := s.fakes.users.FindByID(s.ctx, user.UserID)
	s.True(stored.IsVerified)
	s.Equal(1, s.fakes.users.markVerified)

	_, err = s.auth.VerifyLogin(s.ctx, token, s.notifier.last().code, ClientInfo{})
	s.ErrorIs(err, ErrNoChallenge, "challenge is single use")
}

func (s *AuthServiceSuite) TestVerifyLoginMarksVerifiedOnce() {
	s.register("ada@example.com")

	for range 2 {
		token := s.login("ada@example.com", "")
		_, err := s.auth.VerifyLogin(s.ctx, token, s.notifier.last().code, ClientInfo{})
		s.Require().NoError(err)
	}

	s.Equal(1, s.fakes.users.markVerified)
}

func (s *AuthServiceSuite) TestVerifyLoginWrongCodeKeepsChallenge() {
	s.register("ada@example.com")
	token := s.login("ada@example.com", "")
	code := s.notifier.last().code

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	_, err := s.auth.VerifyLogin(s.ctx, token, wrong, ClientInfo{})
	s.ErrorIs(err, ErrInvalidOTP)

	_, err = s.auth.VerifyLogin(s.ctx, token, "", ClientInfo{})
	s.ErrorIs(err, ErrInvalidOTP)

	_, err = s.auth.VerifyLogin(s.ctx, token, " "+code+" ", ClientInfo{})
	s.NoError(err)
}

func (s *AuthServiceSuite) TestVerifyLoginExpired() {
	s.register("ada@example.com")
	token := s.login("ada@example.com", "")
	code := s.notifier.last().code

	s.clock = s.clock.Add(5*time.Minute + time.Second)

	_, err := s.auth.VerifyLogin(s.ctx, token, code, ClientInfo{})
	s.ErrorIs(err, ErrOTPExpired)

	_, err = s.auth.VerifyLogin(s.ctx, token, code, ClientInfo{})
	s.ErrorIs(err, ErrNoChallenge, "expired challenge is removed")
}

func (s *AuthServiceSuite) TestResendReplacesCode() {
	s.register("ada@example.com")
	token := s.login("ada@example.com", "/dashboard")
	first := s.notifier.last().code

	s.clock = s.clock.Add(4 * time.Minute)
	s.Require().NoError(s.auth.ResendOTP(s.ctx, token, entity.OTPFlowLogin))
	second := s.notifier.last().code
	s.Len(s.notifier.sent, 2)

	if first != second {
		_, err := s.auth.VerifyLogin(s.ctx, token, first, ClientInfo{})
		s.ErrorIs(err, ErrInvalidOTP)
	}

	// the resend restarts the validity window
	s.clock = s.clock.Add(4 * time.Minute)
	resp, err := s.auth.VerifyLogin(s.ctx, token, second, ClientInfo{})
	s.Require().NoError(err)
	s.Equal("/dashboard", resp.Next)
}

func (s *AuthServiceSuite) TestLoginDeliveryFailureKeepsChallenge() {
	s.register("ada@example.com")
	s.notifier.fail = errors.New("smtp down")

	resp, err := s.auth.Login(s.ctx, &request.LoginRequest{Email: "ada@example.com", Password: strongPassword}, "")
	s.ErrorIs(err, ErrOTPDelivery)
	s.Require().NotNil(resp)

	s.notifier.fail = nil
	s.Require().NoError(s.auth.ResendOTP(s.ctx, resp.Token, entity.OTPFlowLogin))

	_, err = s.auth.VerifyLogin(s.ctx, resp.Token, s.notifier.last().code, ClientInfo{})
	s.NoError(err)
}

func (s *AuthServiceSuite) TestUnsafeNextIsDropped() {
	s.register("ada@example.com")
	token := s.login("ada@example.com", "//evil.example/phish")

	resp, err := s.auth.VerifyLogin(s.ctx, token, s.notifier.last().code, ClientInfo{})
	s.Require().NoError(err)
	s.Empty(resp.Next)
}

func (s *AuthServiceSuite) TestChallengeTokenBoundToFlow() {
	s.register("ada@example.com")
	loginToken := s.login("ada@example.com", "")

	err := s.auth.VerifyResetOTP(s.ctx, loginToken, s.notifier.last().code)
	s.ErrorIs(err, ErrNoChallenge)

	_, err = s.auth.VerifyLogin(s.ctx, "garbage", "123456", ClientInfo{})
	s.ErrorIs(err, ErrNoChallenge)

	_, err = s.auth.VerifyLogin(s.ctx, "", "123456", ClientInfo{})
	s.ErrorIs(err, ErrNoChallenge)
}

func (s *AuthServiceSuite) TestForgotPasswordUnknownEmail() {
	resp, err := s.auth.ForgotPassword(s.ctx, &request.ForgotPasswordRequest{Email: "ghost@example.com"})
	s.NoError(err)
	s.Nil(resp)
	s.Empty(s.notifier.sent)
}

func (s *AuthServiceSuite) TestPasswordResetFlow() {
	user := s.register("ada@example.com")

	// an existing session is revoked by the reset
	loginToken := s.login("ada@example.com", "")
	loginResp, err := s.auth.VerifyLogin(s.ctx, loginToken, s.notifier.last().code, ClientInfo{})
	s.Require().NoError(err)

	resp, err := s.auth.ForgotPassword(s.ctx, &request.ForgotPasswordRequest{Email: "Ada@example.com"})
	s.Require().NoError(err)
	s.Require().NotNil(resp)
	s.Equal(10*time.Minute, s.notifier.last().validFor)

	newPassword := "Qw7!Rt4$"
	resetReq := &request.ResetPasswordRequest{Password: newPassword, ConfirmPassword: newPassword}

	s.ErrorIs(s.auth.CheckResetAllowed(s.ctx, resp.Token), ErrNoChallenge, "code not verified yet")
	s.ErrorIs(s.auth.ResetPassword(s.ctx, resp.Token, resetReq), ErrNoChallenge)

	s.Require().NoError(s.auth.VerifyResetOTP(s.ctx, resp.Token, s.notifier.last().code))
	s.NoError(s.auth.CheckResetAllowed(s.ctx, resp.Token))

	err = s.auth.ResetPassword(s.ctx, resp.Token, &request.ResetPasswordRequest{Password: newPassword, ConfirmPassword: "x"})
	s.Equal("Passwords do not match.", s.reason(err))

	err = s.auth.ResetPassword(s.ctx, resp.Token, &request.ResetPasswordRequest{Password: "short", ConfirmPassword: "short"})
	s.Equal("Password must be at least 8 characters long.", s.reason(err))

	s.Require().NoError(s.auth.ResetPassword(s.ctx, resp.Token, resetReq))

	stored, _ := s.fakes.users.FindByID(s.ctx, user.UserID)
	s.True(utils.CheckPasswordHash(newPassword, stored.PasswordHash))

	session, _ := s.fakes.sessions.FindValidSession(s.ctx, loginResp.SessionToken)
	s.Nil(session, "sessions revoked after reset")

	s.ErrorIs(s.auth.CheckResetAllowed(s.ctx, resp.Token), ErrNoChallenge, "challenge cleared")
}

func (s *AuthServiceSuite) TestResetOTPExpired() {
	s.register("ada@example.com")
	resp, err := s.auth.ForgotPassword(s.ctx, &request.ForgotPasswordRequest{Email: "ada@example.com"})
	s.Require().NoError(err)

	s.clock = s.clock.Add(11 * time.Minute)
	s.ErrorIs(s.auth.VerifyResetOTP(s.ctx, resp.Token, s.notifier.last().code), ErrOTPExpired)
}

func (s *AuthServiceSuite) TestLogout() {
	s.register("ada@example.com")
	token := s.login("ada@example.com", "")
	resp, err := s.auth.VerifyLogin(s.ctx, token, s.notifier.last().code, ClientInfo{})
	s.Require().NoError(err)

	s.Require().NoError(s.auth.Logout(s.ctx, resp.SessionToken))
	session, _ := s.fakes.sessions.FindValidSession(s.ctx, resp.SessionToken)
	s.Nil(session)

	s.NoError(s.auth.Logout(s.ctx, "not-a-uuid"))
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func TestValidationErrorMessage(t *testing.T) {
	err := invalid("Name is required.")
	require.EqualError(t, err, "Name is required.")
}
