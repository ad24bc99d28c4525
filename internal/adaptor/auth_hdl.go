package adaptor

import (
	"errors"
	"net/http"

	"finance-tracker/internal/data/entity"
	"finance-tracker/internal/dto/request"
	"finance-tracker/internal/usecase"
	"finance-tracker/pkg/utils"

	"go.uber.org/zap"
)

const (
	msgInvalidCredentials = "Invalid email or password"
	msgLoginExpired       = "OTP expired. Please log in again."
	msgResetExpired       = "OTP expired. Please try again."
	msgInvalidOTP         = "Invalid OTP. Please try again."
	msgOTPResent          = "A new OTP has been sent to your email."
	msgResetRequested     = "If this email is registered, an OTP has been sent."
	msgDeliveryFailed     = "We could not send the OTP email. Please use Resend OTP to try again."
	msgEmailTaken         = "An account with this email already exists."
	msgBadForm            = "Invalid form input."
	msgSomethingWrong     = "Something went wrong. Please try again."
)

type AuthHandler struct {
	service usecase.AuthService
	render  *Renderer
	cookies Cookies
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, render *Renderer, cookies Cookies, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		render:  render,
		cookies: cookies,
		log:     log.With(zap.String("handler", "auth")),
	}
}

func loggedIn(r *http.Request) bool {
	_, ok := utils.GetUserIDFromContext(r.Context())
	return ok
}

func clientInfo(r *http.Request) usecase.ClientInfo {
	return usecase.ClientInfo{
		UserAgent: r.UserAgent(),
		IPAddress: utils.ClientIP(r),
	}
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Home handles GET /
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "home.html", view{LoggedIn: loggedIn(r)})
}

// RegisterPage handles GET /register
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "register.html", view{})
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := decodeForm(r, &req); err != nil {
		h.render.Render(w, http.StatusBadRequest, "register.html", view{Error: msgBadForm})
		return
	}

	if _, err := h.service.Register(r.Context(), &req); err != nil {
		msg, status := h.errorMessage(err, "register")
		req.Password, req.ConfirmPassword = "", ""
		h.render.Render(w, status, "register.html", view{Error: msg, Form: &req})
		return
	}

	redirect(w, r, "/login")
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "login.html", view{Next: utils.SafeRedirect(r.URL.Query().Get("next"))})
}

// Login handles POST /login. The next query parameter travels with the
// challenge and is used after a successful verification.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	next := utils.SafeRedirect(r.URL.Query().Get("next"))

	var req request.LoginRequest
	if err := decodeForm(r, &req); err != nil {
		h.render.Render(w, http.StatusBadRequest, "login.html", view{Error: msgBadForm, Next: next})
		return
	}

	challenge, err := h.service.Login(r.Context(), &req, next)
	if challenge != nil {
		h.cookies.set(w, loginChallengeCookie, challenge.Token, challenge.ExpiresAt)
	}
	if err != nil {
		if challenge != nil && errors.Is(err, usecase.ErrOTPDelivery) {
			h.log.Warn("Login OTP not delivered", zap.Error(err))
			h.render.Render(w, http.StatusOK, "verify.html", view{Error: msgDeliveryFailed})
			return
		}
		msg, status := h.errorMessage(err, "login")
		h.render.Render(w, status, "login.html", view{
			Error: msg,
			Next:  next,
			Form:  &request.LoginRequest{Email: req.Email},
		})
		return
	}

	redirect(w, r, "/verify")
}

// VerifyPage handles GET /verify
func (h *AuthHandler) VerifyPage(w http.ResponseWriter, r *http.Request) {
	if readCookie(r, loginChallengeCookie) == "" {
		redirect(w, r, "/login")
		return
	}
	h.render.Render(w, http.StatusOK, "verify.html", view{})
}

// Verify handles POST /verify: either a resend or a code submission.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := readCookie(r, loginChallengeCookie)

	var req request.VerifyOTPRequest
	if err := decodeForm(r, &req); err != nil {
		h.render.Render(w, http.StatusBadRequest, "verify.html", view{Error: msgBadForm})
		return
	}

	if req.IsResend() {
		h.resend(w, r, token, entity.OTPFlowLogin, "verify.html", "/login")
		return
	}

	login, err := h.service.VerifyLogin(r.Context(), token, req.OTP, clientInfo(r))
	switch {
	case errors.Is(err, usecase.ErrNoChallenge):
		h.cookies.clear(w, loginChallengeCookie)
		redirect(w, r, "/login")
		return
	case errors.Is(err, usecase.ErrOTPExpired):
		h.cookies.clear(w, loginChallengeCookie)
		h.render.Render(w, http.StatusOK, "login.html", view{Error: msgLoginExpired})
		return
	case err != nil:
		msg, status := h.errorMessage(err, "verify login")
		h.render.Render(w, status, "verify.html", view{Error: msg})
		return
	}

	h.cookies.clear(w, loginChallengeCookie)
	h.cookies.setSession(w, login.SessionToken, login.ExpiresAt)

	target := login.Next
	if target == "" {
		target = "/dashboard"
	}
	redirect(w, r, target)
}

// ForgotPasswordPage handles GET /forgot-password
func (h *AuthHandler) ForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "forgot_password.html", view{})
}

// ForgotPassword handles POST /forgot-password. Unknown emails get the same
// neutral message as known ones.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ForgotPasswordRequest
	if err := decodeForm(r, &req); err != nil {
		h.render.Render(w, http.StatusBadRequest, "forgot_password.html", view{Error: msgBadForm})
		return
	}

	challenge, err := h.service.ForgotPassword(r.Context(), &req)
	if challenge != nil {
		h.cookies.set(w, resetChallengeCookie, challenge.Token, challenge.ExpiresAt)
	}
	if err != nil {
		if challenge != nil && errors.Is(err, usecase.ErrOTPDelivery) {
			h.log.Warn("Reset OTP not delivered", zap.Error(err))
			h.render.Render(w, http.StatusOK, "verify_reset_otp.html", view{Error: msgDeliveryFailed})
			return
		}
		msg, status := h.errorMessage(err, "forgot password")
		h.render.Render(w, status, "forgot_password.html", view{Error: msg})
		return
	}

	if challenge == nil {
		h.render.Render(w, http.StatusOK, "forgot_password.html", view{Info: msgResetRequested})
		return
	}

	redirect(w, r, "/verify-reset-otp")
}

// VerifyResetPage handles GET /verify-reset-otp
func (h *AuthHandler) VerifyResetPage(w http.ResponseWriter, r *http.Request) {
	if readCookie(r, resetChallengeCookie) == "" {
		redirect(w, r, "/forgot-password")
		return
	}
	h.render.Render(w, http.StatusOK, "verify_reset_otp.html", view{})
}

// VerifyReset handles POST /verify-reset-otp
func (h *AuthHandler) VerifyReset(w http.ResponseWriter, r *http.Request) {
	token := readCookie(r, resetChallengeCookie)

	var req request.VerifyOTPRequest
	if err := decodeForm(r, &req); err != nil {
		h.render.Render(w, http.StatusBadRequest, "verify_reset_otp.html", view{Error: msgBadForm})
		return
	}

	if req.IsResend() {
		h.resend(w, r, token, entity.OTPFlowPasswordReset, "verify_reset_otp.html", "/forgot-password")
		return
	}

	err := h.service.VerifyResetOTP(r.Context(), token, req.OTP)
	switch {
	case errors.Is(err, usecase.ErrNoChallenge):
		h.cookies.clear(w, resetChallengeCookie)
		redirect(w, r, "/forgot-password")
		return
	case errors.Is(err, usecase.ErrOTPExpired):
		h.cookies.clear(w, resetChallengeCookie)
		h.render.Render(w, http.StatusOK, "verify_reset_otp.html", view{Error: msgResetExpired})
		return
	case err != nil:
		msg, status := h.errorMessage(err, "verify reset")
		h.render.Render(w, status, "verify_reset_otp.html", view{Error: msg})
		return
	}

	redirect(w, r, "/reset-password")
}

// ResetPasswordPage handles GET /reset-password
func (h *AuthHandler) ResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	err := h.service.CheckResetAllowed(r.Context(), readCookie(r, resetChallengeCookie))
	if err != nil {
		if !errors.Is(err, usecase.ErrNoChallenge) {
			h.log.Error("Failed to load reset challenge", zap.Error(err))
		}
		redirect(w, r, "/forgot-password")
		return
	}
	h.render.Render(w, http.StatusOK, "reset_password.html", view{})
}

// ResetPassword handles POST /reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ResetPasswordRequest
	if err := decodeForm(r, &req); err != nil {
		h.render.Render(w, http.StatusBadRequest, "reset_password.html", view{Error: msgBadForm})
		return
	}

	err := h.service.ResetPassword(r.Context(), readCookie(r, resetChallengeCookie), &req)
	if errors.Is(err, usecase.ErrNoChallenge) {
		h.cookies.clear(w, resetChallengeCookie)
		redirect(w, r, "/forgot-password")
		return
	}
	if err != nil {
		msg, status := h.errorMessage(err, "reset password")
		h.render.Render(w, status, "reset_password.html", view{Error: msg})
		return
	}

	h.cookies.clear(w, resetChallengeCookie)
	h.cookies.clearSession(w)
	redirect(w, r, "/login")
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, _ := utils.GetTokenFromContext(r.Context())
	if err := h.service.Logout(r.Context(), token); err != nil {
		h.log.Error("Failed to revoke session", zap.Error(err))
	}

	h.cookies.clearSession(w)
	redirect(w, r, "/login")
}

func (h *AuthHandler) resend(w http.ResponseWriter, r *http.Request, token string, flow entity.OTPFlow, page, entry string) {
	err := h.service.ResendOTP(r.Context(), token, flow)
	switch {
	case err == nil:
		h.render.Render(w, http.StatusOK, page, view{Info: msgOTPResent})
	case errors.Is(err, usecase.ErrNoChallenge):
		h.cookies.clear(w, challengeCookieName(flow))
		redirect(w, r, entry)
	default:
		msg, status := h.errorMessage(err, "resend otp")
		h.render.Render(w, status, page, view{Error: msg})
	}
}

// errorMessage maps a service error to the message shown on the page and the
// response status. Unexpected errors are logged and hidden behind a generic text.
func (h *AuthHandler) errorMessage(err error, operation string) (string, int) {
	var validationErr *usecase.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.log.Info("Validation failed", zap.String("operation", operation), zap.String("reason", validationErr.Reason))
		return validationErr.Reason, http.StatusOK
	case errors.Is(err, usecase.ErrEmailTaken):
		h.log.Warn("Email already registered", zap.String("operation", operation))
		return msgEmailTaken, http.StatusOK
	case errors.Is(err, usecase.ErrInvalidCredentials):
		h.log.Warn("Invalid credentials", zap.String("operation", operation))
		return msgInvalidCredentials, http.StatusOK
	case errors.Is(err, usecase.ErrInvalidOTP):
		h.log.Warn("Invalid OTP", zap.String("operation", operation))
		return msgInvalidOTP, http.StatusOK
	case errors.Is(err, usecase.ErrOTPDelivery):
		h.log.Warn("OTP delivery failed", zap.String("operation", operation), zap.Error(err))
		return msgDeliveryFailed, http.StatusOK
	default:
		h.log.Error("Internal error", zap.String("operation", operation), zap.Error(err))
		return msgSomethingWrong, http.StatusInternalServerError
	}
}
