package wire

import (
	"finance-tracker/internal/adaptor"
	"finance-tracker/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, limiter *middleware.RateLimiter) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/", authHandler.Home)
	r.Get("/register", authHandler.RegisterPage)
	r.Get("/login", authHandler.LoginPage)
	r.Get("/verify", authHandler.VerifyPage)
	r.Get("/forgot-password", authHandler.ForgotPasswordPage)
	r.Get("/verify-reset-otp", authHandler.VerifyResetPage)
	r.Get("/reset-password", authHandler.ResetPasswordPage)

	// Form posts are throttled per client IP.
	r.Group(func(r chi.Router) {
		r.Use(limiter.Limit)

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/verify", authHandler.Verify)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/verify-reset-otp", authHandler.VerifyReset)
		r.Post("/reset-password", authHandler.ResetPassword)
	})

	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.RequireSession).Get("/logout", authHandler.Logout)
}
