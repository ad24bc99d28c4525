package adaptor

import (
	"net/http"
	"time"

	"finance-tracker/internal/data/entity"
	"finance-tracker/pkg/middleware"
)

const (
	loginChallengeCookie = "otp_challenge"
	resetChallengeCookie = "reset_challenge"
)

func challengeCookieName(flow entity.OTPFlow) string {
	if flow == entity.OTPFlowPasswordReset {
		return resetChallengeCookie
	}
	return loginChallengeCookie
}

// Cookies writes the session and OTP challenge cookies.
type Cookies struct {
	Secure bool
}

func (c Cookies) set(w http.ResponseWriter, name, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c Cookies) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c Cookies) setSession(w http.ResponseWriter, token string, expires time.Time) {
	c.set(w, middleware.SessionCookie, token, expires)
}

func (c Cookies) clearSession(w http.ResponseWriter) {
	c.clear(w, middleware.SessionCookie)
}

func readCookie(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
