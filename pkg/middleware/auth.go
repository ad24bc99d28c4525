package middleware

import (
	"context"
	"net/http"
	"net/url"

	"finance-tracker/internal/data/entity"
	"finance-tracker/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionCookie holds the auth session token.
const SessionCookie = "session"

// SessionFinder looks up a session that is neither expired nor revoked.
type SessionFinder interface {
	FindValidSession(ctx context.Context, token string) (*entity.Session, error)
}

// LoadSession puts the user id and token of a valid session cookie into the
// request context. Malformed, unknown or expired cookies are cleared; the
// request always continues.
func LoadSession(sessions SessionFinder, secure bool, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			if _, err := uuid.Parse(cookie.Value); err != nil {
				logger.Debug("Malformed session cookie")
				clearSessionCookie(w, secure)
				next.ServeHTTP(w, r)
				return
			}

			session, err := sessions.FindValidSession(r.Context(), cookie.Value)
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if session == nil {
				logger.Debug("Invalid or expired session cookie")
				clearSessionCookie(w, secure)
				next.ServeHTTP(w, r)
				return
			}

			ctx := utils.SetUserContext(r.Context(), session.UserID)
			ctx = utils.SetTokenContext(ctx, cookie.Value)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireSession redirects anonymous requests to the login page, remembering
// the requested path in the next parameter. It expects LoadSession upstream.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
			target := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
