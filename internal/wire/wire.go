package wire

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"

	"finance-tracker/internal/adaptor"
	"finance-tracker/internal/data/repository"
	"finance-tracker/internal/usecase"
	"finance-tracker/pkg/middleware"
	"finance-tracker/pkg/utils"
	"finance-tracker/web"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the router and the services background jobs need.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes. ctx bounds background work
// started here, such as the rate limiter sweeper.
func Wiring(ctx context.Context, repo *repository.Repository, notifier usecase.OTPNotifier, config *utils.Config, logger *zap.Logger) (*App, error) {
	service := usecase.NewService(repo, notifier, config, logger)

	renderer, err := adaptor.NewRenderer(web.FS, config.App.Name, logger)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	cookies := adaptor.Cookies{Secure: config.Session.SecureCookie}
	handler := adaptor.NewHandler(service, renderer, cookies, logger)
	limiter := middleware.NewRateLimiter(ctx, config.RateLimit.RPS, config.RateLimit.Burst, logger)

	router := setupRouter(handler, repo, limiter, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}, nil
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	limiter *middleware.RateLimiter,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if config.App.TrustedProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	static, _ := fs.Sub(web.FS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadSession(repo.Session, config.Session.SecureCookie, logger))

		wireAuth(r, handler.Auth, limiter)
		wireDashboard(r, handler.Dashboard)
	})

	return r
}
