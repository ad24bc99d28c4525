package adaptor

import (
	"finance-tracker/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth      *AuthHandler
	Dashboard *DashboardHandler
}

func NewHandler(service *usecase.Service, render *Renderer, cookies Cookies, log *zap.Logger) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(service.Auth, render, cookies, log),
		Dashboard: NewDashboardHandler(service.Dashboard, service.Record, render, log),
	}
}
