package adaptor

import (
	"errors"
	"net/http"

	"finance-tracker/internal/dto/request"
	"finance-tracker/internal/dto/response"
	"finance-tracker/internal/usecase"
	"finance-tracker/pkg/utils"

	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboard usecase.DashboardService
	record    usecase.RecordService
	render    *Renderer
	log       *zap.Logger
}

func NewDashboardHandler(dashboard usecase.DashboardService, record usecase.RecordService, render *Renderer, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		record:    record,
		render:    render,
		log:       log.With(zap.String("handler", "dashboard")),
	}
}

// Dashboard handles GET /dashboard
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		redirect(w, r, "/login")
		return
	}

	var filter request.DashboardFilter
	if err := decodeQuery(r.URL.Query(), &filter); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid filter.", filter)
		return
	}

	dashboard, err := h.dashboard.Dashboard(r.Context(), userID, filter)
	if err != nil {
		var validationErr *usecase.ValidationError
		if errors.As(err, &validationErr) {
			h.renderError(w, r, http.StatusBadRequest, validationErr.Reason, filter)
			return
		}
		h.log.Error("Failed to build dashboard", zap.Int64("user_id", userID), zap.Error(err))
		h.renderError(w, r, http.StatusInternalServerError, msgSomethingWrong, filter)
		return
	}

	h.render.Render(w, http.StatusOK, "dashboard.html", view{LoggedIn: true, Dashboard: dashboard})
}

// renderError shows the dashboard form without records. If even the form
// options cannot be loaded the page is rendered empty.
func (h *DashboardHandler) renderError(w http.ResponseWriter, r *http.Request, status int, msg string, filter request.DashboardFilter) {
	dashboard, err := h.dashboard.Options(r.Context())
	if err != nil {
		h.log.Error("Failed to load dashboard options", zap.Error(err))
		dashboard = &response.Dashboard{}
	}
	dashboard.Filter = filter

	h.render.Render(w, status, "dashboard.html", view{
		LoggedIn:  true,
		Error:     msg,
		Dashboard: dashboard,
	})
}
