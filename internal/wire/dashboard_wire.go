package wire

import (
	"finance-tracker/internal/adaptor"
	"finance-tracker/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireDashboard(r chi.Router, dashboardHandler *adaptor.DashboardHandler) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession)

		r.Get("/dashboard", dashboardHandler.Dashboard)
		r.Post("/expenses/add", dashboardHandler.AddExpense)
		r.Post("/loans/add", dashboardHandler.AddLoan)
		r.Post("/insurances/add", dashboardHandler.AddInsurance)
	})
}
