package adaptor

import (
	"context"
	"errors"
	"net/http"

	"finance-tracker/internal/dto/request"
	"finance-tracker/internal/usecase"
	"finance-tracker/pkg/utils"

	"go.uber.org/zap"
)

// AddExpense handles POST /expenses/add
func (h *DashboardHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	var req request.ExpenseRequest
	h.addRecord(w, r, "add expense", &req, func(ctx context.Context, userID int64) error {
		_, err := h.record.AddExpense(ctx, userID, &req)
		return err
	})
}

// AddLoan handles POST /loans/add
func (h *DashboardHandler) AddLoan(w http.ResponseWriter, r *http.Request) {
	var req request.LoanRequest
	h.addRecord(w, r, "add loan", &req, func(ctx context.Context, userID int64) error {
		_, err := h.record.AddLoan(ctx, userID, &req)
		return err
	})
}

// AddInsurance handles POST /insurances/add
func (h *DashboardHandler) AddInsurance(w http.ResponseWriter, r *http.Request) {
	var req request.InsuranceRequest
	h.addRecord(w, r, "add insurance", &req, func(ctx context.Context, userID int64) error {
		_, err := h.record.AddInsurance(ctx, userID, &req)
		return err
	})
}

// addRecord decodes the form into req and runs add. Success goes back to the
// dashboard; failures re-render it with a reason.
func (h *DashboardHandler) addRecord(w http.ResponseWriter, r *http.Request, operation string, req any, add func(context.Context, int64) error) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		redirect(w, r, "/login")
		return
	}

	if err := decodeForm(r, req); err != nil {
		h.log.Warn("Invalid record form", zap.String("operation", operation), zap.Error(err))
		h.renderError(w, r, http.StatusBadRequest, msgBadForm, request.DashboardFilter{})
		return
	}

	if err := add(r.Context(), userID); err != nil {
		var validationErr *usecase.ValidationError
		switch {
		case errors.As(err, &validationErr):
			h.renderError(w, r, http.StatusBadRequest, validationErr.Reason, request.DashboardFilter{})
		case errors.Is(err, usecase.ErrCategoryNotFound):
			h.renderError(w, r, http.StatusBadRequest, "Unknown category.", request.DashboardFilter{})
		default:
			h.log.Error("Failed to save record",
				zap.String("operation", operation),
				zap.Int64("user_id", userID),
				zap.Error(err))
			h.renderError(w, r, http.StatusInternalServerError, "Could not save the record. Please try again.", request.DashboardFilter{})
		}
		return
	}

	redirect(w, r, "/dashboard")
}
