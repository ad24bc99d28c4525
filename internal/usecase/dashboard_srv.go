package usecase

import (
	"context"
	"fmt"

	"finance-tracker/internal/data/entity"
	"finance-tracker/internal/data/repository"
	"finance-tracker/internal/dto/request"
	"finance-tracker/internal/dto/response"
	"finance-tracker/pkg/utils"

	"go.uber.org/zap"
)

type DashboardService interface {
	Dashboard(ctx context.Context, userID int64, filter request.DashboardFilter) (*response.Dashboard, error)
	Options(ctx context.Context) (*response.Dashboard, error)
}

type dashboardService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewDashboardService(repo *repository.Repository, log *zap.Logger) DashboardService {
	return &dashboardService{
		repo: repo,
		log:  log.With(zap.String("service", "dashboard")),
	}
}

// Options returns a dashboard with only the form options filled in. It backs
// pages re-rendered after a rejected filter or record.
func (s *dashboardService) Options(ctx context.Context) (*response.Dashboard, error) {
	categories, err := s.repo.Category.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return &response.Dashboard{
		Categories:         categories,
		Lenders:            entity.Lenders,
		InsuranceProviders: entity.InsuranceProviders,
		LoanCategories:     entity.LoanCategories,
		PolicyTypes:        entity.PolicyTypes,
	}, nil
}

// Dashboard loads the user's filtered records and aggregates them. An
// unparsable date yields a *ValidationError.
func (s *dashboardService) Dashboard(ctx context.Context, userID int64, filter request.DashboardFilter) (*response.Dashboard, error) {
	recordFilter, err := toRecordFilter(filter)
	if err != nil {
		return nil, err
	}

	dashboard, err := s.Options(ctx)
	if err != nil {
		return nil, err
	}
	dashboard.Filter = filter

	expenses, err := s.repo.Expense.FindFiltered(ctx, userID, recordFilter)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	loans, err := s.repo.Loan.FindFiltered(ctx, userID, recordFilter)
	if err != nil {
		return nil, fmt.Errorf("load loans: %w", err)
	}
	insurances, err := s.repo.Insurance.FindFiltered(ctx, userID, recordFilter)
	if err != nil {
		return nil, fmt.Errorf("load insurances: %w", err)
	}

	dashboard.Expenses = expenses
	dashboard.TotalExpenses = TotalExpenses(expenses)
	dashboard.Loans = loans
	dashboard.TotalLoans = TotalLoans(loans)
	dashboard.Insurances = insurances
	dashboard.TotalPremium = TotalPremium(insurances)
	dashboard.Charts = response.Charts{
		ExpenseByMonth:    ExpensesByMonth(expenses),
		ExpenseByCategory: ExpensesByCategory(expenses),
		LoanByYear:        LoansByYear(loans),
		InsuranceByMonth:  InsurancesByMonth(insurances),
	}

	s.log.Debug("Dashboard built",
		zap.Int64("user_id", userID),
		zap.Int("expenses", len(expenses)),
		zap.Int("loans", len(loans)),
		zap.Int("insurances", len(insurances)),
	)

	return dashboard, nil
}

// toRecordFilter converts the query filter; the end date covers its whole day.
func toRecordFilter(filter request.DashboardFilter) (entity.RecordFilter, error) {
	if errs := utils.ValidateStruct(&filter); len(errs) > 0 {
		return entity.RecordFilter{}, invalid(utils.FirstValidationError(errs, "StartDate", "EndDate"))
	}

	from, err := parseDate(filter.StartDate)
	if err != nil {
		return entity.RecordFilter{}, err
	}
	end, err := parseDate(filter.EndDate)
	if err != nil {
		return entity.RecordFilter{}, err
	}

	recordFilter := entity.RecordFilter{
		ExpenseCategories:  nonEmpty(filter.ExpenseCategories),
		LoanLenders:        nonEmpty(filter.LoanLenders),
		LoanCategories:     nonEmpty(filter.LoanCategories),
		InsuranceProviders: nonEmpty(filter.InsuranceProviders),
		InsuranceTypes:     nonEmpty(filter.InsuranceTypes),
		From:               from,
	}
	if end != nil {
		until := end.AddDate(0, 0, 1)
		recordFilter.Until = &until
	}

	return recordFilter, nil
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
