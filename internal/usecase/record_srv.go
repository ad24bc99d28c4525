package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finance-tracker/internal/data/entity"
	"finance-tracker/internal/data/repository"
	"finance-tracker/internal/dto/request"
	"finance-tracker/pkg/utils"

	"go.uber.org/zap"
)

type RecordService interface {
	AddExpense(ctx context.Context, userID int64, req *request.ExpenseRequest) (*entity.Expense, error)
	AddLoan(ctx context.Context, userID int64, req *request.LoanRequest) (*entity.Loan, error)
	AddInsurance(ctx context.Context, userID int64, req *request.InsuranceRequest) (*entity.Insurance, error)
	SeedCategories(ctx context.Context) error
}

type recordService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewRecordService(repo *repository.Repository, log *zap.Logger) RecordService {
	return &recordService{
		repo: repo,
		log:  log.With(zap.String("service", "record")),
		now:  time.Now,
	}
}

// parseDate reads an optional YYYY-MM-DD value as midnight UTC.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(request.DateLayout, value)
	if err != nil {
		return nil, invalid(fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD.", value))
	}
	return &t, nil
}

func (s *recordService) AddExpense(ctx context.Context, userID int64, req *request.ExpenseRequest) (*entity.Expense, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Expense validation failed", zap.Any("errors", errs))
		return nil, invalid(utils.FirstValidationError(errs, "Amount", "CategoryID", "Date", "Description"))
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if date == nil {
		today := s.now().UTC()
		date = &today
	}

	category, err := s.repo.Category.FindByID(ctx, req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	expense := &entity.Expense{
		Amount:       req.Amount,
		Description:  strings.TrimSpace(req.Description),
		Date:         *date,
		UserID:       userID,
		CategoryID:   category.CategoryID,
		CategoryName: category.Name,
	}

	if err := s.repo.Expense.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	s.log.Info("Expense added",
		zap.Int64("user_id", userID),
		zap.Int64("expense_id", expense.ExpenseID))
	return expense, nil
}

func (s *recordService) AddLoan(ctx context.Context, userID int64, req *request.LoanRequest) (*entity.Loan, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Loan validation failed", zap.Any("errors", errs))
		return nil, invalid(utils.FirstValidationError(errs, "Lender", "Amount", "LoanCategory", "InterestRate", "DueDate"))
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	loan := &entity.Loan{
		Lender:       strings.TrimSpace(req.Lender),
		Amount:       req.Amount,
		InterestRate: req.InterestRate,
		DueDate:      dueDate,
		LoanCategory: strings.TrimSpace(req.LoanCategory),
		UserID:       userID,
	}

	if err := s.repo.Loan.Create(ctx, loan); err != nil {
		return nil, fmt.Errorf("create loan: %w", err)
	}

	s.log.Info("Loan added",
		zap.Int64("user_id", userID),
		zap.Int64("loan_id", loan.LoanID))
	return loan, nil
}

func (s *recordService) AddInsurance(ctx context.Context, userID int64, req *request.InsuranceRequest) (*entity.Insurance, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Insurance validation failed", zap.Any("errors", errs))
		return nil, invalid(utils.FirstValidationError(errs, "Provider", "PolicyType", "Premium", "RenewalDate"))
	}

	renewalDate, err := parseDate(req.RenewalDate)
	if err != nil {
		return nil, err
	}

	insurance := &entity.Insurance{
		Provider:    strings.TrimSpace(req.Provider),
		PolicyType:  strings.TrimSpace(req.PolicyType),
		Premium:     req.Premium,
		RenewalDate: renewalDate,
		UserID:      userID,
	}

	if err := s.repo.Insurance.Create(ctx, insurance); err != nil {
		return nil, fmt.Errorf("create insurance: %w", err)
	}

	s.log.Info("Insurance added",
		zap.Int64("user_id", userID),
		zap.Int64("insurance_id", insurance.InsuranceID))
	return insurance, nil
}

// SeedCategories makes sure the default expense categories exist.
func (s *recordService) SeedCategories(ctx context.Context) error {
	if err := s.repo.Category.SeedDefaults(ctx, entity.DefaultCategories); err != nil {
		return err
	}
	s.log.Info("Default categories ensured", zap.Int("count", len(entity.DefaultCategories)))
	return nil
}
