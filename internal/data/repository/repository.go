package repository

import (
	"context"
	"fmt"

	"finance-tracker/pkg/cache"
	"finance-tracker/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Repository struct {
	User      UserRepository
	Session   SessionRepository
	OTP       OTPRepository
	Category  CategoryRepository
	Expense   ExpenseRepository
	Loan      LoanRepository
	Insurance InsuranceRepository
}

func NewRepository(db database.PgxIface, c cache.Cache, log *zap.Logger) *Repository {
	return &Repository{
		User:      NewUserRepository(db, log),
		Session:   NewSessionRepository(db, log),
		OTP:       NewOTPRepository(c, log),
		Category:  NewCategoryRepository(db, log),
		Expense:   NewExpenseRepository(db, log),
		Loan:      NewLoanRepository(db, log),
		Insurance: NewInsuranceRepository(db, log),
	}
}

// execBatch sends batch inside a single transaction and checks every result.
func execBatch(ctx context.Context, db database.PgxIface, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("batch statement %d: %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch results: %w", err)
	}

	return tx.Commit(ctx)
}
