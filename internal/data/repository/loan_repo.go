package repository

import (
	"context"
	"fmt"
	"strings"

	"finance-tracker/internal/data/entity"
	"finance-tracker/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type LoanRepository interface {
	Create(ctx context.Context, loan *entity.Loan) error
	FindFiltered(ctx context.Context, userID int64, filter entity.RecordFilter) ([]*entity.Loan, error)
	CreateBatch(ctx context.Context, loans []*entity.Loan) error
}

type loanRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewLoanRepository(db database.PgxIface, log *zap.Logger) LoanRepository {
	return &loanRepository{
		db:  db,
		log: log.With(zap.String("repository", "loan")),
	}
}

func (r *loanRepository) Create(ctx context.Context, loan *entity.Loan) error {
	query := `
		INSERT INTO loans (lender, amount, interest_rate, due_date, loan_category, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING loan_id
	`

	err := r.db.QueryRow(ctx, query,
		loan.Lender,
		loan.Amount,
		loan.InterestRate,
		loan.DueDate,
		loan.LoanCategory,
		loan.UserID,
	).Scan(&loan.LoanID)

	if err != nil {
		r.log.Error("Failed to create loan",
			zap.Error(err),
			zap.Int64("user_id", loan.UserID),
			zap.String("lender", loan.Lender),
		)
		return fmt.Errorf("create loan for user %d: %w", loan.UserID, err)
	}

	return nil
}

// FindFiltered applies the date bounds to the due date, so loans without one
// drop out once a date bound is set.
func (r *loanRepository) FindFiltered(ctx context.Context, userID int64, filter entity.RecordFilter) ([]*entity.Loan, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT loan_id, lender, amount, interest_rate, due_date, loan_category, user_id
		FROM loans
		WHERE user_id = $1
	`)

	args := []any{userID}
	argCount := 2

	if len(filter.LoanLenders) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND lender = ANY($%d)", argCount))
		args = append(args, filter.LoanLenders)
		argCount++
	}
	if len(filter.LoanCategories) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND loan_category = ANY($%d)", argCount))
		args = append(args, filter.LoanCategories)
		argCount++
	}
	if filter.From != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND due_date >= $%d", argCount))
		args = append(args, *filter.From)
		argCount++
	}
	if filter.Until != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND due_date < $%d", argCount))
		args = append(args, *filter.Until)
	}

	queryBuilder.WriteString(" ORDER BY due_date NULLS LAST, loan_id")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find loans",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return nil, fmt.Errorf("find loans for user %d: %w", userID, err)
	}
	defer rows.Close()

	var loans []*entity.Loan
	for rows.Next() {
		var l entity.Loan
		err := rows.Scan(
			&l.LoanID,
			&l.Lender,
			&l.Amount,
			&l.InterestRate,
			&l.DueDate,
			&l.LoanCategory,
			&l.UserID,
		)
		if err != nil {
			r.log.Error("Failed to scan loan row", zap.Error(err))
			return nil, fmt.Errorf("scan loan row: %w", err)
		}
		loans = append(loans, &l)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate loan rows: %w", err)
	}

	return loans, nil
}

func (r *loanRepository) CreateBatch(ctx context.Context, loans []*entity.Loan) error {
	batch := &pgx.Batch{}
	for _, l := range loans {
		batch.Queue(`
			INSERT INTO loans (lender, amount, interest_rate, due_date, loan_category, user_id)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, l.Lender, l.Amount, l.InterestRate, l.DueDate, l.LoanCategory, l.UserID)
	}

	if err := execBatch(ctx, r.db, batch); err != nil {
		r.log.Error("Failed to insert loan batch",
			zap.Error(err),
			zap.Int("size", len(loans)),
		)
		return fmt.Errorf("insert %d loans: %w", len(loans), err)
	}

	return nil
}
