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

type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	FindFiltered(ctx context.Context, userID int64, filter entity.RecordFilter) ([]*entity.Expense, error)
	CreateBatch(ctx context.Context, expenses []*entity.Expense) error
}

type expenseRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewExpenseRepository(db database.PgxIface, log *zap.Logger) ExpenseRepository {
	return &expenseRepository{
		db:  db,
		log: log.With(zap.String("repository", "expense")),
	}
}

func (r *expenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	query := `
		INSERT INTO expenses (amount, description, date, user_id, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING expense_id
	`

	err := r.db.QueryRow(ctx, query,
		expense.Amount,
		expense.Description,
		expense.Date,
		expense.UserID,
		expense.CategoryID,
	).Scan(&expense.ExpenseID)

	if err != nil {
		r.log.Error("Failed to create expense",
			zap.Error(err),
			zap.Int64("user_id", expense.UserID),
		)
		return fmt.Errorf("create expense for user %d: %w", expense.UserID, err)
	}

	return nil
}

// FindFiltered returns the user's expenses matching filter, newest first.
func (r *expenseRepository) FindFiltered(ctx context.Context, userID int64, filter entity.RecordFilter) ([]*entity.Expense, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT e.expense_id, e.amount, COALESCE(e.description, ''), e.date,
		       e.user_id, e.category_id, c.name
		FROM expenses e
		JOIN categories c ON c.category_id = e.category_id
		WHERE e.user_id = $1
	`)

	args := []any{userID}
	argCount := 2

	if len(filter.ExpenseCategories) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.name = ANY($%d)", argCount))
		args = append(args, filter.ExpenseCategories)
		argCount++
	}
	if filter.From != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.date >= $%d", argCount))
		args = append(args, *filter.From)
		argCount++
	}
	if filter.Until != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.date < $%d", argCount))
		args = append(args, *filter.Until)
	}

	queryBuilder.WriteString(" ORDER BY e.date DESC, e.expense_id DESC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find expenses",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return nil, fmt.Errorf("find expenses for user %d: %w", userID, err)
	}
	defer rows.Close()

	var expenses []*entity.Expense
	for rows.Next() {
		var e entity.Expense
		err := rows.Scan(
			&e.ExpenseID,
			&e.Amount,
			&e.Description,
			&e.Date,
			&e.UserID,
			&e.CategoryID,
			&e.CategoryName,
		)
		if err != nil {
			r.log.Error("Failed to scan expense row", zap.Error(err))
			return nil, fmt.Errorf("scan expense row: %w", err)
		}
		expenses = append(expenses, &e)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate expense rows: %w", err)
	}

	return expenses, nil
}

func (r *expenseRepository) CreateBatch(ctx context.Context, expenses []*entity.Expense) error {
	batch := &pgx.Batch{}
	for _, e := range expenses {
		batch.Queue(`
			INSERT INTO expenses (amount, description, date, user_id, category_id)
			VALUES ($1, $2, $3, $4, $5)
		`, e.Amount, e.Description, e.Date, e.UserID, e.CategoryID)
	}

	if err := execBatch(ctx, r.db, batch); err != nil {
		r.log.Error("Failed to insert expense batch",
			zap.Error(err),
			zap.Int("size", len(expenses)),
		)
		return fmt.Errorf("insert %d expenses: %w", len(expenses), err)
	}

	return nil
}
