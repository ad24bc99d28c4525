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

type InsuranceRepository interface {
	Create(ctx context.Context, insurance *entity.Insurance) error
	FindFiltered(ctx context.Context, userID int64, filter entity.RecordFilter) ([]*entity.Insurance, error)
	CreateBatch(ctx context.Context, insurances []*entity.Insurance) error
}

type insuranceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewInsuranceRepository(db database.PgxIface, log *zap.Logger) InsuranceRepository {
	return &insuranceRepository{
		db:  db,
		log: log.With(zap.String("repository", "insurance")),
	}
}

func (r *insuranceRepository) Create(ctx context.Context, insurance *entity.Insurance) error {
	query := `
		INSERT INTO insurances (provider, policy_type, premium, renewal_date, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING insurance_id
	`

	err := r.db.QueryRow(ctx, query,
		insurance.Provider,
		insurance.PolicyType,
		insurance.Premium,
		insurance.RenewalDate,
		insurance.UserID,
	).Scan(&insurance.InsuranceID)

	if err != nil {
		r.log.Error("Failed to create insurance",
			zap.Error(err),
			zap.Int64("user_id", insurance.UserID),
			zap.String("provider", insurance.Provider),
		)
		return fmt.Errorf("create insurance for user %d: %w", insurance.UserID, err)
	}

	return nil
}

func (r *insuranceRepository) FindFiltered(ctx context.Context, userID int64, filter entity.RecordFilter) ([]*entity.Insurance, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT insurance_id, provider, policy_type, premium, renewal_date, user_id
		FROM insurances
		WHERE user_id = $1
	`)

	args := []any{userID}
	argCount := 2

	if len(filter.InsuranceProviders) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND provider = ANY($%d)", argCount))
		args = append(args, filter.InsuranceProviders)
		argCount++
	}
	if len(filter.InsuranceTypes) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND policy_type = ANY($%d)", argCount))
		args = append(args, filter.InsuranceTypes)
		argCount++
	}
	if filter.From != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND renewal_date >= $%d", argCount))
		args = append(args, *filter.From)
		argCount++
	}
	if filter.Until != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND renewal_date < $%d", argCount))
		args = append(args, *filter.Until)
	}

	queryBuilder.WriteString(" ORDER BY renewal_date NULLS LAST, insurance_id")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find insurances",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return nil, fmt.Errorf("find insurances for user %d: %w", userID, err)
	}
	defer rows.Close()

	var insurances []*entity.Insurance
	for rows.Next() {
		var i entity.Insurance
		err := rows.Scan(
			&i.InsuranceID,
			&i.Provider,
			&i.PolicyType,
			&i.Premium,
			&i.RenewalDate,
			&i.UserID,
		)
		if err != nil {
			r.log.Error("Failed to scan insurance row", zap.Error(err))
			return nil, fmt.Errorf("scan insurance row: %w", err)
		}
		insurances = append(insurances, &i)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate insurance rows: %w", err)
	}

	return insurances, nil
}

func (r *insuranceRepository) CreateBatch(ctx context.Context, insurances []*entity.Insurance) error {
	batch := &pgx.Batch{}
	for _, i := range insurances {
		batch.Queue(`
			INSERT INTO insurances (provider, policy_type, premium, renewal_date, user_id)
			VALUES ($1, $2, $3, $4, $5)
		`, i.Provider, i.PolicyType, i.Premium, i.RenewalDate, i.UserID)
	}

	if err := execBatch(ctx, r.db, batch); err != nil {
		r.log.Error("Failed to insert insurance batch",
			zap.Error(err),
			zap.Int("size", len(insurances)),
		)
		return fmt.Errorf("insert %d insurances: %w", len(insurances), err)
	}

	return nil
}
