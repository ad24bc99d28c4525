package repository

import (
	"context"
	"errors"
	"fmt"

	"finance-tracker/internal/data/entity"
	"finance-tracker/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]*entity.Category, error)
	FindByID(ctx context.Context, id int) (*entity.Category, error)
	SeedDefaults(ctx context.Context, names []string) error
}

type categoryRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCategoryRepository(db database.PgxIface, log *zap.Logger) CategoryRepository {
	return &categoryRepository{
		db:  db,
		log: log.With(zap.String("repository", "category")),
	}
}

// List returns every category ordered by name.
func (r *categoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT category_id, name FROM categories ORDER BY name ASC`)
	if err != nil {
		r.log.Error("Failed to list categories", zap.Error(err))
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.CategoryID, &c.Name); err != nil {
			r.log.Error("Failed to scan category row", zap.Error(err))
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, &c)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}

	return categories, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id int) (*entity.Category, error) {
	var c entity.Category
	err := r.db.QueryRow(ctx, `SELECT category_id, name FROM categories WHERE category_id = $1`, id).
		Scan(&c.CategoryID, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find category",
			zap.Error(err),
			zap.Int("category_id", id),
		)
		return nil, fmt.Errorf("find category %d: %w", id, err)
	}
	return &c, nil
}

// SeedDefaults inserts the given names, leaving existing ones untouched.
func (r *categoryRepository) SeedDefaults(ctx context.Context, names []string) error {
	batch := &pgx.Batch{}
	for _, name := range names {
		batch.Queue(`INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	}

	if err := execBatch(ctx, r.db, batch); err != nil {
		r.log.Error("Failed to seed categories", zap.Error(err))
		return fmt.Errorf("seed categories: %w", err)
	}

	return nil
}
