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

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	MarkVerified(ctx context.Context, id int64) error
	ListIDs(ctx context.Context) ([]int64, error)
	CreateBatch(ctx context.Context, users []*entity.User) error
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

// Create inserts the user and fills in the generated id and creation time.
// A taken email yields ErrDuplicate.
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (first_name, last_name, email, password_hash, is_verified)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING user_id, created_at
	`

	err := ur.db.QueryRow(ctx, query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.IsVerified,
	).Scan(&user.UserID, &user.CreatedAt)

	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	query := `
		SELECT user_id, first_name, last_name, email, password_hash, is_verified, created_at
		FROM users
		WHERE user_id = $1
	`

	user, err := scanUser(ur.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.Int64("user_id", id),
		)
		return nil, fmt.Errorf("find user by ID %d: %w", id, err)
	}

	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT user_id, first_name, last_name, email, password_hash, is_verified, created_at
		FROM users
		WHERE email = $1
	`

	user, err := scanUser(ur.db.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}

	return user, nil
}

func (ur *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2 WHERE user_id = $1`

	result, err := ur.db.Exec(ctx, query, id, passwordHash)
	if err != nil {
		ur.log.Error("Failed to update password",
			zap.Error(err),
			zap.Int64("user_id", id),
		)
		return fmt.Errorf("update password for user %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", id)
	}

	return nil
}

func (ur *userRepository) MarkVerified(ctx context.Context, id int64) error {
	query := `UPDATE users SET is_verified = TRUE WHERE user_id = $1 AND is_verified = FALSE`

	if _, err := ur.db.Exec(ctx, query, id); err != nil {
		ur.log.Error("Failed to mark user verified",
			zap.Error(err),
			zap.Int64("user_id", id),
		)
		return fmt.Errorf("mark user %d verified: %w", id, err)
	}

	return nil
}

func (ur *userRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := ur.db.Query(ctx, `SELECT user_id FROM users ORDER BY user_id`)
	if err != nil {
		ur.log.Error("Failed to list user ids", zap.Error(err))
		return nil, fmt.Errorf("list user ids: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		ur.log.Error("Failed to scan user ids", zap.Error(err))
		return nil, fmt.Errorf("scan user ids: %w", err)
	}

	return ids, nil
}

// CreateBatch inserts users in one transaction, skipping emails that already exist.
func (ur *userRepository) CreateBatch(ctx context.Context, users []*entity.User) error {
	batch := &pgx.Batch{}
	for _, u := range users {
		batch.Queue(`
			INSERT INTO users (first_name, last_name, email, password_hash, is_verified)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (email) DO NOTHING
		`, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.IsVerified)
	}

	if err := execBatch(ctx, ur.db, batch); err != nil {
		ur.log.Error("Failed to insert user batch",
			zap.Error(err),
			zap.Int("size", len(users)),
		)
		return fmt.Errorf("insert %d users: %w", len(users), err)
	}

	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.UserID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.IsVerified,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
