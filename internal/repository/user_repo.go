package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"planhub/internal/model"
	"planhub/pkg/metrics"
)

type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	r.logger.Debug("Inserting user", zap.String("email", u.Email))
	start := time.Now()
	query := `
        INSERT INTO users (email, full_name, password_hash, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		u.Email,
		u.FullName,
		u.PasswordHash,
		u.IsActive,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	metrics.RecordDBQueryDuration("insert", "users", time.Since(start))
	if err != nil {
		r.logger.Error("Failed to insert user", zap.Error(err), zap.String("email", u.Email))
		return err
	}
	r.logger.Info("User inserted successfully", zap.String("user_id", u.ID))
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
        SELECT id, email, full_name, password_hash, is_active, created_at, updated_at
        FROM users
        WHERE email = $1
    `
	var u model.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&u.ID,
		&u.Email,
		&u.FullName,
		&u.PasswordHash,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `
        SELECT id, email, full_name, password_hash, is_active, created_at, updated_at
        FROM users
        WHERE id = $1
    `
	var u model.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Email,
		&u.FullName,
		&u.PasswordHash,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile updates the mutable user fields (display name, active flag).
func (r *UserRepository) UpdateProfile(ctx context.Context, u *model.User) error {
	r.logger.Debug("Updating user profile", zap.String("user_id", u.ID))
	query := `
        UPDATE users
        SET full_name = $2, is_active = $3, updated_at = NOW()
        WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query, u.ID, u.FullName, u.IsActive)
	if err != nil {
		r.logger.Error("Failed to update user", zap.Error(err), zap.String("user_id", u.ID))
		return err
	}
	r.logger.Info("User updated",
		zap.String("user_id", u.ID),
		zap.Int64("rows_affected", tag.RowsAffected()),
	)
	return nil
}
