package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/castellan/site-auth/internal/domain"
	"github.com/castellan/site-auth/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	db     *database.Postgres
	logger *zap.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *database.Postgres, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

func (r *UserRepository) FindByID(ctx context.Context, id ulid.ULID) (*domain.User, error) {
	return r.findOne(ctx, "id = $1", id.String())
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = $1", email)
}

func (r *UserRepository) SetVerified(ctx context.Context, id ulid.ULID) error {
	return r.db.Exec(ctx, `
		UPDATE users SET verified = TRUE, updated_at = NOW() WHERE id = $1
	`, id.String())
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg interface{}) (*domain.User, error) {
	user := &domain.User{}
	var id string
	var groupKeys []byte

	err := r.db.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, password, group_keys, active, banned, verified, created_at, updated_at
		FROM users WHERE `+where,
		arg,
	).Scan(&id, &user.FirstName, &user.LastName, &user.Email, &user.Password, &groupKeys, &user.Active, &user.Banned, &user.Verified, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		r.logger.Error("failed to find user", zap.Error(err))
		return nil, domain.ErrDatabaseQuery
	}

	user.ID, err = ulid.Parse(id)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(groupKeys, &user.GroupKeys); err != nil {
		return nil, err
	}

	return user, nil
}
