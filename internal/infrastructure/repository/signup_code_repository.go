package repository

import (
	"context"
	"errors"

	"github.com/castellan/site-auth/internal/domain"
	"github.com/castellan/site-auth/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// SignupCodeRepository implements domain.SignupCodeRepository using PostgreSQL
type SignupCodeRepository struct {
	db     *database.Postgres
	logger *zap.Logger
}

// NewSignupCodeRepository creates a new SignupCodeRepository
func NewSignupCodeRepository(db *database.Postgres, logger *zap.Logger) *SignupCodeRepository {
	return &SignupCodeRepository{db: db, logger: logger}
}

func (r *SignupCodeRepository) Create(ctx context.Context, code *domain.SignupCode) error {
	return r.db.Exec(ctx, `
		INSERT INTO signup_codes (code, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`, code.Code, code.UserID.String(), code.ExpiresAt, code.CreatedAt)
}

func (r *SignupCodeRepository) Consume(ctx context.Context, code string) (*domain.SignupCode, error) {
	signupCode := &domain.SignupCode{}
	var userID string

	err := r.db.QueryRow(ctx, `
		DELETE FROM signup_codes WHERE code = $1
		RETURNING code, user_id, expires_at, created_at
	`, code).Scan(&signupCode.Code, &userID, &signupCode.ExpiresAt, &signupCode.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSignupCodeNotFound
		}
		r.logger.Error("failed to consume signup code", zap.Error(err))
		return nil, domain.ErrDatabaseQuery
	}

	signupCode.UserID, err = ulid.Parse(userID)
	if err != nil {
		return nil, err
	}

	return signupCode, nil
}

func (r *SignupCodeRepository) DeleteByUserID(ctx context.Context, userID ulid.ULID) error {
	return r.db.Exec(ctx, "DELETE FROM signup_codes WHERE user_id = $1", userID.String())
}
