package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/castellan/site-auth/internal/domain"
	"github.com/castellan/site-auth/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// PostgresOAuth2Repository implements domain.OAuth2Repository using PostgreSQL.
// Single use semantics for codes and tokens lean on the database: consumption
// is one DELETE ... RETURNING round trip, never a read followed by a delete.
type PostgresOAuth2Repository struct {
	db     *database.Postgres
	logger *zap.Logger
}

// NewOAuth2Repository creates a new PostgresOAuth2Repository
func NewOAuth2Repository(db *database.Postgres, logger *zap.Logger) domain.OAuth2Repository {
	return &PostgresOAuth2Repository{
		db:     db,
		logger: logger,
	}
}

func (r *PostgresOAuth2Repository) CreateClient(ctx context.Context, client *domain.OAuth2Client) error {
	redirectURIs, err := json.Marshal(client.RedirectURIs)
	if err != nil {
		return err
	}

	grantTypes, err := json.Marshal(client.GrantTypes)
	if err != nil {
		return err
	}

	return r.db.Exec(ctx, `
		INSERT INTO oauth2_clients (id, secret, redirect_uris, grant_types, homepage_url, privacy_policy_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, client.ID, client.Secret, redirectURIs, grantTypes, client.HomepageURL, client.PrivacyPolicyURL, client.CreatedAt, client.UpdatedAt)
}

func (r *PostgresOAuth2Repository) FindClientByID(ctx context.Context, id string) (*domain.OAuth2Client, error) {
	client := &domain.OAuth2Client{}
	var redirectURIs, grantTypes []byte

	err := r.db.QueryRow(ctx, `
		SELECT id, secret, redirect_uris, grant_types, homepage_url, privacy_policy_url, created_at, updated_at
		FROM oauth2_clients WHERE id = $1
	`, id).Scan(&client.ID, &client.Secret, &redirectURIs, &grantTypes, &client.HomepageURL, &client.PrivacyPolicyURL, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidClient
		}
		r.logger.Error("failed to find client", zap.Error(err))
		return nil, domain.ErrDatabaseQuery
	}

	if err := json.Unmarshal(redirectURIs, &client.RedirectURIs); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(grantTypes, &client.GrantTypes); err != nil {
		return nil, err
	}

	return client, nil
}

func (r *PostgresOAuth2Repository) FindClientByCredentials(ctx context.Context, id, secret string) (*domain.OAuth2Client, error) {
	client := &domain.OAuth2Client{}
	var redirectURIs, grantTypes []byte

	// Both fields in the predicate: an unknown id and a wrong secret are the
	// same zero-row result and surface as the same error.
	err := r.db.QueryRow(ctx, `
		SELECT id, secret, redirect_uris, grant_types, homepage_url, privacy_policy_url, created_at, updated_at
		FROM oauth2_clients WHERE id = $1 AND secret = $2
	`, id, secret).Scan(&client.ID, &client.Secret, &redirectURIs, &grantTypes, &client.HomepageURL, &client.PrivacyPolicyURL, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidClient
		}
		r.logger.Error("failed to find client by credentials", zap.Error(err))
		return nil, domain.ErrDatabaseQuery
	}

	if err := json.Unmarshal(redirectURIs, &client.RedirectURIs); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(grantTypes, &client.GrantTypes); err != nil {
		return nil, err
	}

	return client, nil
}

func (r *PostgresOAuth2Repository) UpdateClient(ctx context.Context, client *domain.OAuth2Client) error {
	redirectURIs, err := json.Marshal(client.RedirectURIs)
	if err != nil {
		return err
	}

	grantTypes, err := json.Marshal(client.GrantTypes)
	if err != nil {
		return err
	}

	return r.db.Exec(ctx, `
		UPDATE oauth2_clients
		SET secret = $1, redirect_uris = $2, grant_types = $3, homepage_url = $4, privacy_policy_url = $5, updated_at = $6
		WHERE id = $7
	`, client.Secret, redirectURIs, grantTypes, client.HomepageURL, client.PrivacyPolicyURL, client.UpdatedAt, client.ID)
}

func (r *PostgresOAuth2Repository) DeleteClient(ctx context.Context, id string) error {
	return r.db.Exec(ctx, "DELETE FROM oauth2_clients WHERE id = $1", id)
}

func (r *PostgresOAuth2Repository) ListClients(ctx context.Context) ([]*domain.OAuth2Client, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, secret, redirect_uris, grant_types, homepage_url, privacy_policy_url, created_at, updated_at
		FROM oauth2_clients
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*domain.OAuth2Client
	for rows.Next() {
		client := &domain.OAuth2Client{}
		var redirectURIs, grantTypes []byte

		err := rows.Scan(&client.ID, &client.Secret, &redirectURIs, &grantTypes, &client.HomepageURL, &client.PrivacyPolicyURL, &client.CreatedAt, &client.UpdatedAt)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(redirectURIs, &client.RedirectURIs); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(grantTypes, &client.GrantTypes); err != nil {
			return nil, err
		}

		clients = append(clients, client)
	}
	return clients, rows.Err()
}

func (r *PostgresOAuth2Repository) CreateAuthorizationCode(ctx context.Context, code *domain.AuthorizationCode) error {
	scopes, err := json.Marshal(code.Scopes)
	if err != nil {
		return err
	}

	return r.db.Exec(ctx, `
		INSERT INTO authorization_codes (code, client_id, user_id, redirect_uri, scopes, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, code.Code, code.ClientID, code.UserID, code.RedirectURI, scopes, code.ExpiresAt, code.CreatedAt)
}

func (r *PostgresOAuth2Repository) GetAuthorizationCode(ctx context.Context, code string) (*domain.AuthorizationCode, error) {
	authCode := &domain.AuthorizationCode{}
	var scopes []byte

	err := r.db.QueryRow(ctx, `
		SELECT code, client_id, user_id, redirect_uri, scopes, expires_at, created_at
		FROM authorization_codes WHERE code = $1
	`, code).Scan(&authCode.Code, &authCode.ClientID, &authCode.UserID, &authCode.RedirectURI, &scopes, &authCode.ExpiresAt, &authCode.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidGrant
		}
		r.logger.Error("failed to get authorization code", zap.Error(err))
		return nil, domain.ErrDatabaseQuery
	}

	if err := json.Unmarshal(scopes, &authCode.Scopes); err != nil {
		return nil, err
	}

	return authCode, nil
}

func (r *PostgresOAuth2Repository) ConsumeAuthorizationCode(ctx context.Context, code string) (*domain.AuthorizationCode, error) {
	authCode := &domain.AuthorizationCode{}
	var scopes []byte

	err := r.db.QueryRow(ctx, `
		DELETE FROM authorization_codes WHERE code = $1
		RETURNING code, client_id, user_id, redirect_uri, scopes, expires_at, created_at
	`, code).Scan(&authCode.Code, &authCode.ClientID, &authCode.UserID, &authCode.RedirectURI, &scopes, &authCode.ExpiresAt, &authCode.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidGrant
		}
		r.logger.Error("failed to consume authorization code", zap.Error(err))
		return nil, domain.ErrDatabaseQuery
	}

	if err := json.Unmarshal(scopes, &authCode.Scopes); err != nil {
		return nil, err
	}

	return authCode, nil
}

func (r *PostgresOAuth2Repository) DeleteExpiredAuthorizationCodes(ctx context.Context, before time.Time) error {
	return r.db.Exec(ctx, "DELETE FROM authorization_codes WHERE expires_at < $1", before)
}

func (r *PostgresOAuth2Repository) SaveTokenPair(ctx context.Context, access *domain.AccessToken, refresh *domain.RefreshToken) error {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return domain.ErrDatabaseQuery
	}
	defer tx.Rollback(ctx)

	if err := insertAccessToken(ctx, tx, access); err != nil {
		r.logger.Error("failed to insert access token", zap.Error(err))
		return domain.ErrDatabaseQuery
	}

	if err := insertRefreshToken(ctx, tx, refresh); err != nil {
		r.logger.Error("failed to insert refresh token", zap.Error(err))
		return domain.ErrDatabaseQuery
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error("failed to commit token pair", zap.Error(err))
		return domain.ErrDatabaseQuery
	}
	return nil
}

func (r *PostgresOAuth2Repository) FindAccessToken(ctx context.Context, token string) (*domain.AccessToken, error) {
	at := &domain.AccessToken{}
	var scopes []byte

	err := r.db.QueryRow(ctx, `
		SELECT token, client_id, user_id, scopes, expires_at, created_at
		FROM access_tokens WHERE token = $1
	`, token).Scan(&at.Token, &at.ClientID, &at.UserID, &scopes, &at.ExpiresAt, &at.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTokenNotFound
		}
		r.logger.Error("failed to find access token", zap.Error(err))
		return nil, domain.ErrDatabaseQuery
	}

	if err := json.Unmarshal(scopes, &at.Scopes); err != nil {
		return nil, err
	}

	return at, nil
}

func (r *PostgresOAuth2Repository) FindRefreshToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	rt := &domain.RefreshToken{}
	var scopes []byte

	err := r.db.QueryRow(ctx, `
		SELECT token, client_id, user_id, scopes, expires_at, created_at
		FROM refresh_tokens WHERE token = $1
	`, token).Scan(&rt.Token, &rt.ClientID, &rt.UserID, &scopes, &rt.ExpiresAt, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTokenNotFound
		}
		r.logger.Error("failed to find refresh token", zap.Error(err))
		return nil, domain.ErrDatabaseQuery
	}

	if err := json.Unmarshal(scopes, &rt.Scopes); err != nil {
		return nil, err
	}

	return rt, nil
}

func (r *PostgresOAuth2Repository) RevokeAccessToken(ctx context.Context, token string) error {
	tag, err := r.db.ExecTag(ctx, "DELETE FROM access_tokens WHERE token = $1", token)
	if err != nil {
		r.logger.Error("failed to revoke access token", zap.Error(err))
		return domain.ErrDatabaseQuery
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTokenNotFound
	}
	return nil
}

func (r *PostgresOAuth2Repository) RevokeRefreshToken(ctx context.Context, token string) error {
	tag, err := r.db.ExecTag(ctx, "DELETE FROM refresh_tokens WHERE token = $1", token)
	if err != nil {
		r.logger.Error("failed to revoke refresh token", zap.Error(err))
		return domain.ErrDatabaseQuery
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTokenNotFound
	}
	return nil
}

func (r *PostgresOAuth2Repository) RevokeAllAccessTokens(ctx context.Context, userID string) error {
	return r.db.Exec(ctx, "DELETE FROM access_tokens WHERE user_id = $1", userID)
}

func (r *PostgresOAuth2Repository) RevokeAllRefreshTokens(ctx context.Context, userID string) error {
	return r.db.Exec(ctx, "DELETE FROM refresh_tokens WHERE user_id = $1", userID)
}

func (r *PostgresOAuth2Repository) RotateUserTokens(ctx context.Context, oldToken string, access *domain.AccessToken, refresh *domain.RefreshToken) error {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		r.logger.Error("failed to begin rotation transaction", zap.Error(err))
		return domain.ErrDatabaseQuery
	}
	defer tx.Rollback(ctx)

	// Deleting the presented token is the at-most-once guard: of two
	// concurrent rotations only one sees a row here.
	tag, err := tx.Exec(ctx, "DELETE FROM refresh_tokens WHERE token = $1", oldToken)
	if err != nil {
		r.logger.Error("failed to consume refresh token", zap.Error(err))
		return domain.ErrDatabaseQuery
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidGrant
	}

	if _, err := tx.Exec(ctx, "DELETE FROM access_tokens WHERE user_id = $1", access.UserID); err != nil {
		r.logger.Error("failed to revoke user access tokens", zap.Error(err))
		return domain.ErrDatabaseQuery
	}

	if _, err := tx.Exec(ctx, "DELETE FROM refresh_tokens WHERE user_id = $1", refresh.UserID); err != nil {
		r.logger.Error("failed to revoke user refresh tokens", zap.Error(err))
		return domain.ErrDatabaseQuery
	}

	if err := insertAccessToken(ctx, tx, access); err != nil {
		r.logger.Error("failed to insert rotated access token", zap.Error(err))
		return domain.ErrDatabaseQuery
	}

	if err := insertRefreshToken(ctx, tx, refresh); err != nil {
		r.logger.Error("failed to insert rotated refresh token", zap.Error(err))
		return domain.ErrDatabaseQuery
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error("failed to commit rotation", zap.Error(err))
		return domain.ErrDatabaseQuery
	}
	return nil
}

func insertAccessToken(ctx context.Context, tx pgx.Tx, token *domain.AccessToken) error {
	scopes, err := json.Marshal(token.Scopes)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO access_tokens (token, client_id, user_id, scopes, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, token.Token, token.ClientID, token.UserID, scopes, token.ExpiresAt, token.CreatedAt)
	return err
}

func insertRefreshToken(ctx context.Context, tx pgx.Tx, token *domain.RefreshToken) error {
	scopes, err := json.Marshal(token.Scopes)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO refresh_tokens (token, client_id, user_id, scopes, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, token.Token, token.ClientID, token.UserID, scopes, token.ExpiresAt, token.CreatedAt)
	return err
}
