package domain

import (
	"context"
	"time"
)

// OAuth2Repository defines the interface for OAuth2 data access: registered
// clients, authorization codes and the access/refresh token stores.
type OAuth2Repository interface {
	// CreateClient creates a new OAuth2 client
	CreateClient(ctx context.Context, client *OAuth2Client) error

	// FindClientByID finds an OAuth2 client by ID
	FindClientByID(ctx context.Context, id string) (*OAuth2Client, error)

	// FindClientByCredentials finds a client by ID and secret. Both must match
	// exactly; an unknown ID and a wrong secret fail with the same error so the
	// caller cannot tell which field was wrong.
	FindClientByCredentials(ctx context.Context, id, secret string) (*OAuth2Client, error)

	// UpdateClient updates an OAuth2 client
	UpdateClient(ctx context.Context, client *OAuth2Client) error

	// DeleteClient deletes an OAuth2 client
	DeleteClient(ctx context.Context, id string) error

	// ListClients lists all OAuth2 clients
	ListClients(ctx context.Context) ([]*OAuth2Client, error)

	// CreateAuthorizationCode creates a new authorization code
	CreateAuthorizationCode(ctx context.Context, code *AuthorizationCode) error

	// GetAuthorizationCode gets an authorization code without consuming it
	GetAuthorizationCode(ctx context.Context, code string) (*AuthorizationCode, error)

	// ConsumeAuthorizationCode deletes the code and returns its prior value in
	// a single round trip. Concurrent redemptions of the same code yield
	// exactly one success; all others fail with ErrInvalidGrant.
	ConsumeAuthorizationCode(ctx context.Context, code string) (*AuthorizationCode, error)

	// DeleteExpiredAuthorizationCodes reaps codes whose expiry lies before the
	// given instant
	DeleteExpiredAuthorizationCodes(ctx context.Context, before time.Time) error

	// SaveTokenPair persists an access/refresh token pair in one transaction
	SaveTokenPair(ctx context.Context, access *AccessToken, refresh *RefreshToken) error

	// FindAccessToken finds an access token by its opaque string
	FindAccessToken(ctx context.Context, token string) (*AccessToken, error)

	// FindRefreshToken finds a refresh token by its opaque string
	FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error)

	// RevokeAccessToken deletes a single access token, ErrTokenNotFound if absent
	RevokeAccessToken(ctx context.Context, token string) error

	// RevokeRefreshToken deletes a single refresh token, ErrTokenNotFound if absent
	RevokeRefreshToken(ctx context.Context, token string) error

	// RevokeAllAccessTokens bulk deletes a user's access tokens
	RevokeAllAccessTokens(ctx context.Context, userID string) error

	// RevokeAllRefreshTokens bulk deletes a user's refresh tokens
	RevokeAllRefreshTokens(ctx context.Context, userID string) error

	// RotateUserTokens atomically consumes the presented refresh token, revokes
	// every access and refresh token the owning user holds, and persists the
	// replacement pair. Runs inside a single transaction: either the whole
	// rotation commits or none of it does. The delete of oldToken doubles as
	// the at-most-once guard; a concurrent rotation that lost the race fails
	// with ErrInvalidGrant.
	RotateUserTokens(ctx context.Context, oldToken string, access *AccessToken, refresh *RefreshToken) error
}
