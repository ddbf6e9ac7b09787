package domain

import "errors"

var (
	// ErrInvalidRequest is returned when a request is missing required parameters
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidClient is returned for an unknown client ID or a mismatched
	// secret. The two cases deliberately share one error value.
	ErrInvalidClient = errors.New("invalid client")

	// ErrInvalidGrant is returned for an unknown, consumed or expired
	// authorization code or refresh token
	ErrInvalidGrant = errors.New("invalid grant")

	// ErrUnsupportedGrantType is returned for a grant_type outside
	// authorization_code and refresh_token
	ErrUnsupportedGrantType = errors.New("unsupported grant type")

	// ErrInvalidRedirectURI is returned when a redirect URI is not registered
	// for the client
	ErrInvalidRedirectURI = errors.New("redirect uri not registered for client")

	// ErrInvalidResponseType is returned when the authorize endpoint is called
	// with a response_type other than "code"
	ErrInvalidResponseType = errors.New("response_type must be \"code\"")

	// ErrTokenNotFound is returned when a single-token revoke target is absent
	ErrTokenNotFound = errors.New("token not found")

	// ErrTokenExpired is returned when a bearer token presented for
	// authentication is past its expiry
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidCredentials is returned when password verification fails
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned when a user lookup misses
	ErrUserNotFound = errors.New("user not found")

	// ErrGroupNotFound is returned when a group lookup misses
	ErrGroupNotFound = errors.New("group not found")

	// ErrGroupAlreadyExists is returned when creating a group whose key is taken
	ErrGroupAlreadyExists = errors.New("group already exists")

	// ErrSignupCodeNotFound is returned when redeeming an unknown or already
	// used signup code
	ErrSignupCodeNotFound = errors.New("signup code not found")

	// ErrForbidden is returned when a principal lacks a required permission
	ErrForbidden = errors.New("forbidden")

	// ErrDatabaseQuery is returned when a store query fails for infrastructure
	// reasons
	ErrDatabaseQuery = errors.New("database query failed")

	// ErrInternal is returned when there is an internal server error
	ErrInternal = errors.New("internal server error")
)
