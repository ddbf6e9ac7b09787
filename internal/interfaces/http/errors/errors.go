package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/castellan/site-auth/internal/domain"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes for the admin API surface
const (
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeAuthentication = "AUTHENTICATION_ERROR"
	ErrCodeAuthorization  = "AUTHORIZATION_ERROR"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeConflict       = "CONFLICT"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// RespondWithError sends a standardized error response
func RespondWithError(w http.ResponseWriter, code string, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// OAuthError is the RFC 6749 error body the oauth2 endpoints return
type OAuthError struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// RespondWithOAuthError maps a domain error onto the oauth2 wire taxonomy
func RespondWithOAuthError(w http.ResponseWriter, err error) {
	code, status := oauthErrorCode(err)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(OAuthError{
		Error:       code,
		Description: err.Error(),
	})
}

func oauthErrorCode(err error) (string, int) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return "invalid_request", http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidClient):
		return "invalid_client", http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidGrant):
		return "invalid_grant", http.StatusBadRequest
	case errors.Is(err, domain.ErrUnsupportedGrantType):
		return "unsupported_grant_type", http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidRedirectURI), errors.Is(err, domain.ErrInvalidResponseType):
		return "access_denied", http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "access_denied", http.StatusForbidden
	case errors.Is(err, domain.ErrTokenNotFound), errors.Is(err, domain.ErrSignupCodeNotFound):
		return "invalid_request", http.StatusNotFound
	default:
		return "server_error", http.StatusInternalServerError
	}
}
