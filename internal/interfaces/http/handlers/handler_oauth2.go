package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/castellan/site-auth/internal/application"
	"github.com/castellan/site-auth/internal/domain"
	"github.com/castellan/site-auth/internal/infrastructure/config"
	httperrors "github.com/castellan/site-auth/internal/interfaces/http/errors"
	"github.com/castellan/site-auth/internal/interfaces/http/middleware/auth"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// OAuth2Handler exposes the authorization server endpoints
type OAuth2Handler struct {
	oauthService *application.OAuth2Service
	cfg          *config.Config
	logger       *zap.Logger
}

// NewOAuth2Handler creates a new OAuth2Handler
func NewOAuth2Handler(oauthService *application.OAuth2Service, cfg *config.Config, logger *zap.Logger) *OAuth2Handler {
	return &OAuth2Handler{
		oauthService: oauthService,
		cfg:          cfg,
		logger:       logger,
	}
}

// AuthorizeHandler handles GET /oauth2/authorize
func (h *OAuth2Handler) AuthorizeHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	responseType := query.Get("response_type")
	clientID := query.Get("client_id")
	redirectURI := query.Get("redirect_uri")
	state := query.Get("state")
	scope := query.Get("scope")

	if responseType != "code" {
		httperrors.RespondWithOAuthError(w, domain.ErrInvalidResponseType)
		return
	}

	// Validate the client before any redirect is issued; redirecting to an
	// unvalidated URI is itself a vulnerability.
	if _, err := h.oauthService.ValidateClient(r.Context(), clientID, redirectURI); err != nil {
		httperrors.RespondWithOAuthError(w, err)
		return
	}

	principal := auth.PrincipalFromContext(r.Context())
	if principal == nil {
		// Bounce to the login surface carrying the original parameters so the
		// flow can resume after login
		params := url.Values{}
		params.Set("response_type", responseType)
		params.Set("client_id", clientID)
		params.Set("redirect_uri", redirectURI)
		params.Set("state", state)
		params.Set("scope", scope)

		login := h.cfg.AuthClientURL + "?redirect=" + url.QueryEscape(h.cfg.PublicURL+"/oauth2/authorize") + "&" + params.Encode()
		http.Redirect(w, r, login, http.StatusFound)
		return
	}

	authCode, err := h.oauthService.Authorize(r.Context(), responseType, clientID, redirectURI, scope, principal.ID)
	if err != nil {
		h.logger.Warn("Authorization failed", zap.String("client_id", clientID), zap.Error(err))
		httperrors.RespondWithOAuthError(w, err)
		return
	}

	callback := authCode.RedirectURI + "?code=" + url.QueryEscape(authCode.Code)
	if state != "" {
		callback += "&state=" + url.QueryEscape(state)
	}
	http.Redirect(w, r, callback, http.StatusFound)
}

// TokenHandler handles POST /oauth2/token
func (h *OAuth2Handler) TokenHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	resp, err := h.oauthService.Exchange(r.Context(), application.TokenRequest{
		GrantType:    query.Get("grant_type"),
		ClientID:     query.Get("client_id"),
		ClientSecret: query.Get("client_secret"),
		RedirectURI:  query.Get("redirect_uri"),
		Code:         query.Get("code"),
		RefreshToken: query.Get("refresh_token"),
	})
	if err != nil {
		httperrors.RespondWithOAuthError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	json.NewEncoder(w).Encode(resp)
}

// RevokeTokenHandler handles POST /oauth2/token/revoke
func (h *OAuth2Handler) RevokeTokenHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if err := h.oauthService.Revoke(r.Context(), query.Get("token_type"), query.Get("token")); err != nil {
		httperrors.RespondWithOAuthError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// PasswordRequest is the body of a password verification call
type PasswordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyPasswordHandler handles POST /oauth2/password
func (h *OAuth2Handler) VerifyPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req PasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondWithOAuthError(w, domain.ErrInvalidRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		httperrors.RespondWithOAuthError(w, domain.ErrInvalidRequest)
		return
	}

	user, err := h.oauthService.VerifyPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		httperrors.RespondWithOAuthError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(domain.Principal{
		ID:        user.ID.String(),
		Email:     user.Email,
		Name:      user.FullName(),
		GroupKeys: user.GroupKeys,
	})
}

// SignupRequest is the body of a signup code issuance call
type SignupRequest struct {
	UserID string `json:"user_id"`
}

// IssueSignupCodeHandler handles POST /oauth2/signup
func (h *OAuth2Handler) IssueSignupCodeHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondWithOAuthError(w, domain.ErrInvalidRequest)
		return
	}

	userID, err := ulid.Parse(req.UserID)
	if err != nil {
		httperrors.RespondWithOAuthError(w, domain.ErrInvalidRequest)
		return
	}

	if err := h.oauthService.IssueSignupCode(r.Context(), userID); err != nil {
		httperrors.RespondWithOAuthError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// VerifySignupRequest is the body of a signup code redemption call
type VerifySignupRequest struct {
	Code string `json:"code"`
}

// VerifySignupCodeHandler handles POST /oauth2/signup/verify
func (h *OAuth2Handler) VerifySignupCodeHandler(w http.ResponseWriter, r *http.Request) {
	var req VerifySignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		httperrors.RespondWithOAuthError(w, domain.ErrInvalidRequest)
		return
	}

	if err := h.oauthService.VerifySignupCode(r.Context(), req.Code); err != nil {
		httperrors.RespondWithOAuthError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// RevokeUserTokensRequest is the body of a session family revocation call
type RevokeUserTokensRequest struct {
	UserID string `json:"user_id"`
}

// RevokeUserTokensHandler handles POST /api/tokens/revoke. It kills every
// session a user holds, used on security events such as a ban.
func (h *OAuth2Handler) RevokeUserTokensHandler(w http.ResponseWriter, r *http.Request) {
	var req RevokeUserTokensRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondWithError(w, httperrors.ErrCodeValidation, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID, err := ulid.Parse(req.UserID)
	if err != nil {
		httperrors.RespondWithError(w, httperrors.ErrCodeValidation, "Invalid user id", http.StatusBadRequest)
		return
	}

	if err := h.oauthService.RevokeAllForUser(r.Context(), userID.String()); err != nil {
		h.logger.Error("Failed to revoke user tokens", zap.Error(err))
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "Failed to revoke tokens", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
