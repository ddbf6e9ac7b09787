package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/castellan/site-auth/internal/domain"
	"github.com/castellan/site-auth/internal/infrastructure/config"
	"github.com/castellan/site-auth/internal/infrastructure/password"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// TokenRequest carries the parameters of a token endpoint call
type TokenRequest struct {
	GrantType    string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Code         string
	RefreshToken string
}

// TokenResponse is the success body of a token endpoint call
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
}

// OAuth2Service drives the authorization code and refresh token grants over
// the stores. All protocol checks live here; the repository's job is correct
// storage and atomic single use deletion.
type OAuth2Service struct {
	oauthRepo  domain.OAuth2Repository
	userRepo   domain.UserRepository
	signupRepo domain.SignupCodeRepository
	generator  domain.TokenGenerator
	notifier   domain.Notifier
	cfg        *config.Config
	logger     *zap.Logger
}

// NewOAuth2Service creates a new OAuth2Service
func NewOAuth2Service(
	oauthRepo domain.OAuth2Repository,
	userRepo domain.UserRepository,
	signupRepo domain.SignupCodeRepository,
	generator domain.TokenGenerator,
	notifier domain.Notifier,
	cfg *config.Config,
	logger *zap.Logger,
) *OAuth2Service {
	return &OAuth2Service{
		oauthRepo:  oauthRepo,
		userRepo:   userRepo,
		signupRepo: signupRepo,
		generator:  generator,
		notifier:   notifier,
		cfg:        cfg,
		logger:     logger,
	}
}

// ValidateClient resolves a client by ID alone and checks that the redirect
// URI is registered for it. Used by the authorize endpoint where no secret is
// presented yet.
func (s *OAuth2Service) ValidateClient(ctx context.Context, clientID, redirectURI string) (*domain.OAuth2Client, error) {
	client, err := s.oauthRepo.FindClientByID(ctx, clientID)
	if err != nil {
		s.logger.Warn("Failed to find client",
			zap.String("client_id", clientID),
			zap.Error(err))
		return nil, err
	}

	if !client.AllowsRedirectURI(redirectURI) {
		s.logger.Warn("Redirect URI not registered",
			zap.String("client_id", clientID),
			zap.String("redirect_uri", redirectURI))
		return nil, domain.ErrInvalidRedirectURI
	}

	return client, nil
}

// Authorize runs the authorize endpoint check sequence for an authenticated
// resource owner and mints a fresh authorization code.
func (s *OAuth2Service) Authorize(ctx context.Context, responseType, clientID, redirectURI, scope string, userID string) (*domain.AuthorizationCode, error) {
	if responseType != "code" {
		return nil, domain.ErrInvalidResponseType
	}

	client, err := s.ValidateClient(ctx, clientID, redirectURI)
	if err != nil {
		return nil, err
	}

	code, err := s.generator.Generate(domain.AuthCodeByteLength)
	if err != nil {
		s.logger.Error("Failed to generate authorization code", zap.Error(err))
		return nil, domain.ErrInternal
	}

	now := time.Now()

	// Codes are short lived, so minting a new one doubles as the cleanup hook
	if err := s.oauthRepo.DeleteExpiredAuthorizationCodes(ctx, now); err != nil {
		s.logger.Warn("Failed to purge expired authorization codes", zap.Error(err))
	}

	authCode := &domain.AuthorizationCode{
		Code:        code,
		ClientID:    client.ID,
		UserID:      userID,
		RedirectURI: redirectURI,
		Scopes:      splitScope(scope),
		ExpiresAt:   now.Add(s.cfg.AuthCodeDuration),
		CreatedAt:   now,
	}

	if err := s.oauthRepo.CreateAuthorizationCode(ctx, authCode); err != nil {
		s.logger.Error("Failed to store authorization code", zap.Error(err))
		return nil, domain.ErrInternal
	}

	return authCode, nil
}

// Exchange dispatches a token endpoint call to the matching grant
func (s *OAuth2Service) Exchange(ctx context.Context, req TokenRequest) (*TokenResponse, error) {
	if req.ClientID == "" || req.ClientSecret == "" || req.GrantType == "" || req.RedirectURI == "" {
		return nil, domain.ErrInvalidRequest
	}

	client, err := s.oauthRepo.FindClientByCredentials(ctx, req.ClientID, req.ClientSecret)
	if err != nil {
		s.logger.Warn("Client credential check failed", zap.String("client_id", req.ClientID))
		return nil, err
	}

	// The redirect URI is re-validated here even though the authorize step
	// already checked it; a URI is never trusted because it was passed once.
	if !client.AllowsRedirectURI(req.RedirectURI) {
		return nil, domain.ErrInvalidRedirectURI
	}

	switch req.GrantType {
	case domain.GrantAuthorizationCode:
		return s.exchangeAuthorizationCode(ctx, client, req)
	case domain.GrantRefreshToken:
		return s.rotateRefreshToken(ctx, client, req)
	default:
		return nil, domain.ErrUnsupportedGrantType
	}
}

func (s *OAuth2Service) exchangeAuthorizationCode(ctx context.Context, client *domain.OAuth2Client, req TokenRequest) (*TokenResponse, error) {
	if req.Code == "" {
		return nil, domain.ErrInvalidRequest
	}

	// Consume before any trust decision: the delete-and-return round trip is
	// what makes redemption at-most-once, and it burns expired codes too.
	authCode, err := s.oauthRepo.ConsumeAuthorizationCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if authCode.IsExpired(now) {
		s.logger.Warn("Authorization code expired",
			zap.String("client_id", client.ID),
			zap.Time("expires_at", authCode.ExpiresAt))
		return nil, domain.ErrInvalidGrant
	}

	if authCode.ClientID != client.ID || authCode.RedirectURI != req.RedirectURI {
		s.logger.Warn("Authorization code presented with mismatched client or redirect URI",
			zap.String("client_id", client.ID))
		return nil, domain.ErrInvalidGrant
	}

	pair, err := s.mintTokenPair(client.ID, authCode.UserID, authCode.Scopes, now)
	if err != nil {
		return nil, err
	}

	if err := s.oauthRepo.SaveTokenPair(ctx, pair.AccessToken, pair.RefreshToken); err != nil {
		s.logger.Error("Failed to persist token pair", zap.Error(err))
		return nil, domain.ErrInternal
	}

	return tokenResponse(pair, now), nil
}

func (s *OAuth2Service) rotateRefreshToken(ctx context.Context, client *domain.OAuth2Client, req TokenRequest) (*TokenResponse, error) {
	if req.RefreshToken == "" {
		return nil, domain.ErrInvalidRequest
	}

	oldToken, err := s.oauthRepo.FindRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return nil, domain.ErrInvalidGrant
		}
		return nil, err
	}

	now := time.Now()
	if oldToken.IsExpired(now) {
		// Burn the stale token so its lineage cannot come back
		if err := s.oauthRepo.RevokeRefreshToken(ctx, oldToken.Token); err != nil && !errors.Is(err, domain.ErrTokenNotFound) {
			s.logger.Error("Failed to revoke expired refresh token", zap.Error(err))
		}
		return nil, domain.ErrInvalidGrant
	}

	pair, err := s.mintTokenPair(oldToken.ClientID, oldToken.UserID, oldToken.Scopes, now)
	if err != nil {
		return nil, err
	}

	// One transaction: consume the presented token, revoke the whole session
	// family for the user, persist the replacement pair. Rotating the family
	// bounds a stolen refresh token to a single successful use.
	if err := s.oauthRepo.RotateUserTokens(ctx, oldToken.Token, pair.AccessToken, pair.RefreshToken); err != nil {
		if errors.Is(err, domain.ErrInvalidGrant) {
			return nil, domain.ErrInvalidGrant
		}
		s.logger.Error("Failed to rotate user tokens", zap.Error(err))
		return nil, domain.ErrInternal
	}

	return tokenResponse(pair, now), nil
}

// Revoke dispatches a revocation call on the token type
func (s *OAuth2Service) Revoke(ctx context.Context, tokenType, token string) error {
	if token == "" {
		return domain.ErrInvalidRequest
	}

	switch tokenType {
	case domain.TokenTypeAccess:
		return s.oauthRepo.RevokeAccessToken(ctx, token)
	case domain.TokenTypeRefresh:
		return s.oauthRepo.RevokeRefreshToken(ctx, token)
	default:
		return domain.ErrInvalidRequest
	}
}

// RevokeAllForUser deletes every access and refresh token a user holds. Used
// on security events such as a password change or a ban.
func (s *OAuth2Service) RevokeAllForUser(ctx context.Context, userID string) error {
	if err := s.oauthRepo.RevokeAllAccessTokens(ctx, userID); err != nil {
		return err
	}
	return s.oauthRepo.RevokeAllRefreshTokens(ctx, userID)
}

// VerifyPassword checks a resource owner's credentials. An unknown email and a
// wrong password fail with the same error.
func (s *OAuth2Service) VerifyPassword(ctx context.Context, email, passwordStr string) (*domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := password.CheckPassword(passwordStr, user.Password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// IssueSignupCode mints a verification code for the user and mails it out.
// Delivery is fire and forget; a mail failure never fails the request.
func (s *OAuth2Service) IssueSignupCode(ctx context.Context, userID ulid.ULID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	// A fresh code supersedes any outstanding ones
	if err := s.signupRepo.DeleteByUserID(ctx, user.ID); err != nil {
		s.logger.Error("Failed to clear prior signup codes", zap.Error(err))
		return domain.ErrInternal
	}

	code, err := s.generator.Generate(domain.SignupCodeByteLength)
	if err != nil {
		s.logger.Error("Failed to generate signup code", zap.Error(err))
		return domain.ErrInternal
	}

	now := time.Now()
	signupCode := &domain.SignupCode{
		Code:      code,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.cfg.SignupCodeDuration),
		CreatedAt: now,
	}

	if err := s.signupRepo.Create(ctx, signupCode); err != nil {
		s.logger.Error("Failed to store signup code", zap.Error(err))
		return domain.ErrInternal
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.notifier.SendSignupCode(sendCtx, user.Email, user.FullName(), code); err != nil {
			s.logger.Error("Failed to deliver signup code",
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
		}
	}()

	return nil
}

// VerifySignupCode redeems a signup code once and marks the user verified
func (s *OAuth2Service) VerifySignupCode(ctx context.Context, code string) error {
	signupCode, err := s.signupRepo.Consume(ctx, code)
	if err != nil {
		return err
	}

	if signupCode.IsExpired(time.Now()) {
		return domain.ErrSignupCodeNotFound
	}

	return s.userRepo.SetVerified(ctx, signupCode.UserID)
}

func (s *OAuth2Service) mintTokenPair(clientID, userID string, scopes []string, now time.Time) (*domain.TokenPair, error) {
	accessValue, err := s.generator.Generate(domain.TokenByteLength)
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err))
		return nil, domain.ErrInternal
	}

	refreshValue, err := s.generator.Generate(domain.TokenByteLength)
	if err != nil {
		s.logger.Error("Failed to generate refresh token", zap.Error(err))
		return nil, domain.ErrInternal
	}

	return &domain.TokenPair{
		AccessToken: &domain.AccessToken{
			Token:     accessValue,
			ClientID:  clientID,
			UserID:    userID,
			Scopes:    scopes,
			ExpiresAt: now.Add(s.cfg.AccessTokenDuration),
			CreatedAt: now,
		},
		RefreshToken: &domain.RefreshToken{
			Token:     refreshValue,
			ClientID:  clientID,
			UserID:    userID,
			Scopes:    scopes,
			ExpiresAt: now.Add(s.cfg.RefreshTokenDuration),
			CreatedAt: now,
		},
	}, nil
}

func tokenResponse(pair *domain.TokenPair, now time.Time) *TokenResponse {
	return &TokenResponse{
		AccessToken:  pair.AccessToken.Token,
		TokenType:    "Bearer",
		ExpiresIn:    int64(pair.AccessToken.ExpiresAt.Sub(now).Seconds()),
		RefreshToken: pair.RefreshToken.Token,
		Scope:        strings.Join(pair.AccessToken.Scopes, " "),
	}
}

func splitScope(scope string) []string {
	if scope == "" {
		return []string{}
	}
	return strings.Fields(scope)
}
