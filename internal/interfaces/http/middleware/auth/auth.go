package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/castellan/site-auth/internal/application"
	"github.com/castellan/site-auth/internal/domain"
	httperrors "github.com/castellan/site-auth/internal/interfaces/http/errors"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type contextKey string

// principalKey is where the authenticated principal lives in the request context
const principalKey contextKey = "principal"

// AuthMiddleware authenticates requests by their opaque bearer access token
// and attaches a fully resolved principal. Permissions are recomputed from the
// current group graph on every request; they are never read from the token.
type AuthMiddleware struct {
	oauthRepo   domain.OAuth2Repository
	userRepo    domain.UserRepository
	permissions *application.PermissionService
	logger      *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(
	oauthRepo domain.OAuth2Repository,
	userRepo domain.UserRepository,
	permissions *application.PermissionService,
	logger *zap.Logger,
) *AuthMiddleware {
	return &AuthMiddleware{
		oauthRepo:   oauthRepo,
		userRepo:    userRepo,
		permissions: permissions,
		logger:      logger,
	}
}

// Authenticator rejects requests without a valid, unexpired access token
func (m *AuthMiddleware) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := m.resolvePrincipal(r)
		if err != nil {
			httperrors.RespondWithError(w, httperrors.ErrCodeAuthentication, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// OptionalAuthenticator attaches a principal when a valid token is presented
// and lets the request through anonymously otherwise. The authorize endpoint
// uses this to decide between minting a code and bouncing to the login page.
func (m *AuthMiddleware) OptionalAuthenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := m.resolvePrincipal(r)
		if err == nil {
			r = r.WithContext(WithPrincipal(r.Context(), principal))
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission gates a route on the principal holding every named permission
func (m *AuthMiddleware) RequirePermission(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil || !principal.HasPermissions(perms...) {
				httperrors.RespondWithError(w, httperrors.ErrCodeAuthorization, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *AuthMiddleware) resolvePrincipal(r *http.Request) (*domain.Principal, error) {
	tokenValue := extractBearerToken(r)
	if tokenValue == "" {
		return nil, domain.ErrInvalidCredentials
	}

	accessToken, err := m.oauthRepo.FindAccessToken(r.Context(), tokenValue)
	if err != nil {
		return nil, err
	}

	if accessToken.IsExpired(time.Now()) {
		return nil, domain.ErrTokenExpired
	}

	userID, err := ulid.Parse(accessToken.UserID)
	if err != nil {
		m.logger.Error("Access token carries a malformed user id", zap.Error(err))
		return nil, domain.ErrInternal
	}

	user, err := m.userRepo.FindByID(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	if user.Banned || !user.Active {
		return nil, domain.ErrForbidden
	}

	perms, err := m.permissions.Resolve(r.Context(), user.GroupKeys)
	if err != nil {
		// Fail closed: no permission set, no access
		return nil, err
	}

	return &domain.Principal{
		ID:          user.ID.String(),
		Email:       user.Email,
		Name:        user.FullName(),
		GroupKeys:   user.GroupKeys,
		Permissions: perms,
	}, nil
}

// WithPrincipal returns a context carrying the principal
func WithPrincipal(ctx context.Context, principal *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// PrincipalFromContext returns the request principal, nil when anonymous
func PrincipalFromContext(ctx context.Context) *domain.Principal {
	principal, ok := ctx.Value(principalKey).(*domain.Principal)
	if !ok {
		return nil
	}
	return principal
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.Split(header, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
