package domain

import (
	"time"
)

// Grant types supported by the token endpoint
const (
	GrantAuthorizationCode = "authorization_code"
	GrantRefreshToken      = "refresh_token"
)

// Token types accepted by the revocation endpoint
const (
	TokenTypeAccess  = "access_token"
	TokenTypeRefresh = "refresh_token"
)

// Default credential lifetimes, overridable through config
const (
	DefaultAuthCodeDuration     = 15 * time.Minute
	DefaultAccessTokenDuration  = 2 * time.Hour
	DefaultRefreshTokenDuration = 7 * 24 * time.Hour
)

// OAuth2Client represents a registered OAuth2 client
type OAuth2Client struct {
	ID               string    `json:"id"`
	Secret           string    `json:"-"`
	RedirectURIs     []string  `json:"redirect_uris"`
	GrantTypes       []string  `json:"grant_types"`
	HomepageURL      string    `json:"homepage_url"`
	PrivacyPolicyURL string    `json:"privacy_policy_url"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AllowsRedirectURI reports whether uri is a member of the client's
// registered redirect URI set. Comparison is exact, never prefix based.
func (c *OAuth2Client) AllowsRedirectURI(uri string) bool {
	for _, registered := range c.RedirectURIs {
		if registered == uri {
			return true
		}
	}
	return false
}

// AuthorizationCode is a short lived, single use credential minted by the
// authorize endpoint and redeemed exactly once by the token endpoint.
type AuthorizationCode struct {
	Code        string    `json:"code"`
	ClientID    string    `json:"client_id"`
	UserID      string    `json:"user_id"`
	RedirectURI string    `json:"redirect_uri"`
	Scopes      []string  `json:"scopes"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsExpired reports whether the code is past its expiry at the given instant.
func (c *AuthorizationCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// AccessToken is an opaque bearer credential for resource access
type AccessToken struct {
	Token     string    `json:"token"`
	ClientID  string    `json:"client_id"`
	UserID    string    `json:"user_id"`
	Scopes    []string  `json:"scopes"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired reports whether the token is past its expiry at the given instant.
func (t *AccessToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// RefreshToken is an opaque credential used to mint new access tokens
type RefreshToken struct {
	Token     string    `json:"token"`
	ClientID  string    `json:"client_id"`
	UserID    string    `json:"user_id"`
	Scopes    []string  `json:"scopes"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired reports whether the token is past its expiry at the given instant.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// TokenPair is the result of a successful grant exchange
type TokenPair struct {
	AccessToken  *AccessToken
	RefreshToken *RefreshToken
}
