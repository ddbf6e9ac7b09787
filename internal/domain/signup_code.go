package domain

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// SignupCode is a single use code mailed to a user to verify their account
type SignupCode struct {
	Code      string    `json:"code"`
	UserID    ulid.ULID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired reports whether the code is past its expiry at the given instant.
func (c *SignupCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// SignupCodeRepository defines the interface for signup code persistence
type SignupCodeRepository interface {
	// Create stores a new signup code
	Create(ctx context.Context, code *SignupCode) error

	// Consume deletes the code and returns its prior value in a single round
	// trip, ErrSignupCodeNotFound if absent or already used
	Consume(ctx context.Context, code string) (*SignupCode, error)

	// DeleteByUserID deletes every signup code issued to a user
	DeleteByUserID(ctx context.Context, userID ulid.ULID) error
}

// Notifier delivers out-of-band notification email. The core invokes it fire
// and forget; delivery failures are logged, never surfaced to the request.
type Notifier interface {
	// SendSignupCode sends the account verification code to the user
	SendSignupCode(ctx context.Context, email, name, code string) error
}
