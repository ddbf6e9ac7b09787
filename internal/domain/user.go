package domain

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// User represents a resource owner. Users carry the keys of the groups they
// belong to; their effective permissions are derived from the group catalog at
// request time and never stored.
type User struct {
	ID        ulid.ULID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	GroupKeys []string  `json:"group_keys"`
	Active    bool      `json:"active"`
	Banned    bool      `json:"banned"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Principal is the authenticated entity attached to a request. It is built
// once per request by the auth middleware and passed explicitly; nothing is
// recovered from ambient state.
type Principal struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	GroupKeys   []string `json:"group_keys"`
	Permissions []string `json:"permissions"`
}

// HasPermissions reports whether the principal holds every named permission
func (p *Principal) HasPermissions(perms ...string) bool {
	for _, want := range perms {
		found := false
		for _, have := range p.Permissions {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id ulid.ULID) (*User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// SetVerified marks a user's account as verified
	SetVerified(ctx context.Context, id ulid.ULID) error
}
