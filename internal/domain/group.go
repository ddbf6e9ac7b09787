package domain

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Group is a named collection of permission strings. Users reference groups by
// their stable key; the permission resolver unions the permissions of every
// group a user belongs to.
type Group struct {
	ID          ulid.ULID `json:"id"`
	Name        string    `json:"name"`
	Key         string    `json:"key"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GroupList is the shape the group catalog hands out
type GroupList struct {
	Count int      `json:"count"`
	Data  []*Group `json:"data"`
}

// GroupCatalog exposes the full group set to the permission resolver. The
// catalog owns caching and invalidation; callers always see the current graph
// or an error, never a silently stale broader set.
type GroupCatalog interface {
	// FindAllGroups returns every group
	FindAllGroups(ctx context.Context) (*GroupList, error)
}

// GroupRepository defines the interface for group persistence
type GroupRepository interface {
	// Create creates a new group
	Create(ctx context.Context, group *Group) error

	// FindByKey finds a group by its stable key
	FindByKey(ctx context.Context, key string) (*Group, error)

	// FindAll returns every group with its count
	FindAll(ctx context.Context) (*GroupList, error)

	// Update updates a group's name, description and permissions
	Update(ctx context.Context, group *Group) error

	// Delete deletes a group by its stable key
	Delete(ctx context.Context, key string) error
}
