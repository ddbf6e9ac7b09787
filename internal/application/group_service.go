package application

import (
	"context"
	"errors"
	"time"

	"github.com/castellan/site-auth/internal/domain"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// GroupService manages the group catalog. It is handed the cache-fronted
// repository, so every mutation here invalidates the cached catalog and is
// visible to the next permission resolution.
type GroupService struct {
	groupRepo domain.GroupRepository
	logger    *zap.Logger
}

// NewGroupService creates a new GroupService
func NewGroupService(groupRepo domain.GroupRepository, logger *zap.Logger) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
		logger:    logger,
	}
}

// CreateGroup creates a new group with a unique stable key
func (s *GroupService) CreateGroup(ctx context.Context, name, key, description string, permissions []string) (*domain.Group, error) {
	_, err := s.groupRepo.FindByKey(ctx, key)
	if err == nil {
		return nil, domain.ErrGroupAlreadyExists
	}
	if !errors.Is(err, domain.ErrGroupNotFound) {
		return nil, err
	}

	now := time.Now()
	group := &domain.Group{
		ID:          ulid.Make(),
		Name:        name,
		Key:         key,
		Description: description,
		Permissions: permissions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.groupRepo.Create(ctx, group); err != nil {
		s.logger.Error("Failed to create group", zap.String("key", key), zap.Error(err))
		return nil, domain.ErrInternal
	}

	return group, nil
}

// GetGroup finds a group by its stable key
func (s *GroupService) GetGroup(ctx context.Context, key string) (*domain.Group, error) {
	return s.groupRepo.FindByKey(ctx, key)
}

// ListGroups returns the full catalog
func (s *GroupService) ListGroups(ctx context.Context) (*domain.GroupList, error) {
	return s.groupRepo.FindAll(ctx)
}

// UpdateGroup updates a group's name, description and permission set
func (s *GroupService) UpdateGroup(ctx context.Context, key, name, description string, permissions []string) (*domain.Group, error) {
	group, err := s.groupRepo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	group.Name = name
	group.Description = description
	group.Permissions = permissions
	group.UpdatedAt = time.Now()

	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}

	return group, nil
}

// DeleteGroup deletes a group by its stable key
func (s *GroupService) DeleteGroup(ctx context.Context, key string) error {
	return s.groupRepo.Delete(ctx, key)
}
