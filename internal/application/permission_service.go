package application

import (
	"context"
	"sort"

	"github.com/castellan/site-auth/internal/domain"
	"go.uber.org/zap"
)

// PermissionService turns a principal's group memberships into an effective
// permission set. The set is a pure function of (group keys, catalog) and is
// recomputed on demand; nothing is cached here.
type PermissionService struct {
	catalog domain.GroupCatalog
	logger  *zap.Logger
}

// NewPermissionService creates a new PermissionService
func NewPermissionService(catalog domain.GroupCatalog, logger *zap.Logger) *PermissionService {
	return &PermissionService{
		catalog: catalog,
		logger:  logger,
	}
}

// Resolve returns the deduplicated union of the permissions granted by every
// group in groupKeys. A key absent from the catalog is skipped with a warning:
// a dangling membership grants nothing, it never crashes resolution. A catalog
// fetch failure propagates so callers deny rather than guess.
func (s *PermissionService) Resolve(ctx context.Context, groupKeys []string) ([]string, error) {
	if len(groupKeys) == 0 {
		return []string{}, nil
	}

	catalog, err := s.catalog.FindAllGroups(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch group catalog", zap.Error(err))
		return nil, err
	}

	byKey := make(map[string]*domain.Group, len(catalog.Data))
	for _, group := range catalog.Data {
		byKey[group.Key] = group
	}

	perms := make(map[string]struct{})
	for _, key := range groupKeys {
		group, ok := byKey[key]
		if !ok {
			s.logger.Warn("Group membership references unknown key, skipping",
				zap.String("group_key", key))
			continue
		}
		for _, p := range group.Permissions {
			perms[p] = struct{}{}
		}
	}

	result := make([]string, 0, len(perms))
	for p := range perms {
		result = append(result, p)
	}
	sort.Strings(result)
	return result, nil
}
