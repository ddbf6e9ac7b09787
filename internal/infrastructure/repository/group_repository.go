package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/castellan/site-auth/internal/domain"
	"github.com/castellan/site-auth/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// GroupRepository implements domain.GroupRepository using PostgreSQL
type GroupRepository struct {
	db     *database.Postgres
	logger *zap.Logger
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *database.Postgres, logger *zap.Logger) *GroupRepository {
	return &GroupRepository{db: db, logger: logger}
}

func (r *GroupRepository) Create(ctx context.Context, group *domain.Group) error {
	permissions, err := json.Marshal(group.Permissions)
	if err != nil {
		return err
	}

	return r.db.Exec(ctx, `
		INSERT INTO groups (id, name, key, description, permissions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, group.ID.String(), group.Name, group.Key, group.Description, permissions, group.CreatedAt, group.UpdatedAt)
}

func (r *GroupRepository) FindByKey(ctx context.Context, key string) (*domain.Group, error) {
	group := &domain.Group{}
	var id string
	var permissions []byte

	err := r.db.QueryRow(ctx, `
		SELECT id, name, key, description, permissions, created_at, updated_at
		FROM groups WHERE key = $1
	`, key).Scan(&id, &group.Name, &group.Key, &group.Description, &permissions, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		r.logger.Error("failed to find group", zap.Error(err))
		return nil, domain.ErrDatabaseQuery
	}

	group.ID, err = ulid.Parse(id)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(permissions, &group.Permissions); err != nil {
		return nil, err
	}

	return group, nil
}

func (r *GroupRepository) FindAll(ctx context.Context) (*domain.GroupList, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, key, description, permissions, created_at, updated_at
		FROM groups
		ORDER BY key
	`)
	if err != nil {
		r.logger.Error("failed to list groups", zap.Error(err))
		return nil, domain.ErrDatabaseQuery
	}
	defer rows.Close()

	list := &domain.GroupList{Data: []*domain.Group{}}
	for rows.Next() {
		group := &domain.Group{}
		var id string
		var permissions []byte

		if err := rows.Scan(&id, &group.Name, &group.Key, &group.Description, &permissions, &group.CreatedAt, &group.UpdatedAt); err != nil {
			return nil, err
		}

		group.ID, err = ulid.Parse(id)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(permissions, &group.Permissions); err != nil {
			return nil, err
		}

		list.Data = append(list.Data, group)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	list.Count = len(list.Data)
	return list, nil
}

func (r *GroupRepository) Update(ctx context.Context, group *domain.Group) error {
	permissions, err := json.Marshal(group.Permissions)
	if err != nil {
		return err
	}

	tag, err := r.db.ExecTag(ctx, `
		UPDATE groups
		SET name = $1, description = $2, permissions = $3, updated_at = $4
		WHERE key = $5
	`, group.Name, group.Description, permissions, group.UpdatedAt, group.Key)
	if err != nil {
		r.logger.Error("failed to update group", zap.Error(err))
		return domain.ErrDatabaseQuery
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

func (r *GroupRepository) Delete(ctx context.Context, key string) error {
	tag, err := r.db.ExecTag(ctx, "DELETE FROM groups WHERE key = $1", key)
	if err != nil {
		r.logger.Error("failed to delete group", zap.Error(err))
		return domain.ErrDatabaseQuery
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}
