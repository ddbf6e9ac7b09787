package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/castellan/site-auth/internal/domain"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// MockGroupRepository is a mock implementation of domain.GroupRepository
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) Create(ctx context.Context, group *domain.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepository) FindByKey(ctx context.Context, key string) (*domain.Group, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) FindAll(ctx context.Context) (*domain.GroupList, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GroupList), args.Error(1)
}

func (m *MockGroupRepository) Update(ctx context.Context, group *domain.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func newTestCache(t *testing.T) (*GroupCache, *MockGroupRepository, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	repo := new(MockGroupRepository)

	return NewGroupCache(repo, client, zap.NewNop()), repo, server
}

func testGroupList() *domain.GroupList {
	return &domain.GroupList{
		Count: 1,
		Data: []*domain.Group{
			{
				ID:          ulid.Make(),
				Name:        "Engineering",
				Key:         "eng",
				Permissions: []string{domain.PermViewMember},
				CreatedAt:   time.Now().UTC().Truncate(time.Second),
				UpdatedAt:   time.Now().UTC().Truncate(time.Second),
			},
		},
	}
}

func TestGroupCache_FindAllGroups(t *testing.T) {
	t.Run("miss fills the cache and hit skips the repository", func(t *testing.T) {
		cache, repo, server := newTestCache(t)
		list := testGroupList()
		repo.On("FindAll", mock.Anything).Return(list, nil).Once()

		got, err := cache.FindAllGroups(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, got.Count)
		assert.True(t, server.Exists("auth-groups"))

		// Second call must be served from Redis; the mock allows one call only
		got, err = cache.FindAllGroups(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "eng", got.Data[0].Key)
		repo.AssertExpectations(t)
	})

	t.Run("repository failure propagates", func(t *testing.T) {
		cache, repo, _ := newTestCache(t)
		repo.On("FindAll", mock.Anything).Return(nil, domain.ErrDatabaseQuery)

		_, err := cache.FindAllGroups(context.Background())
		assert.ErrorIs(t, err, domain.ErrDatabaseQuery)
	})

	t.Run("undecodable entry is discarded with the decode error logged", func(t *testing.T) {
		server := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: server.Addr()})
		repo := new(MockGroupRepository)
		core, logs := observer.New(zap.WarnLevel)
		cache := NewGroupCache(repo, client, zap.New(core))

		require.NoError(t, server.Set("auth-groups", "not json"))
		list := testGroupList()
		repo.On("FindAll", mock.Anything).Return(list, nil)

		got, err := cache.FindAllGroups(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, got.Count)

		entries := logs.FilterMessage("Discarding undecodable group cache entry").All()
		require.Len(t, entries, 1)
		field := entries[0].ContextMap()["error"]
		require.NotNil(t, field)
		assert.Contains(t, field.(string), "invalid character")
	})

	t.Run("redis outage falls through to repository", func(t *testing.T) {
		cache, repo, server := newTestCache(t)
		list := testGroupList()
		repo.On("FindAll", mock.Anything).Return(list, nil)
		server.Close()

		got, err := cache.FindAllGroups(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, got.Count)
	})
}

func TestGroupCache_MutationsFlush(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cache *GroupCache, repo *MockGroupRepository) error
	}{
		{
			name: "create",
			mutate: func(cache *GroupCache, repo *MockGroupRepository) error {
				repo.On("Create", mock.Anything, mock.Anything).Return(nil)
				return cache.Create(context.Background(), &domain.Group{Key: "new"})
			},
		},
		{
			name: "update",
			mutate: func(cache *GroupCache, repo *MockGroupRepository) error {
				repo.On("Update", mock.Anything, mock.Anything).Return(nil)
				return cache.Update(context.Background(), &domain.Group{Key: "eng"})
			},
		},
		{
			name: "delete",
			mutate: func(cache *GroupCache, repo *MockGroupRepository) error {
				repo.On("Delete", mock.Anything, "eng").Return(nil)
				return cache.Delete(context.Background(), "eng")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache, repo, server := newTestCache(t)
			repo.On("FindAll", mock.Anything).Return(testGroupList(), nil)

			_, err := cache.FindAllGroups(context.Background())
			require.NoError(t, err)
			require.True(t, server.Exists("auth-groups"))

			require.NoError(t, tt.mutate(cache, repo))
			assert.False(t, server.Exists("auth-groups"))
		})
	}
}

func TestGroupCache_MutationFailureKeepsCache(t *testing.T) {
	cache, repo, server := newTestCache(t)
	repo.On("FindAll", mock.Anything).Return(testGroupList(), nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(domain.ErrGroupNotFound)

	_, err := cache.FindAllGroups(context.Background())
	require.NoError(t, err)

	err = cache.Update(context.Background(), &domain.Group{Key: "ghost"})
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)
	assert.True(t, server.Exists("auth-groups"))
}
