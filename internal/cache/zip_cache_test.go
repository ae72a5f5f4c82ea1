package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventure/eventure-api/internal/cache"
	"github.com/eventure/eventure-api/internal/config"
	"github.com/eventure/eventure-api/internal/models"
	"github.com/eventure/eventure-api/internal/utils"
)

// memoryStore is an in-memory cache.Store
type memoryStore struct {
	data    map[string][]byte
	ttls    map[string]time.Duration
	failGet bool
	failSet bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if s.failGet {
		return nil, false, errors.New("redis down")
	}
	value, ok := s.data[key]
	return value, ok, nil
}

func (s *memoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if s.failSet {
		return errors.New("redis down")
	}
	s.data[key] = value
	s.ttls[key] = ttl
	return nil
}

func (s *memoryStore) Ping(context.Context) error { return nil }
func (s *memoryStore) Close() error               { return nil }

// MockZipRepository is a mock implementation of repository.ZipRepository
type MockZipRepository struct {
	LookupFunc func(ctx context.Context, zip string) (*models.ZipLocation, error)
	calls      int
}

func (m *MockZipRepository) Lookup(ctx context.Context, zip string) (*models.ZipLocation, error) {
	m.calls++
	return m.LookupFunc(ctx, zip)
}

func knownZips() *MockZipRepository {
	return &MockZipRepository{
		LookupFunc: func(ctx context.Context, zip string) (*models.ZipLocation, error) {
			if zip == "10001" {
				return &models.ZipLocation{ZipCode: zip, Lat: 40.75, Lng: -73.99}, nil
			}
			return nil, utils.NewNotFoundError("ZIP code", zip)
		},
	}
}

func TestNewZipRepository_NilStore(t *testing.T) {
	inner := knownZips()
	assert.Same(t, inner, cache.NewZipRepository(inner, nil, time.Hour))
}

func TestZipCache_ReadThrough(t *testing.T) {
	inner := knownZips()
	store := newMemoryStore()
	repo := cache.NewZipRepository(inner, store, time.Hour)
	ctx := context.Background()

	first, err := repo.Lookup(ctx, "10001")
	require.NoError(t, err)
	second, err := repo.Lookup(ctx, "10001")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, time.Hour, store.ttls["eventure:zip:10001"])
}

func TestZipCache_UnknownZipNotCached(t *testing.T) {
	inner := knownZips()
	store := newMemoryStore()
	repo := cache.NewZipRepository(inner, store, time.Hour)

	_, err := repo.Lookup(context.Background(), "99999")
	assert.True(t, utils.IsNotFoundError(err))
	_, err = repo.Lookup(context.Background(), "99999")
	assert.True(t, utils.IsNotFoundError(err))

	assert.Equal(t, 2, inner.calls)
	assert.Empty(t, store.data)
}

func TestZipCache_StoreFailuresFallThrough(t *testing.T) {
	inner := knownZips()
	store := newMemoryStore()
	store.failGet = true
	store.failSet = true
	repo := cache.NewZipRepository(inner, store, time.Hour)

	location, err := repo.Lookup(context.Background(), "10001")

	require.NoError(t, err)
	assert.InDelta(t, 40.75, location.Lat, 0.0001)
}

func TestZipCache_MalformedEntry(t *testing.T) {
	inner := knownZips()
	store := newMemoryStore()
	store.data["eventure:zip:10001"] = []byte("{not json")
	repo := cache.NewZipRepository(inner, store, time.Hour)

	location, err := repo.Lookup(context.Background(), "10001")

	require.NoError(t, err)
	assert.Equal(t, "10001", location.ZipCode)
	assert.Equal(t, 1, inner.calls)
}

func TestNewRedisStore_Disabled(t *testing.T) {
	store, err := cache.NewRedisStore(context.Background(), &config.RedisSettings{})
	assert.NoError(t, err)
	assert.Nil(t, store)
}
