package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eventure/eventure-api/internal/models"
	"github.com/eventure/eventure-api/internal/repository"
)

const zipKeyPrefix = "eventure:zip:"

// ZipCache caches ZIP centroids in front of a ZipRepository.
// Cache failures are logged and the lookup falls through to the repository.
type ZipCache struct {
	inner repository.ZipRepository
	store Store
	ttl   time.Duration
}

// NewZipRepository wraps inner with a cache when store is non-nil.
func NewZipRepository(inner repository.ZipRepository, store Store, ttl time.Duration) repository.ZipRepository {
	if store == nil {
		return inner
	}
	return &ZipCache{inner: inner, store: store, ttl: ttl}
}

// Lookup resolves a ZIP code, reading through the cache.
// Unknown ZIP codes are not cached.
func (c *ZipCache) Lookup(ctx context.Context, zip string) (*models.ZipLocation, error) {
	key := zipKeyPrefix + zip

	data, found, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("zip", zip).Msg("Zip cache read failed")
	case found:
		var location models.ZipLocation
		if err := json.Unmarshal(data, &location); err == nil {
			return &location, nil
		}
		log.Warn().Str("zip", zip).Msg("Discarding malformed zip cache entry")
	}

	location, err := c.inner.Lookup(ctx, zip)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(location); err == nil {
		if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
			log.Warn().Err(err).Str("zip", zip).Msg("Zip cache write failed")
		}
	}

	return location, nil
}
