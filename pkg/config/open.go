package config

import (
	"context"

	"github.com/partboard/partboard/pkg/cache"
	"github.com/partboard/partboard/pkg/store"
)

// OpenStore creates the document store the configuration selects.
func (c StoreConfig) OpenStore(ctx context.Context) (store.Store, error) {
	switch c.Backend {
	case BackendFile:
		return store.NewFileStore(c.Dir)
	case BackendRedis:
		return store.NewRedisStore(ctx, store.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
	case BackendMongo:
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        c.MongoURI,
			Database:   c.MongoDatabase,
			Collection: c.MongoCollection,
		})
	default:
		return store.NewMemoryStore(), nil
	}
}

// OpenCache creates the artifact cache the configuration selects. With
// caching disabled this returns a null cache, so callers never branch.
func (c CacheConfig) OpenCache() (cache.Cache, error) {
	if !c.Enabled {
		return cache.NewNullCache(), nil
	}
	if c.Dir != "" {
		return cache.NewFileCache(c.Dir)
	}
	return cache.NewMemoryCache(), nil
}
