package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const profileKeyPrefix = "profile:"

// ProfileCache is a read-through Redis cache for profile lookups. Concurrent
// misses for the same id collapse into a single store query. A nil client
// degrades to loading straight from the store.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewProfileCache instantiates the cache helper.
func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	return &ProfileCache{client: client, ttl: ttl}
}

// Fetch loads a cached profile or populates it using the loader.
func (c *ProfileCache) Fetch(ctx context.Context, id string, loader func(context.Context) (*User, error)) (*User, error) {
	if c == nil || c.client == nil {
		return loader(ctx)
	}

	key := profileKeyPrefix + id
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var user User
		if err := json.Unmarshal(payload, &user); err == nil {
			return &user, nil
		}
		// Unreadable entry, fall through and repopulate.
	} else if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	value, err, _ := c.group.Do(key, func() (any, error) {
		user, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		// PasswordHash carries json:"-" so the cached copy never holds the
		// hash. Only profile reads go through here; login always hits the store.
		if raw, err := json.Marshal(user); err == nil {
			// Best effort: a failed write only costs the next reader a query.
			_ = c.client.Set(ctx, key, raw, c.ttl).Err()
		}
		return user, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*User), nil
}

// Invalidate drops the cached profile after an update or delete.
func (c *ProfileCache) Invalidate(ctx context.Context, id string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, profileKeyPrefix+id).Err()
}
