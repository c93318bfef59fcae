// Package redis implements the answer cache on Redis.
package redis

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/adapter/observability"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/domain"
)

// AnswerCache stores serialized answers with a TTL. Last write wins; there is
// no transactional guarantee, and none is needed for cached advice.
type AnswerCache struct {
	rdb *goredis.Client
}

// New constructs an AnswerCache over an existing Redis client.
func New(rdb *goredis.Client) *AnswerCache {
	return &AnswerCache{rdb: rdb}
}

// Get returns the cached answer for key, reporting whether it was present.
func (c *AnswerCache) Get(ctx domain.Context, key string) (domain.Answer, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		observability.CacheHit("miss")
		return domain.Answer{}, false, nil
	}
	if err != nil {
		return domain.Answer{}, false, fmt.Errorf("op=cache.Get: %w", err)
	}
	var a domain.Answer
	if err := json.Unmarshal(raw, &a); err != nil {
		// Treat undecodable entries as a miss; they will be overwritten.
		observability.CacheHit("miss")
		return domain.Answer{}, false, nil
	}
	observability.CacheHit("hit")
	return a, true, nil
}

// Set stores an answer under key for ttl.
func (c *AnswerCache) Set(ctx domain.Context, key string, a domain.Answer, ttl time.Duration) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("op=cache.Set: %w", err)
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("op=cache.Set: %w", err)
	}
	return nil
}

// Ping verifies connectivity for readiness checks.
func (c *AnswerCache) Ping(ctx domain.Context) error {
	return c.rdb.Ping(ctx).Err()
}
