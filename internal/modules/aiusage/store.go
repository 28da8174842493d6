package aiusage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keeps monthly counters in Redis.
type Store struct {
	rdb *redis.Client
}

// NewStore returns a Store backed by the given Redis client.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Incr bumps the counter and sets its expiry in one transaction. ExpireNX leaves an existing
// TTL alone, so the period's expiry is fixed by the first call.
func (s *Store) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
