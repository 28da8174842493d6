// README: Redis client initialization for chat quota counters.
package infra

import (
    "context"
    "fmt"

    "github.com/redis/go-redis/v9"
)

func NewRedis(ctx context.Context, addr string) (*redis.Client, error) {
    client := redis.NewClient(&redis.Options{Addr: addr})
    if err := client.Ping(ctx).Err(); err != nil {
        _ = client.Close()
        return nil, fmt.Errorf("redis ping %s: %w", addr, err)
    }
    return client, nil
}
