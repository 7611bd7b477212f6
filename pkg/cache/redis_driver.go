package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/boofino/boofino/config"
)

func marshal(v interface{}) ([]byte, error)   { return json.Marshal(v) }
func unmarshal(b []byte, v interface{}) error { return json.Unmarshal(b, v) }

// RedisDriver stores values in Redis.
type RedisDriver struct {
	rdb *redis.Client
	ctx context.Context
}

// Connect initialises the Redis driver, verifies the connection with a ping
// and installs it as the active driver. On failure the memory driver stays
// active so the application can still serve (sessions become node-local).
func Connect() error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache: redis ping: %w", err)
	}

	SetDriver(&RedisDriver{rdb: rdb, ctx: context.Background()})
	return nil
}

// Client exposes the underlying redis client, or nil when the redis driver
// is not active. Used by health checks.
func Client() *redis.Client {
	if d, ok := active().(*RedisDriver); ok {
		return d.rdb
	}
	return nil
}

func (d *RedisDriver) Name() string { return "redis" }

func (d *RedisDriver) Get(key string) ([]byte, bool) {
	val, err := d.rdb.Get(d.ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

func (d *RedisDriver) Set(key string, value []byte, ttl time.Duration) error {
	return d.rdb.Set(d.ctx, key, value, ttl).Err()
}

func (d *RedisDriver) Del(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return d.rdb.Del(d.ctx, keys...).Err()
}
