package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis is a Cache backed by a redis server. Entries expire after TTL;
// a zero TTL keeps them until evicted by the server.
type Redis struct {
	client    redis.UniversalClient
	namespace string
	ttl       time.Duration
}

// NewRedis connects to addr and namespaces every key with "chartlab:".
func NewRedis(addr string, db int, ttl time.Duration) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	return NewRedisWithClient(client, ttl)
}

func NewRedisWithClient(client redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{client: client, namespace: "chartlab:", ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.namespace+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	log.Debugf("[redis] get key %q, %d bytes", key, len(data))
	return data, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	log.Debugf("[redis] set key %q, %d bytes, expiration = %s", key, len(value), r.ttl)
	return r.client.Set(ctx, r.namespace+key, value, r.ttl).Err()
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
