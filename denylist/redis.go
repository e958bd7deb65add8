package denylist

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/tep-hq/playbook"
)

// DefaultRedisPrefix namespaces denylist keys.
const DefaultRedisPrefix = "playbook:denylist:"

// Redis is a Store kept in Redis, using key expiry to forget tokens.
type Redis struct {
	c      redis.Cmdable
	prefix string
	now    func() time.Time
}

// NewRedis constructs a *Redis using c.
func NewRedis(c redis.Cmdable, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}

	return &Redis{c: c, prefix: prefix, now: time.Now}
}

// NewRedisFromURL connects to the Redis server at uri.
// A non-empty password overrides any in uri.
func NewRedisFromURL(uri, password string) (*Redis, *redis.Client, error) {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: parsing redis URL: %s", playbook.ErrBadConfig, err)
	}

	if password != "" {
		opts.Password = password
	}

	c := redis.NewClient(opts)
	return NewRedis(c, ""), c, nil
}

// Revoke implements Store.
func (r *Redis) Revoke(ctx context.Context, token string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}

	if err := r.c.Set(ctx, r.prefix+Key(token), 1, ttl).Err(); err != nil {
		return fmt.Errorf("%w: revoking token: %s", playbook.ErrUnexpected, err)
	}

	return nil
}

// Revoked implements Store.
func (r *Redis) Revoked(ctx context.Context, token string) (bool, error) {
	n, err := r.c.Exists(ctx, r.prefix+Key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: checking token: %s", playbook.ErrUnexpected, err)
	}

	return n > 0, nil
}
