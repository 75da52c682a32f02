package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/youruser/mockupapp/internal/errs"
)

// DefaultRedisPrefix namespaces mockup keys.
const DefaultRedisPrefix = "mockup:"

// RedisSink keeps mockups as string values under <prefix><id>.
type RedisSink struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisSink wraps client. A zero ttl keeps keys forever.
func NewRedisSink(client redis.Cmdable, prefix string, ttl time.Duration) *RedisSink {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisSink{client: client, prefix: prefix, ttl: ttl}
}

// Key returns the redis key for id.
func (s *RedisSink) Key(id string) string { return s.prefix + id }

// Store implements Sink. The returned location is redis://<key>.
func (s *RedisSink) Store(ctx context.Context, id string, data []byte) (string, error) {
	if err := CheckID(id); err != nil {
		return "", err
	}
	key := s.Key(id)
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return "", errs.Wrap(errs.CodeStoreFailed, err, "redis SET %s", key)
	}
	return "redis://" + key, nil
}

// Load implements Sink.
func (s *RedisSink) Load(ctx context.Context, id string) ([]byte, error) {
	if err := CheckID(id); err != nil {
		return nil, err
	}
	key := s.Key(id)
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("mockup %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, errs.Wrap(errs.CodeStoreFailed, err, "redis GET %s", key)
	}
	return data, nil
}
