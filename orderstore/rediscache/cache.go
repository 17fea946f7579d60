// Package rediscache implements the tag-aware cache contract on Redis.
//
// Entries are plain key/value pairs with per-entry TTLs. Each entry may be
// labeled with invalidation tags; a tag is a Redis set holding the keys
// labeled with it, so invalidating a tag deletes every labeled entry in one
// round trip regardless of how entries were keyed.
package rediscache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tradewind-labs/orderstore-go/orderstore"
)

const tagKeyPrefix = "tag:"

const (
	logMsgCacheSetFailed        = "cache set failed"
	logMsgCacheInvalidateFailed = "cache invalidation failed"

	logAttrError = "error"
	logAttrKey   = "key"
	logAttrTag   = "tag"
)

// Cache is the Redis implementation of the orderstore cache contract.
type Cache struct {
	client redis.UniversalClient
	logger orderstore.Logger
}

// Option defines a functional option for configuring the Cache.
type Option func(*Cache) error

// WithLogger sets a logger for cache warnings and error reporting.
func WithLogger(logger orderstore.Logger) Option {
	return func(c *Cache) error {
		c.logger = logger
		return nil
	}
}

// New creates a Cache on the given Redis client with optional configuration.
func New(client redis.UniversalClient, options ...Option) (*Cache, error) {
	if client == nil {
		return nil, errors.New("redis client must not be nil")
	}

	cache := &Cache{client: client}

	for _, option := range options {
		if err := option(cache); err != nil {
			return nil, err
		}
	}

	return cache, nil
}

// Get returns the cached value for key, or ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, orderstore.ErrCacheMiss
		}

		return nil, err
	}

	return value, nil
}

// Set stores value under key with the given TTL and labels the entry with the
// given invalidation tags. The tag sets themselves carry no TTL: a stale
// member simply points at an expired key, and invalidation tolerates that.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, value, ttl)

		for _, tag := range tags {
			pipe.SAdd(ctx, tagKeyPrefix+tag, key)
		}

		return nil
	})
	if err != nil {
		c.logError(logMsgCacheSetFailed, err, logAttrKey, key)

		return err
	}

	return nil
}

// Invalidate deletes every entry labeled with any of the given tags, plus the
// tag sets themselves.
func (c *Cache) Invalidate(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		tagKey := tagKeyPrefix + tag

		members, err := c.client.SMembers(ctx, tagKey).Result()
		if err != nil {
			c.logError(logMsgCacheInvalidateFailed, err, logAttrTag, tag)

			return err
		}

		toDelete := append(members, tagKey)

		if err := c.client.Del(ctx, toDelete...).Err(); err != nil {
			c.logError(logMsgCacheInvalidateFailed, err, logAttrTag, tag)

			return err
		}
	}

	return nil
}

func (c *Cache) logError(message string, err error, args ...any) {
	if c.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		c.logger.Error(message, allArgs...)
	}
}
