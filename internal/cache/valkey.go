// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectValkey creates a Valkey client and verifies the connection with a ping.
func ConnectValkey(host, port, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("valkey ping: %w", err)
	}

	slog.Info("valkey connected", "addr", fmt.Sprintf("%s:%s", host, port))
	return client, nil
}

// Valkey is the production Store implementation backed by a Valkey client.
type Valkey struct {
	client *redis.Client
}

// NewValkey wraps a connected Valkey client as a cache Store.
func NewValkey(client *redis.Client) *Valkey {
	return &Valkey{client: client}
}

// Get retrieves a cached value. Returns false on miss or backend error.
func (v *Valkey) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := v.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores a value with the given TTL (DefaultTTL when zero).
func (v *Valkey) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if err := v.client.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Warn("cache set error", "key", key, "error", err)
	}
}

// Delete removes the given keys.
func (v *Valkey) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := v.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("cache delete error", "keys", keys, "error", err)
	}
}

// DeletePrefix removes all keys matching prefix* by scanning the keyspace.
func (v *Valkey) DeletePrefix(ctx context.Context, prefix string) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := v.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			slog.Warn("cache scan error", "prefix", prefix, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := v.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("cache bulk delete error", "prefix", prefix, "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("cache prefix cleared", "prefix", prefix, "deleted", deleted)
	}
}
