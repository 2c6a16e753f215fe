// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package keyword

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qissahq/qissa/internal/language"
	"github.com/qissahq/qissa/internal/platform/constants"
)

// # Read-Through Cache

// KV is the minimal key-value contract the cache needs. It exists so tests
// can substitute an in-memory map for Redis.
type KV interface {
	// Get returns the cached value and whether the key was present.
	Get(context context.Context, key string) (string, bool, error)
	// Set stores value under key with the given TTL.
	Set(context context.Context, key string, value string, ttl time.Duration) error
}

// Cache is the read-through banned-keyword dictionary cache.
//
// # Failure Semantics
//
// The cache degrades, never fails: a KV error falls through to the durable
// store, and a store error yields an empty dictionary (screening then relies
// on sentiment alone). Both paths are logged.
type Cache struct {
	store  Store
	kv     KV
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache constructs a [Cache] over the durable store and a KV backend.
func NewCache(store Store, kv KV, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = constants.DefaultKeywordCacheTTL
	}
	return &Cache{store: store, kv: kv, ttl: ttl, logger: logger}
}

/*
KeywordsFor returns the banned terms for a human-readable language name.

Description: The name is mapped to a primary code (unknown names default to
English), then resolved through the cache. Terms are lowercased, trimmed,
NFC-normalized, and never empty.

Parameters:
  - context: context.Context
  - languageName: string (e.g. "English", "Urdu")

Returns:
  - []string: Banned terms; empty when the dictionary is empty or unreachable
*/
func (cache *Cache) KeywordsFor(context context.Context, languageName string) []string {

	code := language.PrimaryCode(languageName)
	key := constants.RedisPrefixKeywords + code

	// 1. Cache hit path
	if cached, found, err := cache.kv.Get(context, key); err != nil {
		cache.logger.Warn("keyword_cache_read_failed",
			slog.String("language_code", code),
			slog.Any("error", err),
		)
	} else if found {
		var terms []string
		if err := json.Unmarshal([]byte(cached), &terms); err == nil {
			return terms
		}
		cache.logger.Warn("keyword_cache_entry_corrupt", slog.String("language_code", code))
	}

	// 2. Cache miss: consult the durable store
	raw, err := cache.store.ListTerms(context, code)
	if err != nil {
		// Degrade to an empty dictionary so screening can continue on
		// sentiment alone.
		cache.logger.Error("keyword_store_unavailable",
			slog.String("language_code", code),
			slog.Any("error", err),
		)
		return nil
	}

	terms := CleanTerms(raw)

	// 3. Populate the cache (best-effort)
	if encoded, err := json.Marshal(terms); err == nil {
		if err := cache.kv.Set(context, key, string(encoded), cache.ttl); err != nil {
			cache.logger.Warn("keyword_cache_write_failed",
				slog.String("language_code", code),
				slog.Any("error", err),
			)
		}
	}

	return terms
}

// # Redis Backend

// redisKV adapts a go-redis client to the [KV] contract.
type redisKV struct {
	client *redis.Client
}

// NewRedisKV wraps a Redis client as the cache's KV backend.
func NewRedisKV(client *redis.Client) KV {
	return &redisKV{client: client}
}

// Get implements [KV].
func (kv *redisKV) Get(context context.Context, key string) (string, bool, error) {
	value, err := kv.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis_keyword_get_failed: %w", err)
	}
	return value, true, nil
}

// Set implements [KV].
func (kv *redisKV) Set(context context.Context, key string, value string, ttl time.Duration) error {
	if err := kv.client.Set(context, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis_keyword_set_failed: %w", err)
	}
	return nil
}
