// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, pipeline thresholds, and cross-cutting
keys that are shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Pipeline Defaults: Cache TTLs, similarity thresholds, and retry policy.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "qissa-moderation"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight work to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Pipeline Defaults

const (
	// DefaultKeywordCacheTTL is how long a per-language keyword dictionary
	// stays cached before the next read goes back to the store.
	DefaultKeywordCacheTTL = 1 * time.Hour

	// DefaultSimilarityThreshold is the minimum fuzzy-match score (0-100)
	// at which a transcript token counts as a banned keyword hit.
	DefaultSimilarityThreshold = 80

	// DefaultTaskMaxAttempts bounds pipeline task executions: the first run
	// plus three retries.
	DefaultTaskMaxAttempts = 4

	// DefaultTaskRetryDelay is how long a failed task waits before it is
	// eligible to be claimed again.
	DefaultTaskRetryDelay = 60 * time.Second

	// DefaultTaskLease is how long a claimed task may sit in running before
	// it is presumed orphaned by a dead worker and claimed again.
	DefaultTaskLease = 10 * time.Minute
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaCore       = "core"
	SchemaModeration = "moderation"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixKeywords = "moderation:keywords:"
)
