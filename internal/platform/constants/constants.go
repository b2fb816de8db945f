// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package constants centralizes shared values used across the LinkBridge
// platform layer so that service packages do not hard-code magic numbers.
package constants

import "time"

// # Application Identity

const (
	// AppName identifies the service in logs and token claims.
	AppName = "linkbridge"

	// AuthIssuer is the "iss" claim stamped on every session token.
	AuthIssuer = "linkbridge-api"
)

// # HTTP Server Timeouts

const (
	// GlobalRequestTimeout bounds end-to-end request handling, including
	// the per-connection statement timeout on the database.
	GlobalRequestTimeout = 30 * time.Second

	ServerReadTimeout       = 10 * time.Second
	ServerReadHeaderTimeout = 5 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second
	ServerShutdownTimeout   = 15 * time.Second
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderOrigin        = "Origin"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderAuthorization = "Authorization"
)

// # Request Limits

const (
	// MaxJSONBodySize caps JSON request bodies at 1 MiB.
	MaxJSONBodySize = 1 << 20

	// MaxUploadSize caps multipart uploads (avatars, icons, backgrounds)
	// at 8 MiB.
	MaxUploadSize = 8 << 20

	// RateLimitPerSecond is the steady-state request rate per client IP.
	RateLimitPerSecond = 20

	// RateLimitBurst is the burst capacity per client IP.
	RateLimitBurst = 40

	// RateLimitCleanupInterval is how often idle client buckets are swept.
	RateLimitCleanupInterval = 3 * time.Minute

	// RateLimitClientTTL is how long an idle client bucket is retained.
	RateLimitClientTTL = 10 * time.Minute
)

// # Cache Keys

const (
	// RedisKeyProfilePrefix prefixes cached public Linktree profiles,
	// keyed by username.
	RedisKeyProfilePrefix = "linkbridge:profile:"

	// ProfileCacheTTL bounds staleness of the public profile cache.
	ProfileCacheTTL = 60 * time.Second
)

// # External Call Timeouts

const (
	// ProviderTimeout bounds identity verification calls to GitHub and
	// Google userinfo endpoints.
	ProviderTimeout = 10 * time.Second

	// StorageTimeout bounds object-storage uploads and deletes.
	StorageTimeout = 30 * time.Second

	// MailTimeout bounds SMTP delivery of transactional email.
	MailTimeout = 15 * time.Second
)
