// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Redis implementation of the public-profile cache.
//
// # Architecture
//
// Public profiles are read far more often than they change, so assembled
// [PublicProfile] values are cached as JSON under a per-username key with a
// short TTL. A cache miss returns (nil, nil); the cache never invents errors
// the page could not recover from.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/linkbridge/internal/platform/constants"
)

// RedisProfileCache implements ProfileCache on a Redis client.
type RedisProfileCache struct {
	client *redis.Client
}

// Enforce interface compliance at compile time.
var _ ProfileCache = (*RedisProfileCache)(nil)

// NewProfileCache creates a Redis-backed public-profile cache.
func NewProfileCache(client *redis.Client) *RedisProfileCache {
	return &RedisProfileCache{client: client}
}

// profileKey builds the namespaced cache key for a username.
func profileKey(username string) string {
	return constants.RedisKeyProfilePrefix + username
}

/*
Get returns the cached profile for a username, or (nil, nil) on a miss.

Parameters:
  - context: context.Context
  - username: Cache key component, the page's username

Returns:
  - *PublicProfile: The cached profile, nil on a miss
  - error: Connectivity or decoding failures
*/
func (cache *RedisProfileCache) Get(context context.Context, username string) (*PublicProfile, error) {
	payload, err := cache.client.Get(context, profileKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_profile_cache_get_failed: %w", err)
	}

	profile := &PublicProfile{}
	if err := json.Unmarshal(payload, profile); err != nil {
		return nil, fmt.Errorf("redis_profile_cache_decode_failed: %w", err)
	}

	return profile, nil
}

/*
Set stores the assembled profile under the username's key for the given TTL.
*/
func (cache *RedisProfileCache) Set(context context.Context, username string, profile *PublicProfile, ttl time.Duration) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("redis_profile_cache_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, profileKey(username), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_profile_cache_set_failed: %w", err)
	}

	return nil
}

/*
Invalidate drops the cached profiles for the given usernames. Unknown keys
are not an error; DEL is idempotent.
*/
func (cache *RedisProfileCache) Invalidate(context context.Context, usernames ...string) error {
	if len(usernames) == 0 {
		return nil
	}

	keys := make([]string, 0, len(usernames))
	for _, username := range usernames {
		keys = append(keys, profileKey(username))
	}

	if err := cache.client.Del(context, keys...).Err(); err != nil {
		return fmt.Errorf("redis_profile_cache_invalidate_failed: %w", err)
	}

	return nil
}
