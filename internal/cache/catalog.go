// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// catalog.go provides a Valkey-backed cache for the serialized course
// catalog. Assembling the catalog response joins courses, objectives,
// tags and the parent/child index, so the finished JSON is kept in
// Valkey and invalidated whenever a scrape or a promotion changes the
// underlying rows.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// CatalogKey is the Valkey key holding the serialized course catalog.
	CatalogKey = "catalog:courses"

	// DefaultCatalogTTL bounds staleness when an invalidation is missed.
	DefaultCatalogTTL = 15 * time.Minute
)

// CatalogCache manages the serialized catalog payload in Valkey.
// A nil *CatalogCache is valid and disables caching.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a catalog cache backed by the given Valkey client.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl == 0 {
		ttl = DefaultCatalogTTL
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// Get retrieves the cached catalog payload. Returns (nil, false) on miss.
func (cc *CatalogCache) Get(ctx context.Context) ([]byte, bool) {
	if cc == nil {
		return nil, false
	}
	val, err := cc.client.Get(ctx, CatalogKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("catalog cache get error", "error", err)
		return nil, false
	}
	slog.Debug("catalog cache hit")
	return val, true
}

// Set stores the serialized catalog with the configured TTL.
func (cc *CatalogCache) Set(ctx context.Context, payload []byte) {
	if cc == nil {
		return
	}
	if err := cc.client.Set(ctx, CatalogKey, payload, cc.ttl).Err(); err != nil {
		slog.Warn("catalog cache set error", "error", err)
	}
}

// Invalidate drops the cached catalog. Called after every ingest batch and
// after every promotion so readers never see pre-mutation data.
func (cc *CatalogCache) Invalidate(ctx context.Context) {
	if cc == nil {
		return
	}
	if err := cc.client.Del(ctx, CatalogKey).Err(); err != nil {
		slog.Warn("catalog cache invalidate error", "error", err)
	}
	slog.Debug("catalog cache invalidated")
}
