package mapbox

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/couchcryptid/impact-yield-explorer/internal/domain"
	"github.com/couchcryptid/impact-yield-explorer/internal/observability"
)

// CachedLookup wraps a BoundsLookup with an in-memory LRU cache.
type CachedLookup struct {
	inner   domain.BoundsLookup
	cache   *lru.Cache[string, domain.Bounds]
	metrics *observability.Metrics
}

// NewCachedLookup creates a cache decorator around a bounds lookup.
func NewCachedLookup(inner domain.BoundsLookup, maxEntries int, metrics *observability.Metrics) (*CachedLookup, error) {
	cache, err := lru.New[string, domain.Bounds](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create bounds cache: %w", err)
	}
	return &CachedLookup{inner: inner, cache: cache, metrics: metrics}, nil
}

func (c *CachedLookup) CountryBounds(ctx context.Context, country string) (domain.Bounds, bool, error) {
	key := strings.ToLower(strings.TrimSpace(country))
	if bounds, ok := c.cache.Get(key); ok {
		c.metrics.BoundsCache.WithLabelValues("hit").Inc()
		return bounds, true, nil
	}
	c.metrics.BoundsCache.WithLabelValues("miss").Inc()

	bounds, found, err := c.inner.CountryBounds(ctx, country)
	if err != nil {
		return bounds, false, err
	}
	// Only cache found results so "not found" responses can be retried.
	if found {
		c.cache.Add(key, bounds)
	}
	return bounds, found, nil
}
