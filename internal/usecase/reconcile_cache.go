package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/coinfolio/coinfolio/internal/domain"
	"github.com/coinfolio/coinfolio/internal/infrastructure/metrics"
)

const (
	summaryCacheKey      = "portfolio:summary"
	transactionsCacheKey = "portfolio:transactions"
)

func reconcileCacheKey(symbol string) string {
	return "reconcile:" + symbol
}

// CachedReconciler memoizes reconciliation results for a short TTL. It is a
// separate layer above the engine so the engine itself stays a pure function
// of its sources. A cache failure degrades to a fresh reconcile.
type CachedReconciler struct {
	inner  Reconciler
	cache  Cache
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedReconciler wraps a Reconciler with a TTL cache.
func NewCachedReconciler(inner Reconciler, cache Cache, ttl time.Duration, logger zerolog.Logger) *CachedReconciler {
	return &CachedReconciler{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "reconcile-cache").Logger(),
	}
}

// Reconcile returns the cached view when fresh, otherwise delegates and
// stores the result.
func (c *CachedReconciler) Reconcile(ctx context.Context, symbol string) (*ReconcileResult, error) {
	symbol = domain.NormalizeSymbol(symbol)
	key := reconcileCacheKey(symbol)

	if data, err := c.cache.Get(ctx, key); err == nil && len(data) > 0 {
		var res ReconcileResult
		decodeErr := json.Unmarshal(data, &res)
		if decodeErr == nil {
			metrics.CacheLookup("reconcile", true)
			return &res, nil
		}
		c.logger.Warn().Err(decodeErr).Str("symbol", symbol).Msg("dropping undecodable cache entry")
		if err := c.cache.Delete(ctx, key); err != nil {
			c.logger.Warn().Err(err).Str("symbol", symbol).Msg("cache delete failed")
		}
	}
	metrics.CacheLookup("reconcile", false)

	res, err := c.inner.Reconcile(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(res); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.Warn().Err(err).Str("symbol", symbol).Msg("cache write failed")
		}
	}

	return res, nil
}

// Invalidate drops the cached view for one symbol.
func (c *CachedReconciler) Invalidate(ctx context.Context, symbol string) {
	symbol = domain.NormalizeSymbol(symbol)
	if err := c.cache.Delete(ctx, reconcileCacheKey(symbol)); err != nil {
		c.logger.Warn().Err(err).Str("symbol", symbol).Msg("cache invalidation failed")
	}
}
