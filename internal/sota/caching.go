package sota

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/alexjj/wen-goat/internal/cache"
	"github.com/alexjj/wen-goat/internal/domain"
	"github.com/alexjj/wen-goat/internal/observability"
)

// Upstream is the pair of lookups CachingClient memoises.
type Upstream interface {
	domain.IdentityResolver
	domain.HistoryProvider
}

// CachingClient memoises successful upstream lookups by callsign and by user id.
// Failures are never cached, and nothing is ever evicted or invalidated.
type CachingClient struct {
	inner  Upstream
	store  cache.Store
	logger *zap.Logger
}

// NewCachingClient wraps inner with store.
func NewCachingClient(inner Upstream, store cache.Store, logger *zap.Logger) *CachingClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingClient{inner: inner, store: store, logger: logger}
}

// ResolveUserID implements domain.IdentityResolver.
func (c *CachingClient) ResolveUserID(ctx context.Context, callsign string) (int64, error) {
	id, hit, err := cache.Memoize(ctx, c.store, "callsign:"+callsign, func(ctx context.Context) (int64, error) {
		return c.inner.ResolveUserID(ctx, callsign)
	})
	switch {
	case errors.Is(err, cache.ErrStore):
		c.logger.Warn("cache unavailable, resolving directly", zap.String("callsign", callsign), zap.Error(err))
		observability.RecordCacheBypass("callsign")
		return c.inner.ResolveUserID(ctx, callsign)
	case errors.Is(err, cache.ErrStoreWrite):
		c.logger.Warn("cache write failed", zap.String("callsign", callsign), zap.Error(err))
	case err != nil:
		return 0, err
	}
	observability.RecordCacheLookup("callsign", hit)
	c.logger.Debug("resolved callsign", zap.String("callsign", callsign), zap.Int64("user_id", id), zap.Bool("cached", hit))
	return id, nil
}

// FetchActivations implements domain.HistoryProvider.
func (c *CachingClient) FetchActivations(ctx context.Context, userID int64) ([]domain.ActivationRecord, error) {
	key := "activations:" + strconv.FormatInt(userID, 10)
	records, hit, err := cache.Memoize(ctx, c.store, key, func(ctx context.Context) ([]domain.ActivationRecord, error) {
		return c.inner.FetchActivations(ctx, userID)
	})
	switch {
	case errors.Is(err, cache.ErrStore):
		c.logger.Warn("cache unavailable, fetching directly", zap.Int64("user_id", userID), zap.Error(err))
		observability.RecordCacheBypass("activations")
		return c.inner.FetchActivations(ctx, userID)
	case errors.Is(err, cache.ErrStoreWrite):
		c.logger.Warn("cache write failed", zap.Int64("user_id", userID), zap.Error(err))
	case err != nil:
		return nil, err
	}
	observability.RecordCacheLookup("activations", hit)
	c.logger.Debug("fetched activations", zap.Int64("user_id", userID), zap.Int("records", len(records)), zap.Bool("cached", hit))
	return records, nil
}
