package schedule

import (
	"context"
	"time"

	"github.com/godilite/clinic-assistant/pkg/cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const rosterCacheKey = "schedule:roster"

// CachedSource puts a read-through cache in front of another source.
type CachedSource struct {
	next   RecordSource
	cache  cache.Cacher
	ttl    time.Duration
	sf     singleflight.Group
	logger *zap.Logger
}

func NewCachedSource(next RecordSource, c cache.Cacher, ttl time.Duration, logger *zap.Logger) *CachedSource {
	if next == nil || c == nil {
		panic("nil source or cache provided to NewCachedSource")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSource{
		next:   next,
		cache:  c,
		ttl:    ttl,
		logger: logger.Named("roster-cache"),
	}
}

func (s *CachedSource) Records(ctx context.Context) ([]Record, error) {
	return cache.FindAndCache(ctx, s.cache, &s.sf, rosterCacheKey, s.ttl, s.logger, s.next.Records)
}
