package factcheck

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkarpov/truthshield/internal/cache"
)

// CachedSearcher caches successful pages for the configured TTL. Errors are
// never cached, so a failed call can be retried by re-submitting.
type CachedSearcher struct {
	inner Searcher
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedSearcher wraps a Searcher with a response cache.
func NewCachedSearcher(inner Searcher, c cache.Cache, ttl time.Duration) *CachedSearcher {
	return &CachedSearcher{inner: inner, cache: c, ttl: ttl}
}

// Search serves identical requests from the cache within the TTL.
func (s *CachedSearcher) Search(ctx context.Context, req SearchRequest) (*Page, error) {
	key := cache.SearchKey(req.Query, req.Language, req.PageToken, req.PageSize)

	if data, found := s.cache.Get(key); found {
		var page Page
		if err := json.Unmarshal(data, &page); err == nil {
			return &page, nil
		}
		// Corrupt entry: drop it and fetch fresh.
		_ = s.cache.Delete(key)
	}

	page, err := s.inner.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(page); err == nil {
		_ = s.cache.Set(key, data, s.ttl)
	}
	return page, nil
}
