package websearch

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachingSearcher wraps a Searcher with a short-TTL in-process cache.
// During a live meeting the same question tends to be searched several times
// in quick succession; caching keeps repeat lookups off the paid provider.
type CachingSearcher struct {
	inner Searcher
	cache *gocache.Cache
}

var _ Searcher = (*CachingSearcher)(nil)

// NewCachingSearcher wraps inner with a cache whose entries expire after ttl.
func NewCachingSearcher(inner Searcher, ttl time.Duration) *CachingSearcher {
	return &CachingSearcher{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Search returns cached results for a repeated (query, maxResults) pair,
// delegating to the wrapped searcher on a miss. Errors are not cached.
func (s *CachingSearcher) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	key := fmt.Sprintf("%d:%s", maxResults, query)

	if cached, ok := s.cache.Get(key); ok {
		if results, ok := cached.([]Result); ok {
			return results, nil
		}
	}

	results, err := s.inner.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, results, gocache.DefaultExpiration)
	return results, nil
}
