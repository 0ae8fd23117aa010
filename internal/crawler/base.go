package crawler

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"sjsage522/lotwatcher/helpers"
	"sjsage522/lotwatcher/pkg/errors"
	"sjsage522/lotwatcher/services/cache"
)

// BaseCrawler provides the listing-page fetch shared by every source:
// a cache key that blocks requests for BlockTime after the site rate limits us.
type BaseCrawler struct {
	URL       string
	Listing   string
	CacheKey  string
	CacheSvc  cache.CacheService
	BlockTime time.Duration
}

// blocked returns a rate limit error while the block key is set
func (c *BaseCrawler) blocked() error {
	if c.CacheSvc == nil || c.CacheKey == "" {
		return nil
	}
	if _, err := c.CacheSvc.Get(c.CacheKey); err == nil {
		return errors.NewRateLimit(c.Listing, c.BlockTime)
	}
	return nil
}

// block sets the rate limiting key
func (c *BaseCrawler) block() error {
	if c.CacheSvc == nil || c.CacheKey == "" {
		return nil
	}
	return c.CacheSvc.Set(c.CacheKey, []byte(fmt.Sprintf("%d", c.BlockTime/time.Second)), c.BlockTime)
}

// HTTPSource fetches the listing page with the shared browser-like client
type HTTPSource struct {
	BaseCrawler
}

// NewHTTPSource creates a new HTTP listing source
func NewHTTPSource(url, listing string, cacheSvc cache.CacheService, blockTime time.Duration) *HTTPSource {
	return &HTTPSource{
		BaseCrawler: BaseCrawler{
			URL:       url,
			Listing:   listing,
			CacheKey:  listing + "_rate_limited",
			CacheSvc:  cacheSvc,
			BlockTime: blockTime,
		},
	}
}

// GetName returns the source name
func (c *HTTPSource) GetName() string {
	return "HTTPSource"
}

// FetchPage implements PageSource
func (c *HTTPSource) FetchPage(ctx context.Context) ([]byte, error) {
	if err := c.blocked(); err != nil {
		return nil, err
	}

	utf8Body, err := helpers.FetchWithRandomHeaders(ctx, c.URL)
	if err != nil {
		if stderrors.Is(err, helpers.ErrRateLimited) {
			if setErr := c.block(); setErr != nil {
				return nil, errors.NewFetch(c.Listing, "failed to set rate limit block", setErr)
			}
			return nil, errors.NewRateLimit(c.Listing, c.BlockTime)
		}
		return nil, errors.NewFetch(c.Listing, "failed to fetch listing page", err)
	}

	page, err := io.ReadAll(utf8Body)
	if err != nil {
		return nil, errors.NewFetch(c.Listing, "failed to read listing page", err)
	}
	return page, nil
}
