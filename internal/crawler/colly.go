package crawler

import (
	"context"
	"net/http"
	"time"

	"sjsage522/lotwatcher/helpers"
	"sjsage522/lotwatcher/pkg/errors"
	"sjsage522/lotwatcher/services/cache"

	"github.com/gocolly/colly/v2"
)

// CollySource fetches the listing page through a colly collector
type CollySource struct {
	BaseCrawler
	timeout time.Duration
}

// NewCollySource creates a new colly-backed listing source
func NewCollySource(url, listing string, cacheSvc cache.CacheService, blockTime, timeout time.Duration) *CollySource {
	return &CollySource{
		BaseCrawler: BaseCrawler{
			URL:       url,
			Listing:   listing,
			CacheKey:  listing + "_rate_limited",
			CacheSvc:  cacheSvc,
			BlockTime: blockTime,
		},
		timeout: timeout,
	}
}

// GetName returns the source name
func (c *CollySource) GetName() string {
	return "CollySource"
}

// FetchPage implements PageSource. A fresh collector is used per call so that
// the listing URL is never skipped as already visited.
func (c *CollySource) FetchPage(ctx context.Context) ([]byte, error) {
	if err := c.blocked(); err != nil {
		return nil, err
	}

	collector := colly.NewCollector(
		colly.UserAgent(helpers.RandomUserAgent()),
		colly.AllowURLRevisit(),
		colly.StdlibContext(ctx),
	)
	if c.timeout > 0 {
		collector.SetRequestTimeout(c.timeout)
	}

	var page []byte
	var status int
	collector.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		page = r.Body
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	err := collector.Visit(c.URL)
	switch {
	case status == http.StatusTooManyRequests || status == 430:
		if setErr := c.block(); setErr != nil {
			return nil, errors.NewFetch(c.Listing, "failed to set rate limit block", setErr)
		}
		return nil, errors.NewRateLimit(c.Listing, c.BlockTime)
	case err != nil:
		return nil, errors.NewFetch(c.Listing, "failed to fetch listing page", err)
	case status != http.StatusOK:
		return nil, errors.NewFetchStatus(c.Listing, status, string(page))
	}

	return page, nil
}
