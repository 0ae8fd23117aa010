package bidstatus

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"sjsage522/lotwatcher/helpers"
	"sjsage522/lotwatcher/internal/auction"
	"sjsage522/lotwatcher/pkg/errors"
)

// Fetcher queries the bid status of a lot
type Fetcher interface {
	// Fetch polls the status endpoint for lotID. now is the poll time, used
	// for the cache-busting query and the request identifier.
	Fetch(ctx context.Context, lotID int64, now time.Time) (auction.BidSnapshot, error)
}

type lotDetailsRequest struct {
	API    string `json:"api"`
	Method string `json:"method"`
	LotID  int64  `json:"lotId"`
}

// HTTPFetcher implements Fetcher against the site's api.json endpoint
type HTTPFetcher struct {
	BaseURL    string
	ListingURL string
	Listing    string
	logger     helpers.LoggerInterface
}

// NewHTTPFetcher creates a new status fetcher
func NewHTTPFetcher(baseURL, listingURL, listing string, logger helpers.LoggerInterface) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL:    baseURL,
		ListingURL: listingURL,
		Listing:    listing,
		logger:     logger,
	}
}

// StatusURL builds the getLotDetails URL for a poll at now
func StatusURL(baseURL string, now time.Time) string {
	ms := now.UnixMilli()
	return fmt.Sprintf("%s/api.json?%d&m=getLotDetails&v=%d&js=1", baseURL, ms, ms)
}

// Headers returns the browser-like headers sent with every status request
func (f *HTTPFetcher) Headers() map[string]string {
	return map[string]string{
		"User-Agent":       "Mozilla/5.0 (Windows NT 10.0) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/99.0.7113.93 Safari/537.36",
		"Accept":           "*/*",
		"Accept-Language":  "en-US,en;q=0.5",
		"X-Requested-With": "XMLHttpRequest",
		"Content-Type":     "application/json",
		"Origin":           f.BaseURL,
		"DNT":              "1",
		"Referer":          f.ListingURL,
		"Sec-Fetch-Dest":   "empty",
		"Sec-Fetch-Mode":   "cors",
		"Sec-Fetch-Site":   "same-origin",
	}
}

// Fetch implements Fetcher
func (f *HTTPFetcher) Fetch(ctx context.Context, lotID int64, now time.Time) (auction.BidSnapshot, error) {
	payload, err := json.Marshal(lotDetailsRequest{
		API:    "catalog",
		Method: "getLotDetails",
		LotID:  lotID,
	})
	if err != nil {
		return auction.BidSnapshot{}, errors.NewFetch(f.Listing, "failed to encode request", err)
	}

	status, body, err := helpers.PostJSON(ctx, StatusURL(f.BaseURL, now), f.Headers(), payload)
	if err != nil {
		return auction.BidSnapshot{}, errors.NewFetch(f.Listing, "status request failed", err)
	}

	if status != http.StatusOK {
		f.logger.LogDebug("Wrong status code: %d", status)
		f.logger.LogDebug("Text: %s", string(body))
		return auction.BidSnapshot{}, errors.NewFetchStatus(f.Listing, status, string(body))
	}

	snap, err := Parse(f.Listing, body)
	if err != nil {
		var me *errors.MonitorError
		if stderrors.As(err, &me) && me.Type == errors.ErrorTypeRemote {
			f.logger.LogInfo("Got errors:")
			for _, entry := range me.Entries {
				f.logger.LogInfo("%s %s", entry.Code, entry.Description)
			}
		}
		return auction.BidSnapshot{}, err
	}

	return snap, nil
}
