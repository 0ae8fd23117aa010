package crawler

import (
	"context"

	"sjsage522/lotwatcher/internal/auction"
)

// Extractor parses a raw listing page into the active lot
type Extractor interface {
	// Extract returns the lot id and expiry found on the page, or an
	// extraction error if either marker is missing.
	Extract(page []byte) (auction.Lot, error)
}

// PageSource fetches the raw listing page
type PageSource interface {
	// FetchPage retrieves the listing page body as UTF-8
	FetchPage(ctx context.Context) ([]byte, error)

	// GetName returns the source's name for logging and identification
	GetName() string
}

// ExtractorFunc adapts a function to the Extractor interface
type ExtractorFunc func(page []byte) (auction.Lot, error)

// Extract calls f(page)
func (f ExtractorFunc) Extract(page []byte) (auction.Lot, error) {
	return f(page)
}
