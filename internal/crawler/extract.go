package crawler

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"time"

	"sjsage522/lotwatcher/internal/auction"
	"sjsage522/lotwatcher/pkg/errors"

	"github.com/PuerkitoBio/goquery"
)

const expiryLayout = "2006-01-02T150405-0700"

var (
	lotIDMarker  = regexp.MustCompile(`"activeLotId":"[0-9]+"`)
	expiryMarker = regexp.MustCompile(`"tsExpires":"[0-9\-T:+]+"`)
	expiryValue  = regexp.MustCompile(`[0-9]+[0-9\-T:+]+`)
	nonDigits    = regexp.MustCompile(`[^0-9]`)
)

// RegexExtractor finds the lot markers by substring search over the raw page
type RegexExtractor struct {
	Listing string
}

// NewRegexExtractor creates a new regex extractor
func NewRegexExtractor(listing string) *RegexExtractor {
	return &RegexExtractor{Listing: listing}
}

// Extract implements Extractor
func (e *RegexExtractor) Extract(page []byte) (auction.Lot, error) {
	return extractLot(e.Listing, page)
}

// DocumentExtractor parses the page as HTML and searches the inline scripts
// first, falling back to the whole body when no script holds both markers.
type DocumentExtractor struct {
	Listing string
}

// NewDocumentExtractor creates a new document extractor
func NewDocumentExtractor(listing string) *DocumentExtractor {
	return &DocumentExtractor{Listing: listing}
}

// Extract implements Extractor
func (e *DocumentExtractor) Extract(page []byte) (auction.Lot, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err == nil {
		var found auction.Lot
		var ok bool
		doc.Find("script").EachWithBreak(func(i int, s *goquery.Selection) bool {
			lot, err := extractLot(e.Listing, []byte(s.Text()))
			if err != nil {
				return true
			}
			found, ok = lot, true
			return false
		})
		if ok {
			return found, nil
		}
	}

	return extractLot(e.Listing, page)
}

// extractLot pulls the first activeLotId and tsExpires markers out of page.
// Either both are found or an extraction error is returned.
func extractLot(listing string, page []byte) (auction.Lot, error) {
	rawID := lotIDMarker.Find(page)
	if rawID == nil {
		return auction.Lot{}, errors.NewExtraction(listing, "activeLotId marker not found")
	}

	id, err := strconv.ParseInt(nonDigits.ReplaceAllString(string(rawID), ""), 10, 64)
	if err != nil {
		return auction.Lot{}, errors.New(errors.ErrorTypeExtraction, listing, "invalid activeLotId", err)
	}

	rawExpiry := expiryMarker.Find(page)
	if rawExpiry == nil {
		return auction.Lot{}, errors.NewExtraction(listing, "tsExpires marker not found")
	}

	expiresAt, err := ParseExpiry(expiryValue.FindString(string(rawExpiry)))
	if err != nil {
		return auction.Lot{}, errors.New(errors.ErrorTypeExtraction, listing, "invalid tsExpires", err)
	}

	return auction.Lot{ID: id, ExpiresAt: expiresAt}, nil
}

// ParseExpiry parses an ISO-8601 timestamp with a numeric offset. Colons are
// dropped first, so both +0200 and +02:00 are accepted.
func ParseExpiry(value string) (time.Time, error) {
	return time.Parse(expiryLayout, strings.ReplaceAll(value, ":", ""))
}
