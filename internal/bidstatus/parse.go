package bidstatus

import (
	"bytes"
	"encoding/json"
	"fmt"

	"sjsage522/lotwatcher/internal/auction"
	"sjsage522/lotwatcher/pkg/errors"

	"github.com/Jeffail/gabs/v2"
	"github.com/shopspring/decimal"
)

// Parse turns a getLotDetails response body into a snapshot.
//
// A non-empty errors list yields a remote error carrying every entry.
// A body missing data.hasWinner or data.bidHistory yields a parsing error.
func Parse(listing string, body []byte) (auction.BidSnapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	js, err := gabs.ParseJSONDecoder(dec)
	if err != nil {
		return auction.BidSnapshot{}, errors.NewParsing(listing, "status body is not JSON", err)
	}

	if entries := remoteEntries(js); len(entries) > 0 {
		return auction.BidSnapshot{}, errors.NewRemote(listing, entries)
	}

	hasWinner, ok := js.Path("data.hasWinner").Data().(bool)
	if !ok {
		return auction.BidSnapshot{}, errors.NewParsing(listing, "data.hasWinner missing or not a boolean", nil)
	}

	history, ok := js.Path("data.bidHistory").Data().([]interface{})
	if !ok {
		return auction.BidSnapshot{}, errors.NewParsing(listing, "data.bidHistory missing or not a list", nil)
	}

	snap := auction.BidSnapshot{
		HasWinner: hasWinner,
		BidCount:  len(history),
	}
	if len(history) == 0 {
		return snap, nil
	}

	top, err := parseBid(gabs.Wrap(history[0]))
	if err != nil {
		return auction.BidSnapshot{}, errors.NewParsing(listing, "invalid top bid", err)
	}
	snap.TopBid = &top

	return snap, nil
}

func remoteEntries(js *gabs.Container) []errors.RemoteEntry {
	list, ok := js.Path("errors").Data().([]interface{})
	if !ok {
		return nil
	}

	entries := make([]errors.RemoteEntry, 0, len(list))
	for _, item := range list {
		entry := gabs.Wrap(item)
		entries = append(entries, errors.RemoteEntry{
			Code:        scalar(entry.Path("code").Data()),
			Description: scalar(entry.Path("description").Data()),
		})
	}
	return entries
}

func parseBid(entry *gabs.Container) (auction.Bid, error) {
	first, ok := entry.Path("customer.firstName").Data().(string)
	if !ok {
		return auction.Bid{}, fmt.Errorf("customer.firstName missing")
	}
	last, ok := entry.Path("customer.lastName").Data().(string)
	if !ok {
		return auction.Bid{}, fmt.Errorf("customer.lastName missing")
	}

	amount, err := parseAmount(entry.Path("price").Data())
	if err != nil {
		return auction.Bid{}, err
	}

	return auction.Bid{FirstName: first, LastName: last, Amount: amount}, nil
}

// parseAmount accepts the price as a JSON number or a numeric string
func parseAmount(v interface{}) (decimal.Decimal, error) {
	switch p := v.(type) {
	case json.Number:
		return decimal.NewFromString(p.String())
	case string:
		return decimal.NewFromString(p)
	case nil:
		return decimal.Decimal{}, fmt.Errorf("price missing")
	default:
		return decimal.Decimal{}, fmt.Errorf("unexpected price type %T", v)
	}
}

func scalar(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
