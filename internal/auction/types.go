package auction

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Lot is the active auction instance behind a listing page
type Lot struct {
	ID        int64     `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Remaining returns how long the lot still runs, measured from now
func (l Lot) Remaining(now time.Time) time.Duration {
	return l.ExpiresAt.Sub(now)
}

// Bid is a single entry of the bid history
type Bid struct {
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Amount    decimal.Decimal `json:"amount"`
}

// String renders a bid the way it shows up in the logs
func (b Bid) String() string {
	return fmt.Sprintf("%s %s - %s", b.FirstName, b.LastName, b.Amount.String())
}

// BidSnapshot is the result of one poll of the bid status endpoint.
// TopBid is non-nil whenever BidCount > 0.
type BidSnapshot struct {
	HasWinner bool `json:"has_winner"`
	BidCount  int  `json:"bid_count"`
	TopBid    *Bid `json:"top_bid,omitempty"`
}

// WinningRecord is written once per concluded auction
type WinningRecord struct {
	Listing         string          `json:"listing"`
	LotID           int64           `json:"lot_id"`
	TimestampMillis int64           `json:"timestamp_ms"`
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	Bid             decimal.Decimal `json:"bid"`
	BidCount        int             `json:"bid_count"`
}

// CSVHeader is the fixed first line of every listing's result file
var CSVHeader = []string{"Timestamp", "firstName", "lastName", "bid", "bidcount"}

// NewWinningRecord builds the record for a snapshot that reports a winner.
// The poll time is stored with millisecond precision.
func NewWinningRecord(listing string, lotID int64, polledAt time.Time, snap BidSnapshot) (WinningRecord, error) {
	if !snap.HasWinner {
		return WinningRecord{}, fmt.Errorf("snapshot for lot %d has no winner", lotID)
	}
	if snap.TopBid == nil {
		return WinningRecord{}, fmt.Errorf("snapshot for lot %d has a winner but no top bid", lotID)
	}

	return WinningRecord{
		Listing:         listing,
		LotID:           lotID,
		TimestampMillis: polledAt.UnixMilli(),
		FirstName:       snap.TopBid.FirstName,
		LastName:        snap.TopBid.LastName,
		Bid:             snap.TopBid.Amount,
		BidCount:        snap.BidCount,
	}, nil
}

// Fields returns the record in CSV column order
func (r WinningRecord) Fields() []string {
	return []string{
		strconv.FormatInt(r.TimestampMillis, 10),
		r.FirstName,
		r.LastName,
		r.Bid.String(),
		strconv.Itoa(r.BidCount),
	}
}

// ParseFields is the inverse of Fields
func ParseFields(fields []string) (WinningRecord, error) {
	if len(fields) != len(CSVHeader) {
		return WinningRecord{}, fmt.Errorf("expected %d fields, got %d", len(CSVHeader), len(fields))
	}

	ts, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return WinningRecord{}, fmt.Errorf("invalid timestamp %q: %w", fields[0], err)
	}

	bid, err := decimal.NewFromString(fields[3])
	if err != nil {
		return WinningRecord{}, fmt.Errorf("invalid bid %q: %w", fields[3], err)
	}

	count, err := strconv.Atoi(fields[4])
	if err != nil {
		return WinningRecord{}, fmt.Errorf("invalid bid count %q: %w", fields[4], err)
	}

	return WinningRecord{
		TimestampMillis: ts,
		FirstName:       fields[1],
		LastName:        fields[2],
		Bid:             bid,
		BidCount:        count,
	}, nil
}
