package store

import (
	"context"
	"os"
	"testing"
	"time"

	"sjsage522/lotwatcher/internal/auction"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// This test requires POSTGRES_TEST_DSN pointing at a scratch database
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set, skipping test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := NewPostgresStore(ctx, dsn, "winning_bids_test")
	if err != nil {
		t.Skipf("Postgres is not available, skipping test: %v", err)
	}
	defer s.Close()

	listing := "boombox-" + time.Now().Format("150405.000000")
	rec := auction.WinningRecord{
		Listing:         listing,
		LotID:           17628,
		TimestampMillis: 1654070400123,
		FirstName:       "Jane",
		LastName:        "Doe",
		Bid:             decimal.NewFromInt(120),
		BidCount:        7,
	}

	require.NoError(t, s.Insert(ctx, rec))
	require.NoError(t, s.Insert(ctx, rec))

	var n int
	err = s.pool.QueryRow(ctx, `SELECT count(*) FROM `+s.table+` WHERE listing = $1`, listing).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var bid string
	err = s.pool.QueryRow(ctx, `SELECT bid::text FROM `+s.table+` WHERE listing = $1 LIMIT 1`, listing).Scan(&bid)
	require.NoError(t, err)
	assert.Equal(t, "120", bid)
}
