package store

import (
	"context"
	"fmt"
	"time"

	"sjsage522/lotwatcher/internal/auction"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore appends winning records to a Postgres table
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresStore opens a small pool and makes sure the table exists
func NewPostgresStore(ctx context.Context, dsn, table string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres dsn parse: %w", err)
	}
	cfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	s := &PostgresStore{pool: pool, table: pgx.Identifier{table}.Sanitize()}
	if err := s.ensureTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+s.table+` (
		id           BIGSERIAL PRIMARY KEY,
		listing      TEXT        NOT NULL,
		lot_id       BIGINT      NOT NULL,
		polled_at    TIMESTAMPTZ NOT NULL,
		first_name   TEXT        NOT NULL,
		last_name    TEXT        NOT NULL,
		bid          NUMERIC     NOT NULL,
		bid_count    INTEGER     NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// Insert appends one record. There is no deduplication: every call adds a row.
func (s *PostgresStore) Insert(ctx context.Context, rec auction.WinningRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO `+s.table+`
		(listing, lot_id, polled_at, first_name, last_name, bid, bid_count)
		VALUES ($1, $2, $3, $4, $5, $6::text::numeric, $7)`,
		rec.Listing, rec.LotID, time.UnixMilli(rec.TimestampMillis).UTC(),
		rec.FirstName, rec.LastName, rec.Bid.String(), rec.BidCount,
	)
	return err
}

// Close closes the pool
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
