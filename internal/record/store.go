package record

import (
	"context"

	"sjsage522/lotwatcher/internal/auction"
)

// Inserter is the part of a database store the recorder needs
type Inserter interface {
	Insert(ctx context.Context, rec auction.WinningRecord) error
}

// StoreRecorder inserts each record into a database table
type StoreRecorder struct {
	store Inserter
}

// NewStoreRecorder creates a new store recorder
func NewStoreRecorder(store Inserter) *StoreRecorder {
	return &StoreRecorder{store: store}
}

// Name returns the recorder name
func (r *StoreRecorder) Name() string {
	return "postgres"
}

// Record implements Recorder
func (r *StoreRecorder) Record(ctx context.Context, rec auction.WinningRecord) error {
	return r.store.Insert(ctx, rec)
}
