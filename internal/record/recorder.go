package record

import (
	"context"
	stderrors "errors"
	"fmt"

	"sjsage522/lotwatcher/internal/auction"
	"sjsage522/lotwatcher/pkg/errors"
)

// Recorder persists the result of a concluded auction. Record is called
// exactly once per win; calling it twice stores two records.
type Recorder interface {
	Record(ctx context.Context, rec auction.WinningRecord) error
	Name() string
}

// MultiRecorder fans a record out to every sink in order. A failing sink
// does not stop the others; all failures are returned joined.
type MultiRecorder struct {
	sinks []Recorder
}

// NewMultiRecorder creates a recorder writing to all sinks
func NewMultiRecorder(sinks ...Recorder) *MultiRecorder {
	return &MultiRecorder{sinks: sinks}
}

// Name returns the recorder name
func (m *MultiRecorder) Name() string {
	return "multi"
}

// Record implements Recorder
func (m *MultiRecorder) Record(ctx context.Context, rec auction.WinningRecord) error {
	var errs []error
	for _, sink := range m.sinks {
		if err := sink.Record(ctx, rec); err != nil {
			errs = append(errs, errors.NewRecording(rec.Listing, fmt.Sprintf("%s sink failed", sink.Name()), err))
		}
	}
	return stderrors.Join(errs...)
}
