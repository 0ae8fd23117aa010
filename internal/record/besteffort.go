package record

import (
	"context"

	"sjsage522/lotwatcher/helpers"
	"sjsage522/lotwatcher/internal/auction"
	"sjsage522/lotwatcher/pkg/errors"
)

// BestEffortRecorder logs the failures of the wrapped sink instead of
// returning them
type BestEffortRecorder struct {
	sink   Recorder
	logger helpers.LoggerInterface
}

// NewBestEffortRecorder wraps sink so that its failures are only logged
func NewBestEffortRecorder(sink Recorder, logger helpers.LoggerInterface) *BestEffortRecorder {
	return &BestEffortRecorder{sink: sink, logger: logger}
}

// Name returns the wrapped sink's name
func (r *BestEffortRecorder) Name() string {
	return r.sink.Name()
}

// Record implements Recorder
func (r *BestEffortRecorder) Record(ctx context.Context, rec auction.WinningRecord) error {
	if err := r.sink.Record(ctx, rec); err != nil {
		r.logger.LogError(r.sink.Name(), errors.NewRecording(rec.Listing, "optional sink failed, record kept elsewhere", err))
	}
	return nil
}
