package record

import (
	"context"
	"encoding/csv"
	"io"

	"sjsage522/lotwatcher/internal/auction"
)

// ConsoleRecorder prints each record as a CSV line, without a header
type ConsoleRecorder struct {
	out io.Writer
}

// NewConsoleRecorder creates a recorder printing to out
func NewConsoleRecorder(out io.Writer) *ConsoleRecorder {
	return &ConsoleRecorder{out: out}
}

// Name returns the recorder name
func (r *ConsoleRecorder) Name() string {
	return "console"
}

// Record implements Recorder
func (r *ConsoleRecorder) Record(ctx context.Context, rec auction.WinningRecord) error {
	w := csv.NewWriter(r.out)
	if err := w.Write(rec.Fields()); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
