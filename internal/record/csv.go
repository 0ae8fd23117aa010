package record

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sjsage522/lotwatcher/internal/auction"
)

// CSVRecorder appends winning records to <dir>/<listing>.csv
type CSVRecorder struct {
	path string
}

// NewCSVRecorder creates a new CSV recorder for one listing
func NewCSVRecorder(dir, listing string) *CSVRecorder {
	return &CSVRecorder{path: filepath.Join(dir, listing+".csv")}
}

// Name returns the recorder name
func (r *CSVRecorder) Name() string {
	return "csv"
}

// Path returns the file the recorder appends to
func (r *CSVRecorder) Path() string {
	return r.path
}

// Record appends one row, writing the header first if the file is new or empty
func (r *CSVRecorder) Record(ctx context.Context, rec auction.WinningRecord) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if fi.Size() == 0 {
		if err := w.Write(auction.CSVHeader); err != nil {
			return err
		}
	}
	if err := w.Write(rec.Fields()); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Sync()
}

// ReadCSV reads back every record of a result file
func ReadCSV(path string) ([]auction.WinningRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = len(auction.CSVHeader)

	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var records []auction.WinningRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		rec, err := auction.ParseFields(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
