package worker

import (
	"context"
	"fmt"
	"os"
	"time"

	"sjsage522/lotwatcher/helpers"
)

// Runner is a long-running monitor
type Runner interface {
	Run(ctx context.Context) error
}

// Worker runs the auction monitor of one listing
type Worker struct {
	ctx     context.Context
	runner  Runner
	listing string
	logger  helpers.LoggerInterface
}

// NewWorker creates a new worker
func NewWorker(
	ctx context.Context,
	runner Runner,
	listing string,
	logger helpers.LoggerInterface,
) *Worker {
	return &Worker{
		ctx:     ctx,
		runner:  runner,
		listing: listing,
		logger:  logger,
	}
}

// Start runs the monitor until the context is done or the monitor fails.
// Failures, including panics, are logged at error level and returned.
func (w *Worker) Start() (err error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("monitor panicked: %v", r)
		}
		if err != nil {
			w.logger.LogError(w.listing, fmt.Errorf("got exception on main handler: %w", err))
			return
		}
		if os.Getenv("AUCTION_ENVIRONMENT") != "production" {
			w.logger.LogInfo("Monitor ran for %s", time.Since(start))
		}
	}()

	w.logger.LogInfo("Starting auction monitor for %s", w.listing)
	return w.runner.Run(w.ctx)
}
