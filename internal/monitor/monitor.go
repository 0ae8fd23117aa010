package monitor

import (
	"context"
	"time"

	"sjsage522/lotwatcher/helpers"
	"sjsage522/lotwatcher/internal/auction"
	"sjsage522/lotwatcher/internal/bidstatus"
	"sjsage522/lotwatcher/internal/crawler"
	"sjsage522/lotwatcher/internal/record"
	"sjsage522/lotwatcher/pkg/errors"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Outcome is how an auction cycle ended
type Outcome int

const (
	// OutcomeAborted means the cycle gave up and the next one re-extracts the lot
	OutcomeAborted Outcome = iota
	// OutcomeWinnerFound means a winning record was stored
	OutcomeWinnerFound
)

// String returns the outcome name
func (o Outcome) String() string {
	switch o {
	case OutcomeWinnerFound:
		return "winner_found"
	default:
		return "aborted"
	}
}

// fieldLogger is implemented by loggers that can tag lines with a field
type fieldLogger interface {
	WithField(key string, value interface{}) helpers.LoggerInterface
}

// Options holds the monitor's tunables
type Options struct {
	// Listing is the listing name used in logs and errors
	Listing string
	// ExtractBackoff is the minimum spacing between two extractions. Zero disables it.
	ExtractBackoff time.Duration
	// RepollFloor is slept instead of the remaining time once the lot is past expiry
	RepollFloor time.Duration
	// Clock defaults to SystemClock
	Clock Clock
}

// Monitor watches one listing URL across successive auctions
type Monitor struct {
	listing     string
	source      crawler.PageSource
	extractor   crawler.Extractor
	fetcher     bidstatus.Fetcher
	recorder    record.Recorder
	logger      helpers.LoggerInterface
	clock       Clock
	limiter     *rate.Limiter
	repollFloor time.Duration

	// lastRecorded is the lot of the most recent stored win
	lastRecorded int64
	hasRecorded  bool
}

// NewMonitor creates a new monitor
func NewMonitor(
	source crawler.PageSource,
	extractor crawler.Extractor,
	fetcher bidstatus.Fetcher,
	recorder record.Recorder,
	logger helpers.LoggerInterface,
	opts Options,
) *Monitor {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock
	}

	limit := rate.Inf
	if opts.ExtractBackoff > 0 {
		limit = rate.Every(opts.ExtractBackoff)
	}

	return &Monitor{
		listing:     opts.Listing,
		source:      source,
		extractor:   extractor,
		fetcher:     fetcher,
		recorder:    recorder,
		logger:      logger,
		clock:       clock,
		limiter:     rate.NewLimiter(limit, 1),
		repollFloor: opts.RepollFloor,
	}
}

// Run executes auction cycles until ctx is done or a cycle fails with an
// error that is not inconclusive. ctx is only checked between cycles.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		if _, err := m.RunCycle(ctx); err != nil {
			return err
		}
	}
}

// RunCycle performs one extraction followed by polling until the lot has a
// winner or the cycle is aborted. Inconclusive failures abort the cycle and
// return a nil error; anything else is returned.
//
// A lot is recorded at most once. While the listing still shows the lot of
// the last stored win, cycles abort without polling.
func (m *Monitor) RunCycle(ctx context.Context) (Outcome, error) {
	log := m.cycleLogger(uuid.NewString())
	log.LogInfo("New auction: %s", m.listing)

	m.waitForExtraction()

	start := m.clock.Now()
	page, err := m.source.FetchPage(ctx)
	if err != nil {
		return m.abort(log, err)
	}

	lot, err := m.extractor.Extract(page)
	if err != nil {
		return m.abort(log, err)
	}

	if m.hasRecorded && lot.ID == m.lastRecorded {
		log.LogDebug("Lot %d already recorded, waiting for the next auction", lot.ID)
		return OutcomeAborted, nil
	}

	remaining := lot.Remaining(start)
	log.LogInfo("Lot ID: %d, still have %.2f minutes to go", lot.ID, remaining.Minutes())

	for {
		polledAt := m.clock.Now()
		snap, err := m.fetcher.Fetch(ctx, lot.ID, polledAt)
		if err != nil {
			return m.abort(log, err)
		}

		if snap.HasWinner {
			return m.recordWinner(ctx, log, lot, polledAt, snap)
		}

		log.LogDebug("No winner yet")
		if snap.TopBid != nil {
			log.LogDebug("Top bid: %s", snap.TopBid)
		} else {
			log.LogDebug("Top bid: none")
		}

		wait := remaining
		if wait <= 0 {
			wait = m.repollFloor
		}
		log.LogDebug("Sleeping for %s", wait)
		m.clock.Sleep(wait)
	}
}

func (m *Monitor) recordWinner(ctx context.Context, log helpers.LoggerInterface, lot auction.Lot, polledAt time.Time, snap auction.BidSnapshot) (Outcome, error) {
	log.LogDebug("We have a winner!")

	rec, err := auction.NewWinningRecord(m.listing, lot.ID, polledAt, snap)
	if err != nil {
		return m.abort(log, errors.NewParsing(m.listing, "winner reported without a bid", err))
	}

	log.LogInfo("Winning bid: %s", snap.TopBid)
	log.LogDebug("Saving...")

	if err := m.recorder.Record(ctx, rec); err != nil {
		return OutcomeAborted, err
	}
	m.lastRecorded, m.hasRecorded = lot.ID, true
	return OutcomeWinnerFound, nil
}

func (m *Monitor) abort(log helpers.LoggerInterface, err error) (Outcome, error) {
	if !errors.IsInconclusive(err) {
		return OutcomeAborted, err
	}
	log.LogDebug("Something went wrong in getting bid info, getting new info: %v", err)
	return OutcomeAborted, nil
}

// waitForExtraction blocks until the limiter allows another extraction.
// The first call never blocks.
func (m *Monitor) waitForExtraction() {
	now := m.clock.Now()
	if delay := m.limiter.ReserveN(now, 1).DelayFrom(now); delay > 0 {
		m.clock.Sleep(delay)
	}
}

func (m *Monitor) cycleLogger(cycleID string) helpers.LoggerInterface {
	if fl, ok := m.logger.(fieldLogger); ok {
		return fl.WithField("cycle", cycleID)
	}
	return m.logger
}
