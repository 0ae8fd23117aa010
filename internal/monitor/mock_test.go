package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sjsage522/lotwatcher/helpers"
	"sjsage522/lotwatcher/internal/auction"
	"sjsage522/lotwatcher/internal/bidstatus"
	"sjsage522/lotwatcher/internal/crawler"
	"sjsage522/lotwatcher/internal/record"
)

// FakeClock only moves when the monitor sleeps
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

var _ Clock = (*FakeClock)(nil)

func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func (c *FakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// MockSource implements crawler.PageSource for testing. When pages is set,
// each call serves the next one and the last repeats.
type MockSource struct {
	page  []byte
	pages [][]byte
	err   error
	calls int
}

var _ crawler.PageSource = (*MockSource)(nil)

func (m *MockSource) FetchPage(ctx context.Context) ([]byte, error) {
	m.calls++
	if len(m.pages) > 0 {
		i := m.calls - 1
		if i >= len(m.pages) {
			i = len(m.pages) - 1
		}
		return m.pages[i], m.err
	}
	return m.page, m.err
}

func (m *MockSource) GetName() string {
	return "mock"
}

type fetchResult struct {
	snap auction.BidSnapshot
	err  error
}

// MockFetcher implements bidstatus.Fetcher, replaying scripted results.
// The last result repeats once the script is exhausted.
type MockFetcher struct {
	results []fetchResult
	lotIDs  []int64
	times   []time.Time
}

var _ bidstatus.Fetcher = (*MockFetcher)(nil)

func (m *MockFetcher) Fetch(ctx context.Context, lotID int64, now time.Time) (auction.BidSnapshot, error) {
	m.lotIDs = append(m.lotIDs, lotID)
	m.times = append(m.times, now)

	i := len(m.times) - 1
	if i >= len(m.results) {
		i = len(m.results) - 1
	}
	return m.results[i].snap, m.results[i].err
}

// MockRecorder implements record.Recorder for testing
type MockRecorder struct {
	records []auction.WinningRecord
	err     error
	onWrite func()
}

var _ record.Recorder = (*MockRecorder)(nil)

func (m *MockRecorder) Record(ctx context.Context, rec auction.WinningRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	if m.onWrite != nil {
		m.onWrite()
	}
	return nil
}

func (m *MockRecorder) Name() string {
	return "mock"
}

// MockLogger implements helpers.LoggerInterface and keeps every line.
// Loggers derived with WithField share the parent's lines.
type MockLogger struct {
	mu     *sync.Mutex
	errors *[]string
	infos  *[]string
	debugs *[]string
	tags   *[]string
	fields map[string]interface{}
}

var _ helpers.LoggerInterface = (*MockLogger)(nil)

func NewMockLogger() *MockLogger {
	return &MockLogger{
		mu:     &sync.Mutex{},
		errors: &[]string{},
		infos:  &[]string{},
		debugs: &[]string{},
		tags:   &[]string{},
		fields: map[string]interface{}{},
	}
}

func (m *MockLogger) LogError(component string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*m.errors = append(*m.errors, component+": "+err.Error())
}

func (m *MockLogger) LogInfo(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*m.infos = append(*m.infos, fmt.Sprintf(format, args...))
}

func (m *MockLogger) LogDebug(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*m.debugs = append(*m.debugs, fmt.Sprintf(format, args...))
}

func (m *MockLogger) WithField(key string, value interface{}) helpers.LoggerInterface {
	m.mu.Lock()
	defer m.mu.Unlock()
	fields := map[string]interface{}{key: value}
	for k, v := range m.fields {
		if k != key {
			fields[k] = v
		}
	}
	*m.tags = append(*m.tags, fmt.Sprintf("%s=%v", key, value))
	return &MockLogger{mu: m.mu, errors: m.errors, infos: m.infos, debugs: m.debugs, tags: m.tags, fields: fields}
}

func (m *MockLogger) Infos() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), *m.infos...)
}

func (m *MockLogger) Debugs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), *m.debugs...)
}

func (m *MockLogger) Tags() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), *m.tags...)
}
