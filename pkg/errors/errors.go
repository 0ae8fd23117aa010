package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeExtraction means a required marker was missing from the listing page
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeRemote means the status endpoint reported application-level errors
	ErrorTypeRemote ErrorType = "remote"
	// ErrorTypeFetch represents transport failures and non-200 responses
	ErrorTypeFetch ErrorType = "fetch"
	// ErrorTypeParsing represents a malformed status response
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeRecording represents result sink failures
	ErrorTypeRecording ErrorType = "recording"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// RemoteEntry is one (code, description) pair reported by the status endpoint
type RemoteEntry struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// MonitorError represents a failure inside one auction cycle
type MonitorError struct {
	Type    ErrorType
	Listing string
	Message string
	Err     error
	Time    time.Time

	// StatusCode and Body are set for fetch errors that got a response
	StatusCode int
	Body       string

	// Entries is set for remote errors
	Entries []RemoteEntry
}

// Error implements the error interface
func (e *MonitorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Listing, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Listing, e.Message)
}

// Unwrap returns the underlying error
func (e *MonitorError) Unwrap() error {
	return e.Err
}

// IsInconclusive returns true if the error only aborts the current cycle
func (e *MonitorError) IsInconclusive() bool {
	switch e.Type {
	case ErrorTypeExtraction, ErrorTypeRemote, ErrorTypeFetch, ErrorTypeParsing, ErrorTypeRateLimit:
		return true
	default:
		return false
	}
}

// New creates a new MonitorError
func New(errType ErrorType, listing, message string, err error) *MonitorError {
	return &MonitorError{
		Type:    errType,
		Listing: listing,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewExtraction creates a new extraction error
func NewExtraction(listing, message string) *MonitorError {
	return New(ErrorTypeExtraction, listing, message, nil)
}

// NewRemote creates a new remote error carrying every reported entry
func NewRemote(listing string, entries []RemoteEntry) *MonitorError {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, e.Code+": "+e.Description)
	}
	err := New(ErrorTypeRemote, listing, "status endpoint reported errors ("+strings.Join(parts, "; ")+")", nil)
	err.Entries = entries
	return err
}

// NewFetch creates a new fetch error
func NewFetch(listing, message string, err error) *MonitorError {
	return New(ErrorTypeFetch, listing, message, err)
}

// NewFetchStatus creates a fetch error for a non-200 response
func NewFetchStatus(listing string, status int, body string) *MonitorError {
	err := New(ErrorTypeFetch, listing, fmt.Sprintf("unexpected status code: %d", status), nil)
	err.StatusCode = status
	err.Body = body
	return err
}

// NewParsing creates a new parsing error
func NewParsing(listing, message string, err error) *MonitorError {
	return New(ErrorTypeParsing, listing, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(listing string, duration time.Duration) *MonitorError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, listing, message, nil)
}

// NewRecording creates a new recording error
func NewRecording(listing, message string, err error) *MonitorError {
	return New(ErrorTypeRecording, listing, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *MonitorError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// IsInconclusive reports whether err (or anything it wraps) is a MonitorError
// that should only abort the current cycle.
func IsInconclusive(err error) bool {
	var me *MonitorError
	if stderrors.As(err, &me) {
		return me.IsInconclusive()
	}
	return false
}

// IsType reports whether err wraps a MonitorError of the given type
func IsType(err error, errType ErrorType) bool {
	var me *MonitorError
	if stderrors.As(err, &me) {
		return me.Type == errType
	}
	return false
}
