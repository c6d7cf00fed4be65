package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks rejected search options; the pipeline never starts.
	ErrValidation = errors.New("invalid search request")

	// ErrExtraction marks a search page without a usable embedded payload.
	ErrExtraction = errors.New("embedded data not found")

	// ErrTransport marks a request that failed on both transports.
	ErrTransport = errors.New("transport failed")
)

// ValidationError describes one rejected option.
type ValidationError struct {
	Field   string
	Value   string
	Reason  string
	Allowed []string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
	if len(e.Allowed) > 0 {
		msg += "; valid values: " + strings.Join(e.Allowed, ", ")
	}
	return msg
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ExtractionError is returned when the first page of a scope has no page state.
type ExtractionError struct {
	URL    string
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %s", e.URL, e.Reason)
}

func (e *ExtractionError) Is(target error) bool { return target == ErrExtraction }

// TransportError is returned when neither transport produced a 2xx body.
// StatusCode is the last HTTP status seen, 0 when no response arrived.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }
