package crawler

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInterrupted is returned when the operator interrupts a run during a
// pause, a backoff or an in-flight request.
var ErrInterrupted = errors.New("crawl interrupted")

// FailureKind classifies a failed fetch attempt.
type FailureKind string

// Failure kinds, each mapped to a retry decision by the RetryPolicy.
const (
	FailureTimeout     FailureKind = "timeout"
	FailureRefused     FailureKind = "connection_refused"
	FailureConnection  FailureKind = "connection"
	FailureClientError FailureKind = "client_error"
	FailureServerError FailureKind = "server_error"
)

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// FetchError is the fatal failure surfaced by the Fetcher once the retry
// policy gives up on a path.
type FetchError struct {
	Kind FailureKind
	Path string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s (%s): %v", e.Path, e.Kind, e.Err)
}

// Unwrap exposes the underlying transport error.
func (e *FetchError) Unwrap() error {
	return e.Err
}
