package crawler

import (
	"context"
	"errors"
	"net"
	"os"
	"syscall"
	"time"
)

// RetryDecision tells the Fetcher what to do after a failed attempt.
type RetryDecision struct {
	Retry   bool
	Backoff time.Duration
	// Log reports whether the failure should be logged before retrying.
	Log bool
}

// RetryPolicy maps each FailureKind to a RetryDecision. Retries are unbounded.
type RetryPolicy struct {
	Pause              time.Duration
	RefusedBackoff     time.Duration
	ClientErrorBackoff time.Duration
}

// DefaultRetryPolicy returns the pacing used against both sites.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Pause:              5 * time.Second,
		RefusedBackoff:     60 * time.Second,
		ClientErrorBackoff: 300 * time.Second,
	}
}

// Decide returns the retry decision for a failure kind.
func (p RetryPolicy) Decide(kind FailureKind) RetryDecision {
	switch kind {
	case FailureTimeout:
		return RetryDecision{Retry: true}
	case FailureRefused:
		return RetryDecision{Retry: true, Backoff: p.RefusedBackoff, Log: true}
	case FailureClientError:
		return RetryDecision{Retry: true, Backoff: p.ClientErrorBackoff, Log: true}
	default:
		return RetryDecision{Log: true}
	}
}

// Classify determines the FailureKind of an attempt error.
func Classify(err error) FailureKind {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode >= 400 && statusErr.StatusCode < 500 {
			return FailureClientError
		}
		return FailureServerError
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return FailureRefused
	}
	return FailureConnection
}
