package crawler

import (
	"context"

	"go.uber.org/zap"

	"github.com/JakeFAU/pesdb-crawler/internal/metrics"
)

// RetryingFetcher implements Fetcher on top of a single-attempt Getter. Every
// attempt is preceded by the policy pause, and failures are retried according
// to the RetryPolicy until a body is returned, a fatal failure occurs or the
// context is canceled.
type RetryingFetcher struct {
	getter Getter
	clock  Clock
	policy RetryPolicy
	site   string
	logger *zap.Logger
}

// NewRetryingFetcher wires a RetryingFetcher. site labels metrics and logs.
func NewRetryingFetcher(getter Getter, clock Clock, policy RetryPolicy, site string, logger *zap.Logger) *RetryingFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryingFetcher{
		getter: getter,
		clock:  clock,
		policy: policy,
		site:   site,
		logger: logger,
	}
}

// Fetch returns the body of path. It returns ErrInterrupted when ctx is
// canceled and *FetchError when the failure is not retryable.
func (f *RetryingFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	start := f.clock.Now()
	for attempt := 1; ; attempt++ {
		if err := f.clock.Sleep(ctx, f.policy.Pause); err != nil {
			return nil, ErrInterrupted
		}
		resp, err := f.getter.Get(ctx, path)
		if err == nil {
			metrics.ObserveFetch(f.site, "ok", len(resp.Body))
			f.logger.Debug("fetched page",
				zap.String("path", path),
				zap.Int("attempt", attempt),
				zap.Duration("duration", resp.Duration),
				zap.Duration("elapsed", f.clock.Now().Sub(start)),
			)
			return resp.Body, nil
		}
		if ctx.Err() != nil {
			return nil, ErrInterrupted
		}

		kind := Classify(err)
		metrics.ObserveFetch(f.site, string(kind), 0)
		decision := f.policy.Decide(kind)
		if !decision.Retry {
			f.logger.Error("fetch failed",
				zap.String("path", path),
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
			return nil, &FetchError{Kind: kind, Path: path, Err: err}
		}
		if decision.Log {
			f.logger.Warn("fetch failed, retrying",
				zap.String("path", path),
				zap.String("kind", string(kind)),
				zap.Duration("backoff", decision.Backoff),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}
		if decision.Backoff > 0 {
			metrics.ObserveBackoff(f.site, string(kind), decision.Backoff)
			if err := f.clock.Sleep(ctx, decision.Backoff); err != nil {
				return nil, ErrInterrupted
			}
		}
	}
}
