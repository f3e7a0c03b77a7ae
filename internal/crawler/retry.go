package crawler

import (
	"context"
	"log/slog"
	"time"

	"github.com/fixfirst/msx-parts-scraper/internal/catalog"
)

// Executor retries an operation with a fixed backoff schedule. Attempts
// beyond the schedule reuse the fallback delay.
type Executor struct {
	MaxAttempts int
	Schedule    []time.Duration
	Fallback    time.Duration
	Logger      *slog.Logger

	// OnRetry is invoked before each re-attempt. Optional; main wires the
	// retry counter here.
	OnRetry func(label string)
}

// NewExecutor returns an executor with the catalog's default retry policy.
func NewExecutor(logger *slog.Logger) *Executor {
	return &Executor{
		MaxAttempts: catalog.DefaultMaxAttempts,
		Schedule:    catalog.DefaultBackoffSchedule,
		Fallback:    catalog.DefaultBackoffFallback,
		Logger:      logger,
	}
}

// Do runs fn up to MaxAttempts times. Between attempts it sleeps according
// to the schedule, honoring context cancellation. The label names the unit
// of work in logs, typically the URL being fetched.
func (e *Executor) Do(ctx context.Context, label string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= e.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt == e.MaxAttempts {
			break
		}

		delay := e.Fallback
		if attempt-1 < len(e.Schedule) {
			delay = e.Schedule[attempt-1]
		}
		e.Logger.Warn("attempt failed, backing off",
			"label", label,
			"attempt", attempt,
			"max_attempts", e.MaxAttempts,
			"delay", delay,
			"error", lastErr)
		if e.OnRetry != nil {
			e.OnRetry(label)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	e.Logger.Error("all attempts exhausted", "label", label, "attempts", e.MaxAttempts, "error", lastErr)
	return lastErr
}
