// Package ratelimit paces page navigations so crawls stay polite to the
// upstream catalog.
package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Limiter sleeps a base delay plus a little jitter between pages. Jitter
// keeps repeated runs from hitting the site on a metronome.
type Limiter struct {
	base   time.Duration
	jitter time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a limiter with the given base delay and up to 25% jitter.
func New(base time.Duration) *Limiter {
	return &Limiter{
		base:   base,
		jitter: base / 4,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Wait blocks for the politeness delay or until the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	delay := l.base
	if l.jitter > 0 {
		l.mu.Lock()
		delay += time.Duration(l.rng.Int63n(int64(l.jitter)))
		l.mu.Unlock()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
