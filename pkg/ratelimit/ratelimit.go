// Package ratelimit serializes calls to a remote service and enforces a
// minimum spacing between them.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Gate funnels every remote call through one critical section. The
// section spans wait-for-spacing, recording the new start time, and the
// call itself; splitting those steps would let two goroutines race past
// the spacing floor.
type Gate struct {
	mu          sync.Mutex
	minInterval time.Duration
	lastStart   time.Time
}

func NewGate(minInterval time.Duration) *Gate {
	return &Gate{minInterval: minInterval}
}

// Do runs fn once the spacing floor since the previous call's start has
// elapsed. Callers queue in mutex acquisition order. Cancellation is
// honored while waiting; once fn starts it runs to completion.
func (g *Gate) Do(ctx context.Context, fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.lastStart.IsZero() {
		wait := g.minInterval - time.Since(g.lastStart)
		if wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	g.lastStart = time.Now()
	return fn()
}
