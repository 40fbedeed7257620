// Package traffic keeps a sliding window of dashboard outcomes. It is the
// source of truth for the health endpoint's degraded computation: a request
// that ends in the fallback payload still returns 200, so only this window
// reveals that the pipeline is unhealthy.
package traffic

import (
	"sync"
	"time"
)

var defaultTracker Tracker

// RecordServed records a dashboard request answered with a live payload.
func RecordServed() {
	defaultTracker.RecordServed()
}

// RecordFallback records a dashboard request answered with the fallback payload.
func RecordFallback() {
	defaultTracker.RecordFallback()
}

// FallbackRate returns (fallbackCount, totalCount) within the window.
func FallbackRate(window time.Duration) (fallbacks, total int) {
	return defaultTracker.FallbackRate(window)
}

// Reset clears all recorded outcomes. For tests only.
func Reset() {
	defaultTracker.Reset()
}

// Tracker maintains sliding windows of outcome timestamps.
type Tracker struct {
	mu            sync.Mutex
	servedTimes   []time.Time
	fallbackTimes []time.Time
}

// RecordServed records a live-payload outcome in the tracker.
func (t *Tracker) RecordServed() {
	t.recordOutcome(&t.servedTimes)
}

// RecordFallback records a fallback-payload outcome in the tracker.
func (t *Tracker) RecordFallback() {
	t.recordOutcome(&t.fallbackTimes)
}

// recordOutcome appends the current timestamp and prunes old entries.
func (t *Tracker) recordOutcome(slice *[]time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	*slice = append(*slice, now)
	t.pruneLocked(now)
}

// FallbackRate returns (fallbackCount, totalCount) within the window.
func (t *Tracker) FallbackRate(window time.Duration) (fallbacks, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := time.Now().Add(-window)
	fb := countInWindow(t.fallbackTimes, cutoff)
	served := countInWindow(t.servedTimes, cutoff)
	return fb, fb + served
}

// Reset clears all recorded outcomes from the tracker.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.servedTimes = nil
	t.fallbackTimes = nil
}

// countInWindow counts timestamps that are not before the cutoff time.
func countInWindow(times []time.Time, cutoff time.Time) int {
	n := 0
	for _, ts := range times {
		if !ts.Before(cutoff) {
			n++
		}
	}
	return n
}

// pruneLocked removes timestamps older than 5 minutes from both outcome
// slices. Must be called with the mutex held.
func (t *Tracker) pruneLocked(now time.Time) {
	cutoff := now.Add(-5 * time.Minute)
	prune := func(slice *[]time.Time) {
		times := *slice
		i := 0
		for ; i < len(times) && times[i].Before(cutoff); i++ {
		}
		if i > 0 {
			*slice = append(times[:0], times[i:]...)
		}
	}
	prune(&t.servedTimes)
	prune(&t.fallbackTimes)
}
