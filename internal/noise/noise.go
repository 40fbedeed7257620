// Package noise provides injectable Gaussian noise sources for the synthetic
// pollutant models. Simulation and trend generation hold independent sources
// so their draws never interleave.
package noise

import (
	"math/rand"
	"sync"
	"time"
)

// Source draws normally distributed values. Implementations must be safe for
// concurrent use; the engines that hold a Source are shared across requests.
type Source interface {
	Normal(mean, stddev float64) float64
}

// lockedSource wraps math/rand behind a mutex. rand.Rand itself is not safe
// for concurrent use.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource returns a thread-safe Gaussian source. A zero seed selects a
// time-based seed; any other value makes the stream reproducible.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *lockedSource) Normal(mean, stddev float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mean + s.rng.NormFloat64()*stddev
}

// Fixed is a deterministic Source that always returns its value regardless of
// the requested distribution. For tests only.
type Fixed float64

func (f Fixed) Normal(mean, stddev float64) float64 { return float64(f) }
