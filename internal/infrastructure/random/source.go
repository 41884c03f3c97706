// Package random provides the seeded random source injected into the demo.
package random

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Source is a goroutine-safe PCG generator.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a source seeded with seed. A zero seed is replaced with the
// current time so that runs differ.
func New(seed uint64) *Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Source{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// IntN returns a value in [0, n). It panics if n <= 0.
func (s *Source) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// Fixed always returns the same value, clamped to [0, n).
type Fixed int

// IntN implements port.RandomSource.
func (f Fixed) IntN(n int) int {
	if n <= 0 {
		panic("random: invalid argument to IntN")
	}
	v := int(f)
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
