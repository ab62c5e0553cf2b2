// Package fixutil collects small utilities shared by the session engine,
// connector, and venue adapters: a seedable PRNG and FIX-style ID
// generation helpers.
package fixutil

import (
	"fmt"
	"sync"
	"time"
)

// RNG is a seedable pseudo-random number generator using PCG-XSH-RR. It is
// safe for concurrent use.
type RNG struct {
	mu    sync.Mutex
	state uint64
	inc   uint64
}

// NewRNG creates a new PRNG with the given seed. If seed is 0, it uses the
// current time.
func NewRNG(seed int64) *RNG {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := &RNG{}
	r.inc = uint64(seed)<<1 | 1
	r.state = 0
	r.step()
	r.state += uint64(seed)
	r.step()
	return r
}

func (r *RNG) step() {
	r.state = r.state*6364136223846793005 + r.inc
}

// Uint32 returns a uniformly distributed uint32.
func (r *RNG) Uint32() uint32 {
	r.mu.Lock()
	old := r.state
	r.step()
	r.mu.Unlock()

	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := uint32(old >> 59)
	return (xorshifted >> rot) | (xorshifted << ((-rot) & 31))
}

// Float64 returns a uniformly distributed float64 in [0, 1).
func (r *RNG) Float64() float64 {
	return float64(r.Uint32()) / (1 << 32)
}

// Intn returns a uniformly distributed int in [0, n).
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Uint32() % uint32(n))
}

// Jitter returns a duration uniformly distributed in [base*(1-frac), base*(1+frac)].
// frac is clamped to [0, 1].
func (r *RNG) Jitter(base time.Duration, frac float64) time.Duration {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	span := float64(base) * frac
	delta := (r.Float64()*2 - 1) * span
	return base + time.Duration(delta)
}

// NextID returns a prefixed, monotonically-unpredictable identifier
// suitable for TestReqID or ClOrdID generation: <prefix>-<current unix
// nanos>-<random uint32 in decimal>.
func (r *RNG) NextID(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), r.Uint32())
}
