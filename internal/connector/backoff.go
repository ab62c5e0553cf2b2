package connector

import (
	"time"

	"github.com/ndrandal/fixengine/internal/fixutil"
)

// backoffPhase mirrors the two-phase intensity model of the teacher's
// stress controller (calm/active/burst driven by a sine wave), collapsed
// to the two phases a reconnect loop actually needs: steady (first
// attempt after a clean run) and backing-off (repeated recent failures).
type backoffPhase int

const (
	phaseSteady backoffPhase = iota
	phaseBackingOff
)

// BackoffConfig holds the timing parameters for reconnect delay growth.
type BackoffConfig struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	JitterFrac   float64
}

// DefaultBackoffConfig returns sensible defaults: 500ms initial delay,
// doubling up to a 30s ceiling, with 20% jitter.
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		JitterFrac:   0.2,
	}
}

// backoff tracks consecutive-failure count and produces a jittered delay
// for the next reconnect attempt, resetting to phaseSteady on success.
type backoff struct {
	cfg      BackoffConfig
	rng      *fixutil.RNG
	phase    backoffPhase
	failures int
}

func newBackoff(cfg BackoffConfig, rng *fixutil.RNG) *backoff {
	return &backoff{cfg: cfg, rng: rng, phase: phaseSteady}
}

// Reset returns the backoff to its steady phase after a successful
// connection. The next failure starts growing delay from InitialDelay
// again.
func (b *backoff) Reset() {
	b.phase = phaseSteady
	b.failures = 0
}

// NextDelay records one more consecutive failure and returns how long to
// wait before the next attempt.
func (b *backoff) NextDelay() time.Duration {
	b.phase = phaseBackingOff
	b.failures++

	base := float64(b.cfg.InitialDelay)
	for i := 1; i < b.failures; i++ {
		base *= b.cfg.Multiplier
		if base >= float64(b.cfg.MaxDelay) {
			base = float64(b.cfg.MaxDelay)
			break
		}
	}
	delay := time.Duration(base)
	if delay > b.cfg.MaxDelay {
		delay = b.cfg.MaxDelay
	}
	return b.rng.Jitter(delay, b.cfg.JitterFrac)
}

// Phase reports whether the backoff considers the connector currently in
// a run of failures.
func (b *backoff) Phase() backoffPhase { return b.phase }

// Failures reports the current consecutive-failure count.
func (b *backoff) Failures() int { return b.failures }
