// Package connector wraps the FIX session engine with a persistent
// reconnect loop: on any non-user-initiated disconnect, it waits out a
// jittered backoff and tries again against a freshly-resolved address.
package connector

import (
	"context"
	"io"
	"time"

	"github.com/ndrandal/fixengine/internal/fixsession"
	"github.com/ndrandal/fixengine/internal/fixutil"
)

// EventKind discriminates the lifecycle events a Connector emits.
type EventKind int

const (
	Attempting EventKind = iota
	ObtainedAddress
	Connected
	Disconnected
)

func (k EventKind) String() string {
	switch k {
	case Attempting:
		return "Attempting"
	case ObtainedAddress:
		return "ObtainedAddress"
	case Connected:
		return "Connected"
	case Disconnected:
		return "Disconnected"
	default:
		return "Unknown"
	}
}

// Event is one connector lifecycle transition.
type Event struct {
	Kind   EventKind
	Reason string
	At     time.Time
}

// Dialer resolves an address and opens a transport to it, returning the
// resolved address alongside the connection so it can be surfaced in an
// ObtainedAddress event.
type Dialer func(ctx context.Context) (conn io.ReadWriteCloser, addr string, err error)

// Config configures a Connector.
type Config struct {
	Dial    Dialer
	Session fixsession.Config
	Backoff BackoffConfig
	Clock   fixsession.Clock
	RNG     *fixutil.RNG
	Events  chan<- Event
}

// Connector supervises one logical FIX connection across reconnects.
type Connector struct {
	cfg     Config
	backoff *backoff
}

// New creates a Connector from cfg, applying defaults for an unset
// BackoffConfig and RNG.
func New(cfg Config) *Connector {
	if cfg.Backoff == (BackoffConfig{}) {
		cfg.Backoff = DefaultBackoffConfig()
	}
	if cfg.RNG == nil {
		cfg.RNG = fixutil.NewRNG(0)
	}
	return &Connector{cfg: cfg, backoff: newBackoff(cfg.Backoff, cfg.RNG)}
}

// Run drives the reconnect loop until ctx is cancelled, which is the only
// terminal condition the connector itself recognizes: a session ending on
// its own (SessionError, transport failure) is always retried.
func (c *Connector) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		sess, err := c.connectOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if waitErr := c.wait(ctx, c.backoff.NextDelay()); waitErr != nil {
				return waitErr
			}
			continue
		}
		c.backoff.Reset()
		c.emit(Connected, "")

		select {
		case <-sess.Done():
			reason := ""
			if sessErr := sess.Err(); sessErr != nil {
				reason = sessErr.Error()
			}
			c.emit(Disconnected, reason)
			if waitErr := c.wait(ctx, c.backoff.NextDelay()); waitErr != nil {
				return waitErr
			}
		case <-ctx.Done():
			_ = sess.Close()
			return ctx.Err()
		}
	}
}

func (c *Connector) connectOnce(ctx context.Context) (*fixsession.Session, error) {
	c.emit(Attempting, "")
	conn, addr, err := c.cfg.Dial(ctx)
	if err != nil {
		c.emit(Disconnected, err.Error())
		return nil, err
	}
	c.emit(ObtainedAddress, addr)

	sessCfg := c.cfg.Session
	if sessCfg.Clock == nil {
		sessCfg.Clock = c.cfg.Clock
	}
	if sessCfg.RNG == nil {
		sessCfg.RNG = c.cfg.RNG
	}

	sess, err := fixsession.Connect(conn, sessCfg)
	if err != nil {
		c.emit(Disconnected, err.Error())
		_ = conn.Close()
		return nil, err
	}
	return sess, nil
}

func (c *Connector) wait(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Connector) emit(kind EventKind, reason string) {
	if c.cfg.Events == nil {
		return
	}
	ev := Event{Kind: kind, Reason: reason, At: time.Now()}
	select {
	case c.cfg.Events <- ev:
	default:
	}
}
