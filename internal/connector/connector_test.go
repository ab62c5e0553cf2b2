package connector

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ndrandal/fixengine/internal/fixcodec"
	"github.com/ndrandal/fixengine/internal/fixfield"
	"github.com/ndrandal/fixengine/internal/fixsession"
	"github.com/ndrandal/fixengine/internal/fixtypes"
	"github.com/ndrandal/fixengine/internal/fixutil"
)

func testRNG() *fixutil.RNG { return fixutil.NewRNG(42) }

func testConnectorRegistry() *fixfield.Registry {
	reg := fixfield.BuildCoreRegistry()
	reg.Seal()
	return reg
}

func sendAck(conn net.Conn, reg *fixfield.Registry) error {
	ack := fixcodec.NewMessage(fixtypes.MsgTypeLogon)
	ack.Add(fixfield.IntField(fixfield.TagMsgSeqNum, "MsgSeqNum", 1))
	ack.Add(fixfield.IntField(fixfield.TagEncryptMethod, "EncryptMethod", 0))
	ack.Add(fixfield.IntField(fixfield.TagHeartBtInt, "HeartBtInt", 30))
	ack.BeginString = "FIX.4.4"
	wire, err := fixcodec.Encode(ack, reg)
	if err != nil {
		return err
	}
	_, err = conn.Write(wire)
	return err
}

// drain keeps reading (and discarding) frames from conn until it errors,
// so the client's eventual Logout write on a later Close() doesn't block
// forever on an unread net.Pipe.
func drain(conn net.Conn, reg *fixfield.Registry) {
	for {
		if _, err := fixcodec.Decode(conn, reg); err != nil {
			return
		}
	}
}

func TestConnectorRetriesThenReconnectsAfterDisconnect(t *testing.T) {
	reg := testConnectorRegistry()
	var attempt int32

	dial := func(ctx context.Context) (io.ReadWriteCloser, string, error) {
		n := atomic.AddInt32(&attempt, 1)
		if n == 1 {
			return nil, "", fmt.Errorf("dial: connection refused")
		}

		clientConn, serverConn := net.Pipe()
		go func() {
			if _, err := fixcodec.Decode(serverConn, reg); err != nil {
				return
			}
			if err := sendAck(serverConn, reg); err != nil {
				return
			}
			if n == 2 {
				serverConn.Close()
				return
			}
			drain(serverConn, reg)
		}()
		return clientConn, fmt.Sprintf("addr-%d", n), nil
	}

	events := make(chan Event, 64)
	cfg := Config{
		Dial: dial,
		Session: fixsession.Config{
			Registry:     reg,
			BeginString:  "FIX.4.4",
			SenderCompID: "CLIENT",
			TargetCompID: "SERVER",
			HeartBtInt:   30 * time.Second,
		},
		Backoff: BackoffConfig{
			InitialDelay: 5 * time.Millisecond,
			MaxDelay:     20 * time.Millisecond,
			Multiplier:   2,
			JitterFrac:   0,
		},
		Events: events,
	}
	c := New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- c.Run(ctx) }()

	connectedCount := 0
	deadline := time.After(3 * time.Second)
loop:
	for {
		select {
		case ev := <-events:
			if ev.Kind == Connected {
				connectedCount++
				if connectedCount >= 2 {
					break loop
				}
			}
		case <-deadline:
			t.Fatalf("timed out waiting for second reconnect; saw %d Connected events", connectedCount)
		}
	}

	cancel()

	select {
	case err := <-runDone:
		if err != context.Canceled {
			t.Fatalf("Run() returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}

	if got := atomic.LoadInt32(&attempt); got < 3 {
		t.Fatalf("dial attempts = %d, want at least 3 (1 failure + 2 connects)", got)
	}
}

func TestBackoffGrowsAndResets(t *testing.T) {
	b := newBackoff(BackoffConfig{
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     100 * time.Millisecond,
		Multiplier:   2,
		JitterFrac:   0,
	}, testRNG())

	d1 := b.NextDelay()
	d2 := b.NextDelay()
	if d2 <= d1 {
		t.Fatalf("expected delay to grow: d1=%v d2=%v", d1, d2)
	}
	if b.Phase() != phaseBackingOff {
		t.Fatalf("Phase() = %v, want phaseBackingOff", b.Phase())
	}

	b.Reset()
	if b.Phase() != phaseSteady || b.Failures() != 0 {
		t.Fatalf("Reset() did not clear state: phase=%v failures=%d", b.Phase(), b.Failures())
	}
}

func TestBackoffCapsAtMaxDelay(t *testing.T) {
	b := newBackoff(BackoffConfig{
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     15 * time.Millisecond,
		Multiplier:   10,
		JitterFrac:   0,
	}, testRNG())

	b.NextDelay()
	for i := 0; i < 5; i++ {
		if d := b.NextDelay(); d > 15*time.Millisecond {
			t.Fatalf("NextDelay() = %v, want capped at MaxDelay", d)
		}
	}
}
