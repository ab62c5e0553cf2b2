package fixsession

import (
	"net"
	"testing"
	"time"

	"github.com/ndrandal/fixengine/internal/fixcodec"
	"github.com/ndrandal/fixengine/internal/fixfield"
	"github.com/ndrandal/fixengine/internal/fixtypes"
)

func testSessionRegistry() *fixfield.Registry {
	reg := fixfield.BuildCoreRegistry()
	reg.Seal()
	return reg
}

// peer wraps one side of a net.Pipe with codec helpers, standing in for
// the counterparty FIX engine in tests.
type peer struct {
	conn net.Conn
	reg  *fixfield.Registry
}

func (p *peer) recv(t *testing.T) *fixcodec.Message {
	t.Helper()
	msg, err := fixcodec.Decode(p.conn, p.reg)
	if err != nil {
		t.Fatalf("peer decode: %v", err)
	}
	return msg
}

func (p *peer) send(t *testing.T, msg *fixcodec.Message) {
	t.Helper()
	msg.BeginString = "FIX.4.4"
	wire, err := fixcodec.Encode(msg, p.reg)
	if err != nil {
		t.Fatalf("peer encode: %v", err)
	}
	if _, err := p.conn.Write(wire); err != nil {
		t.Fatalf("peer write: %v", err)
	}
}

func connectWithHandshake(t *testing.T, cfg Config) (*Session, *peer, *fakeClock) {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	reg := testSessionRegistry()
	clock := newFakeClock()

	cfg.Registry = reg
	cfg.Clock = clock
	if cfg.BeginString == "" {
		cfg.BeginString = "FIX.4.4"
	}
	if cfg.SenderCompID == "" {
		cfg.SenderCompID = "CLIENT"
	}
	if cfg.TargetCompID == "" {
		cfg.TargetCompID = "SERVER"
	}
	if cfg.HeartBtInt == 0 {
		cfg.HeartBtInt = 30 * time.Second
	}

	p := &peer{conn: serverConn, reg: reg}

	sessCh := make(chan *Session, 1)
	errCh := make(chan error, 1)
	go func() {
		sess, err := Connect(clientConn, cfg)
		if err != nil {
			errCh <- err
			return
		}
		sessCh <- sess
	}()

	logon := p.recv(t)
	if logon.MsgType != fixtypes.MsgTypeLogon {
		t.Fatalf("MsgType = %v, want Logon", logon.MsgType)
	}

	ack := fixcodec.NewMessage(fixtypes.MsgTypeLogon)
	ack.Add(fixfield.IntField(fixfield.TagMsgSeqNum, "MsgSeqNum", 1))
	ack.Add(fixfield.IntField(fixfield.TagEncryptMethod, "EncryptMethod", 0))
	ack.Add(fixfield.IntField(fixfield.TagHeartBtInt, "HeartBtInt", int64(cfg.HeartBtInt/time.Second)))
	p.send(t, ack)

	select {
	case sess := <-sessCh:
		return sess, p, clock
	case err := <-errCh:
		t.Fatalf("Connect failed: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Connect to complete")
	}
	return nil, nil, nil
}

func TestConnectLogonHandshake(t *testing.T) {
	sess, _, _ := connectWithHandshake(t, Config{})
	if sess.State() != LoggedOn {
		t.Fatalf("State() = %v, want LoggedOn", sess.State())
	}
}

func TestSendHeartbeatOnSendTimerElapsed(t *testing.T) {
	sess, p, clock := connectWithHandshake(t, Config{})

	clock.Timer(0).Fire(clock.Now())

	hb := p.recv(t)
	if hb.MsgType != fixtypes.MsgTypeHeartbeat {
		t.Fatalf("MsgType = %v, want Heartbeat", hb.MsgType)
	}
	_ = sess.Close
}

func TestTestRequestOnWatchdogElapsed(t *testing.T) {
	sess, p, clock := connectWithHandshake(t, Config{})
	_ = sess

	clock.Timer(1).Fire(clock.Now())

	tr := p.recv(t)
	if tr.MsgType != fixtypes.MsgTypeTestRequest {
		t.Fatalf("MsgType = %v, want TestRequest", tr.MsgType)
	}
	if _, ok := tr.Get(fixfield.TagTestReqID); !ok {
		t.Fatal("TestRequest missing TestReqID")
	}
}

func TestWatchdogTimeoutDisconnects(t *testing.T) {
	sess, p, clock := connectWithHandshake(t, Config{})

	clock.Timer(1).Fire(clock.Now())
	_ = p.recv(t) // TestRequest

	clock.Timer(1).Fire(clock.Now())

	deadline := time.After(2 * time.Second)
	for sess.State() != Disconnected {
		select {
		case <-deadline:
			t.Fatal("session never disconnected after watchdog timeout")
		case <-time.After(10 * time.Millisecond):
		}
	}
	if sess.Err() == nil {
		t.Fatal("expected Err() to be set after watchdog timeout")
	}
}

func TestHeartbeatEchoesTestReqID(t *testing.T) {
	sess, p, _ := connectWithHandshake(t, Config{})
	_ = sess

	treq := fixcodec.NewMessage(fixtypes.MsgTypeTestRequest)
	treq.Add(fixfield.IntField(fixfield.TagMsgSeqNum, "MsgSeqNum", 2))
	treq.Add(fixfield.StringField(fixfield.TagTestReqID, "TestReqID", "peer-req-1"))
	p.send(t, treq)

	hb := p.recv(t)
	if hb.MsgType != fixtypes.MsgTypeHeartbeat {
		t.Fatalf("MsgType = %v, want Heartbeat", hb.MsgType)
	}
	trid, ok := hb.Get(fixfield.TagTestReqID)
	if !ok || trid.StringValue() != "peer-req-1" {
		t.Fatalf("Heartbeat TestReqID = %+v, want peer-req-1", trid)
	}
}

func TestGapDetectionSendsResendRequest(t *testing.T) {
	sess, p, _ := connectWithHandshake(t, Config{})
	_ = sess

	skipped := fixcodec.NewMessage(fixtypes.MsgTypeHeartbeat)
	skipped.Add(fixfield.IntField(fixfield.TagMsgSeqNum, "MsgSeqNum", 5))
	p.send(t, skipped)

	rr := p.recv(t)
	if rr.MsgType != fixtypes.MsgTypeResendRequest {
		t.Fatalf("MsgType = %v, want ResendRequest", rr.MsgType)
	}
	begin, _ := rr.Get(fixfield.TagBeginSeqNo)
	if begin.IntValue() != 2 {
		t.Fatalf("BeginSeqNo = %d, want 2", begin.IntValue())
	}
}

func TestGapDetectionQueuesOutOfOrderArrivalsAndDrainsInOrder(t *testing.T) {
	sess, p, _ := connectWithHandshake(t, Config{})

	order := func(seq int64, clOrdID string) *fixcodec.Message {
		msg := fixcodec.NewMessage(fixtypes.MsgTypeNewOrderSingle)
		msg.Add(fixfield.IntField(fixfield.TagMsgSeqNum, "MsgSeqNum", seq))
		msg.Add(fixfield.StringField(fixfield.TagClOrdID, "ClOrdID", clOrdID))
		return msg
	}

	// seq 5 arrives while seqIn is still 2: triggers the one ResendRequest.
	p.send(t, order(5, "C-5"))
	rr := p.recv(t)
	if rr.MsgType != fixtypes.MsgTypeResendRequest {
		t.Fatalf("MsgType = %v, want ResendRequest", rr.MsgType)
	}
	begin, _ := rr.Get(fixfield.TagBeginSeqNo)
	if begin.IntValue() != 2 {
		t.Fatalf("BeginSeqNo = %d, want 2", begin.IntValue())
	}

	// seq 6 arrives while the gap is still outstanding: must not produce a
	// second ResendRequest, and must be queued rather than dropped.
	p.send(t, order(6, "C-6"))

	// the missing 2, 3, 4 arrive in order, filling the gap.
	p.send(t, order(2, "C-2"))
	p.send(t, order(3, "C-3"))
	p.send(t, order(4, "C-4"))

	var got []string
	deadline := time.After(2 * time.Second)
	for len(got) < 5 {
		select {
		case msg := <-sess.Inbound():
			clID, _ := msg.Get(fixfield.TagClOrdID)
			got = append(got, clID.StringValue())
		case <-deadline:
			t.Fatalf("timed out waiting for delivery, got %v so far", got)
		}
	}

	want := []string{"C-2", "C-3", "C-4", "C-5", "C-6"}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("delivery order = %v, want %v", got, want)
		}
	}
}

func TestDuplicateWithoutPossDupTerminatesSession(t *testing.T) {
	sess, p, _ := connectWithHandshake(t, Config{})

	dup := fixcodec.NewMessage(fixtypes.MsgTypeHeartbeat)
	dup.Add(fixfield.IntField(fixfield.TagMsgSeqNum, "MsgSeqNum", 1))
	p.send(t, dup)

	// net.Pipe is unbuffered: the session's Logout has to be read before
	// the session can record its failure.
	if logout := p.recv(t); logout.MsgType != fixtypes.MsgTypeLogout {
		t.Fatalf("sent %v, want Logout", logout.MsgType)
	}

	deadline := time.After(2 * time.Second)
	for sess.Err() == nil {
		select {
		case <-deadline:
			t.Fatal("session never failed on unmarked duplicate")
		case <-time.After(10 * time.Millisecond):
		}
	}
	se, ok := sess.Err().(*SessionError)
	if !ok || se.Kind != DuplicateWithoutPossDup {
		t.Fatalf("Err() = %v, want DuplicateWithoutPossDup SessionError", sess.Err())
	}
}

func TestSendAppMessageDeliversThroughPeer(t *testing.T) {
	sess, p, _ := connectWithHandshake(t, Config{})

	order := fixcodec.NewMessage(fixtypes.MsgTypeNewOrderSingle)
	order.Add(fixfield.StringField(fixfield.TagClOrdID, "ClOrdID", "C-1"))
	order.Add(fixfield.StringField(fixfield.TagSymbol, "Symbol", "BTC-USD"))
	order.Add(fixfield.EnumField(fixfield.TagSide, "Side", "1"))

	errCh := make(chan error, 1)
	go func() { errCh <- sess.Send(order) }()

	recvd := p.recv(t)
	if recvd.MsgType != fixtypes.MsgTypeNewOrderSingle {
		t.Fatalf("MsgType = %v, want NewOrderSingle", recvd.MsgType)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	clID, _ := recvd.Get(fixfield.TagClOrdID)
	if clID.StringValue() != "C-1" {
		t.Fatalf("ClOrdID = %q, want C-1", clID.StringValue())
	}
}
