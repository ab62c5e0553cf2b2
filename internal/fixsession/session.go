// Package fixsession implements the client-side FIX session state machine:
// logon negotiation, heartbeat/test-request/watchdog timing, sequence-number
// discipline, gap detection and resend, and sequence reset handling.
package fixsession

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/ndrandal/fixengine/internal/fixcodec"
	"github.com/ndrandal/fixengine/internal/fixfield"
	"github.com/ndrandal/fixengine/internal/fixtypes"
	"github.com/ndrandal/fixengine/internal/fixutil"
)

// State is a session's position in the logon/heartbeat/logout lifecycle.
type State int

const (
	Disconnected State = iota
	Connecting
	LogonSent
	LoggedOn
	LogoutSent
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "Disconnected"
	case Connecting:
		return "Connecting"
	case LogonSent:
		return "LogonSent"
	case LoggedOn:
		return "LoggedOn"
	case LogoutSent:
		return "LogoutSent"
	default:
		return "Unknown"
	}
}

// Config configures a session's identity, negotiated timing, and
// collaborators.
type Config struct {
	SenderCompID     string
	TargetCompID     string
	BeginString      string
	HeartBtInt       time.Duration
	ResetSeqNumFlag  bool
	ExtraLogonFields []fixfield.Field
	HistoryCapacity  int
	Registry         *fixfield.Registry
	Clock            Clock
	RNG              *fixutil.RNG
	Events           chan<- Event
	WireEvents       chan<- WireEvent
}

type rawFrame struct {
	msg *fixcodec.Message
	raw []byte
	err error
}

type sendRequest struct {
	msg    *fixcodec.Message
	result chan error
}

// Session is a live FIX session over a byte-duplex transport. All mutable
// state is confined to the goroutine running run(), except the lifecycle
// state and terminal error, which State() and Err() read from other
// goroutines under their own mutexes; history also carries its own mutex.
type Session struct {
	cfg     Config
	conn    io.ReadWriteCloser
	reg     *fixfield.Registry
	clock   Clock
	rng     *fixutil.RNG
	history *resendHistory

	stateMu  sync.Mutex
	curState State

	seqOut int
	seqIn  int

	// holdback buffers inbound messages that arrived ahead of seqIn while a
	// gap is outstanding, keyed by their own sequence number. gapOutstanding
	// tracks whether a ResendRequest has already been sent for the current
	// gap, so a second out-of-order arrival doesn't trigger another one.
	holdback       map[int]*fixcodec.Message
	gapOutstanding bool

	inbound     chan *fixcodec.Message
	outboundReq chan sendRequest
	rawIn       chan rawFrame
	closeReq    chan struct{}

	done chan struct{}

	errMu sync.Mutex
	err   error

	events     chan<- Event
	wireEvents chan<- WireEvent
}

// Connect opens a session over conn: it sends Logon and blocks until the
// peer's Logon is received (LoggedOn) or the attempt fails.
func Connect(conn io.ReadWriteCloser, cfg Config) (*Session, error) {
	if cfg.Registry == nil {
		return nil, &SessionError{Kind: HeaderError, Text: "nil field registry"}
	}
	if cfg.BeginString == "" {
		return nil, &SessionError{Kind: HeaderError, Text: "empty BeginString"}
	}
	if cfg.Clock == nil {
		cfg.Clock = RealClock{}
	}
	if cfg.RNG == nil {
		cfg.RNG = fixutil.NewRNG(0)
	}
	if cfg.HeartBtInt <= 0 {
		cfg.HeartBtInt = 30 * time.Second
	}

	s := &Session{
		cfg:         cfg,
		conn:        conn,
		reg:         cfg.Registry,
		clock:       cfg.Clock,
		rng:         cfg.RNG,
		history:     newResendHistory(cfg.HistoryCapacity),
		seqOut:      1,
		seqIn:       1,
		holdback:    make(map[int]*fixcodec.Message),
		inbound:     make(chan *fixcodec.Message, 256),
		outboundReq: make(chan sendRequest),
		rawIn:       make(chan rawFrame, 64),
		closeReq:    make(chan struct{}, 1),
		done:        make(chan struct{}),
		events:      cfg.Events,
		wireEvents:  cfg.WireEvents,
	}
	s.setState(Connecting)

	ready := make(chan error, 1)
	go s.readPump()
	go s.run(ready)

	return s, <-ready
}

// readPump decodes frames off the transport and hands them to run() along
// with the exact wire bytes each frame consumed, captured the way
// cmd/fixreplay captures a replayed file's bytes (a tee into a buffer,
// sliced against how much bufio has read ahead) but trimmed after every
// frame so a long-lived session doesn't retain its whole wire history.
func (s *Session) readPump() {
	captured := &readCapture{}
	tee := io.TeeReader(s.conn, captured)
	br := bufio.NewReader(tee)
	for {
		msg, err := fixcodec.Decode(br, s.reg)
		var raw []byte
		if err == nil {
			consumed := len(captured.data) - br.Buffered()
			raw = append([]byte(nil), captured.data[:consumed]...)
			captured.data = captured.data[consumed:]
		}
		select {
		case s.rawIn <- rawFrame{msg: msg, raw: raw, err: err}:
		case <-s.done:
			return
		}
		if err != nil {
			return
		}
	}
}

// readCapture is an io.Writer that accumulates what's written to it so
// readPump can recover the raw bytes fixcodec.Decode consumed for each
// frame despite bufio's internal read-ahead.
type readCapture struct {
	data []byte
}

func (c *readCapture) Write(p []byte) (int, error) {
	c.data = append(c.data, p...)
	return len(p), nil
}

func (s *Session) run(ready chan<- error) {
	signaled := false
	defer func() {
		if !signaled {
			ready <- s.Err()
		}
		close(s.done)
	}()

	s.setState(LogonSent)
	if err := s.sendLogon(); err != nil {
		s.fail(err)
		return
	}
	s.emit(EventLogonSent, "")

	sendTimer := s.clock.NewTimer(s.cfg.HeartBtInt)
	watchdogTimer := s.clock.NewTimer(durationFrac(s.cfg.HeartBtInt, 1.5))
	defer sendTimer.Stop()
	defer watchdogTimer.Stop()

	var testReqOutstanding string

	for {
		select {
		case rf := <-s.rawIn:
			if rf.err != nil {
				if ce, ok := rf.err.(*fixcodec.CodecError); ok {
					s.sendReject(ce)
					s.fail(&SessionError{Kind: HeaderError, Text: ce.Error()})
				} else {
					s.fail(&TransportError{Err: rf.err})
				}
				return
			}
			if err := s.handleInbound(rf.msg, rf.raw, &testReqOutstanding, watchdogTimer); err != nil {
				s.fail(err)
				return
			}
			if s.State() == LoggedOn && !signaled {
				signaled = true
				ready <- nil
			}

		case req := <-s.outboundReq:
			if s.State() != LoggedOn {
				req.result <- &SessionError{Kind: UnexpectedMsgType, State: s.State(), Text: "session not logged on"}
				continue
			}
			err := s.sendApp(req.msg)
			req.result <- err
			if err != nil {
				s.fail(err)
				return
			}
			sendTimer.Reset(s.cfg.HeartBtInt)

		case <-sendTimer.C():
			if err := s.sendHeartbeat(""); err != nil {
				s.fail(err)
				return
			}
			sendTimer.Reset(s.cfg.HeartBtInt)

		case <-watchdogTimer.C():
			if testReqOutstanding == "" {
				testReqOutstanding = s.rng.NextID("TEST")
				if err := s.sendTestRequest(testReqOutstanding); err != nil {
					s.fail(err)
					return
				}
				s.emit(EventTestRequestSent, testReqOutstanding)
				watchdogTimer.Reset(s.cfg.HeartBtInt)
			} else {
				s.emit(EventHeartbeatTimeout, testReqOutstanding)
				s.fail(&SessionError{Kind: Timeout, Text: "no response to TestRequest within 2.5x heartbeat interval"})
				return
			}

		case <-s.closeReq:
			_ = s.sendLogout("")
			return

		case <-s.done:
			return
		}
	}
}

// durationFrac scales d by frac, used for the 1.5x/2.5x watchdog timings.
func durationFrac(d time.Duration, frac float64) time.Duration {
	return time.Duration(float64(d) * frac)
}

func (s *Session) handleInbound(msg *fixcodec.Message, raw []byte, testReqOutstanding *string, watchdog Timer) error {
	seqField, ok := msg.Get(fixfield.TagMsgSeqNum)
	if !ok {
		return &SessionError{Kind: HeaderError, Text: "missing MsgSeqNum", State: s.State()}
	}
	incomingSeq := int(seqField.IntValue())

	s.emitWire(WireDirectionIn, incomingSeq, msg, raw)

	*testReqOutstanding = ""
	watchdog.Reset(durationFrac(s.cfg.HeartBtInt, 1.5))

	if msg.MsgType == fixtypes.MsgTypeSequenceReset {
		if err := s.applySequenceReset(msg, incomingSeq); err != nil {
			return err
		}
		return s.drainHoldback()
	}

	possDup := false
	if pd, ok := msg.Get(fixfield.TagPossDupFlag); ok {
		possDup = pd.BoolValue()
	}

	switch {
	case incomingSeq == s.seqIn:
		s.seqIn++
		if err := s.dispatchMessage(msg); err != nil {
			return err
		}
		return s.drainHoldback()
	case incomingSeq > s.seqIn:
		return s.holdBack(incomingSeq, msg)
	default:
		if !possDup {
			_ = s.sendLogout("duplicate sequence number without PossDupFlag")
			return &SessionError{Kind: DuplicateWithoutPossDup, State: s.State()}
		}
		// duplicate with PossDupFlag: deliver once more, do not advance seqIn.
		return s.dispatchMessage(msg)
	}
}

// dispatchMessage applies msg's business effect once its sequence number
// has already been accounted for — accepted in order, redelivered as a
// PossDup, or released from the hold-back queue. It never touches seqIn.
func (s *Session) dispatchMessage(msg *fixcodec.Message) error {
	switch msg.MsgType {
	case fixtypes.MsgTypeLogon:
		if s.State() == LogonSent {
			s.setState(LoggedOn)
			s.emit(EventLoggedOn, "")
		}
	case fixtypes.MsgTypeHeartbeat:
		// test-request clearing already happened in handleInbound.
	case fixtypes.MsgTypeTestRequest:
		trid, _ := msg.Get(fixfield.TagTestReqID)
		return s.sendHeartbeat(trid.StringValue())
	case fixtypes.MsgTypeResendRequest:
		begin, _ := msg.Get(fixfield.TagBeginSeqNo)
		end, _ := msg.Get(fixfield.TagEndSeqNo)
		return s.handleResendRequest(int(begin.IntValue()), int(end.IntValue()))
	case fixtypes.MsgTypeLogout:
		wasLogonSent := s.State() == LogonSent
		s.setState(Disconnected)
		text, _ := msg.Get(fixfield.TagText)
		if wasLogonSent {
			return &SessionError{Kind: LogonRejected, Text: text.StringValue()}
		}
		return &SessionError{Kind: HeaderError, Text: "received Logout: " + text.StringValue()}
	default:
		if !msg.MsgType.Administrative() {
			s.inbound <- msg
		}
	}
	return nil
}

// holdBack buffers an out-of-order inbound message under its own sequence
// number and requests the gap exactly once: the outstanding ResendRequest
// already covers every message buffered after it, so a second or third
// out-of-order arrival during the same gap is queued silently.
func (s *Session) holdBack(seq int, msg *fixcodec.Message) error {
	if _, exists := s.holdback[seq]; !exists {
		s.holdback[seq] = msg
	}
	if s.gapOutstanding {
		return nil
	}
	s.gapOutstanding = true
	s.emit(EventGapDetected, fmt.Sprintf("expected %d got %d", s.seqIn, seq))
	return s.sendResendRequest(s.seqIn, 0)
}

// drainHoldback releases buffered messages that are now contiguous with
// seqIn, dispatching them in order, after discarding any entries a
// SequenceReset has since rendered stale (seq below the new seqIn). It
// runs after every advance of seqIn, whichever path produced it, so a
// filled gap resumes in-order delivery without a second ResendRequest.
func (s *Session) drainHoldback() error {
	for seq := range s.holdback {
		if seq < s.seqIn {
			delete(s.holdback, seq)
		}
	}
	for {
		msg, ok := s.holdback[s.seqIn]
		if !ok {
			break
		}
		delete(s.holdback, s.seqIn)
		s.seqIn++
		if err := s.dispatchMessage(msg); err != nil {
			return err
		}
	}
	if len(s.holdback) == 0 {
		s.gapOutstanding = false
	}
	return nil
}

func (s *Session) applySequenceReset(msg *fixcodec.Message, incomingSeq int) error {
	newSeqField, ok := msg.Get(fixfield.TagNewSeqNo)
	if !ok {
		return &SessionError{Kind: HeaderError, Text: "SequenceReset missing NewSeqNo", State: s.State()}
	}
	newSeq := int(newSeqField.IntValue())

	gapFill := false
	if gf, ok := msg.Get(fixfield.TagGapFillFlag); ok {
		gapFill = gf.BoolValue()
	}

	if gapFill {
		if incomingSeq >= s.seqIn {
			s.seqIn = newSeq
		}
	} else {
		s.seqIn = newSeq
	}
	s.emit(EventSequenceReset, fmt.Sprintf("newSeq=%d gapFill=%v", newSeq, gapFill))
	return nil
}

func (s *Session) handleResendRequest(begin, end int) error {
	last := s.seqOut - 1
	if end == 0 || end > last {
		end = last
	}
	if begin > end {
		return nil
	}

	pos := begin
	for pos <= end {
		if m, ok := s.history.Get(pos); ok {
			if err := s.resendCached(m); err != nil {
				return err
			}
			pos++
			continue
		}
		gapStart := pos
		for pos <= end {
			if _, ok := s.history.Get(pos); ok {
				break
			}
			pos++
		}
		if err := s.sendSequenceResetGapFill(gapStart, pos); err != nil {
			return err
		}
	}
	return nil
}

// frameAndWrite populates the standard header on msg, encodes it, and
// writes it to the transport. now is the SendingTime to stamp; for
// resends possDup is true and orig carries the message's original
// SendingTime.
func (s *Session) frameAndWrite(msg *fixcodec.Message, seq int, now fixtypes.UTCTimestamp, possDup bool, orig fixtypes.UTCTimestamp) ([]byte, error) {
	msg.BeginString = s.cfg.BeginString

	hdr := []fixfield.Field{
		fixfield.IntField(fixfield.TagMsgSeqNum, "MsgSeqNum", int64(seq)),
		fixfield.StringField(fixfield.TagSenderCompID, "SenderCompID", s.cfg.SenderCompID),
		fixfield.StringField(fixfield.TagTargetCompID, "TargetCompID", s.cfg.TargetCompID),
		fixfield.UTCTimestampField(fixfield.TagSendingTime, "SendingTime", now),
	}
	if possDup {
		hdr = append(hdr,
			fixfield.BoolField(fixfield.TagPossDupFlag, "PossDupFlag", true),
			fixfield.UTCTimestampField(fixfield.TagOrigSendingTime, "OrigSendingTime", orig),
		)
	}
	msg.Fields = append(hdr, msg.Fields...)

	wire, err := fixcodec.Encode(msg, s.reg)
	if err != nil {
		return nil, fmt.Errorf("fixsession: encode: %w", err)
	}
	if _, err := s.conn.Write(wire); err != nil {
		return nil, &TransportError{Err: err}
	}
	s.emitWire(WireDirectionOut, seq, msg, wire)
	return wire, nil
}

func (s *Session) sendFresh(msg *fixcodec.Message) ([]byte, int, fixtypes.UTCTimestamp, error) {
	seq := s.seqOut
	s.seqOut++
	now := fixtypes.NewUTCTimestamp(s.clock.Now())
	wire, err := s.frameAndWrite(msg, seq, now, false, fixtypes.UTCTimestamp{})
	return wire, seq, now, err
}

func (s *Session) sendLogon() error {
	msg := fixcodec.NewMessage(fixtypes.MsgTypeLogon)
	msg.Add(fixfield.IntField(fixfield.TagEncryptMethod, "EncryptMethod", 0))
	msg.Add(fixfield.IntField(fixfield.TagHeartBtInt, "HeartBtInt", int64(s.cfg.HeartBtInt/time.Second)))
	if s.cfg.ResetSeqNumFlag {
		msg.Add(fixfield.BoolField(fixfield.TagResetSeqNumFlag, "ResetSeqNumFlag", true))
		s.seqOut = 1
		s.seqIn = 1
	}
	msg.Fields = append(msg.Fields, s.cfg.ExtraLogonFields...)
	_, _, _, err := s.sendFresh(msg)
	return err
}

func (s *Session) sendHeartbeat(testReqID string) error {
	msg := fixcodec.NewMessage(fixtypes.MsgTypeHeartbeat)
	if testReqID != "" {
		msg.Add(fixfield.StringField(fixfield.TagTestReqID, "TestReqID", testReqID))
	}
	_, _, _, err := s.sendFresh(msg)
	return err
}

func (s *Session) sendTestRequest(id string) error {
	msg := fixcodec.NewMessage(fixtypes.MsgTypeTestRequest)
	msg.Add(fixfield.StringField(fixfield.TagTestReqID, "TestReqID", id))
	_, _, _, err := s.sendFresh(msg)
	return err
}

func (s *Session) sendResendRequest(begin, end int) error {
	msg := fixcodec.NewMessage(fixtypes.MsgTypeResendRequest)
	msg.Add(fixfield.IntField(fixfield.TagBeginSeqNo, "BeginSeqNo", int64(begin)))
	msg.Add(fixfield.IntField(fixfield.TagEndSeqNo, "EndSeqNo", int64(end)))
	_, _, _, err := s.sendFresh(msg)
	if err == nil {
		s.emit(EventResendRequested, fmt.Sprintf("%d-%d", begin, end))
	}
	return err
}

func (s *Session) sendSequenceResetGapFill(fromSeq, newSeq int) error {
	msg := fixcodec.NewMessage(fixtypes.MsgTypeSequenceReset)
	msg.Add(fixfield.BoolField(fixfield.TagGapFillFlag, "GapFillFlag", true))
	msg.Add(fixfield.IntField(fixfield.TagNewSeqNo, "NewSeqNo", int64(newSeq)))
	now := fixtypes.NewUTCTimestamp(s.clock.Now())
	_, err := s.frameAndWrite(msg, fromSeq, now, false, fixtypes.UTCTimestamp{})
	return err
}

func (s *Session) sendLogout(reason string) error {
	s.setState(LogoutSent)
	msg := fixcodec.NewMessage(fixtypes.MsgTypeLogout)
	if reason != "" {
		msg.Add(fixfield.StringField(fixfield.TagText, "Text", reason))
	}
	_, _, _, err := s.sendFresh(msg)
	s.emit(EventLogoutSent, reason)
	return err
}

func (s *Session) sendReject(ce *fixcodec.CodecError) error {
	msg := fixcodec.NewMessage(fixtypes.MsgTypeReject)
	if ce.Tag != 0 {
		msg.Add(fixfield.IntField(fixfield.TagRefTagID, "RefTagID", int64(ce.Tag)))
	}
	msg.Add(fixfield.StringField(fixfield.TagText, "Text", ce.Error()))
	_, _, _, err := s.sendFresh(msg)
	return err
}

func (s *Session) sendApp(msg *fixcodec.Message) error {
	bodyFields := append([]fixfield.Field(nil), msg.Fields...)
	msgType := msg.MsgType
	_, seq, now, err := s.sendFresh(msg)
	if err != nil {
		return err
	}
	s.history.Put(&sentMessage{seqNum: seq, msgType: string(msgType), bodyFields: bodyFields, sendingTime: now})
	return nil
}

func (s *Session) resendCached(m *sentMessage) error {
	msg := fixcodec.NewMessage(fixtypes.MsgType(m.msgType))
	msg.Fields = append(msg.Fields, m.bodyFields...)
	now := fixtypes.NewUTCTimestamp(s.clock.Now())
	_, err := s.frameAndWrite(msg, m.seqNum, now, true, m.sendingTime)
	return err
}

// Send submits an application message for transmission. It blocks until
// the message has been framed and written, or the session has terminated.
func (s *Session) Send(msg *fixcodec.Message) error {
	result := make(chan error, 1)
	select {
	case s.outboundReq <- sendRequest{msg: msg, result: result}:
	case <-s.done:
		return s.Err()
	}
	select {
	case err := <-result:
		return err
	case <-s.done:
		return s.Err()
	}
}

// Inbound returns the channel of decoded application messages. Only
// non-administrative messages are delivered here.
func (s *Session) Inbound() <-chan *fixcodec.Message { return s.inbound }

// Done returns a channel closed once the session's run loop has exited,
// for any reason (graceful Close, SessionError, or transport failure). A
// supervisor can select on it alongside Err() to learn why the session
// ended.
func (s *Session) Done() <-chan struct{} { return s.done }

// Close requests a graceful logout and blocks until the session's run
// loop has exited.
func (s *Session) Close() error {
	select {
	case s.closeReq <- struct{}{}:
	case <-s.done:
	}
	<-s.done
	return s.Err()
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.curState
}

func (s *Session) setState(st State) {
	s.stateMu.Lock()
	s.curState = st
	s.stateMu.Unlock()
}

// Err returns the terminal error the session failed with, if any.
func (s *Session) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *Session) fail(err error) {
	s.errMu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.errMu.Unlock()
	s.setState(Disconnected)
	s.emit(EventDisconnected, err.Error())
	if cerr := s.conn.Close(); cerr != nil {
		log.Printf("fixsession: transport close: %v", cerr)
	}
}

func (s *Session) emit(kind EventKind, reason string) {
	if s.events == nil {
		return
	}
	ev := Event{Kind: kind, SessionID: s.cfg.SenderCompID + "->" + s.cfg.TargetCompID, Reason: reason, At: s.clock.Now()}
	select {
	case s.events <- ev:
	default:
		log.Printf("fixsession: event sink full, dropping %s event", kind)
	}
}

// emitWire publishes one sent or received wire message to the session's
// optional mirror sink, so a caller can journal and dashboard-broadcast
// every frame without fixsession importing the journal or monitor packages.
func (s *Session) emitWire(dir WireDirection, seq int, msg *fixcodec.Message, raw []byte) {
	if s.wireEvents == nil {
		return
	}
	ev := WireEvent{
		SessionID: s.cfg.SenderCompID + "->" + s.cfg.TargetCompID,
		Direction: dir,
		SeqNum:    seq,
		Msg:       msg,
		Raw:       raw,
		At:        s.clock.Now(),
	}
	select {
	case s.wireEvents <- ev:
	default:
		log.Printf("fixsession: wire event sink full, dropping %s message seq=%d", dir, seq)
	}
}
