package fixsession

import (
	"fmt"

	"github.com/ndrandal/fixengine/internal/fixtypes"
)

// SessionErrorKind discriminates the SessionError taxonomy.
type SessionErrorKind int

const (
	LogonRejected SessionErrorKind = iota
	SequenceGapUnresolved
	DuplicateWithoutPossDup
	HeaderError
	Timeout
	UnexpectedMsgType
)

func (k SessionErrorKind) String() string {
	switch k {
	case LogonRejected:
		return "LogonRejected"
	case SequenceGapUnresolved:
		return "SequenceGapUnresolved"
	case DuplicateWithoutPossDup:
		return "DuplicateWithoutPossDup"
	case HeaderError:
		return "HeaderError"
	case Timeout:
		return "Timeout"
	case UnexpectedMsgType:
		return "UnexpectedMsgType"
	default:
		return "Unknown"
	}
}

// SessionError is fatal to the current session but recoverable by the
// persistent connector, which starts a fresh Connect.
type SessionError struct {
	Kind    SessionErrorKind
	Text    string
	State   State
	MsgType fixtypes.MsgType
}

func (e *SessionError) Error() string {
	switch e.Kind {
	case LogonRejected:
		return fmt.Sprintf("fixsession: logon rejected: %s", e.Text)
	case UnexpectedMsgType:
		return fmt.Sprintf("fixsession: unexpected MsgType %q while %s", e.MsgType, e.State)
	default:
		if e.Text != "" {
			return fmt.Sprintf("fixsession: %s: %s", e.Kind, e.Text)
		}
		return fmt.Sprintf("fixsession: %s", e.Kind)
	}
}

// TransportError wraps a transport-level failure (io/net errors). It is
// always terminal for the session.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("fixsession: transport: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }
