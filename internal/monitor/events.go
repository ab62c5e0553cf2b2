package monitor

import (
	"strconv"
	"time"

	"github.com/ndrandal/fixengine/internal/fixcodec"
)

// LifecycleEvent is a session or connector lifecycle transition, tagged
// with the session it belongs to so dashboard subscribers can filter.
// Source distinguishes a connector-level event (Attempting, Connected,
// ...) from a session-level one (LoggedOn, GapDetected, ...); Kind is the
// event's String() form so the monitor package never needs to import
// fixsession or connector for their concrete event types.
type LifecycleEvent struct {
	SessionID string
	Source    string
	Kind      string
	Reason    string
	At        time.Time
}

// Direction discriminates an inbound from an outbound mirrored message.
type Direction string

const (
	DirectionInbound  Direction = "in"
	DirectionOutbound Direction = "out"
)

// MessageMirror is a JSON-friendly snapshot of one decoded FIX message,
// published so a dashboard can render wire traffic without speaking FIX.
type MessageMirror struct {
	SessionID string            `json:"sessionId"`
	Direction Direction         `json:"direction"`
	MsgType   string            `json:"msgType"`
	Fields    map[string]string `json:"fields"`
	At        time.Time         `json:"at"`
}

// MirrorMessage builds a MessageMirror from a decoded message. Fields are
// keyed by name where the registry assigned one, or by numeric tag
// (e.g. "tag:5020") for unknown fields so nothing is silently dropped.
func MirrorMessage(sessionID string, dir Direction, msg *fixcodec.Message, at time.Time) MessageMirror {
	fields := make(map[string]string, len(msg.Fields))
	for _, f := range msg.Fields {
		key := f.Name
		if key == "" {
			key = tagKey(f.Tag)
		}
		fields[key] = f.Raw()
	}
	return MessageMirror{
		SessionID: sessionID,
		Direction: dir,
		MsgType:   string(msg.MsgType),
		Fields:    fields,
		At:        at,
	}
}

func tagKey(tag int) string {
	return "tag:" + strconv.Itoa(tag)
}
