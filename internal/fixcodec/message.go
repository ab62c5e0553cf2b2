// Package fixcodec frames and parses the FIX tag-value wire format: the
// 8/9/.../10 envelope, checksum, and repeating-group layout described by
// the core's field registry.
package fixcodec

import (
	"github.com/ndrandal/fixengine/internal/fixfield"
	"github.com/ndrandal/fixengine/internal/fixtypes"
)

// Group is one repetition of a repeating group block, in wire order.
type Group []fixfield.Field

// Message is a fully decoded (or not-yet-encoded) FIX message. Fields
// holds every body field in wire order, including group members and the
// repeated count tag itself; Groups is a convenience index built during
// decode so callers don't have to walk Fields to find group members.
type Message struct {
	BeginString string
	BodyLength  int
	MsgType     fixtypes.MsgType
	Fields      []fixfield.Field
	Groups      map[int][]Group
	CheckSum    string
}

// NewMessage starts an outbound message with the given MsgType. Callers
// append header and body fields in the order they should appear on the
// wire; Encode prepends BeginString/BodyLength and appends CheckSum.
func NewMessage(msgType fixtypes.MsgType) *Message {
	return &Message{MsgType: msgType}
}

// Add appends a field to the message body in wire order.
func (m *Message) Add(f fixfield.Field) *Message {
	m.Fields = append(m.Fields, f)
	return m
}

// Get returns the first field with the given tag, searching Fields in
// wire order. Group members are included.
func (m *Message) Get(tag int) (fixfield.Field, bool) {
	for _, f := range m.Fields {
		if f.Tag == tag {
			return f, true
		}
	}
	return fixfield.Field{}, false
}

// GetGroup returns the decoded repetitions for a count tag, if any were
// present (and recognized in groupDelimiters) during decode.
func (m *Message) GetGroup(countTag int) ([]Group, bool) {
	g, ok := m.Groups[countTag]
	return g, ok
}
