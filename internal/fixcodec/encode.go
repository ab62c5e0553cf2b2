package fixcodec

import (
	"bytes"
	"fmt"

	"github.com/ndrandal/fixengine/internal/fixfield"
)

// Encode renders msg into the framed wire form: BeginString first,
// BodyLength second, MsgType third, CheckSum last. msg.Fields should not
// include MsgType itself (msg.MsgType is rendered automatically);
// msg.BeginString must be set by the caller (the session engine fills it
// in from the negotiated version).
func Encode(msg *Message, reg *fixfield.Registry) ([]byte, error) {
	var body bytes.Buffer
	var sum byte

	_, s, err := reg.EncodeField(&body, fixfield.EnumField(fixfield.TagMsgType, "MsgType", string(msg.MsgType)))
	if err != nil {
		return nil, fmt.Errorf("fixcodec: encode MsgType: %w", err)
	}
	sum += s

	for _, f := range msg.Fields {
		if f.Tag == fixfield.TagMsgType {
			continue
		}
		_, s, err := reg.EncodeField(&body, f)
		if err != nil {
			return nil, fmt.Errorf("fixcodec: encode tag %d: %w", f.Tag, err)
		}
		sum += s
	}

	var out bytes.Buffer

	_, s, err = reg.EncodeField(&out, fixfield.StringField(fixfield.TagBeginString, "BeginString", msg.BeginString))
	if err != nil {
		return nil, fmt.Errorf("fixcodec: encode BeginString: %w", err)
	}
	sum += s

	_, s, err = reg.EncodeField(&out, fixfield.IntField(fixfield.TagBodyLength, "BodyLength", int64(body.Len())))
	if err != nil {
		return nil, fmt.Errorf("fixcodec: encode BodyLength: %w", err)
	}
	sum += s

	out.Write(body.Bytes())
	fmt.Fprintf(&out, "%d=%03d\x01", fixfield.TagCheckSum, sum)

	return out.Bytes(), nil
}
