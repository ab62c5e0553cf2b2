package fixcodec

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/ndrandal/fixengine/internal/fixfield"
	"github.com/ndrandal/fixengine/internal/fixtypes"
)

// Decode reads one framed FIX message from r. r is wrapped in a
// *bufio.Reader if it isn't already one. A read error before the first
// byte of a frame (io.EOF at a clean end of stream, a closed transport)
// is returned as is rather than as a CodecError.
func Decode(r io.Reader, reg *fixfield.Registry) (*Message, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	var sum byte

	beginTok, err := br.ReadBytes(0x01)
	if err != nil {
		if len(beginTok) == 0 {
			return nil, err
		}
		return nil, &CodecError{Kind: MalformedHeader, Reason: err.Error()}
	}
	for _, b := range beginTok {
		sum += b
	}
	beginTag, beginVal, err := fixfield.ParseRaw(trimSOH(beginTok))
	if err != nil {
		return nil, &CodecError{Kind: MalformedHeader, Reason: err.Error()}
	}
	if beginTag != fixfield.TagBeginString {
		return nil, &CodecError{Kind: MalformedHeader, Reason: "expected BeginString (tag 8) first"}
	}

	lenTok, err := br.ReadBytes(0x01)
	if err != nil {
		return nil, &CodecError{Kind: MalformedHeader, Reason: err.Error()}
	}
	for _, b := range lenTok {
		sum += b
	}
	lenTag, lenVal, err := fixfield.ParseRaw(trimSOH(lenTok))
	if err != nil {
		return nil, &CodecError{Kind: MalformedHeader, Reason: err.Error()}
	}
	if lenTag != fixfield.TagBodyLength {
		return nil, &CodecError{Kind: MalformedHeader, Reason: "expected BodyLength (tag 9) second"}
	}
	bodyLen, err := strconv.Atoi(string(lenVal))
	if err != nil {
		return nil, &CodecError{Kind: MalformedHeader, Reason: "non-integer BodyLength"}
	}
	if bodyLen < 0 {
		return nil, &CodecError{Kind: MalformedHeader, Reason: "negative BodyLength"}
	}

	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(br, body); err != nil {
		return nil, &CodecError{Kind: Truncated, Reason: err.Error()}
	}
	for _, b := range body {
		sum += b
	}

	trailerTok, err := br.ReadBytes(0x01)
	if err != nil {
		return nil, &CodecError{Kind: Truncated, Reason: err.Error()}
	}
	trailerTag, trailerVal, err := fixfield.ParseRaw(trimSOH(trailerTok))
	if err != nil {
		return nil, &CodecError{Kind: MalformedHeader, Reason: err.Error()}
	}
	if trailerTag != fixfield.TagCheckSum {
		return nil, &CodecError{Kind: MalformedHeader, Reason: "expected CheckSum (tag 10) last"}
	}

	want := fmt.Sprintf("%03d", sum)
	got := string(trailerVal)
	if got != want {
		return nil, &CodecError{Kind: BadChecksum, Reason: fmt.Sprintf("computed %s, wire %s", want, got)}
	}

	tokens := splitFields(body)
	fields, groups, err := decodeBody(reg, tokens)
	if err != nil {
		return nil, err
	}

	msg := &Message{
		BeginString: string(beginVal),
		BodyLength:  bodyLen,
		Fields:      fields,
		Groups:      groups,
		CheckSum:    got,
	}
	if mt, ok := msg.Get(fixfield.TagMsgType); ok {
		msg.MsgType = fixtypes.MsgType(mt.Raw())
	}
	return msg, nil
}

// trimSOH strips the trailing SOH delimiter from a ReadBytes token.
func trimSOH(tok []byte) []byte {
	if n := len(tok); n > 0 && tok[n-1] == 0x01 {
		return tok[:n-1]
	}
	return tok
}

// splitFields splits a raw body on SOH delimiters, dropping the empty
// trailing element the final delimiter produces.
func splitFields(body []byte) [][]byte {
	parts := bytes.Split(body, []byte{0x01})
	if n := len(parts); n > 0 && len(parts[n-1]) == 0 {
		parts = parts[:n-1]
	}
	return parts
}

// decodeBody decodes every field token in order, expanding repeating
// groups named in groupDelimiters into Message.Groups as it goes.
func decodeBody(reg *fixfield.Registry, tokens [][]byte) ([]fixfield.Field, map[int][]Group, error) {
	fields := make([]fixfield.Field, 0, len(tokens))
	groups := make(map[int][]Group)

	i := 0
	for i < len(tokens) {
		tag, value, err := fixfield.ParseRaw(tokens[i])
		if err != nil {
			return nil, nil, &CodecError{Kind: MalformedHeader, Reason: err.Error()}
		}
		if len(value) == 0 {
			return nil, nil, &CodecError{Kind: EmptyValue, Tag: tag}
		}
		f, err := reg.DecodeField(tag, string(value))
		if err != nil {
			return nil, nil, &CodecError{Kind: UnparseableValue, Tag: tag, Reason: err.Error()}
		}
		fields = append(fields, f)
		i++

		delimTag, isGroup := groupDelimiters[tag]
		if !isGroup {
			continue
		}
		count := int(f.IntValue())
		blocks := make([]Group, 0, count)
		for b := 0; b < count; b++ {
			if i >= len(tokens) {
				return nil, nil, &CodecError{Kind: Truncated, Tag: tag, Reason: "group declared more entries than present"}
			}
			blockTag, blockVal, err := fixfield.ParseRaw(tokens[i])
			if err != nil {
				return nil, nil, &CodecError{Kind: MalformedHeader, Reason: err.Error()}
			}
			if blockTag != delimTag {
				return nil, nil, &CodecError{Kind: UnparseableValue, Tag: tag, Reason: "group block does not start with its delimiter tag"}
			}
			bf, err := reg.DecodeField(blockTag, string(blockVal))
			if err != nil {
				return nil, nil, &CodecError{Kind: UnparseableValue, Tag: blockTag, Reason: err.Error()}
			}
			block := Group{bf}
			fields = append(fields, bf)
			i++

			for i < len(tokens) {
				nt, nv, err := fixfield.ParseRaw(tokens[i])
				if err != nil {
					return nil, nil, &CodecError{Kind: MalformedHeader, Reason: err.Error()}
				}
				if nt == delimTag {
					break
				}
				if _, nested := groupDelimiters[nt]; nested {
					break
				}
				nf, err := reg.DecodeField(nt, string(nv))
				if err != nil {
					return nil, nil, &CodecError{Kind: UnparseableValue, Tag: nt, Reason: err.Error()}
				}
				block = append(block, nf)
				fields = append(fields, nf)
				i++
			}
			blocks = append(blocks, block)
		}
		groups[tag] = blocks
	}

	return fields, groups, nil
}
