package fixcodec

import (
	"bytes"
	"testing"

	"github.com/ndrandal/fixengine/internal/fixfield"
	"github.com/ndrandal/fixengine/internal/fixtypes"
)

func TestDecodeRepeatingGroup(t *testing.T) {
	reg := testRegistry()

	msg := NewMessage(fixtypes.MsgTypeMarketDataReq)
	msg.BeginString = "FIX.4.4"
	msg.Add(fixfield.StringField(fixfield.TagMDReqID, "MDReqID", "md-1"))
	msg.Add(fixfield.IntField(fixfield.TagNoRelatedSym, "NoRelatedSym", 2))
	msg.Add(fixfield.StringField(fixfield.TagSymbol, "Symbol", "BTC-USD"))
	msg.Add(fixfield.StringField(fixfield.TagSymbol, "Symbol", "ETH-USD"))

	wire, err := Encode(msg, reg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(bytes.NewReader(wire), reg)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	groups, ok := decoded.GetGroup(fixfield.TagNoRelatedSym)
	if !ok {
		t.Fatal("expected NoRelatedSym group to be decoded")
	}
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}
	if groups[0][0].StringValue() != "BTC-USD" || groups[1][0].StringValue() != "ETH-USD" {
		t.Fatalf("group contents wrong: %+v", groups)
	}
}
