package fixsession

import (
	"testing"
	"time"

	"github.com/ndrandal/fixengine/internal/fixfield"
	"github.com/ndrandal/fixengine/internal/fixtypes"
)

func TestHistoryPutAndGet(t *testing.T) {
	h := newResendHistory(4)
	h.Put(&sentMessage{seqNum: 1, msgType: "D"})
	h.Put(&sentMessage{seqNum: 2, msgType: "D"})

	m, ok := h.Get(1)
	if !ok || m.msgType != "D" {
		t.Fatalf("Get(1) = %+v, %v", m, ok)
	}
	if _, ok := h.Get(99); ok {
		t.Fatal("Get(99) should miss")
	}
	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}
}

func TestHistoryFIFOEviction(t *testing.T) {
	h := newResendHistory(2)
	h.Put(&sentMessage{seqNum: 1})
	h.Put(&sentMessage{seqNum: 2})
	h.Put(&sentMessage{seqNum: 3})

	if _, ok := h.Get(1); ok {
		t.Fatal("seqNum 1 should have been evicted")
	}
	if _, ok := h.Get(2); !ok {
		t.Fatal("seqNum 2 should still be cached")
	}
	if _, ok := h.Get(3); !ok {
		t.Fatal("seqNum 3 should still be cached")
	}
	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}
}

func TestHistoryPutOverwriteSameSeqDoesNotGrowOrder(t *testing.T) {
	h := newResendHistory(4)
	h.Put(&sentMessage{seqNum: 1, msgType: "A"})
	h.Put(&sentMessage{seqNum: 1, msgType: "B"})

	if h.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", h.Len())
	}
	m, _ := h.Get(1)
	if m.msgType != "B" {
		t.Fatalf("msgType = %q, want B (overwritten)", m.msgType)
	}
}

func TestHistoryOldestHeld(t *testing.T) {
	h := newResendHistory(2)
	if _, ok := h.OldestHeld(); ok {
		t.Fatal("empty cache should report no oldest")
	}
	h.Put(&sentMessage{seqNum: 5})
	h.Put(&sentMessage{seqNum: 6})
	h.Put(&sentMessage{seqNum: 7})

	oldest, ok := h.OldestHeld()
	if !ok || oldest != 6 {
		t.Fatalf("OldestHeld() = %d, %v, want 6, true", oldest, ok)
	}
}

func TestHistoryRangeSkipsEvictedEntries(t *testing.T) {
	h := newResendHistory(2)
	h.Put(&sentMessage{seqNum: 1})
	h.Put(&sentMessage{seqNum: 2})
	h.Put(&sentMessage{seqNum: 3})

	got := h.Range(1, 3)
	if len(got) != 2 {
		t.Fatalf("Range(1,3) returned %d entries, want 2", len(got))
	}
	if got[0].seqNum != 2 || got[1].seqNum != 3 {
		t.Fatalf("Range(1,3) = %+v, want [2,3]", got)
	}
}

func TestHistoryDefaultCapacityAppliedWhenZeroOrNegative(t *testing.T) {
	h := newResendHistory(0)
	if h.capacity != defaultHistoryCapacity {
		t.Fatalf("capacity = %d, want %d", h.capacity, defaultHistoryCapacity)
	}
	h2 := newResendHistory(-5)
	if h2.capacity != defaultHistoryCapacity {
		t.Fatalf("capacity = %d, want %d", h2.capacity, defaultHistoryCapacity)
	}
}

func TestHistoryCachesBodyFieldsAndSendingTime(t *testing.T) {
	h := newResendHistory(4)
	ts := fixtypes.NewUTCTimestamp(time.Unix(1700000000, 0).UTC())
	fields := []fixfield.Field{fixfield.StringField(fixfield.TagClOrdID, "ClOrdID", "C-1")}
	h.Put(&sentMessage{seqNum: 10, msgType: "D", bodyFields: fields, sendingTime: ts})

	m, ok := h.Get(10)
	if !ok {
		t.Fatal("Get(10) missed")
	}
	if len(m.bodyFields) != 1 || m.bodyFields[0].StringValue() != "C-1" {
		t.Fatalf("bodyFields = %+v, want ClOrdID C-1", m.bodyFields)
	}
	if !m.sendingTime.Equal(ts.Time) {
		t.Fatalf("sendingTime = %v, want %v", m.sendingTime, ts)
	}
}
