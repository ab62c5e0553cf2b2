package fixtypes

import (
	"testing"
	"time"
)

func TestUTCTimestampRoundTripWholeSeconds(t *testing.T) {
	ts, err := ParseUTCTimestamp("20200101-00:00:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := ts.String(); got != "20200101-00:00:00" {
		t.Fatalf("String() = %q, want %q", got, "20200101-00:00:00")
	}
}

func TestUTCTimestampRoundTripMillis(t *testing.T) {
	ts, err := ParseUTCTimestamp("20200101-00:00:00.123")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := ts.String(); got != "20200101-00:00:00.123" {
		t.Fatalf("String() = %q, want %q", got, "20200101-00:00:00.123")
	}
}

func TestUTCTimestampZeroPadding(t *testing.T) {
	rfc, err := time.Parse(time.RFC3339, "2020-01-01T01:02:03Z")
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	ts := NewUTCTimestamp(rfc)
	if got := ts.String(); got != "20200101-01:02:03" {
		t.Fatalf("String() = %q, want zero-padded form", got)
	}
}

func TestUTCTimestampInvalid(t *testing.T) {
	if _, err := ParseUTCTimestamp("not-a-timestamp"); err == nil {
		t.Fatal("expected error for malformed timestamp")
	}
}

func TestDateRoundTrip(t *testing.T) {
	d, err := ParseDate("20200101")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := d.String(); got != "20200101" {
		t.Fatalf("String() = %q, want %q", got, "20200101")
	}
}

func TestTZTimeOnlyNoZone(t *testing.T) {
	tz, err := ParseTZTimeOnly("12:34:56")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := tz.String(); got != "12:34:56" {
		t.Fatalf("String() = %q, want %q", got, "12:34:56")
	}
}

func TestTZTimeOnlyWithMillisAndZ(t *testing.T) {
	tz, err := ParseTZTimeOnly("12:34:56.789Z")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := tz.String(); got != "12:34:56.789Z" {
		t.Fatalf("String() = %q, want %q", got, "12:34:56.789Z")
	}
}

func TestTZTimeOnlyWithOffset(t *testing.T) {
	tz, err := ParseTZTimeOnly("09:00:00-05:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := tz.String(); got != "09:00:00-05:00" {
		t.Fatalf("String() = %q, want %q", got, "09:00:00-05:00")
	}
}

func TestTZTimeOnlyInvalid(t *testing.T) {
	if _, err := ParseTZTimeOnly("garbage"); err == nil {
		t.Fatal("expected error for malformed TZTimeOnly")
	}
}
