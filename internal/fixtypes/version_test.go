package fixtypes

import "testing"

func TestParseVersionFIX(t *testing.T) {
	v, err := ParseVersion("FIX.4.4")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v != FIX44 {
		t.Fatalf("v = %v, want FIX44", v)
	}
	if got := v.String(); got != "FIX.4.4" {
		t.Fatalf("String() = %q", got)
	}
}

func TestParseVersionFIXT(t *testing.T) {
	v, err := ParseVersion("FIXT.1.1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v != FIXT11 {
		t.Fatalf("v = %v, want FIXT11", v)
	}
}

func TestParseVersionInvalid(t *testing.T) {
	if _, err := ParseVersion("FOO.1.1"); err == nil {
		t.Fatal("expected error")
	}
}
