// Package fixtypes implements typed parsers and printers for the FIX
// scalar primitives: timestamps, dates, versions, and enumerated code sets.
// Every type round-trips exactly on the wire.
package fixtypes

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UTCTimestamp is a FIX UTCTimestamp: YYYYMMDD-HH:MM:SS[.sss], always UTC.
type UTCTimestamp struct {
	time.Time
}

// NewUTCTimestamp truncates t to millisecond precision and forces UTC.
func NewUTCTimestamp(t time.Time) UTCTimestamp {
	return UTCTimestamp{t.UTC().Truncate(time.Millisecond)}
}

// ParseUTCTimestamp accepts both the whole-second and millisecond forms.
func ParseUTCTimestamp(s string) (UTCTimestamp, error) {
	for _, layout := range []string{"20060102-15:04:05.000", "20060102-15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return UTCTimestamp{t.UTC()}, nil
		}
	}
	return UTCTimestamp{}, fmt.Errorf("fixtypes: invalid UTCTimestamp %q", s)
}

// String prints the millisecond form only when the fractional part is
// nonzero; otherwise the whole-second form. Both forms are always
// zero-padded to their fixed FIX width.
func (t UTCTimestamp) String() string {
	if t.Nanosecond() != 0 {
		return t.Format("20060102-15:04:05.000")
	}
	return t.Format("20060102-15:04:05")
}

// Date is a FIX Date: YYYYMMDD.
type Date struct {
	time.Time
}

// ParseDate parses a YYYYMMDD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("20060102", s)
	if err != nil {
		return Date{}, fmt.Errorf("fixtypes: invalid Date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format("20060102")
}

// TZTimeOnly is HH:MM:SS[.sss][Z|+HH|-HH|+HH:MM|-HH:MM].
type TZTimeOnly struct {
	Hour, Min, Sec, Millis int
	HasMillis              bool
	Zone                   string // "" (no zone), "Z", or +/-HH[:MM]
}

// ParseTZTimeOnly parses the TZTimeOnly grammar described in fixtypes.
func ParseTZTimeOnly(s string) (TZTimeOnly, error) {
	body := s
	zone := ""
	switch {
	case strings.HasSuffix(body, "Z"):
		zone = "Z"
		body = body[:len(body)-1]
	default:
		if idx := strings.LastIndexAny(body, "+-"); idx > 0 {
			zone = body[idx:]
			body = body[:idx]
		}
	}

	hasMillis := false
	millis := 0
	if idx := strings.IndexByte(body, '.'); idx >= 0 {
		fracStr := body[idx+1:]
		body = body[:idx]
		n, err := strconv.Atoi(fracStr)
		if err != nil {
			return TZTimeOnly{}, fmt.Errorf("fixtypes: invalid TZTimeOnly fraction %q", s)
		}
		for len(fracStr) < 3 {
			fracStr += "0"
			n *= 10
		}
		millis = n
		hasMillis = true
	}

	parts := strings.Split(body, ":")
	if len(parts) != 3 {
		return TZTimeOnly{}, fmt.Errorf("fixtypes: invalid TZTimeOnly %q", s)
	}
	hh, err1 := strconv.Atoi(parts[0])
	mm, err2 := strconv.Atoi(parts[1])
	ss, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return TZTimeOnly{}, fmt.Errorf("fixtypes: invalid TZTimeOnly %q", s)
	}

	if zone != "" && zone != "Z" {
		if _, err := parseZoneOffset(zone); err != nil {
			return TZTimeOnly{}, fmt.Errorf("fixtypes: invalid TZTimeOnly zone %q: %w", zone, err)
		}
	}

	return TZTimeOnly{Hour: hh, Min: mm, Sec: ss, Millis: millis, HasMillis: hasMillis, Zone: zone}, nil
}

func parseZoneOffset(z string) (sign int, err error) {
	if len(z) < 3 {
		return 0, fmt.Errorf("too short")
	}
	sign = 1
	if z[0] == '-' {
		sign = -1
	}
	rest := z[1:]
	rest = strings.ReplaceAll(rest, ":", "")
	if len(rest) != 2 && len(rest) != 4 {
		return 0, fmt.Errorf("bad offset digits")
	}
	if _, err := strconv.Atoi(rest); err != nil {
		return 0, err
	}
	return sign, nil
}

func (t TZTimeOnly) String() string {
	base := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Min, t.Sec)
	if t.HasMillis {
		base += fmt.Sprintf(".%03d", t.Millis)
	}
	return base + t.Zone
}
