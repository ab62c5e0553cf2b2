package fixtypes

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a FIX BeginString value: FIX.m.n or FIXT.m.n.
type Version struct {
	Transport bool // true for FIXT
	Major     int
	Minor     int
}

var (
	FIX42  = Version{Major: 4, Minor: 2}
	FIX43  = Version{Major: 4, Minor: 3}
	FIX44  = Version{Major: 4, Minor: 4}
	FIXT11 = Version{Transport: true, Major: 1, Minor: 1}
)

// ParseVersion parses "FIX.4.4" or "FIXT.1.1".
func ParseVersion(s string) (Version, error) {
	var prefix string
	var transport bool
	switch {
	case strings.HasPrefix(s, "FIXT."):
		prefix, transport = "FIXT.", true
	case strings.HasPrefix(s, "FIX."):
		prefix, transport = "FIX.", false
	default:
		return Version{}, fmt.Errorf("fixtypes: invalid Version %q", s)
	}

	rest := strings.TrimPrefix(s, prefix)
	parts := strings.SplitN(rest, ".", 2)
	if len(parts) != 2 {
		return Version{}, fmt.Errorf("fixtypes: invalid Version %q", s)
	}
	major, err1 := strconv.Atoi(parts[0])
	minor, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return Version{}, fmt.Errorf("fixtypes: invalid Version %q", s)
	}
	return Version{Transport: transport, Major: major, Minor: minor}, nil
}

func (v Version) String() string {
	prefix := "FIX"
	if v.Transport {
		prefix = "FIXT"
	}
	return fmt.Sprintf("%s.%d.%d", prefix, v.Major, v.Minor)
}
