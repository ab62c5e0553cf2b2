// Package fixfield implements the FIX field value universe and the
// extensible, process-wide field registry that maps tag<->name<->typed
// value.
package fixfield

import (
	"fmt"
	"strconv"

	"github.com/ndrandal/fixengine/internal/fixtypes"
)

// Kind discriminates the typed-value universe a Field's value belongs to.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindUTCTimestamp
	KindDate
	KindTZTimeOnly
	KindVersion
	KindEnum
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindBool:
		return "Bool"
	case KindUTCTimestamp:
		return "UTCTimestamp"
	case KindDate:
		return "Date"
	case KindTZTimeOnly:
		return "TZTimeOnly"
	case KindVersion:
		return "Version"
	case KindEnum:
		return "Enum"
	default:
		return "Unknown"
	}
}

// Field is an immutable (tag, name, typed value) triple. Two fields are
// equal iff their tags and value representations match, which is what
// Equal checks without requiring Kind to match exactly (an Unknown field
// decoded from the wire and a typed field with the same tag and raw text
// are equal).
type Field struct {
	Tag  int
	Name string
	Kind Kind

	str  string
	i64  int64
	f64  float64
	b    bool
	ts   fixtypes.UTCTimestamp
	date fixtypes.Date
	tz   fixtypes.TZTimeOnly
	ver  fixtypes.Version

	raw string // verbatim wire text, set for every field kind
}

// Unknown constructs an opaque field preserved verbatim from the wire for
// a tag the registry has no descriptor for.
func Unknown(tag int, raw string) Field {
	return Field{Tag: tag, Name: "", Kind: KindUnknown, str: raw, raw: raw}
}

// StringField constructs a plain string-valued field.
func StringField(tag int, name, value string) Field {
	return Field{Tag: tag, Name: name, Kind: KindString, str: value, raw: value}
}

// IntField constructs an integer-valued field.
func IntField(tag int, name string, value int64) Field {
	return Field{Tag: tag, Name: name, Kind: KindInt, i64: value, raw: strconv.FormatInt(value, 10)}
}

// FloatField constructs a float-valued field, printed with FIX's typical
// minimal decimal representation.
func FloatField(tag int, name string, value float64) Field {
	raw := strconv.FormatFloat(value, 'f', -1, 64)
	return Field{Tag: tag, Name: name, Kind: KindFloat, f64: value, raw: raw}
}

// BoolField constructs a Y/N-valued field.
func BoolField(tag int, name string, value bool) Field {
	yn := fixtypes.YesOrNo(value)
	return Field{Tag: tag, Name: name, Kind: KindBool, b: value, raw: yn.String()}
}

// UTCTimestampField constructs a UTCTimestamp-valued field.
func UTCTimestampField(tag int, name string, value fixtypes.UTCTimestamp) Field {
	return Field{Tag: tag, Name: name, Kind: KindUTCTimestamp, ts: value, raw: value.String()}
}

// DateField constructs a Date-valued field.
func DateField(tag int, name string, value fixtypes.Date) Field {
	return Field{Tag: tag, Name: name, Kind: KindDate, date: value, raw: value.String()}
}

// TZTimeOnlyField constructs a TZTimeOnly-valued field.
func TZTimeOnlyField(tag int, name string, value fixtypes.TZTimeOnly) Field {
	return Field{Tag: tag, Name: name, Kind: KindTZTimeOnly, tz: value, raw: value.String()}
}

// VersionField constructs a Version-valued field.
func VersionField(tag int, name string, value fixtypes.Version) Field {
	return Field{Tag: tag, Name: name, Kind: KindVersion, ver: value, raw: value.String()}
}

// EnumField constructs an enum-valued field from its already-printed wire
// representation (used by the generic EnumDescriptor in registry.go).
func EnumField(tag int, name, wire string) Field {
	return Field{Tag: tag, Name: name, Kind: KindEnum, str: wire, raw: wire}
}

// Raw returns the field's verbatim wire-text representation, regardless
// of Kind.
func (f Field) Raw() string { return f.raw }

func (f Field) StringValue() string { return f.str }
func (f Field) IntValue() int64     { return f.i64 }
func (f Field) FloatValue() float64 { return f.f64 }
func (f Field) BoolValue() bool     { return f.b }

func (f Field) UTCTimestampValue() fixtypes.UTCTimestamp { return f.ts }
func (f Field) DateValue() fixtypes.Date                 { return f.date }
func (f Field) TZTimeOnlyValue() fixtypes.TZTimeOnly     { return f.tz }
func (f Field) VersionValue() fixtypes.Version           { return f.ver }

// Equal reports whether two fields carry the same tag and the same wire
// representation.
func (f Field) Equal(other Field) bool {
	return f.Tag == other.Tag && f.raw == other.raw
}

func (f Field) String() string {
	if f.Name == "" {
		return fmt.Sprintf("%d=%s", f.Tag, f.raw)
	}
	return fmt.Sprintf("%s(%d)=%s", f.Name, f.Tag, f.raw)
}
