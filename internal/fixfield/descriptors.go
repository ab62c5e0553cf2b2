package fixfield

import (
	"fmt"
	"strconv"

	"github.com/ndrandal/fixengine/internal/fixtypes"
)

// StringDescriptor builds a plain-string field descriptor.
func StringDescriptor(tag int, name string) Descriptor {
	return Descriptor{
		Tag: tag, Name: name, Kind: KindString,
		Parse: func(raw string) (Field, error) {
			if raw == "" {
				return Field{}, fmt.Errorf("fixfield: empty value for tag %d (%s)", tag, name)
			}
			return StringField(tag, name, raw), nil
		},
		Print: func(f Field) (string, error) { return f.str, nil },
	}
}

// IntDescriptor builds an integer field descriptor.
func IntDescriptor(tag int, name string) Descriptor {
	return Descriptor{
		Tag: tag, Name: name, Kind: KindInt,
		Parse: func(raw string) (Field, error) {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return Field{}, fmt.Errorf("fixfield: tag %d (%s): %w", tag, name, err)
			}
			return IntField(tag, name, n), nil
		},
		Print: func(f Field) (string, error) { return strconv.FormatInt(f.i64, 10), nil },
	}
}

// FloatDescriptor builds a float field descriptor.
func FloatDescriptor(tag int, name string) Descriptor {
	return Descriptor{
		Tag: tag, Name: name, Kind: KindFloat,
		Parse: func(raw string) (Field, error) {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return Field{}, fmt.Errorf("fixfield: tag %d (%s): %w", tag, name, err)
			}
			return FloatField(tag, name, v), nil
		},
		Print: func(f Field) (string, error) { return strconv.FormatFloat(f.f64, 'f', -1, 64), nil },
	}
}

// BoolDescriptor builds a Y/N field descriptor.
func BoolDescriptor(tag int, name string) Descriptor {
	return Descriptor{
		Tag: tag, Name: name, Kind: KindBool,
		Parse: func(raw string) (Field, error) {
			yn, err := fixtypes.ParseYesOrNo(raw)
			if err != nil {
				return Field{}, fmt.Errorf("fixfield: tag %d (%s): %w", tag, name, err)
			}
			return BoolField(tag, name, bool(yn)), nil
		},
		Print: func(f Field) (string, error) { return fixtypes.YesOrNo(f.b).String(), nil },
	}
}

// UTCTimestampDescriptor builds a UTCTimestamp field descriptor.
func UTCTimestampDescriptor(tag int, name string) Descriptor {
	return Descriptor{
		Tag: tag, Name: name, Kind: KindUTCTimestamp,
		Parse: func(raw string) (Field, error) {
			ts, err := fixtypes.ParseUTCTimestamp(raw)
			if err != nil {
				return Field{}, fmt.Errorf("fixfield: tag %d (%s): %w", tag, name, err)
			}
			return UTCTimestampField(tag, name, ts), nil
		},
		Print: func(f Field) (string, error) { return f.ts.String(), nil },
	}
}
