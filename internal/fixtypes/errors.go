package fixtypes

import "fmt"

// UnknownEnumValueError is returned when a wire value does not match any
// known variant of an enumerated code set.
type UnknownEnumValueError struct {
	Enum  string
	Value string
}

func (e *UnknownEnumValueError) Error() string {
	return fmt.Sprintf("fixtypes: unknown %s value %q", e.Enum, e.Value)
}

func unknownEnum(enum, value string) error {
	return &UnknownEnumValueError{Enum: enum, Value: value}
}
