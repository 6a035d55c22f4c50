package encoder

import (
	"errors"
	"fmt"

	"github.com/Konsultn-Engineering/chstmt/value"
)

var (
	ErrInvalidArrayMix = errors.New("mixed int/float and string not allowed")
	ErrUnsupportedType = errors.New("unsupported parameter type")
)

// EncodingError reports a value/type combination that has no literal form.
// It matches ErrInvalidArrayMix or ErrUnsupportedType with errors.Is.
type EncodingError struct {
	Kind   error
	Value  value.Value
	Type   value.Type
	Reason string
}

func (e *EncodingError) Error() string {
	msg := fmt.Sprintf("encode %s as %s: %v", e.Value.Kind(), e.Type, e.Kind)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *EncodingError) Unwrap() error { return e.Kind }

func invalidArrayMix(v value.Value, idx int, elem value.Value) error {
	return &EncodingError{
		Kind:   ErrInvalidArrayMix,
		Value:  v,
		Type:   value.TypeNone,
		Reason: fmt.Sprintf("element %d is %s", idx, elem.Kind()),
	}
}

func unsupported(v value.Value, t value.Type, reason string) error {
	return &EncodingError{Kind: ErrUnsupportedType, Value: v, Type: t, Reason: reason}
}
