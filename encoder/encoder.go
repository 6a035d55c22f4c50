// Package encoder renders bound parameter values as SQL literal text.
package encoder

import (
	"math"
	"strconv"
	"strings"

	"github.com/Konsultn-Engineering/chstmt/dialect"
	"github.com/Konsultn-Engineering/chstmt/value"
)

// Encode produces the literal text that replaces a placeholder bound to v
// with declared type t. A declared type overrides the type inferred from the
// value kind; Null is always NULL.
func Encode(v value.Value, t value.Type, d dialect.Dialect) (string, error) {
	if v.IsNull() {
		return "NULL", nil
	}

	switch t {
	case value.TypeBoolean:
		return boolLiteral(v.Truthy()), nil
	case value.TypeInteger:
		switch v.Kind() {
		case value.KindInt, value.KindFloat:
			return numeric(v, t)
		case value.KindBool:
			return boolLiteral(v.BoolVal()), nil
		case value.KindString:
			// Numeric text destined for an integer column is spliced as is.
			return v.StringVal(), nil
		}
	case value.TypeNone:
		switch v.Kind() {
		case value.KindBool:
			return boolLiteral(v.BoolVal()), nil
		case value.KindInt, value.KindFloat:
			return numeric(v, t)
		case value.KindSeq:
			return array(v, d)
		}
	case value.TypeArray:
		if v.Kind() == value.KindSeq {
			return array(v, d)
		}
	}

	// TypeFloat and the remaining declared types are quoted like strings.
	if v.Kind() == value.KindSeq {
		return "", unsupported(v, t, "sequence has no scalar literal form")
	}
	return d.QuoteStringLiteral(v.Text()), nil
}

func boolLiteral(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func numeric(v value.Value, t value.Type) (string, error) {
	if v.Kind() == value.KindInt {
		return strconv.FormatInt(v.IntVal(), 10), nil
	}
	f := v.FloatVal()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", unsupported(v, t, "non-finite float")
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// array renders a sequence as a bracketed literal. The first element decides
// the flavour: numeric sequences must stay numeric, anything else is rendered
// element by element as quoted strings.
func array(v value.Value, d dialect.Dialect) (string, error) {
	elems := v.Elems()
	if len(elems) == 0 {
		return "[]", nil
	}

	parts := make([]string, len(elems))
	if elems[0].IsNumeric() {
		for n, e := range elems {
			if !e.IsNumeric() {
				return "", invalidArrayMix(v, n, e)
			}
			lit, err := numeric(e, value.TypeNone)
			if err != nil {
				return "", err
			}
			parts[n] = lit
		}
	} else {
		for n, e := range elems {
			switch e.Kind() {
			case value.KindNull:
				parts[n] = "NULL"
			case value.KindSeq:
				return "", unsupported(v, value.TypeNone, "nested sequence at element "+strconv.Itoa(n))
			default:
				parts[n] = d.QuoteStringLiteral(e.Text())
			}
		}
	}

	var sb strings.Builder
	sb.Grow(2 + len(parts)*4)
	sb.WriteByte('[')
	sb.WriteString(strings.Join(parts, ", "))
	sb.WriteByte(']')
	return sb.String(), nil
}
