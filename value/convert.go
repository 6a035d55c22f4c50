package value

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// TimeLayout is the textual form used for time.Time parameters.
const TimeLayout = "2006-01-02 15:04:05"

// FromAny converts a native Go value into a Value. Slices and arrays become
// sequences; identifiers and timestamps become strings.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return val, nil
	case *Value:
		if val == nil {
			return Null(), nil
		}
		return *val, nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(int64(val)), nil
	case int8:
		return Int(int64(val)), nil
	case int16:
		return Int(int64(val)), nil
	case int32:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint8:
		return Int(int64(val)), nil
	case uint16:
		return Int(int64(val)), nil
	case uint32:
		return Int(int64(val)), nil
	case float32:
		return Float(float64(val)), nil
	case float64:
		return Float(val), nil
	case string:
		return String(val), nil
	case []byte:
		return String(string(val)), nil
	case time.Time:
		return String(val.Format(TimeLayout)), nil
	case uuid.UUID:
		return String(val.String()), nil
	case ulid.ULID:
		return String(val.String()), nil
	case fmt.Stringer:
		return String(val.String()), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return Null(), nil
		}
		return FromAny(rv.Elem().Interface())
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > 1<<63-1 {
			return Null(), fmt.Errorf("unsigned value %d overflows int64", u)
		}
		return Int(int64(u)), nil
	case reflect.Slice, reflect.Array:
		elems := make([]Value, rv.Len())
		for n := range elems {
			e, err := FromAny(rv.Index(n).Interface())
			if err != nil {
				return Null(), fmt.Errorf("element %d: %w", n, err)
			}
			elems[n] = e
		}
		return Value{kind: KindSeq, seq: elems}, nil
	}
	return Null(), fmt.Errorf("unsupported parameter type %T", v)
}

// MustFromAny is FromAny for values known to convert.
func MustFromAny(v any) Value {
	out, err := FromAny(v)
	if err != nil {
		panic(err)
	}
	return out
}

// Interface returns the native Go form of the value.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindSeq:
		out := make([]any, len(v.seq))
		for n, e := range v.seq {
			out[n] = e.Interface()
		}
		return out
	default:
		return nil
	}
}

