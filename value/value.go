package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which member of the Value union is populated.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSeq
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSeq:
		return "seq"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a bound parameter value. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	seq  []Value
}

func Null() Value { return Value{} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func Int(i int64) Value { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func String(s string) Value { return Value{kind: KindString, s: s} }
func Seq(vs ...Value) Value {
	cp := make([]Value, len(vs))
	copy(cp, vs)
	return Value{kind: KindSeq, seq: cp}
}

// Ints and Strings are shorthands for the common homogeneous sequences.
func Ints(is ...int64) Value {
	vs := make([]Value, len(is))
	for n, i := range is {
		vs[n] = Int(i)
	}
	return Value{kind: KindSeq, seq: vs}
}

func Strings(ss ...string) Value {
	vs := make([]Value, len(ss))
	for n, s := range ss {
		vs[n] = String(s)
	}
	return Value{kind: KindSeq, seq: vs}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) IsNumeric() bool { return v.kind == KindInt || v.kind == KindFloat }
func (v Value) BoolVal() bool { return v.b }
func (v Value) IntVal() int64 { return v.i }
func (v Value) FloatVal() float64 { return v.f }
func (v Value) StringVal() string { return v.s }

// Elems returns the elements of a sequence. The returned slice must not be modified.
func (v Value) Elems() []Value { return v.seq }

// Truthy reports the boolean interpretation used for BOOLEAN coercion.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		return v.s != "" && v.s != "0"
	case KindSeq:
		return len(v.seq) > 0
	default:
		return false
	}
}

// Text is the plain textual form of a scalar, without any SQL quoting.
func (v Value) Text() string {
	switch v.kind {
	case KindBool:
		if v.b {
			return "1"
		}
		return "0"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindString:
		return v.s
	case KindSeq:
		parts := make([]string, len(v.seq))
		for n, e := range v.seq {
			parts[n] = e.Text()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "NULL"
	}
}

func (v Value) String() string {
	if v.kind == KindString {
		return strconv.Quote(v.s)
	}
	return v.Text()
}

// Equal reports deep equality of two values.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindSeq:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for n := range v.seq {
			if !v.seq[n].Equal(o.seq[n]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// GoString keeps %#v output readable in test failures.
func (v Value) GoString() string {
	return fmt.Sprintf("value.%s(%s)", v.kind, v.Text())
}
