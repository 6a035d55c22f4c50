package value

import (
	"fmt"
	"strings"
)

// Type is a declared parameter type supplied at bind time. TypeNone means
// the type is inferred from the value's kind.
type Type int

const (
	TypeNone Type = iota
	TypeNull
	TypeInteger
	TypeBoolean
	TypeString
	TypeFloat
	TypeArray
	TypeBinary
)

var typeNames = map[Type]string{
	TypeNone:    "none",
	TypeNull:    "null",
	TypeInteger: "integer",
	TypeBoolean: "boolean",
	TypeString:  "string",
	TypeFloat:   "float",
	TypeArray:   "array",
	TypeBinary:  "binary",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ParseType maps a type name (case-insensitive, with the usual aliases)
// onto a Type.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "auto":
		return TypeNone, nil
	case "null":
		return TypeNull, nil
	case "int", "integer", "int64":
		return TypeInteger, nil
	case "bool", "boolean":
		return TypeBoolean, nil
	case "str", "string", "text":
		return TypeString, nil
	case "float", "float64", "double":
		return TypeFloat, nil
	case "array":
		return TypeArray, nil
	case "binary", "blob", "lob":
		return TypeBinary, nil
	}
	return TypeNone, fmt.Errorf("unknown parameter type %q", name)
}
