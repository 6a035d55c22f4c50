package statement

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Konsultn-Engineering/chstmt/value"
)

// Key identifies a bound parameter: either a zero-based position matched
// against `?` placeholders, or a name matched against `:name`.
type Key struct {
	pos   int
	name  string
	named bool
}

// Pos returns the positional key i. i must not be negative.
func Pos(i int) Key {
	if i < 0 {
		panic(fmt.Sprintf("statement: negative positional key %d", i))
	}
	return Key{pos: i}
}

// Name returns the named key for name. A leading colon is ignored. Template
// placeholders are matched by letters, digits and underscores only, so a
// name containing any other character (such as "user.id") never binds.
func Name(name string) Key {
	return Key{name: strings.TrimPrefix(name, ":"), named: true}
}

// ParseKey reads a key from text: unsigned decimal integers are positional,
// anything else is a name.
func ParseKey(s string) Key {
	if i, err := strconv.Atoi(s); err == nil && i >= 0 && !strings.HasPrefix(s, "+") {
		return Pos(i)
	}
	return Name(s)
}

func (k Key) IsNamed() bool { return k.named }

// Index is the position of a positional key, or -1 for a named key.
func (k Key) Index() int {
	if k.named {
		return -1
	}
	return k.pos
}

func (k Key) String() string {
	if k.named {
		return ":" + k.name
	}
	return strconv.Itoa(k.pos)
}

// Params are extra bindings handed to Execute.
type Params map[Key]value.Value

// binding is one bound parameter. ref is set for late-bound variables and is
// read at execute time; val is the snapshot otherwise.
type binding struct {
	val value.Value
	ref any
	typ value.Type
}

func (b binding) resolve() (value.Value, error) {
	if b.ref == nil {
		return b.val, nil
	}
	return value.FromAny(b.ref)
}

// partition splits keys into ascending positional keys and named keys.
func partition(bindings map[Key]binding) (positional []Key, named int) {
	for k := range bindings {
		if k.named {
			named++
			continue
		}
		positional = append(positional, k)
	}
	sort.Slice(positional, func(i, j int) bool { return positional[i].pos < positional[j].pos })
	return positional, named
}
