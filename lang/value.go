package lang

import (
	"iter"
	"slices"
	"strconv"
	"strings"
)

// Value is a literal value. The set of implementations is closed:
// [Ident], [Bool], [Number], [String], [Array], [*Map], [Closure],
// [*Component], [Relative] and [Color]. Consumers switch on the concrete
// type.
type Value interface {
	Kind() ValueKind
	value()
}

// ValueKind enumerates the Value variants.
type ValueKind int

const (
	KindIdent ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindMap
	KindClosure
	KindComponent
	KindRelative
	KindColor
)

func (k ValueKind) String() string {
	switch k {
	case KindIdent:
		return "ident"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindClosure:
		return "closure"
	case KindComponent:
		return "component"
	case KindRelative:
		return "relative"
	case KindColor:
		return "color"
	default:
		return "ValueKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Ident is a bare identifier used as a value, such as an enum-like tag.
type Ident string

// Bool is a boolean literal.
type Bool bool

// String is a quoted string literal.
type String string

// Closure is opaque code captured verbatim between "{{" and "}}".
type Closure string

// Color is a hex colour literal such as #ff0000 or #000. It holds the
// digits as written, without the '#'.
type Color string

func (c Color) String() string { return "#" + string(c) }

// Array is an ordered sequence of values.
type Array []Value

// Relative is a placeholder reference such as ${0} or ${item.title},
// resolved by a consumer. Pos is the position of its "${" and is not part
// of its identity.
type Relative struct {
	Keys []ValueKey
	Pos  Position
}

// Number is an integer or decimal literal with an optional unit suffix
// such as "px" or "%".
type Number struct {
	Int     int64
	Float   float64
	IsFloat bool
	Unit    string
}

// IntNumber returns an integer Number.
func IntNumber(n int64) Number { return Number{Int: n} }

// FloatNumber returns a decimal Number.
func FloatNumber(f float64) Number { return Number{Float: f, IsFloat: true} }

// WithUnit returns a copy of n carrying unit.
func (n Number) WithUnit(unit string) Number {
	n.Unit = unit

	return n
}

// Float64 returns n as a float64 regardless of its form.
func (n Number) Float64() float64 {
	if n.IsFloat {
		return n.Float
	}

	return float64(n.Int)
}

// String formats n so that it lexes back to the same form: decimals always
// contain a decimal point.
func (n Number) String() string {
	var s string

	if n.IsFloat {
		s = strconv.FormatFloat(n.Float, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
	} else {
		s = strconv.FormatInt(n.Int, 10)
	}

	return s + n.Unit
}

// ValueKey addresses a positional parameter or array element by index, or
// a named parameter or map entry by name.
type ValueKey struct {
	Index int
	Name  string
}

// IndexKey returns a positional key.
func IndexKey(i int) ValueKey { return ValueKey{Index: i} }

// NameKey returns a named key.
func NameKey(name string) ValueKey { return ValueKey{Name: name} }

// IsNamed reports whether k is a named key.
func (k ValueKey) IsNamed() bool { return k.Name != "" }

func (k ValueKey) String() string {
	if k.IsNamed() {
		return k.Name
	}

	return strconv.Itoa(k.Index)
}

// Named reports whether the reference is rooted at a named key.
// The first key decides how the whole path is resolved.
func (r Relative) Named() bool { return len(r.Keys) > 0 && r.Keys[0].IsNamed() }

func (r Relative) String() string {
	b := []byte("${")

	for i, k := range r.Keys {
		if i > 0 {
			b = append(b, '.')
		}

		b = append(b, k.String()...)
	}

	return string(append(b, '}'))
}

// Map maps string keys to values, preserving insertion order.
// The zero value is an empty map ready to use.
type Map struct {
	keys []string
	vals map[string]Value
}

// NewMap returns an empty Map.
func NewMap() *Map { return &Map{} }

// Set stores v under key. A new key is appended; an existing key keeps its
// place and takes the new value.
func (m *Map) Set(key string, v Value) {
	if m.vals == nil {
		m.vals = make(map[string]Value)
	}

	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}

	m.vals[key] = v
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}

	v, ok := m.vals[key]

	return v, ok
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}

	return slices.Clone(m.keys)
}

// All iterates entries in insertion order.
func (m *Map) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if m == nil {
			return
		}

		for _, k := range m.keys {
			if !yield(k, m.vals[k]) {
				return
			}
		}
	}
}

func (Ident) Kind() ValueKind    { return KindIdent }
func (Bool) Kind() ValueKind     { return KindBool }
func (Number) Kind() ValueKind   { return KindNumber }
func (String) Kind() ValueKind   { return KindString }
func (Array) Kind() ValueKind    { return KindArray }
func (*Map) Kind() ValueKind     { return KindMap }
func (Closure) Kind() ValueKind  { return KindClosure }
func (Relative) Kind() ValueKind { return KindRelative }
func (Color) Kind() ValueKind    { return KindColor }

func (Ident) value()    {}
func (Bool) value()     {}
func (Number) value()   {}
func (String) value()   {}
func (Array) value()    {}
func (*Map) value()     {}
func (Closure) value()  {}
func (Relative) value() {}
func (Color) value()    {}

// Equal reports whether a and b are structurally equal. Source positions
// are ignored.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch x := a.(type) {
	case Ident:
		y, ok := b.(Ident)

		return ok && x == y

	case Bool:
		y, ok := b.(Bool)

		return ok && x == y

	case Number:
		y, ok := b.(Number)
		if !ok || x.IsFloat != y.IsFloat || x.Unit != y.Unit {
			return false
		}

		if x.IsFloat {
			return x.Float == y.Float
		}

		return x.Int == y.Int

	case String:
		y, ok := b.(String)

		return ok && x == y

	case Closure:
		y, ok := b.(Closure)

		return ok && x == y

	case Color:
		y, ok := b.(Color)

		return ok && x == y

	case Array:
		y, ok := b.(Array)

		return ok && slices.EqualFunc(x, y, Equal)

	case *Map:
		y, ok := b.(*Map)
		if !ok || x.Len() != y.Len() {
			return false
		}

		for k, xv := range x.All() {
			yv, ok := y.Get(k)
			if !ok || !Equal(xv, yv) {
				return false
			}
		}

		return slices.Equal(x.Keys(), y.Keys())

	case *Component:
		y, ok := b.(*Component)

		return ok && x.Equal(y)

	case Relative:
		y, ok := b.(Relative)

		return ok && slices.Equal(x.Keys, y.Keys)
	}

	return false
}

// Lookup follows keys from v: an index selects an array element or a
// positional parameter, a name selects a map entry, a named parameter, or
// a component property.
func Lookup(v Value, keys ...ValueKey) (Value, bool) {
	for _, k := range keys {
		switch x := v.(type) {
		case Array:
			if k.IsNamed() || k.Index < 0 || k.Index >= len(x) {
				return nil, false
			}

			v = x[k.Index]

		case *Map:
			if !k.IsNamed() {
				return nil, false
			}

			var ok bool
			if v, ok = x.Get(k.Name); !ok {
				return nil, false
			}

		case *Component:
			var ok bool
			if v, ok = x.Params.Get(k); ok {
				continue
			}

			if !k.IsNamed() {
				return nil, false
			}

			if v, ok = x.Properties.Get(k.Name); !ok {
				return nil, false
			}

		default:
			return nil, false
		}
	}

	return v, v != nil
}

// walkValues yields v and every value nested inside it, depth first.
// Nested components contribute their parameters and properties but not
// their children. pos is reported unchanged for every yielded value.
func walkValues(v Value, pos Position, yield func(Value, Position) bool) bool {
	if !yield(v, pos) {
		return false
	}

	switch x := v.(type) {
	case Array:
		for _, e := range x {
			if !walkValues(e, pos, yield) {
				return false
			}
		}

	case *Map:
		for _, e := range x.All() {
			if !walkValues(e, pos, yield) {
				return false
			}
		}

	case *Component:
		return x.walkOwnValues(yield)

	case Ident, Bool, Number, String, Closure, Relative, Color:
	}

	return true
}

// walkLocalValues is walkValues without descending into component values.
func walkLocalValues(v Value, pos Position, yield func(Value, Position) bool) bool {
	if !yield(v, pos) {
		return false
	}

	switch x := v.(type) {
	case Array:
		for _, e := range x {
			if !walkLocalValues(e, pos, yield) {
				return false
			}
		}

	case *Map:
		for _, e := range x.All() {
			if !walkLocalValues(e, pos, yield) {
				return false
			}
		}
	}

	return true
}
