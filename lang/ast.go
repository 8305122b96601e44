package lang

import (
	"iter"
	"slices"
	"strconv"
)

// Shape classifies a parameter list.
type Shape int

const (
	ShapeEmpty      Shape = iota // empty
	ShapePositional              // positional
	ShapeNamed                   // named
	ShapeMixed                   // mixed
)

func (s Shape) String() string {
	switch s {
	case ShapeEmpty:
		return "empty"
	case ShapePositional:
		return "positional"
	case ShapeNamed:
		return "named"
	case ShapeMixed:
		return "mixed"
	default:
		return "Shape(" + strconv.Itoa(int(s)) + ")"
	}
}

// Param is one entry of a parameter list. Key is empty for positional
// entries.
type Param struct {
	Key   string
	Value Value
	Pos   Position
}

// Parameters is the argument list inside a component's parentheses.
// Entries are kept exactly as written; a list mixing positional and named
// entries reports [ShapeMixed] and is rejected by [Validate].
type Parameters struct {
	Entries []Param
}

// Shape classifies the list.
func (p Parameters) Shape() Shape {
	var named, positional bool

	for _, e := range p.Entries {
		if e.Key != "" {
			named = true
		} else {
			positional = true
		}
	}

	switch {
	case named && positional:
		return ShapeMixed
	case named:
		return ShapeNamed
	case positional:
		return ShapePositional
	default:
		return ShapeEmpty
	}
}

// Len returns the number of entries.
func (p Parameters) Len() int { return len(p.Entries) }

// Positional returns the values of a positional list, or nil for any other
// shape.
func (p Parameters) Positional() []Value {
	if p.Shape() != ShapePositional {
		return nil
	}

	vals := make([]Value, len(p.Entries))
	for i, e := range p.Entries {
		vals[i] = e.Value
	}

	return vals
}

// Named returns the entries of a named list as a Map, or nil for any other
// shape.
func (p Parameters) Named() *Map {
	if p.Shape() != ShapeNamed {
		return nil
	}

	m := NewMap()
	for _, e := range p.Entries {
		m.Set(e.Key, e.Value)
	}

	return m
}

// Get returns the entry addressed by k: an index selects the k-th positional
// entry and a name selects the last named entry with that key.
func (p Parameters) Get(k ValueKey) (Value, bool) {
	if !k.IsNamed() {
		i := 0

		for _, e := range p.Entries {
			if e.Key != "" {
				continue
			}

			if i == k.Index {
				return e.Value, true
			}

			i++
		}

		return nil, false
	}

	for _, e := range slices.Backward(p.Entries) {
		if e.Key == k.Name {
			return e.Value, true
		}
	}

	return nil, false
}

func (p Parameters) equal(q Parameters) bool {
	return slices.EqualFunc(p.Entries, q.Entries, func(a, b Param) bool {
		return a.Key == b.Key && Equal(a.Value, b.Value)
	})
}

// SelectorSet holds a component's optional id and its classes. Classes are
// kept sorted and unique.
type SelectorSet struct {
	ID      string
	Classes []string
}

// HasID reports whether an id is set.
func (s SelectorSet) HasID() bool { return s.ID != "" }

// HasClass reports whether class is in the set.
func (s SelectorSet) HasClass(class string) bool {
	_, ok := slices.BinarySearch(s.Classes, class)

	return ok
}

// IsEmpty reports whether the set has neither id nor classes.
func (s SelectorSet) IsEmpty() bool { return s.ID == "" && len(s.Classes) == 0 }

// AddClass inserts class, ignoring duplicates.
func (s *SelectorSet) AddClass(class string) {
	i, ok := slices.BinarySearch(s.Classes, class)
	if !ok {
		s.Classes = slices.Insert(s.Classes, i, class)
	}
}

func (s SelectorSet) equal(t SelectorSet) bool {
	return s.ID == t.ID && slices.Equal(s.Classes, t.Classes)
}

// Property is a key: value entry of a component body or style rule.
type Property struct {
	Key   string
	Value Value
	Pos   Position
}

// Properties is an ordered list of property entries. Keys may repeat.
type Properties []Property

// Get returns the value of the last entry with key.
func (ps Properties) Get(key string) (Value, bool) {
	for _, p := range slices.Backward(ps) {
		if p.Key == key {
			return p.Value, true
		}
	}

	return nil, false
}

func (ps Properties) equal(qs Properties) bool {
	return slices.EqualFunc(ps, qs, func(a, b Property) bool {
		return a.Key == b.Key && Equal(a.Value, b.Value)
	})
}

// Decl is a top-level declaration: a *Component or a *StyleRule.
type Decl interface {
	Position() Position
	decl()
}

// Component is one component instantiation. Children are owned by their
// parent and carry no reference back to it.
type Component struct {
	Type       string
	Pos        Position
	Params     Parameters
	Selectors  SelectorSet
	Properties Properties
	Children   []*Component
}

func (*Component) Kind() ValueKind { return KindComponent }
func (*Component) value()          {}
func (*Component) decl()           {}

// Position returns the position of the component's type name.
func (c *Component) Position() Position { return c.Pos }

// Equal reports whether c and d are structurally equal, ignoring positions.
func (c *Component) Equal(d *Component) bool {
	if c == nil || d == nil {
		return c == d
	}

	return c.Type == d.Type &&
		c.Params.equal(d.Params) &&
		c.Selectors.equal(d.Selectors) &&
		c.Properties.equal(d.Properties) &&
		slices.EqualFunc(c.Children, d.Children, (*Component).Equal)
}

// Values yields every value held by the component's parameters and
// properties, including values nested in arrays, maps and component values,
// together with the position of the entry that holds it. Children are not
// visited.
func (c *Component) Values() iter.Seq2[Value, Position] {
	return func(yield func(Value, Position) bool) {
		c.walkOwnValues(yield)
	}
}

func (c *Component) walkOwnValues(yield func(Value, Position) bool) bool {
	for _, e := range c.Params.Entries {
		if !walkValues(e.Value, e.Pos, yield) {
			return false
		}
	}

	for _, p := range c.Properties {
		if !walkValues(p.Value, p.Pos, yield) {
			return false
		}
	}

	return true
}

// SelectorKind distinguishes the three style rule selectors.
type SelectorKind int

const (
	SelectorType  SelectorKind = iota // type
	SelectorID                        // id
	SelectorClass                     // class
)

func (k SelectorKind) String() string {
	switch k {
	case SelectorType:
		return "type"
	case SelectorID:
		return "id"
	case SelectorClass:
		return "class"
	default:
		return "SelectorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Selector picks the components a style rule applies to.
type Selector struct {
	Kind SelectorKind
	Name string
}

// String returns the selector in source form: Name, #Name or .Name.
func (s Selector) String() string {
	switch s.Kind {
	case SelectorID:
		return "#" + s.Name
	case SelectorClass:
		return "." + s.Name
	default:
		return s.Name
	}
}

// Matches reports whether c is selected by s.
func (s Selector) Matches(c *Component) bool {
	switch s.Kind {
	case SelectorType:
		return c.Type == s.Name
	case SelectorID:
		return c.Selectors.ID == s.Name
	case SelectorClass:
		return c.Selectors.HasClass(s.Name)
	}

	return false
}

// ParseSelector parses "Type", "#id" or ".class". It reports false if the
// name is not an identifier.
func ParseSelector(s string) (Selector, bool) {
	sel := Selector{Kind: SelectorType, Name: s}

	if s != "" {
		switch s[0] {
		case '#':
			sel = Selector{Kind: SelectorID, Name: s[1:]}
		case '.':
			sel = Selector{Kind: SelectorClass, Name: s[1:]}
		}
	}

	return sel, IsIdent(sel.Name)
}

// StyleRule is a selector with an ordered list of properties.
type StyleRule struct {
	Selector   Selector
	Pos        Position
	Properties Properties
}

func (*StyleRule) decl() {}

// Position returns the position of the rule's selector.
func (r *StyleRule) Position() Position { return r.Pos }

// Equal reports whether r and s are structurally equal, ignoring positions.
func (r *StyleRule) Equal(s *StyleRule) bool {
	if r == nil || s == nil {
		return r == s
	}

	return r.Selector == s.Selector && r.Properties.equal(s.Properties)
}

// Document is the result of parsing: the top-level component trees and the
// style rules, each in source order. A Document is never modified after
// construction and may be shared between goroutines.
type Document struct {
	Components []*Component
	Rules      []*StyleRule
}

// Root returns the designated root component: the first top-level
// component without an id, or else the first top-level component.
// It returns nil if the document declares no components.
func (d *Document) Root() *Component {
	if d == nil || len(d.Components) == 0 {
		return nil
	}

	for _, c := range d.Components {
		if !c.Selectors.HasID() {
			return c
		}
	}

	return d.Components[0]
}

// Equal reports whether d and e are structurally equal, ignoring positions.
func (d *Document) Equal(e *Document) bool {
	if d == nil || e == nil {
		return d == e
	}

	return slices.EqualFunc(d.Components, e.Components, (*Component).Equal) &&
		slices.EqualFunc(d.Rules, e.Rules, (*StyleRule).Equal)
}

// Walk calls fn for every component of every top-level tree in depth-first
// pre-order, passing the chain of ancestors from the top-level component
// down to the parent. Component values held in parameters or properties are
// not visited. If fn returns false, the component's children are skipped.
func (d *Document) Walk(fn func(path []*Component, c *Component) bool) {
	var (
		path  []*Component
		visit func(c *Component)
	)

	visit = func(c *Component) {
		if !fn(path, c) {
			return
		}

		path = append(path, c)
		for _, child := range c.Children {
			visit(child)
		}
		path = path[:len(path)-1]
	}

	for _, c := range d.Components {
		visit(c)
	}
}

// All yields every component in the document: tree nodes in depth-first
// pre-order, each followed by the component values nested in its
// parameters and properties.
func (d *Document) All() iter.Seq[*Component] {
	return func(yield func(*Component) bool) {
		for _, c := range d.Components {
			if !eachComponent(c, yield) {
				return
			}
		}
	}
}

// eachComponent yields c, the component values it holds and its
// descendants, in the order of [Document.All].
func eachComponent(c *Component, yield func(*Component) bool) bool {
	if !yield(c) {
		return false
	}

	for v := range c.Values() {
		// Values already descends into component values' own values, so
		// only their children remain to be visited here.
		if cv, ok := v.(*Component); ok {
			if !yield(cv) {
				return false
			}

			for _, child := range cv.Children {
				if !eachComponent(child, yield) {
					return false
				}
			}
		}
	}

	for _, child := range c.Children {
		if !eachComponent(child, yield) {
			return false
		}
	}

	return true
}

// Values yields every value in the document exactly once, style rules
// included, with the position of the parameter or property that holds it.
func (d *Document) Values() iter.Seq2[Value, Position] {
	return func(yield func(Value, Position) bool) {
		for c := range d.All() {
			for _, e := range c.Params.Entries {
				if !walkLocalValues(e.Value, e.Pos, yield) {
					return
				}
			}

			for _, p := range c.Properties {
				if !walkLocalValues(p.Value, p.Pos, yield) {
					return
				}
			}
		}

		for _, r := range d.Rules {
			for _, p := range r.Properties {
				if !walkLocalValues(p.Value, p.Pos, yield) {
					return
				}
			}
		}
	}
}

// Find returns every component matched by sel, in the order of [Document.All].
func (d *Document) Find(sel Selector) []*Component {
	var found []*Component

	for c := range d.All() {
		if sel.Matches(c) {
			found = append(found, c)
		}
	}

	return found
}

// RulesFor returns the style rules whose selector matches c, in source
// order. No cascade or specificity ordering is applied.
func (d *Document) RulesFor(c *Component) []*StyleRule {
	var rules []*StyleRule

	for _, r := range d.Rules {
		if r.Selector.Matches(c) {
			rules = append(rules, r)
		}
	}

	return rules
}
