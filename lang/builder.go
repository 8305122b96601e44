package lang

// Builder provides a programmatic API for constructing documents without
// parsing source text. This is useful for generating formatted skui files
// programmatically or for testing.
//
// Nodes built this way carry no source positions. The With methods modify
// the component they are called on and must not be used once the component
// is part of a Document that has been shared.
//
// Example:
//
//	b := lang.NewBuilder()
//	doc := b.Document(
//	    b.Component("Window", b.Arg(b.String("Settings"))).
//	        WithProperties(b.Prop("padding", b.Int(8).WithUnit("px"))).
//	        WithChildren(b.Component("Button", b.Arg(b.String("OK")))),
//	    b.Rule(b.Class("primary"), b.Prop("color", b.Ident("blue"))),
//	)
type Builder struct{}

// NewBuilder creates a new document builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Document assembles the given declarations into a [Document].
func (b *Builder) Document(decls ...Decl) *Document {
	return Assemble(decls)
}

// Component creates a component instantiation.
func (b *Builder) Component(typ string, params ...Param) *Component {
	return &Component{Type: typ, Params: Parameters{Entries: params}}
}

// Arg creates a positional parameter.
func (b *Builder) Arg(v Value) Param { return Param{Value: v} }

// NamedArg creates a named parameter.
func (b *Builder) NamedArg(key string, v Value) Param { return Param{Key: key, Value: v} }

// Rule creates a style rule.
func (b *Builder) Rule(sel Selector, props ...Property) *StyleRule {
	return &StyleRule{Selector: sel, Properties: props}
}

// Type creates a type selector.
func (b *Builder) Type(name string) Selector { return Selector{Kind: SelectorType, Name: name} }

// ID creates an id selector.
func (b *Builder) ID(name string) Selector { return Selector{Kind: SelectorID, Name: name} }

// Class creates a class selector.
func (b *Builder) Class(name string) Selector { return Selector{Kind: SelectorClass, Name: name} }

// Prop creates a property, also used for map entries.
func (b *Builder) Prop(key string, v Value) Property { return Property{Key: key, Value: v} }

// Ident creates an identifier [Value].
func (b *Builder) Ident(name string) Ident { return Ident(name) }

// String creates a string literal [Value].
func (b *Builder) String(s string) String { return String(s) }

// Int creates an integer [Number].
func (b *Builder) Int(n int64) Number { return IntNumber(n) }

// Float creates a decimal [Number].
func (b *Builder) Float(f float64) Number { return FloatNumber(f) }

// Bool creates a boolean literal [Value].
func (b *Builder) Bool(v bool) Bool { return Bool(v) }

// Closure creates a closure [Value].
func (b *Builder) Closure(code string) Closure { return Closure(code) }

// Color creates a colour [Value] from hex digits without the '#'.
func (b *Builder) Color(hex string) Color { return Color(hex) }

// Relative creates a placeholder [Value].
func (b *Builder) Relative(keys ...ValueKey) Relative { return Relative{Keys: keys} }

// Array creates an array [Value].
func (b *Builder) Array(elems ...Value) Array {
	if elems == nil {
		return Array{}
	}

	return Array(elems)
}

// Map creates a map [Value] from entries in order.
func (b *Builder) Map(entries ...Property) *Map {
	m := NewMap()
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}

	return m
}

// WithID sets the component's id and returns the component.
func (c *Component) WithID(id string) *Component {
	c.Selectors.ID = id

	return c
}

// WithClass adds classes to the component and returns the component.
func (c *Component) WithClass(classes ...string) *Component {
	for _, class := range classes {
		c.Selectors.AddClass(class)
	}

	return c
}

// WithProperties appends properties to the component and returns the
// component.
func (c *Component) WithProperties(props ...Property) *Component {
	c.Properties = append(c.Properties, props...)

	return c
}

// WithChildren appends children to the component and returns the component.
func (c *Component) WithChildren(children ...*Component) *Component {
	c.Children = append(c.Children, children...)

	return c
}
