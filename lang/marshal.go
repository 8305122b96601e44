package lang

import (
	"encoding/json"

	"github.com/goccy/go-yaml"
)

// MarshalJSON implements json.Marshaler for Document.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.ToMap())
}

// MarshalYAML implements yaml.InterfaceMarshaler for Document. Unlike
// [Document.ToMap], map keys keep their source order.
func (d *Document) MarshalYAML() (any, error) {
	return d.native(true), nil
}

// ToMap converts the document to native Go values:
//
//	components: list of component objects
//	rules:      list of {selector, properties}
//
// A component object has the keys type, id, classes, params, properties and
// children, each omitted when empty.
func (d *Document) ToMap() map[string]any {
	m, _ := d.native(false).(map[string]any)

	return m
}

// ToNative converts a Value to its native Go type: string, bool, int64,
// float64, []any or map[string]any. Numbers with a unit, identifiers,
// closures and placeholders become strings in source form. A component
// becomes a component object as described for [Document.ToMap].
func ToNative(v Value) any { return toNative(v, false) }

// fields is an ordered list of object members, converted to a map or to a
// yaml.MapSlice on output.
type fields []yaml.MapItem

func (f fields) add(key string, val any) fields {
	return append(f, yaml.MapItem{Key: key, Value: val})
}

func (f fields) native(ordered bool) any {
	if ordered {
		return yaml.MapSlice(f)
	}

	m := make(map[string]any, len(f))
	for _, it := range f {
		m[it.Key.(string)] = it.Value
	}

	return m
}

func (d *Document) native(ordered bool) any {
	comps := make([]any, len(d.Components))
	for i, c := range d.Components {
		comps[i] = componentNative(c, ordered)
	}

	rules := make([]any, len(d.Rules))
	for i, r := range d.Rules {
		rules[i] = fields{}.
			add("selector", r.Selector.String()).
			add("properties", propertiesNative(r.Properties, ordered)).
			native(ordered)
	}

	return fields{}.
		add("components", comps).
		add("rules", rules).
		native(ordered)
}

func componentNative(c *Component, ordered bool) any {
	f := fields{}.add("type", c.Type)

	if c.Selectors.HasID() {
		f = f.add("id", c.Selectors.ID)
	}

	if len(c.Selectors.Classes) > 0 {
		classes := make([]any, len(c.Selectors.Classes))
		for i, class := range c.Selectors.Classes {
			classes[i] = class
		}

		f = f.add("classes", classes)
	}

	if p := paramsNative(c.Params, ordered); p != nil {
		f = f.add("params", p)
	}

	if len(c.Properties) > 0 {
		f = f.add("properties", propertiesNative(c.Properties, ordered))
	}

	if len(c.Children) > 0 {
		children := make([]any, len(c.Children))
		for i, child := range c.Children {
			children[i] = componentNative(child, ordered)
		}

		f = f.add("children", children)
	}

	return f.native(ordered)
}

// paramsNative returns a list for positional parameters and an object for
// named ones. Named entries of a mixed list become single-member objects.
func paramsNative(p Parameters, ordered bool) any {
	switch p.Shape() {
	case ShapeEmpty:
		return nil

	case ShapeNamed:
		var f fields
		for _, e := range p.Entries {
			f = f.add(e.Key, toNative(e.Value, ordered))
		}

		return f.native(ordered)
	}

	list := make([]any, len(p.Entries))

	for i, e := range p.Entries {
		v := toNative(e.Value, ordered)
		if e.Key != "" {
			v = fields{}.add(e.Key, v).native(ordered)
		}

		list[i] = v
	}

	return list
}

// propertiesNative returns an object. A repeated key keeps its last value,
// matching [Properties.Get].
func propertiesNative(ps Properties, ordered bool) any {
	var f fields

	index := make(map[string]int, len(ps))

	for _, p := range ps {
		v := toNative(p.Value, ordered)

		if i, ok := index[p.Key]; ok {
			f[i].Value = v

			continue
		}

		index[p.Key] = len(f)
		f = f.add(p.Key, v)
	}

	return f.native(ordered)
}

func toNative(v Value, ordered bool) any {
	switch x := v.(type) {
	case Ident:
		return string(x)

	case Bool:
		return bool(x)

	case Number:
		switch {
		case x.Unit != "":
			return x.String()
		case x.IsFloat:
			return x.Float
		default:
			return x.Int
		}

	case String:
		return string(x)

	case Closure:
		return "{{ " + string(x) + " }}"

	case Relative:
		return x.String()

	case Color:
		return x.String()

	case Array:
		list := make([]any, len(x))
		for i, e := range x {
			list[i] = toNative(e, ordered)
		}

		return list

	case *Map:
		var f fields
		for k, e := range x.All() {
			f = f.add(k, toNative(e, ordered))
		}

		return f.native(ordered)

	case *Component:
		return componentNative(x, ordered)
	}

	return nil
}
