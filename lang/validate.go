package lang

import "iter"

// Validate checks the structural rules of doc and returns every violation
// found. It never modifies doc. The checks are independent and none stops
// at its first failure:
//
//   - exactly one top-level component has no id (RootCardinality);
//   - an id appears only on a descendant of the root (IdNotAllowed);
//   - no parameter list mixes positional and named entries
//     (MixedParameterShape);
//   - the placeholders used across a sibling group are all positional or all
//     named (MixedRelativeKey).
func Validate(doc *Document) Diagnostics {
	if doc == nil {
		return nil
	}

	var diags Diagnostics

	diags = append(diags, checkRootCardinality(doc)...)
	diags = append(diags, checkIDScope(doc)...)
	diags = append(diags, checkParameterShape(doc)...)
	diags = append(diags, checkRelativeKeys(doc)...)

	return diags
}

func checkRootCardinality(doc *Document) Diagnostics {
	var roots []*Component

	for _, c := range doc.Components {
		if !c.Selectors.HasID() {
			roots = append(roots, c)
		}
	}

	switch len(roots) {
	case 1:
		return nil

	case 0:
		if len(doc.Components) == 0 {
			return Diagnostics{ErrRootCardinality.At(Position{Line: 1, Column: 1}).
				Detailf("document declares no components")}
		}

		first := doc.Components[0]

		return Diagnostics{ErrRootCardinality.At(first.Pos).
			Detailf("every top-level component has an id; one must have none to be the root")}
	}

	diags := make(Diagnostics, 0, len(roots)-1)

	for _, c := range roots[1:] {
		diags = append(diags, ErrRootCardinality.At(c.Pos).Relate(roots[0].Pos).
			Detailf("%s is another top-level component without an id; the root is %s at %s",
				c.Type, roots[0].Type, roots[0].Pos))
	}

	return diags
}

func checkIDScope(doc *Document) Diagnostics {
	var diags Diagnostics

	root := doc.Root()

	for _, top := range doc.Components {
		for c := range eachIn(top) {
			if !c.Selectors.HasID() {
				continue
			}

			switch {
			case c == root:
				diags = append(diags, ErrIDNotAllowed.At(c.Pos).
					Detailf("root component %s may not have id #%s", c.Type, c.Selectors.ID))

			case c == top:
				diags = append(diags, ErrIDNotAllowed.At(c.Pos).
					Detailf("top-level component %s has no parent; only descendants of the root may have id #%s",
						c.Type, c.Selectors.ID))

			case top != root:
				diags = append(diags, ErrIDNotAllowed.At(c.Pos).Relate(top.Pos).
					Detailf("%s #%s is not a descendant of the root", c.Type, c.Selectors.ID))
			}
		}
	}

	return diags
}

func checkParameterShape(doc *Document) Diagnostics {
	var diags Diagnostics

	for c := range doc.All() {
		if c.Params.Shape() != ShapeMixed {
			continue
		}

		first := c.Params.Entries[0]
		named := first.Key != ""

		for _, e := range c.Params.Entries[1:] {
			if (e.Key != "") != named {
				diags = append(diags, ErrMixedParameterShape.At(e.Pos).Relate(first.Pos).
					Detailf("%s mixes positional and named parameters", c.Type))

				break
			}
		}
	}

	return diags
}

type relativeRef struct {
	rel Relative
	pos Position
}

func (r relativeRef) kind() string {
	if r.rel.Named() {
		return "named"
	}

	return "positional"
}

// checkRelativeKeys compares placeholders within each sibling group: the
// top-level components, and the children of each component. A sibling
// contributes every placeholder in its parameters and properties, however
// deeply nested.
func checkRelativeKeys(doc *Document) Diagnostics {
	diags := checkRelativeScope(doc.Components)

	for c := range doc.All() {
		if len(c.Children) > 0 {
			diags = append(diags, checkRelativeScope(c.Children)...)
		}
	}

	return diags
}

func checkRelativeScope(siblings []*Component) Diagnostics {
	var refs []relativeRef

	for _, s := range siblings {
		for v, pos := range s.Values() {
			rel, ok := v.(Relative)
			if !ok || len(rel.Keys) == 0 {
				continue
			}

			if rel.Pos.IsValid() {
				pos = rel.Pos
			}

			refs = append(refs, relativeRef{rel: rel, pos: pos})
		}
	}

	if len(refs) < 2 {
		return nil
	}

	var (
		diags Diagnostics
		first = refs[0]
	)

	for _, r := range refs[1:] {
		if r.rel.Named() == first.rel.Named() {
			continue
		}

		diags = append(diags, ErrMixedRelativeKey.At(r.pos).Relate(first.pos).
			Detailf("%s is %s but %s at %s is %s",
				r.rel, r.kind(), first.rel, first.pos, first.kind()))
	}

	return diags
}

// eachIn yields top and every component beneath it, in the order of
// [Document.All].
func eachIn(top *Component) iter.Seq[*Component] {
	return func(yield func(*Component) bool) {
		eachComponent(top, yield)
	}
}
