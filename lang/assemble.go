package lang

import "iter"

// Assemble partitions top-level declarations into a Document. Style rules
// keep their order and are not deduplicated. Each component becomes the top
// of its own tree; nested instantiations were attached by the parser.
func Assemble(decls []Decl) *Document {
	doc := new(Document)

	for _, d := range decls {
		switch d := d.(type) {
		case *Component:
			doc.Components = append(doc.Components, d)
		case *StyleRule:
			doc.Rules = append(doc.Rules, d)
		}
	}

	return doc
}

// Decls yields the top-level declarations merged back into source order.
// Declarations without a valid position, such as those built in code, keep
// their relative order after positioned ones of the same kind.
func (d *Document) Decls() iter.Seq[Decl] {
	return func(yield func(Decl) bool) {
		cs, rs := d.Components, d.Rules

		for len(cs) > 0 || len(rs) > 0 {
			var next Decl

			if len(rs) == 0 || len(cs) > 0 && !before(rs[0].Pos, cs[0].Pos) {
				next, cs = cs[0], cs[1:]
			} else {
				next, rs = rs[0], rs[1:]
			}

			if !yield(next) {
				return
			}
		}
	}
}

// before reports whether a precedes b in the source. Positions that are not
// valid never precede anything.
func before(a, b Position) bool {
	return a.IsValid() && (!b.IsValid() || a.Offset < b.Offset)
}
