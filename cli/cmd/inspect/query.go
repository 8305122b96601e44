package inspect

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/skui/lang"
)

// Match is one component selected by a query.
type Match struct {
	// Path holds the ancestors of Component from its top-level tree down to
	// its parent. It is empty for top-level components and for components
	// held as values.
	Path      []*lang.Component
	Component *lang.Component
	// Rules are the style rules targeting Component, in source order.
	Rules []*lang.StyleRule
}

// Query selects the components matching every selector in input. Selectors
// are separated by spaces and written as in style rules: Type, #id or .class.
func Query(doc *lang.Document, input string) ([]Match, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil, ErrEmptyQuery
	}

	sels := make([]lang.Selector, len(fields))

	for i, f := range fields {
		sel, ok := lang.ParseSelector(f)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSelector, f)
		}

		sels[i] = sel
	}

	paths := make(map[*lang.Component][]*lang.Component)

	doc.Walk(func(path []*lang.Component, c *lang.Component) bool {
		paths[c] = slices.Clone(path)

		return true
	})

	var matches []Match

	for c := range doc.All() {
		if !slices.ContainsFunc(sels, func(s lang.Selector) bool { return !s.Matches(c) }) {
			matches = append(matches, Match{
				Path:      paths[c],
				Component: c,
				Rules:     doc.RulesFor(c),
			})
		}
	}

	return matches, nil
}

// describe returns c's type followed by its id and classes, as in
// "Button#ok.primary".
func describe(c *lang.Component) string {
	var sb strings.Builder

	sb.WriteString(c.Type)

	if c.Selectors.HasID() {
		sb.WriteString("#" + c.Selectors.ID)
	}

	for _, class := range c.Selectors.Classes {
		sb.WriteString("." + class)
	}

	return sb.String()
}

// ruleLine returns r in single-line native syntax.
func ruleLine(r *lang.StyleRule) string {
	var buf bytes.Buffer

	b := lang.NewBuilder()
	if err := b.Document(r).Format(context.Background(), &buf, 0); err != nil {
		return r.Selector.String()
	}

	return strings.TrimSuffix(buf.String(), "\n")
}

// formatMatches lists each match as its ancestor chain and position,
// followed by the rules that target it.
func formatMatches(matches []Match) string {
	var sb strings.Builder

	for _, m := range matches {
		for _, a := range m.Path {
			sb.WriteString(describe(a) + " > ")
		}

		fmt.Fprintf(&sb, "%s  %s\n", describe(m.Component), m.Component.Pos)

		for _, r := range m.Rules {
			fmt.Fprintf(&sb, "    %s  %s\n", ruleLine(r), r.Pos)
		}
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// formatTree writes every component tree, one component per line, indented
// by depth. The root is marked.
func formatTree(doc *lang.Document) string {
	if len(doc.Components) == 0 {
		return "no components"
	}

	root := doc.Root()

	var sb strings.Builder

	doc.Walk(func(path []*lang.Component, c *lang.Component) bool {
		sb.WriteString(strings.Repeat("  ", len(path)))
		sb.WriteString(describe(c))

		if c == root {
			sb.WriteString(" (root)")
		}

		fmt.Fprintf(&sb, "  %s\n", c.Pos)

		return true
	})

	return strings.TrimSuffix(sb.String(), "\n")
}

// formatRules lists the style rules in source order.
func formatRules(doc *lang.Document) string {
	if len(doc.Rules) == 0 {
		return "no rules"
	}

	lines := make([]string, len(doc.Rules))
	for i, r := range doc.Rules {
		lines[i] = ruleLine(r) + "  " + r.Pos.String()
	}

	return strings.Join(lines, "\n")
}

// formatIDs lists every id in sorted order with the position of the
// component declaring it.
func formatIDs(doc *lang.Document) string {
	ids := make(map[string]lang.Position)

	for c := range doc.All() {
		if id := c.Selectors.ID; id != "" {
			if _, ok := ids[id]; !ok {
				ids[id] = c.Pos
			}
		}
	}

	if len(ids) == 0 {
		return "no ids"
	}

	var sb strings.Builder

	for _, id := range slices.Sorted(maps.Keys(ids)) {
		fmt.Fprintf(&sb, "#%s  %s\n", id, ids[id])
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// formatClasses lists every class in sorted order with the number of
// components carrying it.
func formatClasses(doc *lang.Document) string {
	counts := make(map[string]int)

	for c := range doc.All() {
		for _, class := range c.Selectors.Classes {
			counts[class]++
		}
	}

	if len(counts) == 0 {
		return "no classes"
	}

	var sb strings.Builder

	for _, class := range slices.Sorted(maps.Keys(counts)) {
		fmt.Fprintf(&sb, ".%s  %d\n", class, counts[class])
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// vocabulary returns the distinct selectors that occur in doc: types, then
// ids, then classes, each sorted. Rule selectors are included.
func vocabulary(doc *lang.Document) []string {
	set := make(map[lang.Selector]struct{})

	for c := range doc.All() {
		set[lang.Selector{Kind: lang.SelectorType, Name: c.Type}] = struct{}{}

		if c.Selectors.HasID() {
			set[lang.Selector{Kind: lang.SelectorID, Name: c.Selectors.ID}] = struct{}{}
		}

		for _, class := range c.Selectors.Classes {
			set[lang.Selector{Kind: lang.SelectorClass, Name: class}] = struct{}{}
		}
	}

	for _, r := range doc.Rules {
		set[r.Selector] = struct{}{}
	}

	sels := slices.SortedFunc(maps.Keys(set), func(a, b lang.Selector) int {
		if a.Kind != b.Kind {
			return int(a.Kind) - int(b.Kind)
		}

		return strings.Compare(a.Name, b.Name)
	})

	words := make([]string, len(sels))
	for i, s := range sels {
		words[i] = s.String()
	}

	return words
}
