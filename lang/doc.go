// Package lang implements the skui language: a CSS-like notation for
// describing a tree of UI components together with style rules that target
// those components by type, id or class.
//
// The package is a front end only. It turns source text into a validated,
// toolkit-agnostic [Document]; generating widgets from that document is left
// to the caller.
//
// # Pipeline
//
// Source flows through five stages, each owning its own diagnostics:
//
//  1. [Lexer] produces tokens (LexError, always fatal).
//  2. The value parser reads literals, arrays, maps, placeholders, closures
//     and nested components (ValueParseError).
//  3. The declaration parser decides with one token of lookahead whether a
//     top-level run is a component instantiation or a style rule
//     (DeclParseError). After a local error it skips to the next top-level
//     declaration and continues.
//  4. [Assemble] partitions declarations into component trees and rules.
//  5. [Validate] enforces the structural rules (ValidationError).
//
// [Parse] runs stages 1 to 4, [Check] runs all five.
//
// # Grammar
//
// Informal EBNF:
//
//	Document   → (Decl ';'*)* EOF
//	Decl       → Component | StyleRule
//	Component  → Ident '(' Params? ')' Selector* Body?
//	Params     → Param (',' Param)* ','?
//	Param      → (Ident (':' | '='))? Value
//	Selector   → '#' Ident | '.' Ident
//	Body       → '{' (Property | Component | ';' | ',')* '}'
//	StyleRule  → (Ident | '#' Ident | '.' Ident) '{' (StyleProp | ';' | ',')* '}'
//	Property   → Ident ':' Value
//	StyleProp  → Ident ':' Value Value*
//	Value      → Ident | Bool | Number | String | Closure | Array | Map
//	           | Relative | Component | Color
//	Array      → '[' (Value (',' Value)* ','?)? ']'
//	Map        → '{' (Key (':' | '=') Value (',' Key (':' | '=') Value)* ','?)? '}'
//	Key        → Ident | String
//	Relative   → '${' RelKey (('.' | ',') RelKey)* '}'
//	RelKey     → Ident | non-negative integer
//	Closure    → '{{' raw text '}}'
//	Color      → '#' hex digits (3, 4, 6 or 8 of them)
//
// The two placeholder separators are interchangeable: ${item, 0} and
// ${item.0} are the same placeholder, and both format as ${item.0}.
//
// The sigil of a selector must touch its name: "#main" is a selector,
// "# main" is an error. A '{' means three different things depending on
// what precedes it: after a component's parameters or selectors it opens a
// component body, after a style rule selector it opens a style body, and in
// value position it opens a map. A '#' in value position starts a hex
// colour rather than a selector: "color: #ff0000".
//
// Identifiers may contain '-' after the first character, so CSS-style keys
// such as background-color are single identifiers. Numbers may carry a unit
// suffix (10px, 1.5em, 50%).
//
// # Example
//
//	Window("Settings") {
//	  padding: 8px
//	  Column() .form {
//	    Label("Name") #name-label
//	    Input(placeholder: "Jane Doe", valid: {{ len(value) > 0 }})
//	  }
//	  List(items: ${people}) {
//	    Row(Label(${name}), Label(${email}))
//	  }
//	}
//
//	.form { border: 1px solid gray }
//	#name-label { font-weight: bold }
//
// # Structural rules
//
// Exactly one top-level component has no id; it is the root. Ids are
// allowed only on descendants of the root. A parameter list is positional
// or named, never both. Placeholders across a group of siblings are all
// positional (${0}) or all named (${key}).
//
// # Output
//
// A Document can be written back as source with [Document.Format], or as
// JSON, YAML or an AST dump. Diagnostics can be rendered with source context
// by [Render].
package lang
