package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Stage identifies the pipeline stage that produced a diagnostic.
type Stage int

const (
	StageNone     Stage = iota // Error
	StageLex                   // LexError
	StageValue                 // ValueParseError
	StageDecl                  // DeclParseError
	StageValidate              // ValidationError
)

func (s Stage) String() string {
	switch s {
	case StageLex:
		return "LexError"
	case StageValue:
		return "ValueParseError"
	case StageDecl:
		return "DeclParseError"
	case StageValidate:
		return "ValidationError"
	default:
		return "Error"
	}
}

// Code identifies the specific rule a diagnostic reports.
type Code int

const (
	CodeNone Code = iota

	CodeUnterminatedString
	CodeUnterminatedComment
	CodeUnterminatedClosure
	CodeInvalidEscape
	CodeIllegalCharacter

	CodeExpectedValue
	CodeInvalidNumber
	CodeInvalidKey
	CodeInvalidColor

	CodeMissingSuffix
	CodeUnexpectedToken
	CodeUnexpectedEOF
	CodeDuplicateID
	CodeDetachedSelector
	CodeMaxDepth

	CodeRootCardinality
	CodeIDNotAllowed
	CodeMixedParameterShape
	CodeMixedRelativeKey
)

var codeName = [...]string{
	CodeNone:                "",
	CodeUnterminatedString:  "UnterminatedString",
	CodeUnterminatedComment: "UnterminatedComment",
	CodeUnterminatedClosure: "UnterminatedClosure",
	CodeInvalidEscape:       "InvalidEscape",
	CodeIllegalCharacter:    "IllegalCharacter",
	CodeExpectedValue:       "ExpectedValue",
	CodeInvalidNumber:       "InvalidNumber",
	CodeInvalidKey:          "InvalidKey",
	CodeInvalidColor:        "InvalidColor",
	CodeMissingSuffix:       "MissingSuffix",
	CodeUnexpectedToken:     "UnexpectedToken",
	CodeUnexpectedEOF:       "UnexpectedEOF",
	CodeDuplicateID:         "DuplicateID",
	CodeDetachedSelector:    "DetachedSelector",
	CodeMaxDepth:            "MaxDepth",
	CodeRootCardinality:     "RootCardinality",
	CodeIDNotAllowed:        "IdNotAllowed",
	CodeMixedParameterShape: "MixedParameterShape",
	CodeMixedRelativeKey:    "MixedRelativeKey",
}

func (c Code) String() string {
	if c >= 0 && int(c) < len(codeName) {
		return codeName[c]
	}

	return "Code(" + strconv.Itoa(int(c)) + ")"
}

// Predefined errors (sentinel values). Compare with [errors.Is]; derived
// errors keep the sentinel's code.
var (
	ErrReadInput = NewError("failed to read input")

	ErrUnterminatedString  = newError(StageLex, CodeUnterminatedString, "unterminated string")
	ErrUnterminatedComment = newError(StageLex, CodeUnterminatedComment, "unterminated block comment")
	ErrUnterminatedClosure = newError(StageLex, CodeUnterminatedClosure, "unterminated closure")
	ErrInvalidEscape       = newError(StageLex, CodeInvalidEscape, "invalid escape sequence")
	ErrIllegalCharacter    = newError(StageLex, CodeIllegalCharacter, "illegal character")

	ErrExpectedValue = newError(StageValue, CodeExpectedValue, "expected value")
	ErrInvalidNumber = newError(StageValue, CodeInvalidNumber, "invalid number")
	ErrInvalidKey    = newError(StageValue, CodeInvalidKey, "invalid placeholder key")
	ErrInvalidColor  = newError(StageValue, CodeInvalidColor, "invalid colour")

	ErrMissingSuffix    = newError(StageDecl, CodeMissingSuffix, "missing declaration suffix")
	ErrUnexpectedToken  = newError(StageDecl, CodeUnexpectedToken, "unexpected token")
	ErrUnexpectedEOF    = newError(StageDecl, CodeUnexpectedEOF, "unexpected end of input")
	ErrDuplicateID      = newError(StageDecl, CodeDuplicateID, "duplicate id selector")
	ErrDetachedSelector = newError(StageDecl, CodeDetachedSelector, "detached selector")
	ErrMaxDepth         = newError(StageDecl, CodeMaxDepth, "maximum nesting depth exceeded")

	ErrRootCardinality     = newError(StageValidate, CodeRootCardinality, "root cardinality")
	ErrIDNotAllowed        = newError(StageValidate, CodeIDNotAllowed, "id not allowed")
	ErrMixedParameterShape = newError(StageValidate, CodeMixedParameterShape, "mixed parameter shape")
	ErrMixedRelativeKey    = newError(StageValidate, CodeMixedRelativeKey, "mixed relative key")
)

// Error is a diagnostic with a source position and optional structured
// logging attributes. It implements both error and slog.LogValuer.
type Error struct {
	msg     string
	detail  string
	err     error       // Wrapped error (for errors.Unwrap)
	attrs   []slog.Attr // Attributes for structured logging
	stage   Stage
	code    Code
	pos     Position
	related Position
	fatal   bool
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

func newError(stage Stage, code Code, msg string) *Error {
	return &Error{msg: msg, stage: stage, code: code}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The result has the form "<line>:<col>: <msg>: <detail>: <err>", omitting
// any part that is unset.
func (e *Error) Error() string {
	part := make([]string, 0, 4)

	if e.pos.IsValid() {
		part = append(part, e.pos.String())
	}

	if m := e.Message(); m != "" {
		part = append(part, m)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Message returns the human-readable description without position or cause.
func (e *Error) Message() string {
	switch {
	case e.detail == "":
		return e.msg
	case e.msg == "":
		return e.detail
	default:
		return e.msg + ": " + e.detail
	}
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is a sentinel with the same code as e.
// Errors without a code match sentinels with the same message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}

	if t.code != CodeNone {
		return t.code == e.code
	}

	return t.msg != "" && t.msg == e.msg
}

// Stage returns the pipeline stage that produced e.
func (e *Error) Stage() Stage { return e.stage }

// Code returns the rule e reports.
func (e *Error) Code() Code { return e.code }

// Pos returns the primary source position of e.
func (e *Error) Pos() Position { return e.pos }

// Related returns the secondary source position of e, if any.
func (e *Error) Related() (Position, bool) {
	return e.related, e.related.IsValid()
}

// Fatal reports whether parsing cannot continue past e.
// Lexical errors are always fatal.
func (e *Error) Fatal() bool { return e.fatal || e.stage == StageLex }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+6)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.stage != StageNone {
		attrs = append(attrs, slog.String("stage", e.stage.String()))
	}

	if e.code != CodeNone {
		attrs = append(attrs, slog.String("code", e.code.String()))
	}

	if e.detail != "" {
		attrs = append(attrs, slog.String("detail", e.detail))
	}

	if e.pos.IsValid() {
		attrs = append(attrs, slog.Any("pos", e.pos))
	}

	if e.related.IsValid() {
		attrs = append(attrs, slog.Any("related", e.related))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return &c
}

// At returns a copy of e positioned at pos.
func (e *Error) At(pos Position) *Error {
	c := *e
	c.pos = pos

	return &c
}

// Relate returns a copy of e with a secondary position, such as the earlier
// declaration a conflict refers to.
func (e *Error) Relate(pos Position) *Error {
	c := *e
	c.related = pos

	return &c
}

// Detailf returns a copy of e with a formatted detail message.
func (e *Error) Detailf(format string, args ...any) *Error {
	c := *e
	c.detail = fmt.Sprintf(format, args...)

	return &c
}

func (e *Error) asFatal() *Error {
	c := *e
	c.fatal = true

	return &c
}

// Diagnostics is an ordered list of diagnostics. A non-empty Diagnostics is
// an error; use [AsDiagnostics] to recover it from a returned error.
type Diagnostics []*Error

// Error joins the diagnostics one per line.
func (d Diagnostics) Error() string {
	lines := make([]string, len(d))
	for i, e := range d {
		lines[i] = e.stage.String() + " " + e.Error()
	}

	return strings.Join(lines, "\n")
}

// Unwrap exposes each diagnostic to errors.Is/As.
func (d Diagnostics) Unwrap() []error {
	errs := make([]error, len(d))
	for i, e := range d {
		errs[i] = e
	}

	return errs
}

// Fatal reports whether any diagnostic is fatal.
func (d Diagnostics) Fatal() bool {
	return slices.ContainsFunc(d, (*Error).Fatal)
}

// Count returns the number of diagnostics matching target.
func (d Diagnostics) Count(target error) int {
	n := 0

	for _, e := range d {
		if errors.Is(e, target) {
			n++
		}
	}

	return n
}

// Sorted returns a copy of d ordered by source offset, keeping the
// detection order of diagnostics at the same offset.
func (d Diagnostics) Sorted() Diagnostics {
	s := slices.Clone(d)
	slices.SortStableFunc(s, func(a, b *Error) int {
		return a.pos.Offset - b.pos.Offset
	})

	return s
}

// LogValue implements slog.LogValuer.
func (d Diagnostics) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(d)+1)
	attrs = append(attrs, slog.Int("count", len(d)))

	for i, e := range d {
		attrs = append(attrs, slog.Any(strconv.Itoa(i), e))
	}

	return slog.GroupValue(attrs...)
}

// AsDiagnostics extracts the diagnostics carried by err. A lone *Error is
// returned as a single-element list. It returns nil if err carries none.
func AsDiagnostics(err error) Diagnostics {
	if err == nil {
		return nil
	}

	var d Diagnostics
	if errors.As(err, &d) {
		return d
	}

	var e *Error
	if errors.As(err, &e) {
		return Diagnostics{e}
	}

	return nil
}
