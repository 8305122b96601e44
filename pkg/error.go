package pkg

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Error represents a chain of errors, innermost first.
type Error []error

// ErrReadSource is returned when a source file or stdin cannot be read.
// Wrap it with the underlying I/O error.
var ErrReadSource = MakeErrorf("failed to read source")

// ErrSourceNotFound is returned when a source name matches no file in the
// working directory or the search path.
var ErrSourceNotFound = MakeErrorf("source not found")

// MakeError constructs an Error from the given errors, the first argument
// being the innermost. Nil errors are skipped.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		if err != nil {
			e = append(e, UnwrapErrors(err)...)
		}
	}

	return e
}

// MakeErrorf constructs an Error from a formatted error message.
func MakeErrorf(format string, args ...any) Error {
	return MakeError(fmt.Errorf(format, args...))
}

// Error joins the chain with ": ", innermost first.
func (e Error) Error() string {
	var sb strings.Builder

	for i, err := range slices.All(e) {
		if i > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(err.Error())
	}

	return sb.String()
}

// Wrap returns a copy of e with err appended.
func (e Error) Wrap(err ...error) Error {
	return append(slices.Clip(e), err...)
}

// Wrapf returns a copy of e with a formatted error appended.
func (e Error) Wrapf(format string, args ...any) Error {
	return append(slices.Clip(e), fmt.Errorf(format, args...))
}

// Is reports whether target is an Error whose chain begins e's chain, so a
// sentinel matches every error derived from it by Wrap or Wrapf.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok || len(t) == 0 || len(t) > len(e) {
		return false
	}

	for i, err := range t {
		if (err != nil && !reflect.TypeOf(err).Comparable()) || e[i] != err {
			return false
		}
	}

	return true
}

// Unwrap returns the errors in the chain.
func (e Error) Unwrap() []error {
	return e
}

// UnwrapErrors flattens an error tree into a chain, innermost first.
func UnwrapErrors(err error) Error {
	if err == nil {
		return nil
	}

	chain := Error{}

	if e, ok := err.(interface{ Unwrap() []error }); ok {
		for _, wrapped := range e.Unwrap() {
			chain = append(chain, UnwrapErrors(wrapped)...)
		}
	} else if e, ok := err.(interface{ Unwrap() error }); ok {
		chain = append(chain, UnwrapErrors(e.Unwrap())...)
	}

	return append(chain, err)
}
