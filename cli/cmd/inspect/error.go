package inspect

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds     = errors.New("index out of range")
	ErrEditDeclined    = errors.New("decline edit")
	ErrEmptyQuery      = errors.New("empty query")
	ErrInvalidSelector = errors.New("invalid selector")
)
