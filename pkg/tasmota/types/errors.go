package types

import "errors"

// Compiler and allocator failures are detected before any command is sent.
// Callers discriminate with errors.Is.
var (
	ErrMissingField       = errors.New("missing field")
	ErrInvalidFormat      = errors.New("invalid format")
	ErrOutOfRange         = errors.New("out of range")
	ErrInsufficientSlots  = errors.New("insufficient timer slots")
	ErrUnsupportedVariant = errors.New("unsupported schedule variant")
)
