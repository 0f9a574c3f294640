package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when board parameters cannot produce a board.
	ErrInvalidConfig = errors.New("invalid board configuration")

	// ErrPoolExhausted is returned when a colour has no free items left.
	ErrPoolExhausted = errors.New("item pool exhausted")

	// ErrUnknownColor is returned when a colour outside the pool is requested.
	ErrUnknownColor = errors.New("unknown item color")

	// ErrOutOfBounds is returned for addresses outside the board.
	ErrOutOfBounds = errors.New("address out of bounds")

	// ErrNoItem is returned for an in-bounds address whose column is short.
	ErrNoItem = errors.New("no item at address")

	// ErrClosed is returned by operations on an engine that has been closed.
	ErrClosed = errors.New("engine closed")
)

// ConfigError describes which parameter failed validation.
type ConfigError struct {
	Field  string
	Reason string
}

// Error implements error.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfig, e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidConfig.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

func configErrorf(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// invariant panics when cond is false. Used for programmer errors that
// indicate the board or pool has already been corrupted.
func invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("collapse: invariant violated: "+format, args...))
	}
}
