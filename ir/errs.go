package ir

import "errors"

var (
	errInternal = errors.New("internal error")

	// ErrNoSchema reports a cross-context duplication whose schema node has
	// no counterpart in the target context.
	ErrNoSchema = errors.New("no such schema node in context")
)
