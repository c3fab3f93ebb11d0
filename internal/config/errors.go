package config

import (
	"errors"
	"fmt"
	"time"
)

// Errors returned by engine operations.
var (
	// ErrReloadTimeout indicates a mutation's reload did not complete
	// within the configured bound. Distinct from validation failures:
	// the write may still land on the next watcher pass.
	ErrReloadTimeout = errors.New("config reload timed out")

	// ErrNotLeaf indicates a mutation addressed a table node.
	ErrNotLeaf = errors.New("path addresses a table, not a value")
)

// WriteBackError reports a failed rewrite of an owning document.
type WriteBackError struct {
	// File is the document that could not be rewritten.
	File string
	// Reason describes the failure.
	Reason string
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *WriteBackError) Error() string {
	return fmt.Sprintf("write back to %s failed: %s", e.File, e.Reason)
}

// Unwrap returns the underlying error.
func (e *WriteBackError) Unwrap() error {
	return e.Err
}

// ErrorEvent surfaces a failed reload to logging and UI layers. The
// previous snapshot stays authoritative; nothing crashes.
type ErrorEvent struct {
	// Time is when the reload failed.
	Time time.Time
	// Err is the load, parse or validation failure.
	Err error
}
