package document

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ParseError reports a configuration file that failed to parse.
type ParseError struct {
	// Path is the file that failed to parse.
	Path string
	// Message describes the parse failure.
	Message string
	// Err is the underlying decoder error, if any.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ImportCycleError reports a circular import chain.
type ImportCycleError struct {
	// Chain lists the files on the cycle in import order; the last
	// entry repeats the first file that closed the cycle.
	Chain []string
}

// Error implements the error interface.
func (e *ImportCycleError) Error() string {
	names := make([]string, len(e.Chain))
	for i, p := range e.Chain {
		names[i] = filepath.Base(p)
	}
	return fmt.Sprintf("circular import: %s", strings.Join(names, " -> "))
}

// ImportNotFoundError reports an imports entry that resolves to a
// file that does not exist.
type ImportNotFoundError struct {
	// Importer is the file whose imports list named the missing file.
	Importer string
	// Missing is the resolved path that could not be found.
	Missing string
}

// Error implements the error interface.
func (e *ImportNotFoundError) Error() string {
	return fmt.Sprintf("import not found: %s (imported by %s)", e.Missing, e.Importer)
}
