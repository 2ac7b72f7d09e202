package store

import (
	"errors"
	"fmt"
)

// ErrUnknownRecord is returned when an outcome is recorded for an ID that was
// never loaded. It signals a contract violation between the orchestrator and
// the store and is fatal to the run.
var ErrUnknownRecord = errors.New("store: unknown record id")

// LoadError represents a failure to read the spreadsheet or the state file.
type LoadError struct {
	Path  string
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("store: loading %s: %v", e.Path, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
