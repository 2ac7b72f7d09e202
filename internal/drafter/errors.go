package drafter

import "fmt"

// GenerationError reports that a draft could not be produced for a company
// after the configured number of attempts. It is recorded on the record and
// never aborts the batch.
type GenerationError struct {
	Company  string
	Attempts int
	Cause    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("draft generation failed for %s after %d attempt(s): %v", e.Company, e.Attempts, e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// OutputError reports that generator output failed validation: malformed
// JSON, missing fields, bad length or echoed mail headers.
type OutputError struct {
	Message string
	Cause   error
}

func (e *OutputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid generator output: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid generator output: %s", e.Message)
}

func (e *OutputError) Unwrap() error {
	return e.Cause
}
