package sender

import (
	"errors"
	"fmt"
)

// TransientError is a delivery failure worth retrying on a later run:
// network trouble, timeouts, temporary server rejections.
type TransientError struct {
	Message string
	Cause   error
}

func (e *TransientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transient send error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("transient send error: %s", e.Message)
}

func (e *TransientError) Unwrap() error {
	return e.Cause
}

// PermanentError is a delivery failure that will not resolve on its own:
// refused recipient, missing attachment, permanent server rejection. It is
// never retried automatically.
type PermanentError struct {
	Message string
	Cause   error
}

func (e *PermanentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("permanent send error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("permanent send error: %s", e.Message)
}

func (e *PermanentError) Unwrap() error {
	return e.Cause
}

// IsPermanent reports whether err classifies as a permanent send failure.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}
