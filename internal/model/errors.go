package model

import "fmt"

// ValidationError is a caller mistake in a request body. The HTTP adapter
// turns it into a 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
