package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedEvent = errors.New("malformed event")
	ErrUnknownEvent   = errors.New("unknown event type")
	ErrConfigAbsent   = errors.New("no routing configuration found")
	ErrHookNotFound   = errors.New("no command found for hook")
)

// ExitError tells main to terminate with a specific host-visible exit code.
// Message, when set, is printed to stderr first.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("exit status %d", e.Code)
}
