// Package errs implements the four-member fatal error taxonomy the
// scenario generator reports to stderr before exiting with status 1.
package errs

import "fmt"

// Kind identifies which of the four fatal error categories occurred.
type Kind string

const (
	Config    Kind = "ConfigError"
	IO        Kind = "IOError"
	Invariant Kind = "InvariantError"
	Data      Kind = "DataError"
)

// Error is a fatal, user-facing error tagged with its Kind. All
// constructors below exit code 1 at the CLI boundary.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func ConfigError(format string, args ...interface{}) error {
	return &Error{Kind: Config, Message: fmt.Sprintf(format, args...)}
}

func IOError(cause error, format string, args ...interface{}) error {
	return &Error{Kind: IO, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func InvariantError(format string, args ...interface{}) error {
	return &Error{Kind: Invariant, Message: fmt.Sprintf(format, args...)}
}

func DataError(format string, args ...interface{}) error {
	return &Error{Kind: Data, Message: fmt.Sprintf(format, args...)}
}
