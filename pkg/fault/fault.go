package fault

import (
	"fmt"

	"github.com/juju/errors"
)

// Kind classifies a failure. Every failure is terminal for the invocation.
type Kind int

const (
	// Unexpected is anything not covered by a more specific kind.
	Unexpected Kind = iota
	// Validation covers malformed user input; no network call is made.
	Validation
	// NotFound means the local file does not exist.
	NotFound
	// PermissionDenied means the local file exists but cannot be read.
	PermissionDenied
	// IOFailure is any other local file access error.
	IOFailure
	// Timeout means the remote call exceeded the client timeout.
	Timeout
	// Network covers DNS and connection failures.
	Network
	// API means the remote service answered with a non-2xx status.
	API
)

// String returns string representation of the kind
func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case PermissionDenied:
		return "permission_denied"
	case IOFailure:
		return "io_failure"
	case Timeout:
		return "timeout"
	case Network:
		return "network"
	case API:
		return "api"
	default:
		return "unexpected"
	}
}

// Error is the tagged failure carried through the check pipeline.
type Error struct {
	Kind    Kind
	Message string
	// Hint is an optional second line shown under the message.
	Hint string
	// Path is set for local file failures.
	Path string
	// StatusCode, Status and Body are set for API failures.
	StatusCode int
	Status     string
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Kind == API {
		return fmt.Sprintf("%s: status %d %s", e.Kind, e.StatusCode, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validationf builds a Validation failure.
func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: Validation, Message: fmt.Sprintf(format, args...)}
}

// WithHint returns e with its hint set.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// File builds a local file failure for path.
func File(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// APIStatus builds an API failure from a non-2xx response.
func APIStatus(code int, status string, body []byte) *Error {
	return &Error{Kind: API, StatusCode: code, Status: status, Body: body}
}

// Wrap tags err with kind.
func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// As extracts the tagged failure from err, looking through annotations.
func As(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// KindOf classifies err. Untagged errors are Unexpected.
func KindOf(err error) Kind {
	if fe, ok := As(err); ok {
		return fe.Kind
	}
	return Unexpected
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
