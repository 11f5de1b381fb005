package catalog

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for callers and for HTTP status mapping.
type Kind string

const (
	// KindInvalidInput is a missing or malformed required parameter.
	KindInvalidInput Kind = "invalid_input"

	// KindNotFound is an unresolvable model or pricing rule.
	KindNotFound Kind = "not_found"

	// KindUpstreamLoad is a loader failure.
	KindUpstreamLoad Kind = "upstream_load"

	// KindInternal is any unexpected fault.
	KindInternal Kind = "internal"
)

// Sentinel errors, one per kind. An *Error matches the sentinel of its kind
// with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUpstreamLoad = errors.New("upstream load failure")
	ErrInternal     = errors.New("internal error")
)

// Error is a catalog failure with a kind and optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error for the kind.
func (e *Error) Is(target error) bool {
	return sentinel(e.Kind) == target
}

func sentinel(k Kind) error {
	switch k {
	case KindInvalidInput:
		return ErrInvalidInput
	case KindNotFound:
		return ErrNotFound
	case KindUpstreamLoad:
		return ErrUpstreamLoad
	default:
		return ErrInternal
	}
}

// InvalidInput builds a KindInvalidInput error.
func InvalidInput(format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a KindNotFound error.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// UpstreamFailure wraps a loader error.
func UpstreamFailure(err error) error {
	var ce *Error
	if errors.As(err, &ce) && ce.Kind == KindUpstreamLoad {
		return err
	}
	return &Error{Kind: KindUpstreamLoad, Message: "load catalog tables", Err: err}
}

// KindOf returns the kind of err, or KindInternal when err carries none.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}
