package apperr

import (
	"errors"
	"fmt"
)

// Kind buckets an error into the categories the handlers care about.
// Authorization and Validation surface to the caller; RemoteUnavailable is
// logged and swallowed for state that already succeeded locally; Conflict is
// always resolved as a silent no-op by the services and should never reach
// a handler.
type Kind int

const (
	KindAuthorization Kind = iota
	KindValidation
	KindRemoteUnavailable
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindAuthorization:
		return "authorization"
	case KindValidation:
		return "validation"
	case KindRemoteUnavailable:
		return "remote_unavailable"
	case KindConflict:
		return "conflict"
	}
	return "unknown"
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Authorization(msg string) error {
	return &Error{Kind: KindAuthorization, Msg: msg}
}

func Validation(msg string) error {
	return &Error{Kind: KindValidation, Msg: msg}
}

func RemoteUnavailable(msg string, err error) error {
	return &Error{Kind: KindRemoteUnavailable, Msg: msg, Err: err}
}

// Is reports whether err (or anything it wraps) carries the given kind.
func Is(err error, kind Kind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}
