package device

import (
	"errors"
	"fmt"
)

// ErrorKind classifies driver failures.
type ErrorKind int

const (
	KindDeviceNotFound ErrorKind = iota
	KindInitializationFailed
	KindEffectCreationFailed
	KindEffectPlaybackFailed
	KindEffectStopFailed
	KindDeviceError
	KindInvalidParameter
)

func (k ErrorKind) String() string {
	switch k {
	case KindDeviceNotFound:
		return "device not found"
	case KindInitializationFailed:
		return "failed to initialize device"
	case KindEffectCreationFailed:
		return "failed to create effect"
	case KindEffectPlaybackFailed:
		return "failed to play effect"
	case KindEffectStopFailed:
		return "failed to stop effect"
	case KindDeviceError:
		return "device error"
	case KindInvalidParameter:
		return "invalid parameter"
	}
	return "unknown error"
}

// Error is the typed error returned by drivers. Detail carries the
// underlying subsystem's diagnostic text; Err, when set, is the wrapped
// cause.
type Error struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a typed driver error.
func NewError(kind ErrorKind, detail string, cause error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: cause}
}

// IsKind reports whether err is (or wraps) a driver Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == kind
}
