package errors

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrMalformedInput   = errors.New("malformed input")
	ErrDuplicateCommand = errors.New("duplicate command")
	ErrInvalidGeohash   = errors.New("invalid geohash")
	ErrMissingField     = errors.New("missing field")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Kind classifies a failure by who has to act on it.
type Kind int

const (
	// KindCollaborator covers store and decode failures.
	KindCollaborator Kind = iota
	KindUserInput
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindUserInput:
		return "user_input"
	case KindConfiguration:
		return "configuration"
	default:
		return "collaborator"
	}
}

type AppError struct {
	Err     error
	Message string
	Kind    Kind
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, kind Kind, message string) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: message,
		Kind:    kind,
	}
}

func Newf(sentinel error, kind Kind, format string, args ...any) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: fmt.Sprintf(format, args...),
		Kind:    kind,
	}
}

// Malformed reports a user argument the command could not parse.
func Malformed(format string, args ...any) *AppError {
	return Newf(ErrMalformedInput, KindUserInput, format, args...)
}

func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	switch {
	case errors.Is(err, ErrUnknownCommand), errors.Is(err, ErrMalformedInput):
		return KindUserInput
	case errors.Is(err, ErrDuplicateCommand):
		return KindConfiguration
	default:
		return KindCollaborator
	}
}

// Is and As re-export the standard helpers so callers importing this package
// under the name errors keep access to them.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }
