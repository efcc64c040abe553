package resource

import "errors"

var (
	// ErrValidation marks a form or action input refused before any request.
	ErrValidation = errors.New("validation failed")
	// ErrNotSupported is returned for operations an entity does not offer.
	ErrNotSupported = errors.New("operation not supported")
	// ErrNotConfirmed is returned when a destructive operation was not confirmed.
	ErrNotConfirmed = errors.New("not confirmed")
	ErrNotFound     = errors.New("not found")
)

type validationError struct{ msg string }

func (e *validationError) Error() string        { return e.msg }
func (e *validationError) Is(target error) bool { return target == ErrValidation }

func invalid(msg string) error { return &validationError{msg: msg} }
