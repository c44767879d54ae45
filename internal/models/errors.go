package models

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a referenced source file that is absent from the store.
var ErrNotFound = errors.New("not found")

// InputError reports a malformed or inconsistent request. It maps to a 400
// at the HTTP boundary and is never retried.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

// NewInputError formats a new InputError.
func NewInputError(format string, args ...any) *InputError {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}

// GenerationError reports that the oracle call failed transport-level, or
// that its output could not be coerced into the required structure after the
// single repair retry.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed at %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// RenderError reports a failed artifact write.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Path, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
