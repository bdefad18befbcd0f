// Package apperr defines the error taxonomy shared by services and transports.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrValidation    = errors.New("validation failed")

	ErrPreconditionFailed = errors.New("precondition failed")
	ErrInvalidTransition  = fmt.Errorf("%w: invalid transition", ErrPreconditionFailed)
	ErrInconsistentState  = errors.New("inconsistent state")
)

// ValidationError reports malformed input for a single field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid returns a ValidationError for field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Precondition returns an error matching ErrPreconditionFailed with a user-facing message.
func Precondition(msg string) error {
	return fmt.Errorf("%w: %s", ErrPreconditionFailed, msg)
}

// Transition returns an error matching ErrInvalidTransition (and ErrPreconditionFailed).
func Transition(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidTransition, msg)
}

// Message returns the user-facing part of a taxonomy error: the text after the
// sentinel, dropping any context prefixes added while the error was wrapped.
func Message(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	msg := err.Error()
	for _, sentinel := range []error{ErrInvalidTransition, ErrPreconditionFailed} {
		prefix := sentinel.Error() + ": "
		if i := strings.Index(msg, prefix); i >= 0 {
			return msg[i+len(prefix):]
		}
	}
	return msg
}

// FromValidation converts an ozzo-validation result into a ValidationError
// naming the first failing field (alphabetically). Other errors pass through.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		if errs[f] != nil {
			return &ValidationError{Field: f, Reason: errs[f].Error()}
		}
	}
	return nil
}
