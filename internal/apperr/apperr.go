// Package apperr defines the typed failures surfaced by the ledger,
// budget and category engines. Handlers map them to HTTP responses;
// the engines themselves never log-and-swallow one.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or out-of-range input. The
// operation that returned it was not applied, not even partially.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// DuplicateError reports a uniqueness violation, e.g. a second budget
// for the same category and month.
type DuplicateError struct {
	Msg string
}

func (e *DuplicateError) Error() string { return e.Msg }

func Duplicatef(format string, args ...any) error {
	return &DuplicateError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError reports an operation blocked by referential state,
// e.g. deleting a category that transactions still point at.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func Conflictf(format string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing entity. Owner mismatches are
// reported through this same type so callers cannot probe for the
// existence of other users' records.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsDuplicate(err error) bool {
	var de *DuplicateError
	return errors.As(err, &de)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}
