// Package errs defines the error taxonomy shared by the service layer and
// translated into HTTP responses by the handlers. Services never swallow
// these errors; cache failures are the one class absorbed locally instead.
package errs

import (
	"errors"
	"fmt"
)

// ValidationError signals user-correctable bad input (empty or duplicate
// names, unknown status values). Surfaced as form errors.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation: %s: %s", e.Field, e.Msg)
	}
	return "validation: " + e.Msg
}

// Validation constructs a ValidationError for the given field.
func Validation(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// NotFoundError signals a referenced id or slug that does not exist.
// Surfaced as a 404.
type NotFoundError struct {
	Entity string
	Ref    string
}

func (e *NotFoundError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("%s %q not found", e.Entity, e.Ref)
	}
	return e.Entity + " not found"
}

// NotFound constructs a NotFoundError for an entity and reference.
func NotFound(entity, ref string) error {
	return &NotFoundError{Entity: entity, Ref: ref}
}

// ConflictError signals an operation that would violate an invariant,
// e.g. deleting the default category. Surfaced as a blocking message.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Msg
}

// Conflict constructs a ConflictError with the given message.
func Conflict(msg string) error {
	return &ConflictError{Msg: msg}
}

// AuthorizationError signals a caller lacking privilege for an operation.
// Surfaced as a redirect-to-login or 403.
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string {
	if e.Msg == "" {
		return "not authorized"
	}
	return "not authorized: " + e.Msg
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

// IsAuthorization reports whether err is (or wraps) an AuthorizationError.
func IsAuthorization(err error) bool {
	var e *AuthorizationError
	return errors.As(err, &e)
}
