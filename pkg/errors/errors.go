package custom_error

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or missing input the caller can correct.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports a referenced id that does not exist.
type NotFoundError struct {
	Resource string
	ID       any
}

func NewNotFoundError(resource string, id any) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

// ConflictError reports a violated uniqueness invariant. ExistingID names the row
// already holding the slot when it is known.
type ConflictError struct {
	Resource   string
	Message    string
	ExistingID int
	code       string
}

func NewConflictError(resource string, existingID int, format string, args ...any) *ConflictError {
	return &ConflictError{
		Resource:   resource,
		Message:    fmt.Sprintf(format, args...),
		ExistingID: existingID,
	}
}

func (e *ConflictError) Error() string {
	msg := e.Message
	if e.ExistingID != 0 {
		msg = fmt.Sprintf("%s (existing %s id: %d)", msg, e.Resource, e.ExistingID)
	}
	if e.code != "" {
		msg = fmt.Sprintf("%s (code: %s)", msg, e.code)
	}
	return msg
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}
