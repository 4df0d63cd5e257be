package entity

import (
	"errors"
	"fmt"
)

var (
	// Task errors
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskAlreadyExists = errors.New("task already exists")
	ErrInvalidTaskID     = errors.New("invalid task ID")
	ErrInvalidPosition   = errors.New("position must be positive")

	// Reorder errors
	ErrEmptyReorder      = errors.New("task_ids must not be empty")
	ErrDuplicateTaskIDs  = errors.New("duplicate task IDs provided")
	ErrIncompleteReorder = errors.New("all tasks must be included in reorder request")
	ErrUnknownTaskIDs    = errors.New("one or more task IDs not found")
)

// Validation messages shared by the client and the server.
const (
	MsgTitleRequired      = "Title is required"
	MsgTitleTooLong       = "Title must be 200 characters or less"
	MsgDescriptionTooLong = "Description must be 2000 characters or less"
	MsgCompletionRequired = "is_complete cannot be null"
	MsgGenericValidation  = "Validation error"
)

// ValidationError reports a rejected field value
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}

// IsValidation reports whether err carries a ValidationError
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
