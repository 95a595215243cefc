package services

import (
	"errors"
	"fmt"

	"gigexecs-backend/internal/reference"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrNotProjectOwner = errors.New("project belongs to another user")
	ErrBidNotFound     = errors.New("bid not found")
	ErrBidNotPending   = errors.New("bid is no longer pending")
)

// MissingFieldError blocks a submission because a required draft field is empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// InvalidNumberError blocks a submission because a numeric field does not hold
// an acceptable number.
type InvalidNumberError struct {
	Field string
	Value string
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("invalid numeric value for %s: %q", e.Field, e.Value)
}

// InvalidFieldError blocks a submission because a stored field has the wrong shape.
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Field, e.Reason)
}

type UnresolvableReferenceError = reference.UnresolvableError

// PersistenceError wraps a failure of the primary create or update.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// TransitionError is returned when a project status change is not allowed.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move project from %s to %s", e.From, e.To)
}

// IsInputError reports whether err is one the user can fix by editing input.
func IsInputError(err error) bool {
	var (
		missing      *MissingFieldError
		invalid      *InvalidNumberError
		shape        *InvalidFieldError
		unresolvable *UnresolvableReferenceError
	)
	return errors.As(err, &missing) ||
		errors.As(err, &invalid) ||
		errors.As(err, &shape) ||
		errors.As(err, &unresolvable)
}
