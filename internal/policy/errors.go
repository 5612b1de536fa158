package policy

import (
	"errors"
	"fmt"
)

// ErrPermissionDenied is returned whenever Can rejects an action, the
// caller is not the required member (owner, payer, recipient), or a pending
// member touches sub-resources.
var ErrPermissionDenied = errors.New("permission denied")

// NotFoundError reports a missing or concurrently deleted resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NotFound builds a NotFoundError.
func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ConflictError reports a violated uniqueness or state invariant: duplicate
// membership, claiming an owned item, double-finalizing allocation.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// Conflict builds a ConflictError.
func Conflict(format string, args ...any) error {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// ValidationError reports malformed input with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// StateError reports an action that is not legal from the entity's current
// state: re-completing an event, paying a paid debt, finishing a done task.
type StateError struct {
	Reason string
}

func (e *StateError) Error() string {
	return e.Reason
}

// InvalidState builds a StateError.
func InvalidState(format string, args ...any) error {
	return &StateError{Reason: fmt.Sprintf(format, args...)}
}

// IsInvalidState reports whether err is a StateError.
func IsInvalidState(err error) bool {
	var s *StateError
	return errors.As(err, &s)
}
