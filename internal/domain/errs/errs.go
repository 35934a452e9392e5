// Package errs defines the error kinds surfaced by the booking subsystem.
// Mutating operations validate fully before touching state, so a
// ValidationError or StateError guarantees nothing was persisted.
package errs

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or out-of-range input, raised before
// any mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError for a field.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StateError reports an operation attempted against a booking in an
// incompatible status.
type StateError struct {
	Operation     string
	CurrentStatus string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s a booking in status %q", e.Operation, e.CurrentStatus)
}

// State builds a StateError for an illegal transition attempt.
func State(operation, currentStatus string) error {
	return &StateError{Operation: operation, CurrentStatus: currentStatus}
}

// NotFoundError reports a missing referenced record.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// NotFound builds a NotFoundError.
func NotFound(kind, key string) error {
	return &NotFoundError{Kind: kind, Key: key}
}

// NotificationError reports a dispatch failure. It is logged and counted
// by callers but never propagated as a failure of the triggering
// operation.
type NotificationError struct {
	Recipient string
	Kind      string
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("failed to send %s notification to %s: %v", e.Kind, e.Recipient, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

// Notification wraps a dispatch failure.
func Notification(recipient, kind string, err error) error {
	return &NotificationError{Recipient: recipient, Kind: kind, Err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// IsState reports whether err is a StateError.
func IsState(err error) bool {
	var e *StateError
	return errors.As(err, &e)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}
