package intake

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a submission does not exist or belongs to a
// different member. The two cases are indistinguishable to the caller.
var ErrNotFound = errors.New("submission not found")

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// PersistenceError wraps a failure from the storage layer.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// PartialUploadError indicates the submission row was persisted but one or
// more attachments failed to store. The submission itself is valid.
type PartialUploadError struct {
	SubmissionID uuid.UUID
	FailedFiles  []string
}

func (e *PartialUploadError) Error() string {
	return fmt.Sprintf("submission %s saved but %d attachment(s) failed: %s",
		e.SubmissionID, len(e.FailedFiles), strings.Join(e.FailedFiles, ", "))
}
