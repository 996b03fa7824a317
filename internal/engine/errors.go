package engine

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Store implementations when a looked-up record
// does not exist. The engine translates it into a NotFoundError carrying
// the reference that missed.
var ErrNotFound = errors.New("record not found")

// MalformedInputError reports a barcode token that violates the intake
// grammar. The operation performs zero writes.
type MalformedInputError struct {
	Reason string
}

func (e *MalformedInputError) Error() string {
	return "malformed input: " + e.Reason
}

// ValidationError reports rejected user input (blank recipe name, empty
// composition). The operation performs zero writes.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NotFoundError reports a referenced box or line that is absent from the
// store.
type NotFoundError struct {
	Kind string
	Ref  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Ref)
}

// BackendError wraps any store failure. The backend message is passed
// through verbatim; the failure is terminal for the action, never retried.
type BackendError struct {
	Err error
}

func (e *BackendError) Error() string {
	return e.Err.Error()
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// wrapStore maps a store error onto the taxonomy.
func wrapStore(err error, kind, ref string) error {
	if errors.Is(err, ErrNotFound) {
		return &NotFoundError{Kind: kind, Ref: ref}
	}
	return &BackendError{Err: err}
}
