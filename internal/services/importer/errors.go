package importer

import (
	"errors"
)

// ErrorKind classifies failures of the import pipeline.
type ErrorKind string

const (
	// Validation: the request was rejected before anything was stored.
	Validation ErrorKind = "validation"
	// Parse: the spreadsheet could not be decoded; the batch was rolled back.
	Parse ErrorKind = "parse"
	// Persistence: a database step failed; the batch was rolled back.
	Persistence ErrorKind = "persistence"
	// Mapping: a single row could not be stored. Never returned to callers.
	Mapping ErrorKind = "mapping"
	// Infrastructure: the content store is unavailable.
	Infrastructure ErrorKind = "infrastructure"
)

// ErrBatchNotFound is returned for an unknown batch id.
var ErrBatchNotFound = errors.New("import batch not found")

type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func newError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Cause returns the underlying error text, or "" when there is none.
func (e *Error) Cause() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// KindOf returns the ErrorKind of err, or "" when err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// InfrastructureError wraps a content store failure detected at startup.
func InfrastructureError(err error) error {
	return newError(Infrastructure, "content store unavailable", err)
}
