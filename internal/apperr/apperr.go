// Package apperr defines the error taxonomy shared by services and the HTTP
// boundary. Services return *Error values; the boundary maps Kind to a status
// code and a JSON envelope.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for boundary handling.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindDuplicate
	KindSelfSave
	KindImageProcessing
	KindUpload
	KindAllocationExhausted
	KindCommitFailed
)

// Error carries a kind, an optional offending field and a caller-safe message.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets sentinel comparisons match on kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && (t.Field == "" || t.Field == e.Field)
}

// KindOf returns the taxonomy kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

func Validationf(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func Duplicate(field string, err error) *Error {
	return &Error{Kind: KindDuplicate, Field: field, Message: field + " already in use", Err: err}
}

func SelfSave() *Error {
	return &Error{Kind: KindSelfSave, Message: "you cannot save your own recipe"}
}

func ImageProcessing(err error) *Error {
	return &Error{Kind: KindImageProcessing, Message: "image processing failed", Err: err}
}

func Upload(err error) *Error {
	return &Error{Kind: KindUpload, Message: "image upload failed", Err: err}
}

func AllocationExhausted(base string) *Error {
	return &Error{Kind: KindAllocationExhausted, Message: fmt.Sprintf("could not allocate a unique handle for %q", base)}
}

func CommitFailed(err error) *Error {
	return &Error{Kind: KindCommitFailed, Message: "transaction commit failed", Err: err}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}
