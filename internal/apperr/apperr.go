// Package apperr classifies domain errors so handlers can map them to
// responses without knowing which feature produced them.
package apperr

import (
	"errors"
	"sort"
	"strings"
)

// Kind is the category of a domain error
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindValidation
	KindPrecondition
)

// Error is a classified domain error
type Error struct {
	Kind    Kind
	Message string

	// Fields holds field level messages for validation failures
	Fields map[string]string

	// Location is where the caller should be sent after a precondition failure
	Location string
}

func (e *Error) Error() string {
	if e.Kind == KindValidation && len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + " " + e.Fields[k]
		}
		return e.Message + ": " + strings.Join(parts, ", ")
	}
	return e.Message
}

// NotFound creates an error for a missing record
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Forbidden creates an error for a failed authorization check
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Validation creates an error for malformed input with per field messages
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

// Precondition creates an error for a rejected precondition check
func Precondition(message, location string) *Error {
	return &Error{Kind: KindPrecondition, Message: message, Location: location}
}

// KindOf returns the kind of err, KindInternal if it is not classified
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As unwraps err into a classified error
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
