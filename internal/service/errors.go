// Package service implements the domain rules of the blog: the post and
// image aggregate, search, comment moderation, and statistics. Services
// take their collaborators (repositories, file storage, limits) as
// constructor arguments and return tagged domain errors that the HTTP
// boundary maps to status codes.
package service

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error for boundary status mapping. Conflicts
// (already published, duplicate slug) are reported as KindBadRequest.
type Kind int

const (
	// KindNotFound means a referenced entity does not exist.
	KindNotFound Kind = iota + 1
	// KindBadRequest means the input failed validation.
	KindBadRequest
	// KindForbidden means the actor lacks rights over the resource.
	KindForbidden
	// KindUnauthorized means the actor identity is missing or invalid.
	KindUnauthorized
)

// Error is a tagged domain error. It propagates unmodified to the HTTP
// boundary; infrastructure errors are returned as plain errors instead.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NotFound builds a KindNotFound error.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// BadRequest builds a KindBadRequest error.
func BadRequest(format string, args ...any) error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Forbidden builds a KindForbidden error.
func Forbidden(format string, args ...any) error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized builds a KindUnauthorized error.
func Unauthorized(format string, args ...any) error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from an error chain. Infrastructure errors
// carry no domain kind and yield zero.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}
