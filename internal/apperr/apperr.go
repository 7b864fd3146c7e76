// Package apperr defines the error taxonomy shared by handlers and
// middleware.  Every error carries an HTTP status and a stack trace captured
// where it was created; the HTTP error handler decides whether the stack is
// shown to clients.
package apperr

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

// Status maps the kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified, client-presentable error.  Message is what the
// client sees; cause (when set) keeps the underlying error for logs.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the stack-carrying cause to errors.Is/As.
func (e *Error) Unwrap() error { return e.cause }

// Stack renders the captured stack trace.
func (e *Error) Stack() string {
	return fmt.Sprintf("%+v", e.cause)
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, cause: errors.New(msg)}
}

func Validation(msg string) *Error      { return newError(KindValidation, msg) }
func Unauthenticated(msg string) *Error { return newError(KindUnauthenticated, msg) }
func Forbidden(msg string) *Error       { return newError(KindForbidden, msg) }
func NotFound(msg string) *Error        { return newError(KindNotFound, msg) }
func Conflict(msg string) *Error        { return newError(KindConflict, msg) }

// Internal wraps an unexpected error (usually from a store).  The client
// message is the underlying error text.
func Internal(err error) *Error {
	if err == nil {
		err = errors.New("internal error")
	}
	return &Error{Kind: KindInternal, Message: err.Error(), cause: errors.WithStack(err)}
}

// As extracts an *Error from err, if there is one in the chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
