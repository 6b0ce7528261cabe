// Package errors holds the coded errors that cross the catalog's layers.
//
// The store and services return an *Error; respond turns its Code into an
// HTTP status and a JSON body. Two errors compare equal under errors.Is when
// their codes match, so NotFoundf("game %d", id) is still ErrNotFound.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Is and As are the stdlib helpers, so callers need only this import.
var (
	Is = errors.Is
	As = errors.As
)

// Code classifies a failure. It is sent to clients in the "code" field.
type Code string

const (
	CodeNotFound            Code = "NOT_FOUND"
	CodeConstraintViolation Code = "CONSTRAINT_VIOLATION"
	CodeInvalidReference    Code = "INVALID_REFERENCE"
	CodeValidation          Code = "VALIDATION"
	CodeUnauthorized        Code = "UNAUTHORIZED"
	CodeRateLimited         Code = "RATE_LIMITED"
	CodeInternal            Code = "INTERNAL"
)

var statusByCode = map[Code]int{
	CodeNotFound:            http.StatusNotFound,
	CodeConstraintViolation: http.StatusConflict,
	CodeInvalidReference:    http.StatusBadRequest,
	CodeValidation:          http.StatusBadRequest,
	CodeUnauthorized:        http.StatusUnauthorized,
	CodeRateLimited:         http.StatusTooManyRequests,
}

// HTTPStatus maps c to a response status. Unknown codes are a 500.
func (c Code) HTTPStatus() int {
	if status, ok := statusByCode[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error carries a Code, a client-safe Message and optional per-field Details.
// The wrapped cause stays server side.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

// Is compares codes only.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t != nil && t.Code == e.Code
}

// WithCause returns a copy of e that wraps err.
func (e *Error) WithCause(err error) *Error {
	c := *e
	c.cause = err
	return &c
}

var (
	ErrNotFound            = newError(CodeNotFound, "not found")
	ErrConstraintViolation = newError(CodeConstraintViolation, "constraint violation")
	ErrInvalidReference    = newError(CodeInvalidReference, "invalid reference")
	ErrValidation          = newError(CodeValidation, "validation error")
	ErrUnauthorized        = newError(CodeUnauthorized, "unauthorized")
	ErrRateLimited         = newError(CodeRateLimited, "too many requests")
	ErrInternal            = newError(CodeInternal, "internal error")
)

func newError(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

func NotFound(msg string) *Error { return newError(CodeNotFound, msg) }

func NotFoundf(format string, args ...any) *Error {
	return newError(CodeNotFound, fmt.Sprintf(format, args...))
}

// ConstraintViolation reports a duplicate title or another unique index hit.
func ConstraintViolation(msg string) *Error { return newError(CodeConstraintViolation, msg) }

// InvalidReference reports an id or title that does not resolve to a row the
// caller owns.
func InvalidReference(msg string) *Error { return newError(CodeInvalidReference, msg) }

func Validation(msg string) *Error { return newError(CodeValidation, msg) }

// ValidationWithDetails attaches a field -> message map for the response body.
func ValidationWithDetails(msg string, details any) *Error {
	e := newError(CodeValidation, msg)
	e.Details = details
	return e
}

func Unauthorized(msg string) *Error { return newError(CodeUnauthorized, msg) }

// Internal wraps err. Clients get a generic message; the request log gets
// the whole chain.
func Internal(msg string, err error) *Error {
	return newError(CodeInternal, msg).WithCause(err)
}

// CodeOf finds the first *Error in err's chain. Plain errors are CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
