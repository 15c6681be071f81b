// Package apperror defines coded domain errors that the HTTP layer maps to status codes
// and localized messages.
//
//	if p == nil {
//	    return nil, apperror.NotFound("error.product_not_found", "product not found")
//	}
//
//	var appErr *apperror.Error
//	if errors.As(err, &appErr) {
//	    status := appErr.HTTPStatus()
//	}
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeNotFound     Code = "NOT_FOUND"
	CodeValidation   Code = "VALIDATION"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeUnavailable  Code = "UNAVAILABLE"
	CodeInternal     Code = "INTERNAL"
)

func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// defaultMessageID is the i18n key used when an error carries none.
func (c Code) defaultMessageID() string {
	switch c {
	case CodeNotFound:
		return "error.not_found"
	case CodeValidation:
		return "error.validation"
	case CodeUnauthorized:
		return "error.unauthorized"
	case CodeUnavailable:
		return "error.unavailable"
	default:
		return "error.internal"
	}
}

type Error struct {
	Code      Code
	MessageID string
	Message   string
	Details   any
	cause     error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error with the same code, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code && (t.MessageID == "" || t.MessageID == e.MessageID)
	}
	return false
}

func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

func (e *Error) LocalizationID() string {
	if e.MessageID != "" {
		return e.MessageID
	}
	return e.Code.defaultMessageID()
}

func (e *Error) WithDetails(details any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

func New(code Code, messageID, message string) *Error {
	return &Error{Code: code, MessageID: messageID, Message: message}
}

func Wrap(err error, code Code, messageID, message string) *Error {
	return &Error{Code: code, MessageID: messageID, Message: message, cause: err}
}

func NotFound(messageID, message string) *Error {
	return New(CodeNotFound, messageID, message)
}

func Validation(message string) *Error {
	return New(CodeValidation, "", message)
}

func Unauthorized(message string) *Error {
	return New(CodeUnauthorized, "", message)
}

// From returns err as an *Error, wrapping unknown errors as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeInternal, "", "internal error")
}
