// Package domainerrors carries coded errors from services to transports.
//
// Services return *Error values; transports translate the Code into a status
// via ToHTTPStatus and render Message to the caller. Internal errors never
// expose their message.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code is a stable, machine-readable error identifier.
type Code string

const (
	CodeBadRequest           Code = "bad_request"
	CodeValidation           Code = "validation_error"
	CodeEmptyName            Code = "empty_name"
	CodeNameContainsDigit    Code = "name_contains_digit"
	CodeInvalidAge           Code = "invalid_age"
	CodeSpecialtyNotSelected Code = "specialty_not_selected"
	CodeNotFound             Code = "not_found"
	CodeCatalogLoadFailure   Code = "catalog_load_failure"
	CodeUnavailable          Code = "unavailable"
	CodeInternal             Code = "internal_error"
)

// Error is a coded domain error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error without a cause.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or
// CodeInternal when there is none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation, CodeEmptyName, CodeNameContainsDigit,
		CodeInvalidAge, CodeSpecialtyNotSelected:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeCatalogLoadFailure, CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
