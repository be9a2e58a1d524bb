package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

const (
	CodePermissionDenied = "permission_denied"
	CodeValidation       = "validation_error"
	CodeNotFound         = "not_found"
	CodeStorage          = "storage_failure"
)

func PermissionDenied(format string, args ...interface{}) *Error {
	return New(http.StatusForbidden, CodePermissionDenied, fmt.Errorf(format, args...))
}

func Validation(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, CodeValidation, fmt.Errorf(format, args...))
}

func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf(format, args...))
}

func Storage(format string, args ...interface{}) *Error {
	return New(http.StatusInternalServerError, CodeStorage, fmt.Errorf(format, args...))
}

// StatusOf maps any error onto an HTTP status, defaulting to 500 for
// untyped errors.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// CodeOf returns the taxonomy code of err, or empty for untyped errors.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

func IsPermissionDenied(err error) bool { return CodeOf(err) == CodePermissionDenied }
func IsValidation(err error) bool       { return CodeOf(err) == CodeValidation }
func IsNotFound(err error) bool         { return CodeOf(err) == CodeNotFound }
