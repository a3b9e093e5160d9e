// Package apperr provides the service error taxonomy and its HTTP mapping.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeUnknown Code = "UNKNOWN"

	// Lookup errors
	CodeNotFound         Code = "NOT_FOUND"
	CodeCampaignNotFound Code = "CAMPAIGN_NOT_FOUND"
	CodeCategoryNotFound Code = "CATEGORY_NOT_FOUND"
	CodeUserNotFound     Code = "USER_NOT_FOUND"
	CodeAdminNotFound    Code = "ADMIN_NOT_FOUND"

	// Uniqueness errors
	CodeConflict          Code = "CONFLICT"
	CodeDuplicateCampaign Code = "DUPLICATE_CAMPAIGN"

	// Input errors
	CodeValidation      Code = "VALIDATION"
	CodeInvalidIDFormat Code = "INVALID_ID_FORMAT"

	// Invariant errors
	CodeGoalExceeded      Code = "GOAL_EXCEEDED"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeNoAdminsAvailable Code = "NO_ADMINS_AVAILABLE"

	// Access errors
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"

	// Collaborator errors
	CodeStorage     Code = "STORAGE_ERROR"
	CodePersistence Code = "PERSISTENCE_ERROR"
)

// Error is a coded service error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error.
func New(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(code Code, err error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// Persistence wraps a store failure unless it already carries a code.
func Persistence(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	var coded *Error
	if errors.As(err, &coded) {
		return err
	}
	return Wrap(CodePersistence, err, format, args...)
}

// CodeOf returns the first code found in the error chain.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeUnknown
}

// Is reports whether err carries code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// MessageOf returns the public message for err.
func MessageOf(err error) string {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Message
	}
	return "internal server error"
}

// HTTPStatus maps a code to a response status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeNotFound, CodeCampaignNotFound, CodeCategoryNotFound, CodeUserNotFound, CodeAdminNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeDuplicateCampaign, CodeInvalidTransition:
		return http.StatusConflict
	case CodeValidation, CodeInvalidIDFormat, CodeGoalExceeded:
		return http.StatusBadRequest
	case CodeNoAdminsAvailable:
		return http.StatusServiceUnavailable
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeStorage:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
