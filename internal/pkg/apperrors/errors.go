package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Classroom errors
var (
	ErrClassroomNotFound      = errors.New("classroom not found")
	ErrClassroomAlreadyExists = errors.New("classroom with this ID already exists")
	ErrClassroomHasRelations  = errors.New("classroom has enrollments or leave requests and cannot be deleted")
	ErrJoinCodeNotFound       = errors.New("join code not found")
	ErrAlreadyEnrolled        = errors.New("already enrolled in this classroom")
	ErrNotEnrolled            = errors.New("not enrolled in this classroom")
)

// Leave request errors
var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrRequestNotPending    = errors.New("leave request is not pending")
	ErrDuplicateRequest     = errors.New("leave request for this date already exists")
	ErrEvidenceNotFound     = errors.New("no evidence attached to this leave request")
)

// NewNotFoundError creates a custom error wrapping ErrResourceNotFound with a message
func NewNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a custom error wrapping ErrConflict with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a custom error wrapping ErrPermissionDenied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a custom error wrapping ErrValidationFailed with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap so errors.Is sees the sentinel
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
