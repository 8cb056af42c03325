package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports a request rejected client-side, before any
// network traffic.
type ValidationError struct {
	Field   string
	Message string
}

func (err *ValidationError) Error() string {
	if err.Field != "" {
		return fmt.Sprintf("classtrack: invalid %s: %s", err.Field, err.Message)
	}
	return "classtrack: " + err.Message
}

// NetworkError reports a transport failure: the request never produced
// an HTTP response.
type NetworkError struct {
	URL string
	Err error
}

func (err *NetworkError) Error() string {
	return fmt.Sprintf("classtrack: request to %s failed: %v", err.URL, err.Err)
}

func (err *NetworkError) Unwrap() error {
	return err.Err
}

// APIError represents a non-2xx response from the ClassTrack API. The
// server returns structured JSON error bodies with a code and message.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Code is the machine-readable error code from the server.
	Code string

	// Message is the human-readable error description.
	Message string
}

func (err *APIError) Error() string {
	if err.Code != "" {
		return fmt.Sprintf("classtrack: HTTP %d (%s): %s", err.StatusCode, err.Code, err.Message)
	}
	return fmt.Sprintf("classtrack: HTTP %d: %s", err.StatusCode, err.Message)
}

// IsAuth reports whether err is a 401 Unauthorized response: missing,
// invalid or expired credentials.
func IsAuth(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusUnauthorized
}

// IsForbidden reports whether err is a 403 Forbidden response: the
// caller is authenticated but not allowed to perform the operation.
func IsForbidden(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 Not Found response.
func IsNotFound(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusNotFound
}

// IsConflict reports whether err is a 409 Conflict response, such as a
// decision on an already-decided request or a duplicate submission.
func IsConflict(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusConflict
}

// IsValidation reports whether err was rejected before transport by
// client-side validation.
func IsValidation(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}
