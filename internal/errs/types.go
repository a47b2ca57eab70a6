package errs

import (
	"net/http"
)

// newHTTPError builds an HTTPError whose Code is derived from the status text
// unless code is given.
func newHTTPError(status int, message string, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(status))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Status:  status,
		Message: message,
		Code:    formattedCode,
	}
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// code optionally replaces the default "BAD_REQUEST" label, which lets
// callers keep finer classification in logs while clients still see 400.
func NewBadRequestError(message string, code *string) *HTTPError {
	return newHTTPError(http.StatusBadRequest, message, code)
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, code *string) *HTTPError {
	return newHTTPError(http.StatusNotFound, message, code)
}

// NewTooManyRequestsError creates a 429 Too Many Requests HTTPError.
func NewTooManyRequestsError(message string) *HTTPError {
	return newHTTPError(http.StatusTooManyRequests, message, nil)
}

// NewServiceUnavailableError creates a 503 Service Unavailable HTTPError.
func NewServiceUnavailableError(message string) *HTTPError {
	return newHTTPError(http.StatusServiceUnavailable, message, nil)
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// An empty message falls back to the generic status text. Callers must never
// pass the underlying error's text here; log it instead.
func NewInternalServerError(message string) *HTTPError {
	if message == "" {
		message = http.StatusText(http.StatusInternalServerError)
	}
	return newHTTPError(http.StatusInternalServerError, message, nil)
}
