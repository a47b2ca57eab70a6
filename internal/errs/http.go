package errs

import "strings"

// HTTPError is the custom error type for API responses.
//
// It implements `error` and is serialized directly as the response body.
// Code is a machine-friendly label (e.g. "BAD_REQUEST") that is logged
// but never sent to the client.
type HTTPError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Code    string `json:"-"`
}

// Error returns the client-facing message.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError.
// It does not compare Status or Message.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a copy of e with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Status:  e.Status,
		Message: message,
		Code:    e.Code,
	}
}

// MakeUpperCaseWithUnderscores converts a string into UPPER_CASE_WITH_UNDERSCORES.
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
