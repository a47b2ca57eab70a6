// Package validation turns the raw `n` query parameter into either a
// validated Fibonacci index or a classified rejection.
//
// The parameter is read as untyped text and every coercion happens here,
// so the error taxonomy belongs to the application rather than to the
// framework's binder. Rejections are values, not errors: callers switch
// on the returned Outcome.
package validation
