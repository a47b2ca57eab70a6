// Package errs defines the error type returned to API clients.
//
// Every error response the service writes has the same JSON shape,
// {"status": <int>, "message": <string>}, so clients can rely on one
// decoder regardless of which layer produced the failure.
package errs
