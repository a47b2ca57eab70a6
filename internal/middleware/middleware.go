// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as request IDs, request logging, CORS, rate limiting,
// New Relic tracing, and panic recovery. It also owns the global
// error handler that turns any unhandled error into the API's
// {"status", "message"} response shape.
package middleware
