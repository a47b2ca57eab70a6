// Package handler is the HTTP layer between the router and the services.
//
// Handlers read query parameters, run them through the validation
// package, call into the service layer and shape the JSON response.
package handler
