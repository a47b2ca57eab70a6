// Package service contains the business logic.
//
// It sits between the handler layer and the computation engine.
// It receives validated input from the handler, decides whether the
// process can take the work on, and runs it under a bounded
// number of concurrent computations.
package service
