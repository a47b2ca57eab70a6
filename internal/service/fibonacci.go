package service

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/deppfellow/fibonacci-api/internal/fibonacci"
	"github.com/deppfellow/fibonacci-api/internal/server"
	"github.com/deppfellow/fibonacci-api/internal/validation"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

// ErrIndexTooLarge is returned for indices above the configured
// fibonacci.max_index, or above what a uint64 can hold.
var ErrIndexTooLarge = errors.New("index exceeds the computation limit")

// ComputationError reports a failed computation together with the index
// that caused it. The handler logs it and shows the client a generic message.
type ComputationError struct {
	Index string
	Cause error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computing F(%s): %v", e.Index, e.Cause)
}

func (e *ComputationError) Unwrap() error {
	return e.Cause
}

// FibonacciService runs Fibonacci computations.
//
// At most fibonacci.max_concurrent computations run at once; further
// callers wait for a slot until their context is done. Nothing is cached
// between calls.
type FibonacciService struct {
	server   *server.Server
	slots    *semaphore.Weighted
	maxIndex uint64

	compute func(n uint64) *big.Int
}

// NewFibonacciService builds the service from the server's config.
func NewFibonacciService(s *server.Server) (*FibonacciService, error) {
	maxConcurrent := s.Config.Fibonacci.MaxConcurrent
	if maxConcurrent < 1 {
		return nil, fmt.Errorf("fibonacci.max_concurrent must be at least 1, got %d", maxConcurrent)
	}

	return &FibonacciService{
		server:   s,
		slots:    semaphore.NewWeighted(int64(maxConcurrent)),
		maxIndex: s.Config.Fibonacci.MaxIndex,
		compute:  fibonacci.Fibonacci,
	}, nil
}

// Compute returns F(index).
//
// Every failure is a *ComputationError: the index is over the limit, ctx
// ended while waiting for a slot, or the computation panicked.
func (f *FibonacciService) Compute(ctx context.Context, index validation.ValidatedIndex) (result *big.Int, err error) {
	n, ok := index.Uint64()
	if !ok || (f.maxIndex > 0 && n > f.maxIndex) {
		return nil, f.fail(index, errors.WithStack(ErrIndexTooLarge))
	}

	if err := f.slots.Acquire(ctx, 1); err != nil {
		return nil, f.fail(index, errors.Wrap(err, "waiting for a computation slot"))
	}
	defer f.slots.Release(1)

	f.server.Metrics.ComputationsInFlight.Inc()
	defer f.server.Metrics.ComputationsInFlight.Dec()

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = f.fail(index, errors.Errorf("panic during computation: %v", r))
		}
	}()

	start := time.Now()
	result = f.compute(n)
	f.server.Metrics.ObserveCompute(time.Since(start))

	return result, nil
}

func (f *FibonacciService) fail(index validation.ValidatedIndex, cause error) error {
	return &ComputationError{Index: index.String(), Cause: cause}
}
