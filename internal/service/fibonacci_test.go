package service

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/deppfellow/fibonacci-api/internal/config"
	"github.com/deppfellow/fibonacci-api/internal/server"
	"github.com/deppfellow/fibonacci-api/internal/validation"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, mutate func(cfg *config.Config)) *FibonacciService {
	t.Helper()

	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}

	logger := zerolog.Nop()
	s, err := server.New(cfg, &logger, nil)
	require.NoError(t, err)

	svc, err := NewFibonacciService(s)
	require.NoError(t, err)

	return svc
}

func mustIndex(t *testing.T, text string) validation.ValidatedIndex {
	t.Helper()

	valid, ok := validation.Validate(validation.Present(text)).(validation.Valid)
	require.True(t, ok, "%q should validate", text)

	return valid.Index
}

func TestComputeReturnsFibonacci(t *testing.T) {
	svc := newTestService(t, nil)

	result, err := svc.Compute(context.Background(), mustIndex(t, "10"))
	require.NoError(t, err)
	assert.Equal(t, "55", result.String())

	result, err = svc.Compute(context.Background(), mustIndex(t, "99"))
	require.NoError(t, err)
	assert.Equal(t, "218922995834555169026", result.String())

	assert.Equal(t, 0.0, testutil.ToFloat64(svc.server.Metrics.ComputationsInFlight))
}

func TestComputeRejectsIndexOverLimit(t *testing.T) {
	svc := newTestService(t, func(cfg *config.Config) {
		cfg.Fibonacci.MaxIndex = 100
	})

	_, err := svc.Compute(context.Background(), mustIndex(t, "100"))
	require.NoError(t, err)

	_, err = svc.Compute(context.Background(), mustIndex(t, "101"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIndexTooLarge))

	var compErr *ComputationError
	require.True(t, errors.As(err, &compErr))
	assert.Equal(t, "101", compErr.Index)
}

func TestComputeHasNoLimitByDefault(t *testing.T) {
	svc := newTestService(t, nil)
	svc.compute = func(n uint64) *big.Int { return new(big.Int).SetUint64(n) }

	for _, text := range []string{"1000001", "18446744073709551615"} {
		result, err := svc.Compute(context.Background(), mustIndex(t, text))
		require.NoError(t, err, text)
		assert.Equal(t, text, result.String())
	}
}

func TestComputeRejectsIndexBeyondUint64WithoutLimit(t *testing.T) {
	svc := newTestService(t, func(cfg *config.Config) {
		cfg.Fibonacci.MaxIndex = 0
	})

	_, err := svc.Compute(context.Background(), mustIndex(t, "18446744073709551616"))
	assert.True(t, errors.Is(err, ErrIndexTooLarge))
}

func TestComputeWaitsForSlot(t *testing.T) {
	svc := newTestService(t, func(cfg *config.Config) {
		cfg.Fibonacci.MaxConcurrent = 1
	})

	started := make(chan struct{})
	release := make(chan struct{})
	svc.compute = func(n uint64) *big.Int {
		close(started)
		<-release
		return big.NewInt(int64(n))
	}

	done := make(chan error, 1)
	go func() {
		_, err := svc.Compute(context.Background(), mustIndex(t, "5"))
		done <- err
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.Compute(ctx, mustIndex(t, "6"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	var compErr *ComputationError
	require.True(t, errors.As(err, &compErr))
	assert.Equal(t, "6", compErr.Index)

	close(release)
	assert.NoError(t, <-done)
}

func TestComputeRecoversPanics(t *testing.T) {
	svc := newTestService(t, nil)
	svc.compute = func(uint64) *big.Int {
		panic("out of memory")
	}

	result, err := svc.Compute(context.Background(), mustIndex(t, "7"))
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic during computation: out of memory")
	assert.Equal(t, 0.0, testutil.ToFloat64(svc.server.Metrics.ComputationsInFlight))

	// The slot was released, so the next call still runs.
	svc.compute = func(n uint64) *big.Int { return big.NewInt(int64(n)) }
	_, err = svc.Compute(context.Background(), mustIndex(t, "7"))
	assert.NoError(t, err)
}

func TestNewFibonacciServiceRejectsZeroConcurrency(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Fibonacci.MaxConcurrent = 0

	logger := zerolog.Nop()
	s, err := server.New(cfg, &logger, nil)
	require.NoError(t, err)

	_, err = NewFibonacciService(s)
	assert.Error(t, err)
}
