package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	computeCmd.SetContext(context.Background())
}

func TestComputeCommand(t *testing.T) {
	t.Setenv("FIB_OBSERVABILITY__LOGGING__LEVEL", "error")

	var out bytes.Buffer
	computeCmd.SetOut(&out)
	t.Cleanup(func() { computeCmd.SetOut(nil) })

	require.NoError(t, runCompute(computeCmd, []string{"10"}))
	assert.Equal(t, "55\n", out.String())
}

func TestComputeCommandRejections(t *testing.T) {
	tests := map[string]string{
		"abc":  "Bad request. Input 'n' must be a positive integer (>= 1). Received: abc",
		"0":    "Bad request. Input 'n' must be a positive integer (>= 1). Received: 0",
		"3.14": "Bad request. Input 'n' must be a positive integer (>= 1). Received: 3.14",
	}

	for input, message := range tests {
		t.Run(input, func(t *testing.T) {
			err := runCompute(computeCmd, []string{input})
			assert.EqualError(t, err, message)
		})
	}
}

func TestComputeCommandOverLimit(t *testing.T) {
	t.Setenv("FIB_OBSERVABILITY__LOGGING__LEVEL", "error")
	t.Setenv("FIB_FIBONACCI__MAX_INDEX", "5")

	err := runCompute(computeCmd, []string{"6"})
	assert.EqualError(t, err, "Internal server error during calculation.")
}
