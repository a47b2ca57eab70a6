package server

import (
	"context"
	"testing"

	"github.com/deppfellow/fibonacci-api/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresDependencies(t *testing.T) {
	logger := zerolog.Nop()

	_, err := New(nil, &logger, nil)
	assert.Error(t, err)

	_, err = New(config.DefaultConfig(), nil, nil)
	assert.Error(t, err)
}

func TestStartWithoutSetup(t *testing.T) {
	logger := zerolog.Nop()
	s, err := New(config.DefaultConfig(), &logger, nil)
	require.NoError(t, err)

	assert.EqualError(t, s.Start(), "HTTP server not initialized")
}

func TestShutdownWithoutHTTPServer(t *testing.T) {
	logger := zerolog.Nop()
	s, err := New(config.DefaultConfig(), &logger, nil)
	require.NoError(t, err)

	assert.NoError(t, s.Shutdown(context.Background()))
	assert.False(t, s.NewRelicEnabled())
	assert.NotPanics(t, func() {
		s.RecordCustomEvent("Test", map[string]interface{}{"k": "v"})
	})
}
