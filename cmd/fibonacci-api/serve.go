package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/fibonacci-api/internal/handler"
	"github.com/deppfellow/fibonacci-api/internal/router"
	"github.com/deppfellow/fibonacci-api/internal/service"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server on FIB_SERVER__PORT. SIGINT or SIGTERM stops
accepting new connections and waits for in-flight requests to finish.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := bootstrap()
	if err != nil {
		return err
	}

	services, err := service.NewService(s)
	if err != nil {
		s.Logger.Error().Err(err).Msg("failed to create services")
		_ = s.Shutdown(context.Background())
		return err
	}

	r := router.NewRouter(s, handler.NewHandlers(s, services))
	s.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.Start()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error().Err(err).Msg("server stopped unexpectedly")
			_ = s.Shutdown(context.Background())
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.Logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		s.Logger.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	s.Logger.Info().Msg("server exited properly")
	return nil
}
