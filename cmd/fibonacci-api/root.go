package main

import (
	"fmt"
	"os"

	"github.com/deppfellow/fibonacci-api/internal/config"
	"github.com/deppfellow/fibonacci-api/internal/logger"
	"github.com/deppfellow/fibonacci-api/internal/server"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fibonacci-api",
	Short: "HTTP API that returns the n-th Fibonacci number",
	Long: `fibonacci-api serves GET /fib?n=<index> and answers with the exact
Fibonacci number for any positive index. Configuration is read from FIB_*
environment variables and an optional .env file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(computeCmd)
}

// bootstrap loads configuration and builds the application container shared
// by every subcommand.
func bootstrap() (*server.Server, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	loggerService := logger.NewLoggerService(&cfg.Observability)
	log := logger.NewLoggerWithService(&cfg.Observability, loggerService)

	s, err := server.New(cfg, &log, loggerService)
	if err != nil {
		loggerService.Shutdown()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return s, nil
}

// quietLogger points the server logger at stderr and drops everything below
// warn, so one-shot commands keep stdout for their result.
func quietLogger(s *server.Server) {
	l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !isatty.IsTerminal(os.Stderr.Fd())}).
		Level(zerolog.WarnLevel).
		With().
		Timestamp().
		Logger()
	s.Logger = &l
}
