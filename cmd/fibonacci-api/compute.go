package main

import (
	"fmt"

	"github.com/deppfellow/fibonacci-api/internal/handler"
	"github.com/deppfellow/fibonacci-api/internal/service"
	"github.com/deppfellow/fibonacci-api/internal/validation"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var computeCmd = &cobra.Command{
	Use:   "compute <n>",
	Short: "Print the n-th Fibonacci number",
	Long: `Validate n exactly like GET /fib does and print F(n) to stdout.
Rejections print the same message the API returns and exit with status 1.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompute,
}

func runCompute(cmd *cobra.Command, args []string) error {
	var index validation.ValidatedIndex
	switch outcome := validation.Validate(validation.Present(args[0])).(type) {
	case validation.Invalid:
		return errors.New(handler.RejectionFor(outcome).Message)
	case validation.Valid:
		index = outcome.Index
	}

	s, err := bootstrap()
	if err != nil {
		return err
	}
	defer s.Shutdown(cmd.Context())
	quietLogger(s)

	fibonacciService, err := service.NewFibonacciService(s)
	if err != nil {
		return err
	}

	result, err := fibonacciService.Compute(cmd.Context(), index)
	if err != nil {
		s.Logger.Error().Stack().Err(err).Str("index", index.String()).Msg("fibonacci calculation failed")
		return errors.New(handler.CalculationFailedMessage)
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.String())
	return nil
}
