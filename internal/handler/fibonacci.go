package handler

import (
	"fmt"
	"math/big"

	"github.com/deppfellow/fibonacci-api/internal/errs"
	"github.com/deppfellow/fibonacci-api/internal/metrics"
	"github.com/deppfellow/fibonacci-api/internal/middleware"
	"github.com/deppfellow/fibonacci-api/internal/server"
	"github.com/deppfellow/fibonacci-api/internal/service"
	"github.com/deppfellow/fibonacci-api/internal/validation"
	"github.com/labstack/echo/v4"
)

const (
	missingIndexMessage = "Bad request. Query parameter 'n' (positive integer) is required."
	invalidIndexFormat  = "Bad request. Input 'n' must be a positive integer (>= 1). Received: %s"

	// CalculationFailedMessage is the only detail clients get about an
	// internal failure.
	CalculationFailedMessage = "Internal server error during calculation."
)

// rejection describes how one validation failure is answered.
type rejection struct {
	err *errs.HTTPError
	// format takes the raw input, except for Missing which has none.
	format string
}

var rejections = map[validation.ErrorKind]rejection{
	validation.Missing:      {err: errs.NewBadRequestError(missingIndexMessage, kindCode(validation.Missing)), format: missingIndexMessage},
	validation.NotAnInteger: {err: errs.NewBadRequestError(invalidIndexFormat, kindCode(validation.NotAnInteger)), format: invalidIndexFormat},
	validation.NotPositive:  {err: errs.NewBadRequestError(invalidIndexFormat, kindCode(validation.NotPositive)), format: invalidIndexFormat},
}

func kindCode(kind validation.ErrorKind) *string {
	code := errs.MakeUpperCaseWithUnderscores(kind.String())
	return &code
}

// RejectionFor builds the client error for an invalid outcome.
func RejectionFor(invalid validation.Invalid) *errs.HTTPError {
	r, ok := rejections[invalid.Kind]
	if !ok {
		return errs.NewInternalServerError(CalculationFailedMessage)
	}

	if invalid.Kind == validation.Missing {
		return r.err.WithMessage(r.format)
	}
	return r.err.WithMessage(fmt.Sprintf(r.format, invalid.Input))
}

// FibonacciResponse is the success body. big.Int marshals as an exact JSON
// number, however many digits it has.
type FibonacciResponse struct {
	Result *big.Int `json:"result"`
}

type FibonacciHandler struct {
	Handler
	fibonacciService *service.FibonacciService
}

func NewFibonacciHandler(s *server.Server, fibonacciService *service.FibonacciService) *FibonacciHandler {
	return &FibonacciHandler{
		Handler:          NewHandler(s),
		fibonacciService: fibonacciService,
	}
}

// GetFibonacci answers GET /fib?n=<index>.
func (h *FibonacciHandler) GetFibonacci(c echo.Context) (*FibonacciResponse, error) {
	raw := validation.FromQuery(c.QueryString(), validation.IndexKey)

	switch outcome := validation.Validate(raw).(type) {
	case validation.Invalid:
		h.record(c, outcome.Kind.String())
		return nil, RejectionFor(outcome)

	case validation.Valid:
		result, err := h.fibonacciService.Compute(c.Request().Context(), outcome.Index)
		if err != nil {
			h.record(c, metrics.OutcomeInternal)

			middleware.GetLogger(c).Error().
				Stack().
				Err(err).
				Str("index", outcome.Index.String()).
				Msg("fibonacci calculation failed")

			return nil, errs.NewInternalServerError(CalculationFailedMessage)
		}

		h.record(c, metrics.OutcomeSuccess)
		return &FibonacciResponse{Result: result}, nil

	default:
		return nil, errs.NewInternalServerError(CalculationFailedMessage)
	}
}

func (h *FibonacciHandler) record(c echo.Context, outcome string) {
	h.server.Metrics.RecordRequest(outcome)
	middleware.RecordOutcome(c, outcome)
}
