package handler

import (
	"net/http"
	"time"

	"github.com/deppfellow/fibonacci-api/internal/errs"
	"github.com/deppfellow/fibonacci-api/internal/middleware"
	"github.com/deppfellow/fibonacci-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
)

// Handler holds the dependencies shared by every concrete handler.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint that reads what it needs from the request
// and returns a response body or an error.
type HandlerFunc[Res any] func(c echo.Context) (Res, error)

// handleRequest is the pipeline shared by typed endpoints. It handles
// logging, New Relic attributes, phase timings and response writing.
//
// An *errs.HTTPError from the endpoint is a decided client answer: it is
// written here and the request counts as handled. Any other error goes on
// to the global error handler.
func handleRequest[Res any](c echo.Context, fn HandlerFunc[Res], status int) error {
	start := time.Now()
	route := c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", "handler").
		Str("route", route).
		Logger()

	logger.Debug().Msg("handling request")

	result, err := fn(c)
	handlerDuration := time.Since(start)

	if err != nil {
		var httpErr *errs.HTTPError
		if errors.As(err, &httpErr) {
			e := logger.Warn()
			if httpErr.Status >= http.StatusInternalServerError {
				e = logger.Error()
			}
			e.Err(err).
				Int("status", httpErr.Status).
				Str("error_code", httpErr.Code).
				Dur("handler_duration", handlerDuration).
				Msg("request rejected")

			if txn != nil {
				txn.NoticeError(nrpkgerrors.Wrap(err))
				txn.AddAttribute("handler.status", "rejected")
				txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			}

			return c.JSON(httpErr.Status, httpErr)
		}

		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		}

		return err
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
	}

	logger.Debug().
		Dur("handler_duration", handlerDuration).
		Msg("request completed successfully")

	return c.JSON(status, result)
}

// Handle adapts a typed endpoint into an echo.HandlerFunc.
//
//	r.GET("/fib", handler.Handle(h.Fibonacci.Handler, h.Fibonacci.GetFibonacci, http.StatusOK))
func Handle[Res any](h Handler, fn HandlerFunc[Res], status int) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, fn, status)
	}
}
