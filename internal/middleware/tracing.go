package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/fibonacci-api/internal/server"
	"github.com/deppfellow/fibonacci-api/internal/validation"
)

// maxIndexAttributeLength caps the n text copied onto a transaction; the
// agent would truncate longer values anyway.
const maxIndexAttributeLength = 255

// TracingMiddleware owns New Relic related Echo middleware.
//
// NewRelicMiddleware starts a transaction per request; EnhanceTracing then
// adds custom attributes and notices returned errors.
type TracingMiddleware struct {
	server *server.Server
	nrApp  *newrelic.Application
}

// NewTracingMiddleware constructs TracingMiddleware. nrApp may be nil.
func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	return &TracingMiddleware{
		server: s,
		nrApp:  nrApp,
	}
}

// NewRelicMiddleware returns the nrecho middleware, or a pass-through when
// New Relic is disabled.
func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}
	return nrecho.Middleware(tm.nrApp)
}

// EnhanceTracing adds client, request ID, environment, the supplied
// Fibonacci index text and the response status to the current transaction.
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			txn.AddAttribute("http.real_ip", c.RealIP())
			txn.AddAttribute("http.user_agent", c.Request().UserAgent())
			txn.AddAttribute("service.environment", tm.server.Config.Primary.Env)

			if requestID := GetRequestID(c); requestID != "" {
				txn.AddAttribute("request.id", requestID)
			}

			if text, ok := validation.FromQuery(c.QueryString(), validation.IndexKey).Text(); ok {
				txn.AddAttribute("fibonacci.n", indexAttribute(text))
				txn.AddAttribute("fibonacci.n_length", len(text))
			}

			err := next(c)
			if err != nil {
				txn.NoticeError(nrpkgerrors.Wrap(err))
			}

			txn.AddAttribute("http.status_code", c.Response().Status)

			return err
		}
	}
}

// RecordOutcome tags the current transaction with how a /fib request was
// answered: "success", "internal_error" or a validation error kind.
func RecordOutcome(c echo.Context, outcome string) {
	if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
		txn.AddAttribute("fibonacci.outcome", outcome)
	}
}

func indexAttribute(text string) string {
	if len(text) > maxIndexAttributeLength {
		return text[:maxIndexAttributeLength]
	}
	return text
}
