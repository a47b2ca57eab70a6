package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/fibonacci-api/internal/config"
	"github.com/deppfellow/fibonacci-api/internal/errs"
	"github.com/deppfellow/fibonacci-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, logger zerolog.Logger) *server.Server {
	t.Helper()

	s, err := server.New(config.DefaultConfig(), &logger, nil)
	require.NoError(t, err)

	return s
}

func TestIsValidRequestID(t *testing.T) {
	assert.True(t, isValidRequestID("abc-123"))
	assert.False(t, isValidRequestID(""))
	assert.False(t, isValidRequestID("has space"))
	assert.False(t, isValidRequestID("line\nbreak"))
	assert.False(t, isValidRequestID(strings.Repeat("a", maxRequestIDLength+1)))
}

func TestRequestIDGeneratesAndEchoes(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "bad id")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	err := RequestID()(func(c echo.Context) error {
		seen = GetRequestID(c)
		return nil
	})(c)

	require.NoError(t, err)
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestEnhanceContextAttachesLogger(t *testing.T) {
	var buf bytes.Buffer
	s := newTestServer(t, zerolog.New(&buf))

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/fib?n=1", nil), httptest.NewRecorder())
	c.Set(RequestIDKey, "req-1")

	err := NewContextEnhancer(s).EnhanceContext()(func(c echo.Context) error {
		GetLogger(c).Info().Msg("from echo")
		LoggerFromContext(c.Request().Context()).Info().Msg("from context")
		return nil
	})(c)

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Contains(t, line, `"request_id":"req-1"`)
		assert.Contains(t, line, `"method":"GET"`)
	}
}

func TestLoggersDefaultToNop(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.NotNil(t, GetLogger(c))
	assert.NotNil(t, LoggerFromContext(context.Background()))
}

func TestGlobalErrorHandler(t *testing.T) {
	s := newTestServer(t, zerolog.Nop())
	global := NewGlobalMiddlewares(s)

	tests := []struct {
		name string
		err  error
		want string
		code int
	}{
		{
			name: "echo not found",
			err:  echo.ErrNotFound,
			code: http.StatusNotFound,
			want: `{"status":404,"message":"Route not found"}`,
		},
		{
			name: "method not allowed",
			err:  echo.ErrMethodNotAllowed,
			code: http.StatusMethodNotAllowed,
			want: `{"status":405,"message":"Method Not Allowed"}`,
		},
		{
			name: "http error",
			err:  errs.NewTooManyRequestsError(RateLimitMessage),
			code: http.StatusTooManyRequests,
			want: `{"status":429,"message":"Too many requests. Please try again later."}`,
		},
		{
			name: "wrapped http error",
			err:  errors.Wrap(errs.NewBadRequestError("bad", nil), "context"),
			code: http.StatusBadRequest,
			want: `{"status":400,"message":"bad"}`,
		},
		{
			name: "unknown error hides details",
			err:  errors.New("database password is hunter2"),
			code: http.StatusInternalServerError,
			want: `{"status":500,"message":"Internal Server Error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			global.GlobalErrorHandler(tt.err, c)

			assert.Equal(t, tt.code, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestGlobalErrorHandlerSkipsCommittedResponses(t *testing.T) {
	s := newTestServer(t, zerolog.Nop())

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, c.String(http.StatusOK, "done"))

	NewGlobalMiddlewares(s).GlobalErrorHandler(errors.New("late"), c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}

func TestLimitDisabledByDefault(t *testing.T) {
	s := newTestServer(t, zerolog.Nop())
	limit := NewRateLimitMiddleware(s).Limit()

	e := echo.New()
	calls := 0
	next := func(c echo.Context) error {
		calls++
		return nil
	}

	for i := 0; i < 50; i++ {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/fib", nil), httptest.NewRecorder())
		require.NoError(t, limit(next)(c))
	}
	assert.Equal(t, 50, calls)
}

func TestRecordRateLimitHit(t *testing.T) {
	s := newTestServer(t, zerolog.Nop())

	NewRateLimitMiddleware(s).RecordRateLimitHit("/fib")

	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics.RateLimitHits.WithLabelValues("/fib")))
}

func TestNewRelicMiddlewareNoop(t *testing.T) {
	s := newTestServer(t, zerolog.Nop())
	mws := NewMiddlewares(s)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	called := false
	h := mws.Tracing.NewRelicMiddleware()(mws.Tracing.EnhanceTracing()(func(c echo.Context) error {
		called = true
		return nil
	}))

	require.NoError(t, h(c))
	assert.True(t, called)
}

func TestIndexAttributeIsCapped(t *testing.T) {
	assert.Equal(t, "42", indexAttribute("42"))
	assert.Len(t, indexAttribute(strings.Repeat("9", 1000)), maxIndexAttributeLength)
}

func TestTracingWithTransaction(t *testing.T) {
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName("fibonacci-api-test"),
		newrelic.ConfigEnabled(false),
	)
	require.NoError(t, err)

	s := newTestServer(t, zerolog.Nop())
	tm := NewTracingMiddleware(s, app)

	txn := app.StartTransaction("GET /fib")
	defer txn.End()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/fib?n=%zz", nil)
	req = req.WithContext(newrelic.NewContext(req.Context(), txn))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err = tm.EnhanceTracing()(func(c echo.Context) error {
		called = true
		RecordOutcome(c, "not_an_integer")
		return c.NoContent(http.StatusBadRequest)
	})(c)

	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordOutcomeWithoutTransaction(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/fib?n=1", nil), httptest.NewRecorder())

	assert.NotPanics(t, func() { RecordOutcome(c, "success") })
}
