// Package router builds the Echo instance: error handler, serializer,
// middleware chain and the route table.
package router

import (
	"net/http"

	"github.com/deppfellow/fibonacci-api/internal/handler"
	"github.com/deppfellow/fibonacci-api/internal/middleware"
	"github.com/deppfellow/fibonacci-api/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter returns a ready-to-serve Echo instance.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler
	router.JSONSerializer = handler.JSONSerializer{}

	// Request-scoped logging is set up before anything that can reject the
	// request, so denials are logged with a request ID.
	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.RateLimit.Limit(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
	)

	registerSystemRoutes(router, s, h)

	router.GET("/", handler.Handle(h.Welcome.Handler, h.Welcome.GetWelcome, http.StatusOK))
	router.GET("/fib", handler.Handle(h.Fibonacci.Handler, h.Fibonacci.GetFibonacci, http.StatusOK))

	return router
}
