package router

import (
	"github.com/deppfellow/fibonacci-api/internal/handler"
	"github.com/deppfellow/fibonacci-api/internal/server"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the endpoints that are not part of the API
// itself: health, metrics and docs.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))

	// openapi.html and openapi.json, embedded in the binary.
	r.StaticFS("/static", handler.StaticFS())

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
