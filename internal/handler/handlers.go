package handler

import (
	"github.com/deppfellow/fibonacci-api/internal/server"
	"github.com/deppfellow/fibonacci-api/internal/service"
)

// Handlers groups every HTTP handler for router setup.
type Handlers struct {
	Fibonacci *FibonacciHandler
	Welcome   *WelcomeHandler
	Health    *HealthHandler
	OpenAPI   *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Fibonacci: NewFibonacciHandler(s, services.Fibonacci),
		Welcome:   NewWelcomeHandler(s),
		Health:    NewHealthHandler(s),
		OpenAPI:   NewOpenAPIHandler(s),
	}
}
