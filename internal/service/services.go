package service

import (
	"github.com/deppfellow/fibonacci-api/internal/server"
)

// Services groups every business service so router setup passes one value around.
type Services struct {
	Fibonacci *FibonacciService
}

// NewService constructs all services from the application container.
func NewService(s *server.Server) (*Services, error) {
	fibonacciService, err := NewFibonacciService(s)
	if err != nil {
		return nil, err
	}

	return &Services{
		Fibonacci: fibonacciService,
	}, nil
}
