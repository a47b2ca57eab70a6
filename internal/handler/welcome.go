package handler

import (
	"github.com/deppfellow/fibonacci-api/internal/server"
	"github.com/labstack/echo/v4"
)

const WelcomeMessage = "Welcome to the Fibonacci API! See /docs for API documentation."

type MessageResponse struct {
	Message string `json:"message"`
}

type WelcomeHandler struct {
	Handler
}

func NewWelcomeHandler(s *server.Server) *WelcomeHandler {
	return &WelcomeHandler{
		Handler: NewHandler(s),
	}
}

// GetWelcome answers GET / with a pointer to the docs.
func (h *WelcomeHandler) GetWelcome(c echo.Context) (*MessageResponse, error) {
	return &MessageResponse{Message: WelcomeMessage}, nil
}
