package handler

import (
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/deppfellow/fibonacci-api/internal/fibonacci"
	"github.com/deppfellow/fibonacci-api/internal/middleware"
	"github.com/deppfellow/fibonacci-api/internal/server"
	"github.com/labstack/echo/v4"
)

// selfCheckIndex and selfCheckValue pin a known Fibonacci value the engine
// must reproduce for the service to report healthy.
const selfCheckIndex = 10

var selfCheckValue = big.NewInt(55)

// HealthHandler serves /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
	engine func(n uint64) *big.Int
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
		engine:  fibonacci.Fibonacci,
	}
}

// CheckHealth reports overall status and an engine self-check.
//
// It returns 200 when every check passes and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      make(map[string]interface{}),
	}

	checks := response["checks"].(map[string]interface{})
	isHealthy := true

	engineStart := time.Now()
	if err := h.checkEngine(); err != nil {
		checks["fibonacci"] = map[string]interface{}{
			"status":        "unhealthy",
			"response_time": time.Since(engineStart).String(),
			"error":         err.Error(),
		}

		isHealthy = false

		logger.Error().
			Err(err).
			Dur("response_time", time.Since(engineStart)).
			Msg("fibonacci health check failed")

		h.server.RecordCustomEvent("HealthCheckError", map[string]interface{}{
			"check_type":       "fibonacci",
			"operation":        "health_check",
			"error_type":       "engine_unhealthy",
			"response_time_ms": time.Since(engineStart).Milliseconds(),
			"error_message":    err.Error(),
		})
	} else {
		checks["fibonacci"] = map[string]interface{}{
			"status":        "healthy",
			"response_time": time.Since(engineStart).String(),
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) checkEngine() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine panicked: %v", r)
		}
	}()

	got := h.engine(selfCheckIndex)
	if got == nil || got.Cmp(selfCheckValue) != 0 {
		return fmt.Errorf("F(%d) = %v, want %s", selfCheckIndex, got, selfCheckValue)
	}
	return nil
}
