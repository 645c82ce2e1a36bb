package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/shoriful-stack/HS-CRM-Server-MongoDb/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Pinger reports whether the backing store is reachable
type Pinger func(ctx context.Context) error

// HealthHandler serves liveness and readiness endpoints
type HealthHandler struct {
	serviceName string
	ping        Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(serviceName string, ping Pinger) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, ping: ping}
}

// Register mounts / and /health
func (h *HealthHandler) Register(e *echo.Echo) {
	e.GET("/", h.Root)
	e.GET("/health", h.Health)
}

// Root answers with a plain liveness string
func (h *HealthHandler) Root(c echo.Context) error {
	return c.String(http.StatusOK, "HS CRM server is running")
}

// Health pings the store and reports readiness
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		logger.FromContext(c).Warn("Health check failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"status":  "unavailable",
			"service": h.serviceName,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":  "ok",
		"service": h.serviceName,
	})
}
