package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skylark-app/feedback-backend/config"
	"github.com/skylark-app/feedback-backend/services"
	"github.com/skylark-app/feedback-backend/types"
)

type HealthHandler struct {
	healthService *services.HealthService
	cfg           *config.Config
}

func NewHealthHandler(healthService *services.HealthService, cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
		cfg:           cfg,
	}
}

// Health reports liveness, per-component status, and a masked config summary.
func (h *HealthHandler) Health(c *gin.Context) {
	health := h.healthService.CheckHealth(c.Request.Context())
	health.Config = h.cfg.Summary()

	if health.Status == types.HealthStatusDown {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	c.JSON(http.StatusOK, health)
}

// Liveness handles bare liveness probes.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.Status(http.StatusOK)
}
