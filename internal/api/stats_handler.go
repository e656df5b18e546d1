package api

import (
	"net/http"

	"ironhub/gym-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// StatsHandler holds the stats service dependency.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetStats returns the dashboard counters.
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.Collect(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to collect stats.")
		return
	}
	c.JSON(http.StatusOK, stats)
}
