package controllers

import (
	"net/http"

	"github.com/agentcommand/tracker/internal/app/models/dto"
	"github.com/agentcommand/tracker/internal/app/services"
	"github.com/agentcommand/tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

// StatsController serves the dashboard counters
type StatsController struct {
	statsService services.StatsService
}

// NewStatsController creates a new StatsController
func NewStatsController(statsService services.StatsService) *StatsController {
	return &StatsController{statsService: statsService}
}

// GetStats returns total, submitted, missing-docs and upcoming-deadline counts
func (c *StatsController) GetStats(ctx *gin.Context) {
	s, err := c.statsService.GetStats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(s))
}
