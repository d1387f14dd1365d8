package controllers

import (
	"net/http"

	"github.com/agentcommand/tracker/internal/app/models/dto"
	"github.com/agentcommand/tracker/internal/app/services"
	"github.com/agentcommand/tracker/internal/middleware"
	"github.com/agentcommand/tracker/internal/pkg/agent"
	"github.com/gin-gonic/gin"
)

// AdvisorController serves AI help for a single student
type AdvisorController struct {
	advisorService services.AdvisorService
}

// NewAdvisorController creates a new AdvisorController
func NewAdvisorController(advisorService services.AdvisorService) *AdvisorController {
	return &AdvisorController{advisorService: advisorService}
}

// GenerateReport returns a markdown status report for the student
func (c *AdvisorController) GenerateReport(ctx *gin.Context) {
	report, err := c.advisorService.GenerateReport(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ReportResponse{Report: report}))
}

// Brainstorm returns parsed suggestions in universities mode, otherwise markdown text
func (c *AdvisorController) Brainstorm(ctx *gin.Context) {
	var req dto.BrainstormRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.advisorService.Brainstorm(ctx.Request.Context(), ctx.Param("id"), agent.BrainstormMode(req.Mode), req.UserNotes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}
