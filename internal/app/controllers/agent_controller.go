package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/agentcommand/tracker/internal/app/models/dto"
	"github.com/agentcommand/tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ActionRunner executes one named AI action; *agent.Gateway implements it
type ActionRunner interface {
	Run(ctx context.Context, name string, payload json.RawMessage) (string, error)
}

// AgentController exposes the AI agent gateway
type AgentController struct {
	runner ActionRunner
}

// NewAgentController creates a new AgentController
func NewAgentController(runner ActionRunner) *AgentController {
	return &AgentController{runner: runner}
}

// Invoke runs {action, payload} and answers {result} or {error}
func (c *AgentController) Invoke(ctx *gin.Context) {
	var req dto.AgentRequest
	if !middleware.BindFlatJSON(ctx, &req) {
		return
	}

	result, err := c.runner.Run(ctx.Request.Context(), req.Action, req.Payload)
	if err != nil {
		middleware.HandleFlatError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AgentResponse{Result: result})
}
