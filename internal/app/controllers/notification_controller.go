package controllers

import (
	"errors"
	"net/http"

	"github.com/agentcommand/tracker/internal/app/models/dto"
	"github.com/agentcommand/tracker/internal/app/services"
	"github.com/agentcommand/tracker/internal/middleware"
	"github.com/agentcommand/tracker/internal/pkg/notify"
	"github.com/gin-gonic/gin"
)

// NotificationController sends messages over the configured channels
type NotificationController struct {
	notificationService services.NotificationService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// Send dispatches to an explicit recipient. Failures of any kind answer 400 {error}.
func (c *NotificationController) Send(ctx *gin.Context) {
	var req dto.SendNotificationRequest
	if !middleware.BindFlatJSON(ctx, &req) {
		return
	}

	result := c.notificationService.Send(ctx.Request.Context(), notify.Channel(req.Channel), req.Recipient, req.Message)
	respondResult(ctx, result)
}

// NotifyStudent sends to the stored student's address for the channel
func (c *NotificationController) NotifyStudent(ctx *gin.Context) {
	var req dto.NotifyStudentRequest
	if !middleware.BindFlatJSON(ctx, &req) {
		return
	}

	result, err := c.notificationService.NotifyStudent(ctx.Request.Context(), ctx.Param("id"), notify.Channel(req.Channel), req.Message)
	if err != nil {
		status, _ := middleware.ErrorStatus(err)
		if status == http.StatusNotFound {
			ctx.JSON(http.StatusNotFound, dto.FlatError{Error: err.Error()})
			return
		}
		middleware.HandleFlatError(ctx, err)
		return
	}
	respondResult(ctx, result)
}

func respondResult(ctx *gin.Context, result notify.Result) {
	if !result.Success {
		middleware.HandleFlatError(ctx, errors.New(result.Message))
		return
	}
	ctx.JSON(http.StatusOK, dto.NotificationResponse{
		Success: true,
		Message: result.Message,
		Data:    result.Data,
	})
}
