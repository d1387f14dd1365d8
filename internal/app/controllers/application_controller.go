package controllers

import (
	"net/http"

	"github.com/agentcommand/tracker/internal/app/models/dto"
	"github.com/agentcommand/tracker/internal/app/services"
	"github.com/agentcommand/tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ApplicationController handles applications and their document checklists
type ApplicationController struct {
	lifecycleService services.LifecycleService
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(lifecycleService services.LifecycleService) *ApplicationController {
	return &ApplicationController{lifecycleService: lifecycleService}
}

// AddApplication creates an application for the student in the path
func (c *ApplicationController) AddApplication(ctx *gin.Context) {
	var req dto.CreateApplicationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	app, err := c.lifecycleService.AddApplication(ctx.Request.Context(), ctx.Param("id"), services.AddApplicationInput{
		UniversityID:   req.UniversityID,
		UniversityName: req.UniversityName,
		Program:        req.Program,
		Deadline:       req.Deadline,
		Notes:          req.Notes,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewApplicationResponse(app)))
}

// ListApplications returns the student's applications, newest first
func (c *ApplicationController) ListApplications(ctx *gin.Context) {
	apps, err := c.lifecycleService.ListApplications(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewApplicationListResponse(apps)))
}

// GetApplication returns one application
func (c *ApplicationController) GetApplication(ctx *gin.Context) {
	app, err := c.lifecycleService.GetApplication(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewApplicationResponse(app)))
}

// UpdateApplication edits university name, program, deadline, notes and status
func (c *ApplicationController) UpdateApplication(ctx *gin.Context) {
	var req dto.UpdateApplicationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	app, err := c.lifecycleService.UpdateApplication(ctx.Request.Context(), ctx.Param("id"), services.UpdateApplicationInput{
		UniversityName: req.UniversityName,
		Program:        req.Program,
		Deadline:       req.Deadline,
		Notes:          req.Notes,
		Status:         req.Status,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewApplicationResponse(app)))
}

// DeleteApplication removes an application
func (c *ApplicationController) DeleteApplication(ctx *gin.Context) {
	if err := c.lifecycleService.DeleteApplication(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "Application deleted"})
}

// SetStatus sets the application status
func (c *ApplicationController) SetStatus(ctx *gin.Context) {
	var req dto.SetStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	app, err := c.lifecycleService.SetApplicationStatus(ctx.Request.Context(), ctx.Param("id"), req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewApplicationResponse(app)))
}

// ToggleDocument advances one checklist document to its next status. The
// body is optional; a conflicting concurrent toggle answers 409.
func (c *ApplicationController) ToggleDocument(ctx *gin.Context) {
	var req dto.ToggleDocumentRequest
	if ctx.Request.ContentLength > 0 {
		if !middleware.BindJSON(ctx, &req) {
			return
		}
	}

	app, err := c.lifecycleService.ToggleDocumentStatus(ctx.Request.Context(), ctx.Param("id"), ctx.Param("docId"), req.Current)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewApplicationResponse(app)))
}

// InitializeChecklist seeds the standard checklist on an application that has none
func (c *ApplicationController) InitializeChecklist(ctx *gin.Context) {
	app, err := c.lifecycleService.InitializeChecklist(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewApplicationResponse(app)))
}
