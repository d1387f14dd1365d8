package controllers

import (
	"net/http"

	"github.com/agentcommand/tracker/internal/app/models"
	"github.com/agentcommand/tracker/internal/app/models/dto"
	"github.com/agentcommand/tracker/internal/app/services"
	"github.com/agentcommand/tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

// UniversityController serves the catalog and custom universities
type UniversityController struct {
	universityService services.UniversityService
}

// NewUniversityController creates a new UniversityController
func NewUniversityController(universityService services.UniversityService) *UniversityController {
	return &UniversityController{universityService: universityService}
}

// ListUniversities returns catalog entries followed by custom entries
func (c *UniversityController) ListUniversities(ctx *gin.Context) {
	universities, err := c.universityService.ListUniversities(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(universities))
}

// GetUniversity returns one catalog or custom university
func (c *UniversityController) GetUniversity(ctx *gin.Context) {
	u, err := c.universityService.GetUniversity(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(u))
}

// AddCustomUniversity stores a custom university with every supplied field
func (c *UniversityController) AddCustomUniversity(ctx *gin.Context) {
	var u models.University
	if !middleware.BindJSON(ctx, &u) {
		return
	}

	created, err := c.universityService.AddCustomUniversity(ctx.Request.Context(), &u)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(created))
}

// ExtractUniversityInfo reads an admissions page into an unsaved draft
func (c *UniversityController) ExtractUniversityInfo(ctx *gin.Context) {
	var req dto.ExtractUniversityRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	draft, err := c.universityService.ExtractUniversityInfo(ctx.Request.Context(), req.URL)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(draft))
}
