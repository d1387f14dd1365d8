package controllers

import (
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/agentcommand/tracker/internal/app/models/dto"
	"github.com/agentcommand/tracker/internal/app/services"
	"github.com/agentcommand/tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

// DocumentController handles uploaded student documents
type DocumentController struct {
	documentService services.DocumentService
}

// NewDocumentController creates a new DocumentController
func NewDocumentController(documentService services.DocumentService) *DocumentController {
	return &DocumentController{documentService: documentService}
}

// UploadDocument stores the multipart "file" field for the student in the path
func (c *DocumentController) UploadDocument(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "File is required").
			WithField("file").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, fmt.Errorf("open upload: %w", err))
		return
	}
	defer file.Close()

	doc, err := c.documentService.UploadDocument(ctx.Request.Context(), services.UploadInput{
		StudentID:   ctx.Param("id"),
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     file,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(doc))
}

// ListDocuments returns the student's documents, newest first
func (c *DocumentController) ListDocuments(ctx *gin.Context) {
	docs, err := c.documentService.ListDocuments(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(docs))
}

// DeleteDocument removes the stored file and then its record
func (c *DocumentController) DeleteDocument(ctx *gin.Context) {
	if err := c.documentService.DeleteDocument(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "Document deleted"})
}

// DocumentURL returns a signed, expiring download link
func (c *DocumentController) DocumentURL(ctx *gin.Context) {
	signed, err := c.documentService.DocumentURL(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.DocumentURLResponse{
		URL:       signed.URL,
		ExpiresAt: signed.ExpiresAt,
	}))
}

// DownloadFile streams a stored file when the token query parameter is valid for its key
func (c *DocumentController) DownloadFile(ctx *gin.Context) {
	key := strings.TrimPrefix(ctx.Param("path"), "/")

	rc, err := c.documentService.OpenFile(ctx.Request.Context(), key, ctx.Query("token"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ctx.DataFromReader(http.StatusOK, -1, contentType, rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", path.Base(key)),
	})
}
