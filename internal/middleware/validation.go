package middleware

import (
	"net/http"

	"github.com/agentcommand/tracker/internal/app/models/dto"
	"github.com/gin-gonic/gin"
)

// BindJSON binds and validates the request body into obj. On failure it
// writes a 400 response and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}

// BindFlatJSON is BindJSON for endpoints answering with the flat {error} body
func BindFlatJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, dto.FlatError{Error: dto.HandleValidationError(err).Message})
		return false
	}
	return true
}
