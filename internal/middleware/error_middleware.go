package middleware

import (
	"errors"
	"net/http"

	"github.com/agentcommand/tracker/internal/app/models/dto"
	"github.com/agentcommand/tracker/internal/pkg/apperrors"
	"github.com/agentcommand/tracker/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ErrorStatus maps an error onto its HTTP status and error code
func ErrorStatus(err error) (int, dto.ErrorCode) {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.ErrorCodeConflict
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.ErrorCodeExpiredToken
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidToken
	case errors.Is(err, apperrors.ErrInvalidAction):
		return http.StatusBadRequest, dto.ErrorCodeInvalidAction
	case errors.Is(err, apperrors.ErrUnsupportedChannel):
		return http.StatusBadRequest, dto.ErrorCodeUnsupportedChannel
	case errors.Is(err, apperrors.ErrRecipientRequired):
		return http.StatusBadRequest, dto.ErrorCodeRecipientRequired
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed
	case errors.Is(err, apperrors.ErrConfiguration):
		return http.StatusServiceUnavailable, dto.ErrorCodeConfiguration
	case apperrors.Is(err, apperrors.ErrTransport, apperrors.ErrUpstream):
		return http.StatusBadGateway, dto.ErrorCodeExternalServiceError
	case errors.Is(err, apperrors.ErrParse):
		return http.StatusBadGateway, dto.ErrorCodeInvalidDataFormat
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer
	}
}

// HandleAPIError writes the standard error envelope for err. Messages of
// internal errors are logged, never returned.
func HandleAPIError(c *gin.Context, err error) {
	status, code := ErrorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		message = "Internal server error"
	}
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}

// HandleFlatError writes {"error": message} with status 400, the contract of
// the agent and notification endpoints
func HandleFlatError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.FlatError{Error: err.Error()})
}
