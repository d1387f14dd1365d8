package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agentcommand/tracker/internal/app/models/dto"
	"github.com/agentcommand/tracker/internal/pkg/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"not found", apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"conflict", apperrors.NewConflictError("checklist changed"), http.StatusConflict, dto.ErrorCodeConflict},
		{"validation", apperrors.NewValidationError("name cannot be empty"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"wrapped validation", fmt.Errorf("%w: bad", apperrors.ErrValidationFailed), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"expired", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"invalid action", apperrors.NewCustomError(apperrors.ErrInvalidAction, "Invalid action"), http.StatusBadRequest, dto.ErrorCodeInvalidAction},
		{"recipient", apperrors.NewCustomError(apperrors.ErrRecipientRequired, "Telegram Chat ID required"), http.StatusBadRequest, dto.ErrorCodeRecipientRequired},
		{"configuration", apperrors.NewConfigurationError("GEMINI_API_KEY is not set"), http.StatusServiceUnavailable, dto.ErrorCodeConfiguration},
		{"upstream", fmt.Errorf("%w: 500", apperrors.ErrUpstream), http.StatusBadGateway, dto.ErrorCodeExternalServiceError},
		{"parse", apperrors.NewCustomError(apperrors.ErrParse, "AI returned invalid data format"), http.StatusBadGateway, dto.ErrorCodeInvalidDataFormat},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := ErrorStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestHandleAPIErrorHidesInternalMessages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	HandleAPIError(c, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRateLimiterKeysByCaller(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 2)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("a"))
	assert.True(t, rl.allow("a"))
	assert.False(t, rl.allow("a"), "burst spent")
	assert.True(t, rl.allow("b"), "separate bucket per caller")

	now = now.Add(time.Second)
	assert.True(t, rl.allow("a"), "one token refilled")

	now = now.Add(time.Hour)
	rl.allow("c")
	assert.NotContains(t, rl.visitors, "a", "idle callers are evicted")
}
