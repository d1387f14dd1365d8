package middleware

import (
	"errors"
	"net/http"

	"github.com/agentcommand/tracker/internal/app/models/dto"
	"github.com/agentcommand/tracker/internal/pkg/apperrors"
	"github.com/agentcommand/tracker/internal/pkg/auth"
	"github.com/gin-gonic/gin"
)

// Context keys set by BearerAuth
const (
	ContextAgentID = "agentID"
	ContextEmail   = "email"
)

// AuthMiddleware verifies identity-provider bearer tokens
type AuthMiddleware struct {
	verifier *auth.TokenVerifier
}

// NewAuthMiddleware creates a new AuthMiddleware. A nil verifier disables verification.
func NewAuthMiddleware(verifier *auth.TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Enabled reports whether tokens are checked
func (m *AuthMiddleware) Enabled() bool {
	return m != nil && m.verifier != nil
}

// BearerAuth rejects requests without a valid token and stores the agent id in the context
func (m *AuthMiddleware) BearerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.Enabled() {
			c.Next()
			return
		}

		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Authorization header missing or malformed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, err := m.verifier.Verify(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			errorDetails := "Invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				errorCode = dto.ErrorCodeExpiredToken
				errorDetails = "Token has expired"
			}
			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed").WithDetails(errorDetails)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(ContextAgentID, claims.Subject)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}
