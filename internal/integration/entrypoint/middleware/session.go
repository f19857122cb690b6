// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dispatch-hub/backend/internal/application/usecase/auth"
	domainerror "github.com/dispatch-hub/backend/internal/domain/error"
	"github.com/dispatch-hub/backend/internal/integration/entrypoint/dto"
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID.
	UserIDKey ContextKey = "user_id"
	// SessionTokenKey is the context key for the presented session token.
	SessionTokenKey ContextKey = "session_token"
)

const bearerPrefix = "Bearer "

// SessionMiddleware authenticates requests by their session token.
type SessionMiddleware struct {
	validateSession *auth.ValidateSessionUseCase
}

// NewSessionMiddleware creates a new session middleware instance.
func NewSessionMiddleware(validateSession *auth.ValidateSessionUseCase) *SessionMiddleware {
	return &SessionMiddleware{
		validateSession: validateSession,
	}
}

// Authenticate returns a Gin middleware handler that requires a valid session.
func (m *SessionMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			AbortMissingToken(c)
			return
		}

		output, err := m.validateSession.Execute(c.Request.Context(), auth.ValidateSessionInput{
			SessionToken: token,
		})
		if err != nil {
			if domainerror.KindOf(err) == domainerror.KindInternal {
				slog.ErrorContext(c.Request.Context(), "Session validation failed", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Error: "An internal error occurred",
					Code:  string(domainerror.ErrCodeInternal),
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "Invalid or expired session",
				Code:  string(domainerror.ErrCodeSessionNotFound),
			})
			return
		}
		if !output.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "Invalid or expired session",
				Code:  string(domainerror.ErrCodeInvalidSession),
			})
			return
		}

		c.Set(string(UserIDKey), output.UserID)
		c.Set(string(SessionTokenKey), token)

		c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
	return token, token != ""
}

// AbortMissingToken rejects a request that carries no usable bearer token.
func AbortMissingToken(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: "Authorization header with a bearer session token is required",
		Code:  string(domainerror.ErrCodeMissingToken),
	})
}

// GetUserIDFromContext extracts the user ID from the Gin context.
func GetUserIDFromContext(c *gin.Context) (int, bool) {
	userID, exists := c.Get(string(UserIDKey))
	if !exists {
		return 0, false
	}
	id, ok := userID.(int)
	return id, ok
}
