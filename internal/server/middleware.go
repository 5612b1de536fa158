package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventbuddy/backend/internal/auth"
)

const (
	// loginKey is the gin context key for the authenticated user's login.
	loginKey = "login"
	// userIDKey is the gin context key for the authenticated user's ID.
	userIDKey = "user_id"
)

// callerLogin returns the authenticated login set by RequireAuth.
func callerLogin(c *gin.Context) string {
	return c.GetString(loginKey)
}

// RequireAuth validates the Bearer token and stores the caller's identity
// on the request context. Requests without a valid token are rejected.
func RequireAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthenticated",
				Message: auth.ErrMissingToken.Error(),
			})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthenticated",
				Message: auth.ErrInvalidToken.Error(),
			})
			return
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthenticated",
				Message: auth.ErrInvalidToken.Error(),
			})
			return
		}

		c.Set(loginKey, claims.Login)
		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// RequestLogging logs every request with method, path, status, caller and
// duration.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"login", callerLogin(c), // empty if pre-auth
			"duration_ms", time.Since(start).Milliseconds(),
		}
		switch {
		case status >= 500:
			slog.Error("Request failed", attrs...)
		case status >= 400:
			slog.Warn("Request rejected", attrs...)
		default:
			slog.Info("Request ok", attrs...)
		}
	}
}
