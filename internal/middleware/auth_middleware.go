package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// JWTAuth validates the bearer token and stores the caller's identity
// on the request context.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required")
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Token has expired")
				return
			}
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RoleRequired restricts a route to callers holding one of the given
// roles. Must run after JWTAuth.
func (m *AuthMiddleware) RoleRequired(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := CallerRole(c)
		if !ok {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required")
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeForbidden, "Insufficient role for this operation"),
		))
	}
}

// CallerID returns the authenticated user's ID from the context
func CallerID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// CallerRole returns the authenticated user's role from the context
func CallerRole(c *gin.Context) (models.RoleType, bool) {
	v, exists := c.Get(ContextRole)
	if !exists {
		return "", false
	}
	role, ok := v.(models.RoleType)
	return role, ok
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
		dto.NewErrorDetail(code, message),
	))
}
