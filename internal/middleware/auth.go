package middleware

import (
	"errors"
	"strings"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/jwt"
	"github.com/gin-gonic/gin"
)

const (
	userIDKey = "userID"
	roleKey   = "role"
)

// JWTAuth reads a bearer token when present. Requests without a token continue
// as anonymous visitors; a present but invalid token is rejected.
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			common.HandleError(c, common.ErrUnauthorized, false)
			c.Abort()
			return
		}

		claims, err := jwtManager.Verify(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				c.Header("WWW-Authenticate", `Bearer error="invalid_token", error_description="expired"`)
			}
			common.HandleError(c, common.ErrUnauthorized, false)
			c.Abort()
			return
		}

		role := domain.Role(claims.Role)
		if !role.AtLeast(domain.RoleUser) {
			role = domain.RoleUser
		}
		c.Set(userIDKey, claims.UserID)
		c.Set(roleKey, role)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests
func RequireAuth() gin.HandlerFunc {
	return RequireRole(domain.RoleUser)
}

// RequireRole rejects requests below the given role
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := GetViewer(c)
		if v.UserID == nil {
			common.HandleError(c, common.ErrUnauthorized, false)
			c.Abort()
			return
		}
		if !v.Role.AtLeast(role) {
			common.HandleError(c, common.ErrForbidden, false)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetViewer returns the caller; anonymous when no valid token was sent
func GetViewer(c *gin.Context) domain.Viewer {
	var v domain.Viewer
	if id, ok := c.Get(userIDKey); ok {
		if uid, ok := id.(uint64); ok {
			v.UserID = &uid
		}
	}
	if r, ok := c.Get(roleKey); ok {
		if role, ok := r.(domain.Role); ok {
			v.Role = role
		}
	}
	return v
}

// GetUserID extracts user ID from context, 0 for anonymous requests
func GetUserID(c *gin.Context) uint64 {
	if v := GetViewer(c); v.UserID != nil {
		return *v.UserID
	}
	return 0
}
