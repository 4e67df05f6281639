package middleware

import (
	"net/http"
	"strings"

	"Doubts_Clearance/internal/model"
	"Doubts_Clearance/internal/pkg"
	"Doubts_Clearance/internal/repository/mysql"
	"Doubts_Clearance/internal/repository/redis"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey = "user_id"
	ContextRoleKey   = "role"
)

// AuthMiddleware verifies the Bearer token, matches it against the redis
// session mirror (single active session per user) and blocks suspended
// accounts before any handler runs.
func AuthMiddleware(tokens *pkg.TokenIssuer, sessions *redis.UserRepository, users *mysql.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization format"})
			c.Abort()
			return
		}
		tokenStr := parts[1]

		claims, err := tokens.ParseAccess(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired token"})
			c.Abort()
			return
		}

		originToken, err := sessions.GetUserToken(c.Request.Context(), claims.UserID)
		if err != nil || originToken != tokenStr {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "account has been logged in elsewhere"})
			c.Abort()
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "user not found"})
			c.Abort()
			return
		}
		if user.IsSuspended() {
			c.JSON(http.StatusForbidden, gin.H{"msg": "account suspended"})
			c.Abort()
			return
		}

		if err := sessions.ExtendUserToken(c.Request.Context(), claims.UserID); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextRoleKey, user.Role)
		c.Next()
	}
}

// RequireAdmin gates moderation routes. Must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(ContextRoleKey)
		if role != model.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"msg": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID reads the authenticated user id injected by AuthMiddleware.
func UserID(c *gin.Context) uint64 {
	v, _ := c.Get(ContextUserIDKey)
	id, _ := v.(uint64)
	return id
}

// Role reads the authenticated user's role.
func Role(c *gin.Context) string {
	v, _ := c.Get(ContextRoleKey)
	role, _ := v.(string)
	return role
}
