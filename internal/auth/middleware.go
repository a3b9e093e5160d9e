package auth

import (
	"net/http"
	"strings"

	"crowdfund/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	contextUserID  = "user_id"
	contextEmail   = "email"
	contextRole    = "user_role"
	contextAdminID = "admin_id"
)

// AuthMiddleware validates user access tokens and protects routes
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			return
		}

		claims, err := ValidateAccessToken(tokenString)
		if err != nil {
			logger.Debug("Auth: token validation failed: %v", err)
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		// Set user information in context
		c.Set(contextUserID, claims.UserID)
		c.Set(contextEmail, claims.Email)
		c.Set(contextRole, claims.Role)

		c.Next()
	}
}

// AdminMiddleware validates admin tokens
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			return
		}

		claims, err := ValidateAdminToken(tokenString)
		if err != nil {
			logger.Debug("Auth: admin token validation failed: %v", err)
			abortUnauthorized(c, "Invalid or expired admin token")
			return
		}

		c.Set(contextAdminID, claims.AdminID)
		c.Set(contextEmail, claims.Email)

		c.Next()
	}
}

// RequireRole rejects users whose token role is not role. Must run after
// AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if got, _ := GetUserRole(c); got != role {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Access denied for role " + got,
				"code":  "FORBIDDEN",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		abortUnauthorized(c, "Authorization header required")
		return "", false
	}

	// Extract token from "Bearer <token>" format
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		abortUnauthorized(c, "Invalid authorization header format. Expected: Bearer <token>")
		return "", false
	}

	return parts[1], true
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error": msg,
		"code":  "UNAUTHORIZED",
	})
	c.Abort()
}

// GetUserID retrieves the user ID from the context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(contextUserID)
	if !exists {
		return 0, false
	}

	id, ok := userID.(uint)
	return id, ok
}

// GetUserRole retrieves the role claim from the context
func GetUserRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(contextRole)
	if !exists {
		return "", false
	}

	r, ok := role.(string)
	return r, ok
}

// GetAdminID retrieves the admin ID from the context
func GetAdminID(c *gin.Context) (string, bool) {
	adminID, exists := c.Get(contextAdminID)
	if !exists {
		return "", false
	}

	id, ok := adminID.(string)
	return id, ok
}

// GetEmail retrieves the email claim from the context
func GetEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(contextEmail)
	if !exists {
		return "", false
	}

	e, ok := email.(string)
	return e, ok
}
