package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/salon-natuerelle/salon-api/internal/config"
	"github.com/salon-natuerelle/salon-api/internal/domain/role"
	"github.com/salon-natuerelle/salon-api/internal/httperr"
)

const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
	ContextUserRole  = "userRole"
)

// AuthRequired verifies the bearer token and resolves the embedded
// identity and role into the request context. Nothing downstream runs on
// an unverified request.
func AuthRequired(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "Invalid authorization header")
			c.Abort()
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				httperr.Unauthorized(c, "Token expired")
			} else {
				httperr.Unauthorized(c, "Invalid token")
			}
			c.Abort()
			return
		}
		if !token.Valid {
			httperr.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httperr.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		userID, ok1 := claims["sub"].(float64)
		email, _ := claims["email"].(string)
		roleClaim, _ := claims["role"].(string)
		callerRole, ok2 := role.Parse(roleClaim)
		if !ok1 || !ok2 {
			httperr.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextUserEmail, email)
		c.Set(ContextUserRole, callerRole)

		c.Next()
	}
}

// RequireAdmin allows Admin only.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerRole(c) != role.Admin {
			httperr.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireManager allows Manager and above, so Admin passes too.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CallerRole(c).AtLeast(role.Manager) {
			httperr.Forbidden(c, "Manager access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRoles allows any role in the given set.
func RequireRoles(allowed ...role.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CallerRole(c).In(allowed...) {
			httperr.Forbidden(c, "Insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

func CallerID(c *gin.Context) uint {
	return c.MustGet(ContextUserID).(uint)
}

func CallerEmail(c *gin.Context) string {
	return c.MustGet(ContextUserEmail).(string)
}

func CallerRole(c *gin.Context) role.Role {
	return c.MustGet(ContextUserRole).(role.Role)
}
