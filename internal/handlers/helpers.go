package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/salon-natuerelle/salon-api/internal/audit"
	"github.com/salon-natuerelle/salon-api/internal/config"
	"github.com/salon-natuerelle/salon-api/internal/middleware"
	"github.com/salon-natuerelle/salon-api/internal/models"
	ucreservation "github.com/salon-natuerelle/salon-api/internal/usecase/reservation"
)

// auditEvent fills in the request attribution for a dispatched entry.
func auditEvent(c *gin.Context, action, description string, userID *uint) audit.Event {
	return audit.Event{
		Action:      action,
		Description: description,
		UserID:      userID,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		RequestID:   middleware.RequestID(c),
	}
}

func requestMeta(c *gin.Context) ucreservation.RequestMeta {
	return ucreservation.RequestMeta{
		CallerID:    middleware.CallerID(c),
		CallerEmail: middleware.CallerEmail(c),
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		RequestID:   middleware.RequestID(c),
	}
}

// SignToken issues the bearer token carrying identity, email and role.
func SignToken(cfg *config.Config, user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(time.Duration(cfg.JWTExpireHours) * time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}
