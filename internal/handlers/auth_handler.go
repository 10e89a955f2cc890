package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/salon-natuerelle/salon-api/internal/audit"
	"github.com/salon-natuerelle/salon-api/internal/config"
	"github.com/salon-natuerelle/salon-api/internal/domain/role"
	"github.com/salon-natuerelle/salon-api/internal/httperr"
	"github.com/salon-natuerelle/salon-api/internal/middleware"
	"github.com/salon-natuerelle/salon-api/internal/models"
	"github.com/salon-natuerelle/salon-api/internal/ratelimit"
	"github.com/salon-natuerelle/salon-api/internal/validators"
)

type AuthHandler struct {
	db      *gorm.DB
	config  *config.Config
	audit   *audit.Dispatcher
	limiter *ratelimit.LoginLimiter
}

func NewAuthHandler(
	db *gorm.DB,
	cfg *config.Config,
	dispatcher *audit.Dispatcher,
	limiter *ratelimit.LoginLimiter,
) *AuthHandler {
	return &AuthHandler{
		db:      db,
		config:  cfg,
		audit:   dispatcher,
		limiter: limiter,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// --------- Handlers ---------

// Register creates a Customer account. Staff accounts only ever come from
// the admin-only /users/staff route.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Binding(c, err)
		return
	}

	user, fields := buildUser(h.config.BcryptCost, req.Name, req.Email, req.Password, role.Customer)
	if fields != nil {
		httperr.Fields(c, fields)
		return
	}

	if err := h.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httperr.BadRequest(c, "Email already registered")
			return
		}
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	h.audit.Dispatch(auditEvent(c,
		"USER_REGISTERED",
		fmt.Sprintf("New user registered: %s", user.Email),
		&user.ID,
	))

	token, err := SignToken(h.config, user)
	if err != nil {
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"user":    user.Safe(),
		"token":   token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Binding(c, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	ip := c.ClientIP()

	if h.limiter.Blocked(c.Request.Context(), email, ip) {
		httperr.TooManyRequests(c, "Too many login attempts")
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.failedLogin(c, email, ip)
			return
		}
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.PasswordHash),
		[]byte(req.Password),
	); err != nil {
		h.failedLogin(c, email, ip)
		return
	}

	h.limiter.Reset(c.Request.Context(), email, ip)

	h.audit.Dispatch(auditEvent(c,
		"LOGIN_SUCCESS",
		fmt.Sprintf("User %s logged in successfully", user.Email),
		&user.ID,
	))

	token, err := SignToken(h.config, &user)
	if err != nil {
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user.Safe(),
		"token":   token,
	})
}

// failedLogin records the attempt anonymously and answers with the same
// message whether the email or the password was wrong.
func (h *AuthHandler) failedLogin(c *gin.Context, email, ip string) {
	h.limiter.RecordFailure(c.Request.Context(), email, ip)

	h.audit.Dispatch(auditEvent(c,
		"LOGIN_FAILED",
		fmt.Sprintf("Failed login attempt for %s", email),
		nil,
	))

	httperr.Unauthorized(c, "Invalid credentials")
}

func (h *AuthHandler) Me(c *gin.Context) {
	var user models.User
	if err := h.db.First(&user, middleware.CallerID(c)).Error; err != nil {
		httperr.NotFound(c, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.Safe()})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Binding(c, err)
		return
	}

	var user models.User
	if err := h.db.First(&user, middleware.CallerID(c)).Error; err != nil {
		httperr.NotFound(c, "User not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.PasswordHash),
		[]byte(req.CurrentPassword),
	); err != nil {
		httperr.Unauthorized(c, "Current password is incorrect")
		return
	}

	if msg := validators.CheckPassword(req.NewPassword); msg != "" {
		httperr.Fields(c, []httperr.FieldError{{Field: "newPassword", Message: msg}})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), h.config.BcryptCost)
	if err != nil {
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	user.PasswordHash = string(hashed)
	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	h.audit.Dispatch(auditEvent(c,
		"PASSWORD_CHANGED",
		fmt.Sprintf("User %s changed password", user.Email),
		&user.ID,
	))

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// buildUser validates and assembles a user row without persisting it.
// Shared with staff provisioning.
func buildUser(bcryptCost int, name, email, password string, r role.Role) (*models.User, []httperr.FieldError) {
	var fields []httperr.FieldError

	name = strings.TrimSpace(name)
	if msg := validators.CheckName(name); msg != "" {
		fields = append(fields, httperr.FieldError{Field: "name", Message: msg})
	}
	if msg := validators.CheckPassword(password); msg != "" {
		fields = append(fields, httperr.FieldError{Field: "password", Message: msg})
	}
	if fields != nil {
		return nil, fields
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, []httperr.FieldError{{Field: "password", Message: "Unable to hash password"}}
	}

	return &models.User{
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hashed),
		Role:         r.String(),
	}, nil
}
