package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salon-natuerelle/salon-api/internal/audit"
	"github.com/salon-natuerelle/salon-api/internal/config"
	"github.com/salon-natuerelle/salon-api/internal/domain/role"
	"github.com/salon-natuerelle/salon-api/internal/httperr"
	"github.com/salon-natuerelle/salon-api/internal/httpresp"
	"github.com/salon-natuerelle/salon-api/internal/middleware"
	"github.com/salon-natuerelle/salon-api/internal/models"
)

type UserHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Dispatcher
}

func NewUserHandler(db *gorm.DB, cfg *config.Config, dispatcher *audit.Dispatcher) *UserHandler {
	return &UserHandler{db: db, config: cfg, audit: dispatcher}
}

// --------- Requests ---------

type RegisterStaffRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// --------- Handlers ---------

// RegisterStaff provisions an Admin or Manager account. Customer is not a
// staff role and is rejected here.
func (h *UserHandler) RegisterStaff(c *gin.Context) {
	var req RegisterStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Binding(c, err)
		return
	}

	staffRole, ok := role.Parse(req.Role)
	if !ok || !staffRole.In(role.StaffRoles()...) {
		httperr.BadRequest(c, "Invalid role for staff registration")
		return
	}

	user, fields := buildUser(h.config.BcryptCost, req.Name, req.Email, req.Password, staffRole)
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
		"STAFF_REGISTERED",
		fmt.Sprintf("Admin %s registered new %s: %s",
			middleware.CallerEmail(c), staffRole, user.Email),
		callerIDPtr(c),
	))

	c.JSON(http.StatusCreated, gin.H{
		"message": "Staff member registered successfully",
		"user":    user.Safe(),
	})
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "Invalid ID")
		return
	}

	if uint(id) == middleware.CallerID(c) {
		httperr.BadRequest(c, "Cannot delete your own account")
		return
	}

	var user models.User
	if err := h.db.First(&user, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "User not found")
			return
		}
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	if err := h.db.Delete(&user).Error; err != nil {
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	h.audit.Dispatch(auditEvent(c,
		"USER_DELETED",
		fmt.Sprintf("Admin %s deleted %s user: %s",
			middleware.CallerEmail(c), user.Role, user.Email),
		callerIDPtr(c),
	))

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (h *UserHandler) ChangeRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "Invalid ID")
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Binding(c, err)
		return
	}

	newRole, ok := role.Parse(req.Role)
	if !ok {
		httperr.BadRequest(c, "Invalid role")
		return
	}

	// an admin revoking their own access would orphan the instance
	if uint(id) == middleware.CallerID(c) {
		httperr.BadRequest(c, "Cannot change your own role")
		return
	}

	var user models.User
	if err := h.db.First(&user, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "User not found")
			return
		}
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	oldRole := user.Role
	user.Role = newRole.String()
	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	h.audit.Dispatch(auditEvent(c,
		"ROLE_CHANGED",
		fmt.Sprintf("Admin %s changed role for %s from %s to %s",
			middleware.CallerEmail(c), user.Email, oldRole, newRole),
		callerIDPtr(c),
	))

	c.JSON(http.StatusOK, gin.H{
		"message": "User role updated successfully",
		"user":    user.Safe(),
	})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, limit := httpresp.ParsePage(c, 10)

	q := h.db.Model(&models.User{})

	if roleFilter := c.Query("role"); roleFilter != "" {
		q = q.Where("role = ?", roleFilter)
	}
	q = applyUserSearch(q, c.Query("search"))

	users, total, err := h.listUsers(q, page, limit)
	if err != nil {
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      models.SafeUsers(users),
		"pagination": httpresp.NewPagination(total, page, limit),
	})
}

func (h *UserHandler) ListCustomers(c *gin.Context) {
	page, limit := httpresp.ParsePage(c, 10)

	q := h.db.Model(&models.User{}).Where("role = ?", role.Customer.String())
	q = applyUserSearch(q, c.Query("search"))

	users, total, err := h.listUsers(q, page, limit)
	if err != nil {
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers":  models.SafeUsers(users),
		"pagination": httpresp.NewPagination(total, page, limit),
	})
}

// --------- Helpers ---------

func applyUserSearch(q *gorm.DB, search string) *gorm.DB {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return q
	}
	like := "%" + search + "%"
	return q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
}

func (h *UserHandler) listUsers(q *gorm.DB, page, limit int) ([]models.User, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func callerIDPtr(c *gin.Context) *uint {
	id := middleware.CallerID(c)
	return &id
}
