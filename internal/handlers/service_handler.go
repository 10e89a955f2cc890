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
	"github.com/salon-natuerelle/salon-api/internal/httperr"
	"github.com/salon-natuerelle/salon-api/internal/httpresp"
	"github.com/salon-natuerelle/salon-api/internal/middleware"
	"github.com/salon-natuerelle/salon-api/internal/models"
)

type ServiceHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Dispatcher
}

func NewServiceHandler(db *gorm.DB, cfg *config.Config, dispatcher *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{db: db, config: cfg, audit: dispatcher}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string   `json:"name" binding:"required,min=2,max=100"`
	Description string   `json:"description" binding:"max=500"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Duration    *int     `json:"duration" binding:"required,min=15"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	Description *string  `json:"description,omitempty" binding:"omitempty,max=500"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,gte=0"`
	Duration    *int     `json:"duration,omitempty" binding:"omitempty,min=15"`
	IsActive    *bool    `json:"isActive,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Binding(c, err)
		return
	}

	service := models.Service{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       *req.Price,
		DurationMin: *req.Duration,
		IsActive:    true,
		CreatedBy:   middleware.CallerID(c),
	}

	if err := h.db.Create(&service).Error; err != nil {
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	h.audit.Dispatch(auditEvent(c,
		"SERVICE_CREATED",
		fmt.Sprintf("Manager %s created service: %s",
			middleware.CallerEmail(c), service.Name),
		callerIDPtr(c),
	))

	c.JSON(http.StatusCreated, gin.H{
		"message": "Service created successfully",
		"service": service,
	})
}

// List is public and only ever shows active services; soft-deleted rows
// stay reachable through Get for historical reservations.
func (h *ServiceHandler) List(c *gin.Context) {
	page, limit := httpresp.ParsePage(c, 10)

	q := h.db.Model(&models.Service{}).Where("is_active = ?", true)

	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	var services []models.Service
	if err := q.
		Preload("Creator").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&services).Error; err != nil {
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"services":   services,
		"pagination": httpresp.NewPagination(total, page, limit),
	})
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "Invalid ID")
		return
	}

	var service models.Service
	if err := h.db.Preload("Creator").First(&service, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "Service not found")
			return
		}
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"service": service})
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "Invalid ID")
		return
	}

	var service models.Service
	if err := h.db.First(&service, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "Service not found")
			return
		}
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Binding(c, err)
		return
	}

	if req.Name != nil {
		service.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.Duration != nil {
		service.DurationMin = *req.Duration
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	if err := h.db.Save(&service).Error; err != nil {
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	h.audit.Dispatch(auditEvent(c,
		"SERVICE_UPDATED",
		fmt.Sprintf("Manager %s updated service: %s",
			middleware.CallerEmail(c), service.Name),
		callerIDPtr(c),
	))

	c.JSON(http.StatusOK, gin.H{
		"message": "Service updated successfully",
		"service": service,
	})
}

// Delete flips the active flag; the row is never removed so historical
// reservations keep a valid reference.
func (h *ServiceHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "Invalid ID")
		return
	}

	var service models.Service
	if err := h.db.First(&service, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "Service not found")
			return
		}
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	service.IsActive = false
	if err := h.db.Save(&service).Error; err != nil {
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	h.audit.Dispatch(auditEvent(c,
		"SERVICE_DELETED",
		fmt.Sprintf("Manager %s deleted service: %s",
			middleware.CallerEmail(c), service.Name),
		callerIDPtr(c),
	))

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
