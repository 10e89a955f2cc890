package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salon-natuerelle/salon-api/internal/config"
	"github.com/salon-natuerelle/salon-api/internal/httperr"
	"github.com/salon-natuerelle/salon-api/internal/httpresp"
	"github.com/salon-natuerelle/salon-api/internal/models"
)

type AuditLogsHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuditLogsHandler(db *gorm.DB, cfg *config.Config) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, config: cfg}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, limit := httpresp.ParsePage(c, 20)

	q := h.db.Model(&models.AuditLog{})

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if userID := c.Query("userId"); userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if fromStr := c.Query("startDate"); fromStr != "" {
		if from, err := time.Parse("2006-01-02", fromStr); err == nil {
			q = q.Where("created_at >= ?", from)
		}
	}
	if toStr := c.Query("endDate"); toStr != "" {
		if to, err := time.Parse("2006-01-02", toStr); err == nil {
			q = q.Where("created_at <= ?", to.Add(24*time.Hour))
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	var logs []models.AuditLog
	if err := q.
		Preload("Actor").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error; err != nil {
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":       logs,
		"pagination": httpresp.NewPagination(total, page, limit),
	})
}

// Stats aggregates at query time; there are no precomputed rollups.
func (h *AuditLogsHandler) Stats(c *gin.Context) {
	type actionCount struct {
		Action string `json:"action"`
		Count  int64  `json:"count"`
	}

	var stats []actionCount
	if err := h.db.Model(&models.AuditLog{}).
		Select("action, COUNT(action) AS count").
		Group("action").
		Order("count DESC").
		Scan(&stats).Error; err != nil {
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	var recent int64
	if err := h.db.Model(&models.AuditLog{}).
		Where("created_at >= ?", time.Now().Add(-24*time.Hour)).
		Count(&recent).Error; err != nil {
		httperr.Internal(c, h.config.Production(), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"actionStats":    stats,
		"recentActivity": recent,
	})
}
