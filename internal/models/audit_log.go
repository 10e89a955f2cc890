package models

import "time"

// AuditLog rows are append-only. No update or delete path exists anywhere
// in the codebase; a deleted user leaves its entries behind with a null
// actor so the trail survives account removal.
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Action      string `gorm:"size:50;not null;index" json:"action"`
	Description string `gorm:"size:500" json:"description"`

	UserID *uint `json:"userId"`
	Actor  *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"actor,omitempty"`

	IPAddress string `gorm:"size:45" json:"ipAddress"`
	UserAgent string `gorm:"size:255" json:"userAgent"`
	RequestID string `gorm:"size:36" json:"requestId"`

	CreatedAt time.Time `gorm:"index" json:"timestamp"`
}
