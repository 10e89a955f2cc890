package audit

import (
	"gorm.io/gorm"

	"github.com/salon-natuerelle/salon-api/internal/models"
)

// Event describes one sensitive action. UserID stays nil for anonymous
// actions such as failed logins.
type Event struct {
	Action      string
	Description string
	UserID      *uint
	IPAddress   string
	UserAgent   string
	RequestID   string
}

// Sink persists events. The gorm Recorder is the only production
// implementation; tests substitute their own.
type Sink interface {
	Record(ev Event) error
}

type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

func (r *Recorder) Record(ev Event) error {
	entry := models.AuditLog{
		Action:      ev.Action,
		Description: ev.Description,
		UserID:      ev.UserID,
		IPAddress:   ev.IPAddress,
		UserAgent:   ev.UserAgent,
		RequestID:   ev.RequestID,
	}

	return r.db.Create(&entry).Error
}
