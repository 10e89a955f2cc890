package reservation

import (
	"context"
	"time"

	"github.com/salon-natuerelle/salon-api/internal/models"
)

// ListFilter narrows the reservation listing. A nil UserID means no
// ownership scope (staff view); DayStart/DayEnd bound one calendar day.
type ListFilter struct {
	UserID   *uint
	Status   string
	DayStart *time.Time
	DayEnd   *time.Time

	Page  int
	Limit int
}

type Repository interface {
	// -------- Service lookup --------
	GetActiveService(
		ctx context.Context,
		serviceID uint,
	) (*models.Service, error)

	// -------- Reservation (create / conflict) --------

	// CreateIfSlotFree checks for a non-cancelled reservation on the same
	// (service, timestamp) slot and inserts inside a single transaction.
	// Returns the slot_taken business error on conflict.
	CreateIfSlotFree(
		ctx context.Context,
		res *models.Reservation,
	) error

	// -------- Reservation (read) --------
	GetByID(
		ctx context.Context,
		reservationID uint,
	) (*models.Reservation, error)

	GetByIDWithRefs(
		ctx context.Context,
		reservationID uint,
	) (*models.Reservation, error)

	List(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Reservation, int64, error)

	// -------- Reservation (state change) --------

	// Save persists field changes. When checkSlot is set the slot conflict
	// check re-runs transactionally against all other rows first.
	Save(
		ctx context.Context,
		res *models.Reservation,
		checkSlot bool,
	) error
}
