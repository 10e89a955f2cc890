package reservation

import "github.com/salon-natuerelle/salon-api/internal/httperr"

// ===============================
// Reservation Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal statuses cannot be left once reached.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ===============================
// Validations
// ===============================

// CheckTransition validates a staff-requested status change. Setting a
// terminal status again is a no-op and allowed, so cancellation stays
// idempotent.
func CheckTransition(from, to Status) error {
	if !to.Valid() {
		return httperr.ErrBusiness("invalid_status")
	}
	if from.Terminal() && from != to {
		return httperr.ErrBusiness("invalid_transition")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
