package reservation

import (
	"github.com/salon-natuerelle/salon-api/internal/domain/role"
	"github.com/salon-natuerelle/salon-api/internal/httperr"
	"github.com/salon-natuerelle/salon-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// CanView enforces the read rule: staff see everything, a customer only
// their own rows. The error is an authorization failure, deliberately
// distinct from not-found.
func CanView(res *models.Reservation, callerID uint, callerRole role.Role) error {
	if callerRole.Staff() {
		return nil
	}
	if res.UserID != callerID {
		return httperr.ErrBusiness("forbidden")
	}
	return nil
}

// Cancel soft-deletes: the row is kept, only the status moves.
func Cancel(res *models.Reservation) {
	res.Status = string(StatusCancelled)
}

// ApplyStatus applies a requested status change on behalf of the caller.
// Customers may only cancel; staff may set any status that the transition
// rules allow.
func ApplyStatus(res *models.Reservation, requested Status, callerRole role.Role) error {
	if !callerRole.Staff() && requested != StatusCancelled {
		return httperr.ErrBusiness("customer_cancel_only")
	}
	if err := CheckTransition(Status(res.Status), requested); err != nil {
		return err
	}
	res.Status = string(requested)
	return nil
}
