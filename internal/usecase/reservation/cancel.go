package reservation

import (
	"context"
	"fmt"

	"github.com/salon-natuerelle/salon-api/internal/audit"
	domain "github.com/salon-natuerelle/salon-api/internal/domain/reservation"
	"github.com/salon-natuerelle/salon-api/internal/domain/role"
)

type CancelReservation struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelReservation(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelReservation {
	return &CancelReservation{
		repo:  repo,
		audit: audit,
	}
}

// Execute soft-deletes: status moves to cancelled, the row stays. Calling
// it on an already-cancelled reservation is a harmless no-op.
func (uc *CancelReservation) Execute(
	ctx context.Context,
	reservationID uint,
	callerRole role.Role,
	meta RequestMeta,
) error {

	res, err := uc.repo.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}

	if err := domain.CanView(res, meta.CallerID, callerRole); err != nil {
		return err
	}

	domain.Cancel(res)
	if err := uc.repo.Save(ctx, res, false); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		Action: "RESERVATION_CANCELLED",
		Description: fmt.Sprintf(
			"%s %s cancelled reservation %d",
			callerRole, meta.CallerEmail, res.ID,
		),
		UserID:    &meta.CallerID,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		RequestID: meta.RequestID,
	})

	return nil
}
