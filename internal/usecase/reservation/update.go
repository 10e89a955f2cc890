package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/salon-natuerelle/salon-api/internal/audit"
	domain "github.com/salon-natuerelle/salon-api/internal/domain/reservation"
	"github.com/salon-natuerelle/salon-api/internal/domain/role"
	"github.com/salon-natuerelle/salon-api/internal/httperr"
	"github.com/salon-natuerelle/salon-api/internal/models"
)

// UpdateReservationInput applies only the fields that are present; nil
// pointers leave the prior value untouched.
type UpdateReservationInput struct {
	ReservationID uint
	CallerRole    role.Role

	Status      *string
	ScheduledAt *time.Time
	Notes       *string

	Meta RequestMeta
}

type UpdateReservation struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateReservation(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateReservation {
	return &UpdateReservation{
		repo:  repo,
		audit: audit,
	}
}

func (uc *UpdateReservation) Execute(
	ctx context.Context,
	in UpdateReservationInput,
) (*models.Reservation, error) {

	res, err := uc.repo.GetByID(ctx, in.ReservationID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanView(res, in.Meta.CallerID, in.CallerRole); err != nil {
		return nil, err
	}

	// a customer's only permitted edit is cancelling
	if !in.CallerRole.Staff() && (in.ScheduledAt != nil || in.Notes != nil) {
		return nil, httperr.ErrBusiness("customer_cancel_only")
	}

	if in.Status != nil {
		if err := domain.ApplyStatus(res, domain.Status(*in.Status), in.CallerRole); err != nil {
			return nil, err
		}
	}

	checkSlot := false
	if in.ScheduledAt != nil {
		if !in.ScheduledAt.After(time.Now()) {
			return nil, httperr.ErrBusiness("date_in_past")
		}
		res.ScheduledAt = *in.ScheduledAt
		checkSlot = true
	}

	if in.Notes != nil {
		res.Notes = *in.Notes
	}

	if err := uc.repo.Save(ctx, res, checkSlot); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Action: "RESERVATION_UPDATED",
		Description: fmt.Sprintf(
			"%s %s updated reservation %d",
			in.CallerRole, in.Meta.CallerEmail, res.ID,
		),
		UserID:    &in.Meta.CallerID,
		IPAddress: in.Meta.IPAddress,
		UserAgent: in.Meta.UserAgent,
		RequestID: in.Meta.RequestID,
	})

	return uc.repo.GetByIDWithRefs(ctx, res.ID)
}
