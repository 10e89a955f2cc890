package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/salon-natuerelle/salon-api/internal/audit"
	domain "github.com/salon-natuerelle/salon-api/internal/domain/reservation"
	"github.com/salon-natuerelle/salon-api/internal/httperr"
	"github.com/salon-natuerelle/salon-api/internal/models"
)

// ======================================================
// INPUT
// ======================================================

// RequestMeta carries the audit attribution pulled off the HTTP request.
type RequestMeta struct {
	CallerID    uint
	CallerEmail string
	IPAddress   string
	UserAgent   string
	RequestID   string
}

type CreateReservationInput struct {
	ServiceID   uint
	ScheduledAt time.Time
	Notes       string

	Meta RequestMeta
}

// ======================================================
// USE CASE
// ======================================================

type CreateReservation struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateReservation(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateReservation {
	return &CreateReservation{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CreateReservation) Execute(
	ctx context.Context,
	in CreateReservationInput,
) (*models.Reservation, error) {

	// 1. service must exist and be bookable
	svc, err := uc.repo.GetActiveService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	// 2. slots live in the future
	if !in.ScheduledAt.After(time.Now()) {
		return nil, httperr.ErrBusiness("date_in_past")
	}

	// 3. conflict check + insert, one transaction
	res := &models.Reservation{
		UserID:      in.Meta.CallerID,
		ServiceID:   svc.ID,
		ScheduledAt: in.ScheduledAt,
		Status:      string(domain.InitialStatus()),
		Notes:       in.Notes,
	}

	if err := uc.repo.CreateIfSlotFree(ctx, res); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Action: "RESERVATION_CREATED",
		Description: fmt.Sprintf(
			"Customer %s booked %s for %s",
			in.Meta.CallerEmail, svc.Name, in.ScheduledAt.Format(time.RFC3339),
		),
		UserID:    &in.Meta.CallerID,
		IPAddress: in.Meta.IPAddress,
		UserAgent: in.Meta.UserAgent,
		RequestID: in.Meta.RequestID,
	})

	return uc.repo.GetByIDWithRefs(ctx, res.ID)
}
