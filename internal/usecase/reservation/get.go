package reservation

import (
	"context"

	domain "github.com/salon-natuerelle/salon-api/internal/domain/reservation"
	"github.com/salon-natuerelle/salon-api/internal/domain/role"
	"github.com/salon-natuerelle/salon-api/internal/models"
)

type GetReservation struct {
	repo domain.Repository
}

func NewGetReservation(repo domain.Repository) *GetReservation {
	return &GetReservation{repo: repo}
}

func (uc *GetReservation) Execute(
	ctx context.Context,
	reservationID uint,
	callerID uint,
	callerRole role.Role,
) (*models.Reservation, error) {

	res, err := uc.repo.GetByIDWithRefs(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanView(res, callerID, callerRole); err != nil {
		return nil, err
	}

	return res, nil
}
