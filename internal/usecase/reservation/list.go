package reservation

import (
	"context"
	"time"

	domain "github.com/salon-natuerelle/salon-api/internal/domain/reservation"
	"github.com/salon-natuerelle/salon-api/internal/domain/role"
	"github.com/salon-natuerelle/salon-api/internal/models"
)

type ListReservationsInput struct {
	CallerID   uint
	CallerRole role.Role

	Status string
	// Day restricts results to one calendar day when non-zero.
	Day time.Time

	Page  int
	Limit int
}

type ListReservations struct {
	repo domain.Repository
}

func NewListReservations(repo domain.Repository) *ListReservations {
	return &ListReservations{repo: repo}
}

func (uc *ListReservations) Execute(
	ctx context.Context,
	in ListReservationsInput,
) ([]models.Reservation, int64, error) {

	filter := domain.ListFilter{
		Status: in.Status,
		Page:   in.Page,
		Limit:  in.Limit,
	}

	// customers only ever see their own bookings
	if !in.CallerRole.Staff() {
		filter.UserID = &in.CallerID
	}

	if !in.Day.IsZero() {
		start := in.Day
		end := start.Add(24 * time.Hour)
		filter.DayStart = &start
		filter.DayEnd = &end
	}

	return uc.repo.List(ctx, filter)
}
