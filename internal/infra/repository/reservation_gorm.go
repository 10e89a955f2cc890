package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	domain "github.com/salon-natuerelle/salon-api/internal/domain/reservation"
	"github.com/salon-natuerelle/salon-api/internal/httperr"
	"github.com/salon-natuerelle/salon-api/internal/models"
)

type ReservationGormRepository struct {
	db *gorm.DB
}

func NewReservationGormRepository(db *gorm.DB) *ReservationGormRepository {
	return &ReservationGormRepository{db: db}
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *ReservationGormRepository) GetActiveService(
	ctx context.Context,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", serviceID, true).
		First(&svc).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		return nil, err
	}
	return &svc, nil
}

// --------------------------------------------------
// Reservation (create / conflict)
// --------------------------------------------------

func (r *ReservationGormRepository) CreateIfSlotFree(
	ctx context.Context,
	res *models.Reservation,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assertSlotFree(tx, res.ServiceID, res.ScheduledAt, 0); err != nil {
			return err
		}

		if err := tx.Create(res).Error; err != nil {
			if isDuplicateKey(err) {
				// lost the race anyway, the partial index has the last word
				return httperr.ErrBusiness("slot_taken")
			}
			return err
		}
		return nil
	})
}

// --------------------------------------------------
// Reservation (read)
// --------------------------------------------------

func (r *ReservationGormRepository) GetByID(
	ctx context.Context,
	reservationID uint,
) (*models.Reservation, error) {

	var res models.Reservation
	if err := r.db.WithContext(ctx).
		First(&res, reservationID).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("not_found")
		}
		return nil, err
	}
	return &res, nil
}

func (r *ReservationGormRepository) GetByIDWithRefs(
	ctx context.Context,
	reservationID uint,
) (*models.Reservation, error) {

	var res models.Reservation
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Customer").
		First(&res, reservationID).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("not_found")
		}
		return nil, err
	}
	return &res, nil
}

func (r *ReservationGormRepository) List(
	ctx context.Context,
	filter domain.ListFilter,
) ([]models.Reservation, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Reservation{})

	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DayStart != nil && filter.DayEnd != nil {
		q = q.Where("scheduled_at >= ? AND scheduled_at < ?", *filter.DayStart, *filter.DayEnd)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Reservation
	if err := q.
		Preload("Service").
		Preload("Customer").
		Order("scheduled_at ASC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// --------------------------------------------------
// Reservation (state change)
// --------------------------------------------------

func (r *ReservationGormRepository) Save(
	ctx context.Context,
	res *models.Reservation,
	checkSlot bool,
) error {

	if !checkSlot {
		return r.db.WithContext(ctx).Save(res).Error
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assertSlotFree(tx, res.ServiceID, res.ScheduledAt, res.ID); err != nil {
			return err
		}

		if err := tx.Save(res).Error; err != nil {
			if isDuplicateKey(err) {
				return httperr.ErrBusiness("slot_taken")
			}
			return err
		}
		return nil
	})
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

func assertSlotFree(tx *gorm.DB, serviceID uint, at time.Time, excludeID uint) error {
	q := tx.Model(&models.Reservation{}).
		Where(
			"service_id = ? AND scheduled_at = ? AND status <> ?",
			serviceID,
			at,
			string(domain.StatusCancelled),
		)

	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return httperr.ErrBusiness("slot_taken")
	}
	return nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// sqlite in tests reports the raw constraint error
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
