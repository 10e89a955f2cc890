package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/salon-natuerelle/salon-api/internal/config"
	"github.com/salon-natuerelle/salon-api/internal/httperr"
	"github.com/salon-natuerelle/salon-api/internal/httpresp"
	"github.com/salon-natuerelle/salon-api/internal/middleware"
	ucreservation "github.com/salon-natuerelle/salon-api/internal/usecase/reservation"
)

type ReservationHandler struct {
	config *config.Config

	createUC *ucreservation.CreateReservation
	getUC    *ucreservation.GetReservation
	listUC   *ucreservation.ListReservations
	updateUC *ucreservation.UpdateReservation
	cancelUC *ucreservation.CancelReservation
}

func NewReservationHandler(
	cfg *config.Config,
	createUC *ucreservation.CreateReservation,
	getUC *ucreservation.GetReservation,
	listUC *ucreservation.ListReservations,
	updateUC *ucreservation.UpdateReservation,
	cancelUC *ucreservation.CancelReservation,
) *ReservationHandler {
	return &ReservationHandler{
		config:   cfg,
		createUC: createUC,
		getUC:    getUC,
		listUC:   listUC,
		updateUC: updateUC,
		cancelUC: cancelUC,
	}
}

// --------- Requests ---------

type CreateReservationRequest struct {
	ServiceID       uint      `json:"serviceId" binding:"required"`
	ReservationDate time.Time `json:"reservationDate" binding:"required"`
	Notes           string    `json:"notes" binding:"max=500"`
}

type UpdateReservationRequest struct {
	Status          *string    `json:"status,omitempty"`
	ReservationDate *time.Time `json:"reservationDate,omitempty"`
	Notes           *string    `json:"notes,omitempty" binding:"omitempty,max=500"`
}

// --------- Handlers ---------

func (h *ReservationHandler) Create(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Binding(c, err)
		return
	}

	res, err := h.createUC.Execute(c.Request.Context(), ucreservation.CreateReservationInput{
		ServiceID:   req.ServiceID,
		ScheduledAt: req.ReservationDate,
		Notes:       req.Notes,
		Meta:        requestMeta(c),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Reservation created successfully",
		"reservation": res,
	})
}

func (h *ReservationHandler) List(c *gin.Context) {
	page, limit := httpresp.ParsePage(c, 10)

	in := ucreservation.ListReservationsInput{
		CallerID:   middleware.CallerID(c),
		CallerRole: middleware.CallerRole(c),
		Status:     c.Query("status"),
		Page:       page,
		Limit:      limit,
	}

	if dateStr := c.Query("date"); dateStr != "" {
		day, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			httperr.BadRequest(c, "Invalid date format")
			return
		}
		in.Day = day
	}

	rows, total, err := h.listUC.Execute(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reservations": rows,
		"pagination":   httpresp.NewPagination(total, page, limit),
	})
}

func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	res, err := h.getUC.Execute(
		c.Request.Context(),
		id,
		middleware.CallerID(c),
		middleware.CallerRole(c),
	)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reservation": res})
}

func (h *ReservationHandler) Update(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	var req UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Binding(c, err)
		return
	}

	res, err := h.updateUC.Execute(c.Request.Context(), ucreservation.UpdateReservationInput{
		ReservationID: id,
		CallerRole:    middleware.CallerRole(c),
		Status:        req.Status,
		ScheduledAt:   req.ReservationDate,
		Notes:         req.Notes,
		Meta:          requestMeta(c),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Reservation updated successfully",
		"reservation": res,
	})
}

func (h *ReservationHandler) Delete(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	err := h.cancelUC.Execute(
		c.Request.Context(),
		id,
		middleware.CallerRole(c),
		requestMeta(c),
	)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reservation cancelled successfully"})
}

// --------- Helpers ---------

func (h *ReservationHandler) idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

// writeError maps business codes from the workflow onto the error
// taxonomy; anything unrecognised is an internal failure.
func (h *ReservationHandler) writeError(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "service_not_found"):
		httperr.NotFound(c, "Service not found or inactive")
	case httperr.IsBusiness(err, "not_found"):
		httperr.NotFound(c, "Reservation not found")
	case httperr.IsBusiness(err, "slot_taken"):
		httperr.BadRequest(c, "Time slot already booked")
	case httperr.IsBusiness(err, "date_in_past"):
		httperr.Fields(c, []httperr.FieldError{{
			Field:   "reservationDate",
			Message: "Reservation date must be in the future",
		}})
	case httperr.IsBusiness(err, "forbidden"):
		httperr.Forbidden(c, "Access denied")
	case httperr.IsBusiness(err, "customer_cancel_only"):
		httperr.Forbidden(c, "Customers can only cancel reservations")
	case httperr.IsBusiness(err, "invalid_status"):
		httperr.BadRequest(c, "Invalid status")
	case httperr.IsBusiness(err, "invalid_transition"):
		httperr.BadRequest(c, "Cannot change status of a completed or cancelled reservation")
	default:
		httperr.Internal(c, h.config.Production(), err)
	}
}
