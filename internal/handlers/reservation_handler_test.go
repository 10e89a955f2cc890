package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salon-natuerelle/salon-api/internal/domain/role"
	"github.com/salon-natuerelle/salon-api/internal/models"
)

func futureSlot() string {
	return time.Now().Add(48 * time.Hour).Truncate(time.Hour).Format(time.RFC3339)
}

func TestCreateReservation(t *testing.T) {
	env := newTestEnv(t)
	manager, _ := env.newUser(t, role.Manager)
	_, customerToken := env.newUser(t, role.Customer)
	svc := env.newService(t, "Haircut", manager.ID)

	w := env.do(t, http.MethodPost, "/reservations", map[string]any{
		"serviceId":       svc.ID,
		"reservationDate": futureSlot(),
		"notes":           "first visit",
	}, customerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	res := decode(t, w)["reservation"].(map[string]any)
	assert.Equal(t, "pending", res["status"])
	assert.Equal(t, "Haircut", res["service"].(map[string]any)["name"])
	assert.NotContains(t, res["customer"].(map[string]any), "password")
}

func TestCreateReservationSlotConflict(t *testing.T) {
	env := newTestEnv(t)
	manager, _ := env.newUser(t, role.Manager)
	_, aliceToken := env.newUser(t, role.Customer)
	_, bobToken := env.newUser(t, role.Customer)
	svc := env.newService(t, "Haircut", manager.ID)

	slot := futureSlot()
	payload := map[string]any{"serviceId": svc.ID, "reservationDate": slot}

	w := env.do(t, http.MethodPost, "/reservations", payload, aliceToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/reservations", payload, bobToken)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Time slot already booked", errorMessage(t, w))
}

func TestCreateReservationAfterCancelFreesSlot(t *testing.T) {
	env := newTestEnv(t)
	manager, _ := env.newUser(t, role.Manager)
	_, customerToken := env.newUser(t, role.Customer)
	svc := env.newService(t, "Haircut", manager.ID)

	slot := futureSlot()
	payload := map[string]any{"serviceId": svc.ID, "reservationDate": slot}

	w := env.do(t, http.MethodPost, "/reservations", payload, customerToken)
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(decode(t, w)["reservation"].(map[string]any)["id"].(float64))

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/reservations/%d", id), nil, customerToken)
	require.Equal(t, http.StatusOK, w.Code)

	// cancelled rows no longer occupy the slot
	w = env.do(t, http.MethodPost, "/reservations", payload, customerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCreateReservationInactiveService(t *testing.T) {
	env := newTestEnv(t)
	manager, _ := env.newUser(t, role.Manager)
	_, customerToken := env.newUser(t, role.Customer)
	svc := env.newService(t, "Haircut", manager.ID)

	require.NoError(t, env.db.Model(svc).Update("is_active", false).Error)

	w := env.do(t, http.MethodPost, "/reservations", map[string]any{
		"serviceId":       svc.ID,
		"reservationDate": futureSlot(),
	}, customerToken)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Service not found or inactive", errorMessage(t, w))
}

func TestCreateReservationPastDate(t *testing.T) {
	env := newTestEnv(t)
	manager, _ := env.newUser(t, role.Manager)
	_, customerToken := env.newUser(t, role.Customer)
	svc := env.newService(t, "Haircut", manager.ID)

	w := env.do(t, http.MethodPost, "/reservations", map[string]any{
		"serviceId":       svc.ID,
		"reservationDate": time.Now().Add(-time.Hour).Format(time.RFC3339),
	}, customerToken)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w), "errors")
}

func TestGetReservationOwnership(t *testing.T) {
	env := newTestEnv(t)
	manager, managerToken := env.newUser(t, role.Manager)
	_, aliceToken := env.newUser(t, role.Customer)
	_, bobToken := env.newUser(t, role.Customer)
	svc := env.newService(t, "Haircut", manager.ID)

	w := env.do(t, http.MethodPost, "/reservations", map[string]any{
		"serviceId":       svc.ID,
		"reservationDate": futureSlot(),
	}, aliceToken)
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(decode(t, w)["reservation"].(map[string]any)["id"].(float64))

	path := fmt.Sprintf("/reservations/%d", id)

	// owner sees it
	w = env.do(t, http.MethodGet, path, nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)

	// another customer gets an authorization error, not a 404
	w = env.do(t, http.MethodGet, path, nil, bobToken)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied", errorMessage(t, w))

	// staff can read anything
	w = env.do(t, http.MethodGet, path, nil, managerToken)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestListReservationsScopedByRole(t *testing.T) {
	env := newTestEnv(t)
	manager, managerToken := env.newUser(t, role.Manager)
	_, aliceToken := env.newUser(t, role.Customer)
	_, bobToken := env.newUser(t, role.Customer)
	svc := env.newService(t, "Haircut", manager.ID)

	base := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	for i, token := range []string{aliceToken, aliceToken, bobToken} {
		w := env.do(t, http.MethodPost, "/reservations", map[string]any{
			"serviceId":       svc.ID,
			"reservationDate": base.Add(time.Duration(i) * time.Hour).Format(time.RFC3339),
		}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := env.do(t, http.MethodGet, "/reservations", nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["reservations"], 2)
	assert.EqualValues(t, 2, body["pagination"].(map[string]any)["total"])

	w = env.do(t, http.MethodGet, "/reservations", nil, managerToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["reservations"], 3)
}

func TestListReservationsDayFilter(t *testing.T) {
	env := newTestEnv(t)
	manager, _ := env.newUser(t, role.Manager)
	_, customerToken := env.newUser(t, role.Customer)
	svc := env.newService(t, "Haircut", manager.ID)

	dayOne := time.Now().Add(48 * time.Hour).Truncate(24 * time.Hour).Add(10 * time.Hour)
	dayTwo := dayOne.Add(24 * time.Hour)

	for _, at := range []time.Time{dayOne, dayTwo} {
		w := env.do(t, http.MethodPost, "/reservations", map[string]any{
			"serviceId":       svc.ID,
			"reservationDate": at.UTC().Format(time.RFC3339),
		}, customerToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	path := "/reservations?date=" + dayOne.UTC().Format("2006-01-02")
	w := env.do(t, http.MethodGet, path, nil, customerToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["reservations"], 1)
}

func TestCustomerCanOnlyCancel(t *testing.T) {
	env := newTestEnv(t)
	manager, managerToken := env.newUser(t, role.Manager)
	_, customerToken := env.newUser(t, role.Customer)
	svc := env.newService(t, "Haircut", manager.ID)

	w := env.do(t, http.MethodPost, "/reservations", map[string]any{
		"serviceId":       svc.ID,
		"reservationDate": futureSlot(),
	}, customerToken)
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(decode(t, w)["reservation"].(map[string]any)["id"].(float64))
	path := fmt.Sprintf("/reservations/%d", id)

	// customer may not confirm
	w = env.do(t, http.MethodPut, path, map[string]any{"status": "confirmed"}, customerToken)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Customers can only cancel reservations", errorMessage(t, w))

	// nor reschedule
	w = env.do(t, http.MethodPut, path, map[string]any{"reservationDate": futureSlot()}, customerToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	// staff may confirm
	w = env.do(t, http.MethodPut, path, map[string]any{"status": "confirmed"}, managerToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "confirmed", decode(t, w)["reservation"].(map[string]any)["status"])

	// customer may cancel
	w = env.do(t, http.MethodPut, path, map[string]any{"status": "cancelled"}, customerToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", decode(t, w)["reservation"].(map[string]any)["status"])
}

func TestTerminalStatusLocked(t *testing.T) {
	env := newTestEnv(t)
	manager, managerToken := env.newUser(t, role.Manager)
	_, customerToken := env.newUser(t, role.Customer)
	svc := env.newService(t, "Haircut", manager.ID)

	w := env.do(t, http.MethodPost, "/reservations", map[string]any{
		"serviceId":       svc.ID,
		"reservationDate": futureSlot(),
	}, customerToken)
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(decode(t, w)["reservation"].(map[string]any)["id"].(float64))
	path := fmt.Sprintf("/reservations/%d", id)

	w = env.do(t, http.MethodPut, path, map[string]any{"status": "completed"}, managerToken)
	require.Equal(t, http.StatusOK, w.Code)

	// even staff cannot reopen a completed reservation
	w = env.do(t, http.MethodPut, path, map[string]any{"status": "pending"}, managerToken)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot change status of a completed or cancelled reservation", errorMessage(t, w))
}

func TestCancelIsSoftAndIdempotent(t *testing.T) {
	env := newTestEnv(t)
	manager, _ := env.newUser(t, role.Manager)
	_, customerToken := env.newUser(t, role.Customer)
	svc := env.newService(t, "Haircut", manager.ID)

	w := env.do(t, http.MethodPost, "/reservations", map[string]any{
		"serviceId":       svc.ID,
		"reservationDate": futureSlot(),
	}, customerToken)
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(decode(t, w)["reservation"].(map[string]any)["id"].(float64))
	path := fmt.Sprintf("/reservations/%d", id)

	var before int64
	require.NoError(t, env.db.Model(&models.Reservation{}).Count(&before).Error)

	w = env.do(t, http.MethodDelete, path, nil, customerToken)
	require.Equal(t, http.StatusOK, w.Code)

	// cancel again: same outcome, no error
	w = env.do(t, http.MethodDelete, path, nil, customerToken)
	require.Equal(t, http.StatusOK, w.Code)

	var after int64
	require.NoError(t, env.db.Model(&models.Reservation{}).Count(&after).Error)
	assert.Equal(t, before, after, "cancel must never delete rows")

	var res models.Reservation
	require.NoError(t, env.db.First(&res, id).Error)
	assert.Equal(t, "cancelled", res.Status)
}

func TestUpdateOtherCustomersReservation(t *testing.T) {
	env := newTestEnv(t)
	manager, _ := env.newUser(t, role.Manager)
	_, aliceToken := env.newUser(t, role.Customer)
	_, bobToken := env.newUser(t, role.Customer)
	svc := env.newService(t, "Haircut", manager.ID)

	w := env.do(t, http.MethodPost, "/reservations", map[string]any{
		"serviceId":       svc.ID,
		"reservationDate": futureSlot(),
	}, aliceToken)
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(decode(t, w)["reservation"].(map[string]any)["id"].(float64))

	w = env.do(t, http.MethodPut, fmt.Sprintf("/reservations/%d", id),
		map[string]any{"status": "cancelled"}, bobToken)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied", errorMessage(t, w))
}

func TestRescheduleConflict(t *testing.T) {
	env := newTestEnv(t)
	manager, managerToken := env.newUser(t, role.Manager)
	_, customerToken := env.newUser(t, role.Customer)
	svc := env.newService(t, "Haircut", manager.ID)

	slotA := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	slotB := slotA.Add(2 * time.Hour)

	for _, at := range []time.Time{slotA, slotB} {
		w := env.do(t, http.MethodPost, "/reservations", map[string]any{
			"serviceId":       svc.ID,
			"reservationDate": at.Format(time.RFC3339),
		}, customerToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	var second models.Reservation
	require.NoError(t, env.db.Order("id DESC").First(&second).Error)

	// moving the second onto the first slot must conflict
	w := env.do(t, http.MethodPut, fmt.Sprintf("/reservations/%d", second.ID),
		map[string]any{"reservationDate": slotA.Format(time.RFC3339)}, managerToken)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Time slot already booked", errorMessage(t, w))
}
