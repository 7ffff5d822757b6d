package services

import (
	"sync"
	"testing"
	"time"

	"reserva-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReservationService(t *testing.T, db *gorm.DB) *ReservationService {
	t.Helper()
	settings := newSettingsService(t, db, defaultSettings(t))
	return NewReservationService(db, settings)
}

func dinnerRequest(date, clock string, guests int) CreateReservationInput {
	return CreateReservationInput{
		Name:   "Maria Silva",
		Phone:  "+351 912 345 678",
		Guests: guests,
		Date:   date,
		Time:   clock,
	}
}

func TestCreateReservationScenario(t *testing.T) {
	db := setupTestDB(t)
	svc := newReservationService(t, db)

	room := createRoom(t, db, "Main", 10)
	table := createTable(t, db, room.ID, "1", 6, false)

	// Saturday is closed under the default calendar.
	_, err := svc.Create(dinnerRequest(saturday, "20:00", 4))
	assert.ErrorIs(t, err, ErrClosedDay)

	// Same request on a Tuesday is admitted and bound to the table,
	// occupying [20:00, 21:30).
	created, err := svc.Create(dinnerRequest(tuesday, "20:00", 4))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, models.PeriodDinner, created.Period)
	assert.Equal(t, 90, created.Duration)
	assert.Equal(t, []string{table.ID}, created.TableIDList())
}

func TestCreateReservationNoPartialWrites(t *testing.T) {
	db := setupTestDB(t)
	svc := newReservationService(t, db)

	// No tables exist, so allocation must fail after the availability
	// check passes, and nothing may be persisted.
	_, err := svc.Create(dinnerRequest(tuesday, "20:00", 2))
	assert.ErrorIs(t, err, ErrNoTableAvailable)

	var count int64
	require.NoError(t, db.Model(&models.Reservation{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCreateReservationValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newReservationService(t, db)

	_, err := svc.Create(CreateReservationInput{Phone: "1", Guests: 2, Date: tuesday, Time: "20:00"})
	assert.True(t, IsValidation(err))

	_, err = svc.Create(CreateReservationInput{Name: "A", Guests: 2, Date: tuesday, Time: "20:00"})
	assert.True(t, IsValidation(err))
}

func TestNoDoubleBookingOnOverlap(t *testing.T) {
	db := setupTestDB(t)
	svc := newReservationService(t, db)

	room := createRoom(t, db, "Main", 10)
	createTable(t, db, room.ID, "1", 6, false)

	_, err := svc.Create(dinnerRequest(tuesday, "20:00", 4))
	require.NoError(t, err)

	// [20:30, 22:00) overlaps [20:00, 21:30) on the only table.
	_, err = svc.Create(dinnerRequest(tuesday, "20:30", 2))
	assert.ErrorIs(t, err, ErrNoTableAvailable)

	// A different date is independent.
	wednesday := "2026-09-02"
	_, err = svc.Create(dinnerRequest(wednesday, "20:30", 2))
	assert.NoError(t, err)
}

func TestNonOverlappingIntervalsShareTable(t *testing.T) {
	db := setupTestDB(t)
	svc := newReservationService(t, db)

	room := createRoom(t, db, "Main", 10)
	table := createTable(t, db, room.ID, "1", 6, false)

	first, err := svc.Create(dinnerRequest(tuesday, "19:00", 4))
	require.NoError(t, err)

	// [20:30, 22:00) starts exactly when [19:00, 20:30) ends.
	second, err := svc.Create(dinnerRequest(tuesday, "20:30", 4))
	require.NoError(t, err)

	assert.Equal(t, []string{table.ID}, first.TableIDList())
	assert.Equal(t, []string{table.ID}, second.TableIDList())
}

func TestJoinedBindingOccupiesAllTables(t *testing.T) {
	db := setupTestDB(t)
	svc := newReservationService(t, db)

	room := createRoom(t, db, "Main", 10)
	createTable(t, db, room.ID, "1", 2, true)
	createTable(t, db, room.ID, "2", 2, true)

	joined, err := svc.Create(dinnerRequest(tuesday, "20:00", 4))
	require.NoError(t, err)
	assert.Len(t, joined.TableIDList(), 2)

	// Both members are occupied for the interval.
	_, err = svc.Create(dinnerRequest(tuesday, "20:00", 2))
	assert.ErrorIs(t, err, ErrNoTableAvailable)
}

func TestCancellationFreesTableImmediately(t *testing.T) {
	db := setupTestDB(t)
	svc := newReservationService(t, db)

	room := createRoom(t, db, "Main", 10)
	createTable(t, db, room.ID, "1", 6, false)

	created, err := svc.Create(dinnerRequest(tuesday, "20:00", 4))
	require.NoError(t, err)

	_, err = svc.Create(dinnerRequest(tuesday, "20:00", 4))
	assert.ErrorIs(t, err, ErrNoTableAvailable)

	_, err = svc.Cancel(created.ID)
	require.NoError(t, err)

	// The exact slot is free again.
	_, err = svc.Create(dinnerRequest(tuesday, "20:00", 4))
	assert.NoError(t, err)
}

func TestStateMachine(t *testing.T) {
	db := setupTestDB(t)
	svc := newReservationService(t, db)

	room := createRoom(t, db, "Main", 10)
	createTable(t, db, room.ID, "1", 6, false)

	r, err := svc.Create(dinnerRequest(tuesday, "20:00", 2))
	require.NoError(t, err)

	// pending must be confirmed before completion.
	_, err = svc.Complete(r.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	confirmed, err := svc.Confirm(r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, confirmed.Status)
	assert.Equal(t, r.TableIDList(), confirmed.TableIDList())

	// confirmed -> confirmed is not a transition.
	_, err = svc.Confirm(r.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	completed, err := svc.Complete(r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)

	// completed is terminal.
	_, err = svc.Cancel(r.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.Confirm(r.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionUnknownID(t *testing.T) {
	db := setupTestDB(t)
	svc := newReservationService(t, db)

	_, err := svc.Cancel("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateMoveReallocates(t *testing.T) {
	db := setupTestDB(t)
	svc := newReservationService(t, db)

	room := createRoom(t, db, "Main", 10)
	small := createTable(t, db, room.ID, "1", 2, false)
	big := createTable(t, db, room.ID, "2", 6, false)

	r, err := svc.Create(dinnerRequest(tuesday, "20:00", 2))
	require.NoError(t, err)
	assert.Equal(t, []string{small.ID}, r.TableIDList())

	bigger := 5
	updated, err := svc.Update(r.ID, UpdateReservationInput{Guests: &bigger})
	require.NoError(t, err)
	assert.Equal(t, []string{big.ID}, updated.TableIDList())
	assert.Equal(t, 5, updated.Guests)
}

func TestUpdateRejectedMoveKeepsOriginal(t *testing.T) {
	db := setupTestDB(t)
	svc := newReservationService(t, db)

	room := createRoom(t, db, "Main", 10)
	createTable(t, db, room.ID, "1", 4, false)

	r, err := svc.Create(dinnerRequest(tuesday, "20:00", 2))
	require.NoError(t, err)

	tooMany := 12
	_, err = svc.Update(r.ID, UpdateReservationInput{Guests: &tooMany})
	assert.ErrorIs(t, err, ErrNoTableAvailable)

	// The original booking is untouched.
	got, err := svc.Get(r.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Guests)
	assert.Equal(t, r.TableIDList(), got.TableIDList())
}

func TestUpdateContactOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newReservationService(t, db)

	room := createRoom(t, db, "Main", 10)
	createTable(t, db, room.ID, "1", 4, false)

	r, err := svc.Create(dinnerRequest(tuesday, "20:00", 2))
	require.NoError(t, err)

	name := "Joana Santos"
	updated, err := svc.Update(r.ID, UpdateReservationInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Joana Santos", updated.Name)
	assert.Equal(t, r.TableIDList(), updated.TableIDList())
}

func TestConcurrentCreatesNeverShareTable(t *testing.T) {
	db := setupTestDB(t)
	svc := newReservationService(t, db)

	room := createRoom(t, db, "Main", 10)
	createTable(t, db, room.ID, "1", 6, false)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(dinnerRequest(tuesday, "20:00", 4))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one request may win the single table")

	var active []models.Reservation
	require.NoError(t, db.Where("status IN ?", []string{models.StatusPending, models.StatusConfirmed}).Find(&active).Error)
	assert.Len(t, active, 1)
}

func TestConcurrentConfirmCancel(t *testing.T) {
	db := setupTestDB(t)
	svc := newReservationService(t, db)

	room := createRoom(t, db, "Main", 10)
	createTable(t, db, room.ID, "1", 6, false)

	// Whichever order the two transitions land in, cancellation must stick:
	// confirm-then-cancel ends cancelled, cancel-then-confirm rejects the
	// confirm. A cancelled reservation may never resurface as confirmed.
	for i := 0; i < 40; i++ {
		r, err := svc.Create(dinnerRequest(tuesday, "20:00", 2))
		require.NoError(t, err)

		var wg sync.WaitGroup
		var confirmErr, cancelErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, confirmErr = svc.Confirm(r.ID)
		}()
		go func() {
			defer wg.Done()
			_, cancelErr = svc.Cancel(r.ID)
		}()
		wg.Wait()

		require.NoError(t, cancelErr)
		if confirmErr != nil {
			assert.ErrorIs(t, confirmErr, ErrInvalidTransition)
		}

		got, err := svc.Get(r.ID)
		require.NoError(t, err)
		require.Equal(t, models.StatusCancelled, got.Status)
	}
}

func TestUpdateCancelledReservationRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := newReservationService(t, db)

	room := createRoom(t, db, "Main", 10)
	createTable(t, db, room.ID, "1", 6, false)

	r, err := svc.Create(dinnerRequest(tuesday, "20:00", 2))
	require.NoError(t, err)
	_, err = svc.Cancel(r.ID)
	require.NoError(t, err)

	name := "Joana Santos"
	_, err = svc.Update(r.ID, UpdateReservationInput{Name: &name})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, err := svc.Get(r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)
}

func TestCompleteElapsed(t *testing.T) {
	db := setupTestDB(t)
	svc := newReservationService(t, db)

	room := createRoom(t, db, "Main", 10)
	createTable(t, db, room.ID, "1", 6, false)

	r, err := svc.Create(dinnerRequest(tuesday, "19:00", 2))
	require.NoError(t, err)

	// Before the interval elapses nothing happens.
	at := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)
	done, err := svc.CompleteElapsed(at)
	require.NoError(t, err)
	assert.EqualValues(t, 0, done)

	// [19:00, 20:30) has elapsed by 21:00.
	at = time.Date(2026, 9, 1, 21, 0, 0, 0, time.UTC)
	done, err = svc.CompleteElapsed(at)
	require.NoError(t, err)
	assert.EqualValues(t, 1, done)

	got, err := svc.Get(r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
}
