package services

import (
	"testing"
	"time"

	"reserva-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoomValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)

	_, err := svc.CreateRoom(models.Room{Name: "Main", Capacity: 0})
	assert.True(t, IsValidation(err))

	_, err = svc.CreateRoom(models.Room{Name: "", Capacity: 10})
	assert.True(t, IsValidation(err))

	room, err := svc.CreateRoom(models.Room{Name: "Main", Capacity: 10})
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)
}

func TestCreateTableValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)

	room := createRoom(t, db, "Main", 10)

	_, err := svc.CreateTable(models.Table{RoomID: room.ID, Number: "1", Capacity: 0})
	assert.True(t, IsValidation(err))

	_, err = svc.CreateTable(models.Table{RoomID: "missing", Number: "1", Capacity: 4})
	assert.True(t, IsValidation(err))

	table, err := svc.CreateTable(models.Table{RoomID: room.ID, Number: "1", Capacity: 4, CanJoin: true})
	require.NoError(t, err)
	assert.True(t, table.CanJoin)
}

func TestDeleteRoomConflict(t *testing.T) {
	db := setupTestDB(t)
	inv := NewInventoryService(db)
	res := newReservationService(t, db)

	room := createRoom(t, db, "Main", 10)
	createTable(t, db, room.ID, "1", 6, false)

	_, err := res.Create(dinnerRequest(tuesday, "20:00", 4))
	require.NoError(t, err)

	// An active reservation on a contained table blocks deletion.
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	err = inv.DeleteRoom(room.ID, now)
	assert.ErrorIs(t, err, ErrConflict)

	// Once the date has passed the room can go, cascading to its tables.
	later := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, inv.DeleteRoom(room.ID, later))

	var tables int64
	require.NoError(t, db.Model(&models.Table{}).Count(&tables).Error)
	assert.EqualValues(t, 0, tables)
}

func TestDeleteRoomFreedByCancellation(t *testing.T) {
	db := setupTestDB(t)
	inv := NewInventoryService(db)
	res := newReservationService(t, db)

	room := createRoom(t, db, "Main", 10)
	createTable(t, db, room.ID, "1", 6, false)

	r, err := res.Create(dinnerRequest(tuesday, "20:00", 4))
	require.NoError(t, err)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.ErrorIs(t, inv.DeleteRoom(room.ID, now), ErrConflict)

	_, err = res.Cancel(r.ID)
	require.NoError(t, err)
	assert.NoError(t, inv.DeleteRoom(room.ID, now))
}

func TestDeleteRoomNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)

	assert.ErrorIs(t, svc.DeleteRoom("missing", time.Now()), ErrNotFound)
}

func TestDeleteTable(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)

	room := createRoom(t, db, "Main", 10)
	table := createTable(t, db, room.ID, "1", 4, false)

	require.NoError(t, svc.DeleteTable(table.ID))
	assert.ErrorIs(t, svc.DeleteTable(table.ID), ErrNotFound)
}

func TestUpdateTableMovesRoom(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)

	roomA := createRoom(t, db, "A", 10)
	roomB := createRoom(t, db, "B", 10)
	table := createTable(t, db, roomA.ID, "1", 4, false)

	canJoin := true
	updated, err := svc.UpdateTable(table.ID, UpdateTableInput{RoomID: &roomB.ID, CanJoin: &canJoin})
	require.NoError(t, err)
	assert.Equal(t, roomB.ID, updated.RoomID)
	assert.True(t, updated.CanJoin)

	missing := "missing"
	_, err = svc.UpdateTable(table.ID, UpdateTableInput{RoomID: &missing})
	assert.True(t, IsValidation(err))
}

func TestUpdateTablePartialKeepsCanJoin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)

	room := createRoom(t, db, "Main", 10)
	table := createTable(t, db, room.ID, "1", 4, true)

	// A capacity-only edit must not touch the join flag.
	capacity := 6
	updated, err := svc.UpdateTable(table.ID, UpdateTableInput{Capacity: &capacity})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Capacity)
	assert.True(t, updated.CanJoin)

	zero := 0
	_, err = svc.UpdateTable(table.ID, UpdateTableInput{Capacity: &zero})
	assert.True(t, IsValidation(err))
}
