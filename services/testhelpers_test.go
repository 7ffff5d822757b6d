package services

import (
	"encoding/json"
	"testing"

	"reserva-backend/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database. Each test gets its own
// isolated database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Silent),
		PrepareStmt: false,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Settings{},
		&models.Room{},
		&models.Table{},
		&models.Reservation{},
		&models.Equipment{},
		&models.Space{},
		&models.HACCPRecord{},
	)
	require.NoError(t, err)

	return db
}

func openDaysJSON(t *testing.T, days ...int) datatypes.JSON {
	t.Helper()
	raw, err := json.Marshal(days)
	require.NoError(t, err)
	return datatypes.JSON(raw)
}

// defaultSettings is the baseline calendar: open Monday-Friday,
// lunch 12:00-15:00 for 50, dinner 19:00-22:00 for 20, 90 minute tables.
func defaultSettings(t *testing.T) models.Settings {
	return models.Settings{
		SettingsID:        "global",
		OpenDays:          openDaysJSON(t, 0, 1, 2, 3, 4),
		LunchStart:        "12:00",
		LunchEnd:          "15:00",
		DinnerStart:       "19:00",
		DinnerEnd:         "22:00",
		AvgTableTime:      90,
		MaxCapacityLunch:  50,
		MaxCapacityDinner: 20,
	}
}

func newSettingsService(t *testing.T, db *gorm.DB, settings models.Settings) *SettingsService {
	t.Helper()
	require.NoError(t, db.Create(&settings).Error)
	svc, err := NewSettingsService(db)
	require.NoError(t, err)
	return svc
}

func createRoom(t *testing.T, db *gorm.DB, name string, capacity int) models.Room {
	t.Helper()
	room := models.Room{Name: name, Capacity: capacity}
	require.NoError(t, db.Create(&room).Error)
	return room
}

func createTable(t *testing.T, db *gorm.DB, roomID, number string, capacity int, canJoin bool) models.Table {
	t.Helper()
	table := models.Table{RoomID: roomID, Number: number, Capacity: capacity, CanJoin: canJoin}
	require.NoError(t, db.Create(&table).Error)
	return table
}

// Known weekdays for fixed-date tests: 2026-09-01 is a Tuesday,
// 2026-09-05 a Saturday.
const (
	tuesday  = "2026-09-01"
	saturday = "2026-09-05"
)
