package models

import (
	"time"

	"gorm.io/datatypes"
)

// Settings is the restaurant's operating calendar. A single row with
// SettingsID "global" exists per installation; it is seeded on first start.
//
// OpenDays holds a JSON array of weekday ints, Monday=0 .. Sunday=6.
// Serving windows are restaurant-local "HH:MM" strings.
type Settings struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	SettingsID string `gorm:"column:settings_id;size:32;uniqueIndex" json:"settings_id"`

	OpenDays    datatypes.JSON `gorm:"column:open_days" json:"open_days"`
	LunchStart  string         `gorm:"column:lunch_start;size:5" json:"lunch_start"`
	LunchEnd    string         `gorm:"column:lunch_end;size:5" json:"lunch_end"`
	DinnerStart string         `gorm:"column:dinner_start;size:5" json:"dinner_start"`
	DinnerEnd   string         `gorm:"column:dinner_end;size:5" json:"dinner_end"`

	AvgTableTime      int `gorm:"column:avg_table_time" json:"avg_table_time"`
	MaxCapacityLunch  int `gorm:"column:max_capacity_lunch" json:"max_capacity_lunch"`
	MaxCapacityDinner int `gorm:"column:max_capacity_dinner" json:"max_capacity_dinner"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
