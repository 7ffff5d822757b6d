package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Equipment types the compliance monitor knows temperature ranges for.
const (
	EquipmentRefrigerator = "refrigerator"
	EquipmentFreezer      = "freezer"
)

// Equipment is a tracked appliance (fridge, freezer, oven). HACCP records
// match it by name, not by id.
type Equipment struct {
	ID       string `gorm:"primaryKey;size:36" json:"equipment_id"`
	Name     string `gorm:"size:255" json:"name"`
	Type     string `gorm:"size:64" json:"type"`
	Location string `gorm:"size:255" json:"location,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (e *Equipment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// Space is a physical area covered by cleaning records (kitchen, cold room).
type Space struct {
	ID   string `gorm:"primaryKey;size:36" json:"space_id"`
	Name string `gorm:"size:255" json:"name"`
	Type string `gorm:"size:64" json:"type"`

	CreatedAt time.Time `json:"created_at"`
}

func (s *Space) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
