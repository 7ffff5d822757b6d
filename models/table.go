package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Table belongs to exactly one Room. CanJoin marks tables that may be
// combined with other CanJoin tables of the same room to seat one party.
type Table struct {
	ID       string `gorm:"primaryKey;size:36" json:"table_id"`
	RoomID   string `gorm:"column:room_id;size:36;index" json:"room_id"`
	Number   string `gorm:"size:50" json:"number"`
	Capacity int    `json:"capacity"`
	CanJoin  bool   `gorm:"column:can_join" json:"can_join"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Table) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
