package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Room is a dining room holding a set of tables. Capacity is a design
// margin, not the sum of table seats; rooms may be overbooked on purpose.
type Room struct {
	ID       string `gorm:"primaryKey;size:36" json:"room_id"`
	Name     string `gorm:"size:255" json:"name"`
	Capacity int    `json:"capacity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Tables []Table `gorm:"foreignKey:RoomID" json:"tables,omitempty"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
