package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Reservation lifecycle states. Transitions are one-directional:
// pending -> confirmed -> completed, with cancellation allowed from
// pending or confirmed. Cancelled and completed are terminal.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Serving periods resolved by the availability engine.
const (
	PeriodLunch  = "lunch"
	PeriodDinner = "dinner"
)

// Reservation occupies [Time, Time+Duration) on Date. TableIDs is a JSON
// array of table ids; more than one entry means a joined-table set, and
// every member counts as occupied for the interval.
type Reservation struct {
	ID    string `gorm:"primaryKey;size:36" json:"reservation_id"`
	Name  string `gorm:"size:255" json:"name"`
	Phone string `gorm:"size:50" json:"phone"`
	Email string `gorm:"size:150" json:"email,omitempty"`

	Guests   int    `json:"guests"`
	Date     string `gorm:"size:10;index" json:"date"`
	Time     string `gorm:"size:5" json:"time"`
	Duration int    `json:"duration"`
	Period   string `gorm:"size:16" json:"period"`

	Status   string         `gorm:"size:16;index" json:"status"`
	TableIDs datatypes.JSON `gorm:"column:table_ids" json:"table_ids"`
	Notes    string         `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// IsActive reports whether the reservation still occupies its tables.
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// TableIDList decodes the bound table ids. An unbound or malformed column
// yields an empty list.
func (r *Reservation) TableIDList() []string {
	if len(r.TableIDs) == 0 {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(r.TableIDs, &ids); err != nil {
		return nil
	}
	return ids
}

// EncodeTableIDs builds the JSON column value for a table binding.
func EncodeTableIDs(ids []string) datatypes.JSON {
	if ids == nil {
		ids = []string{}
	}
	raw, _ := json.Marshal(ids)
	return datatypes.JSON(raw)
}
