package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HACCP record variants. Each variant carries its own validation and its
// own compliance rule; see services.ComputeAlerts.
const (
	RecordTemperature    = "temperature"
	RecordCleaning       = "cleaning"
	RecordGoodsReception = "goods_reception"
	RecordExpiry         = "expiry"
)

// HACCPRecord is an append-only food-safety log entry. Records reference
// equipment by free-text label (EquipmentProduct), not by foreign key.
// There is no update or delete path; the log is immutable once written.
type HACCPRecord struct {
	ID               string `gorm:"primaryKey;size:36" json:"record_id"`
	RecordType       string `gorm:"column:record_type;size:32;index" json:"record_type"`
	EquipmentProduct string `gorm:"column:equipment_product;size:255" json:"equipment_product"`
	Value            string `gorm:"size:255" json:"value,omitempty"`
	PhotoURL         string `gorm:"column:photo_url;size:512" json:"photo_url,omitempty"`
	UserName         string `gorm:"column:user_name;size:255" json:"user_name"`
	Signature        string `gorm:"type:text" json:"signature,omitempty"`
	Notes            string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (h *HACCPRecord) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}
