package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"reserva-backend/metrics"
	"reserva-backend/models"

	"gorm.io/gorm"
)

// HACCPService owns the append-only compliance log plus the equipment and
// space registries it is evaluated against.
type HACCPService struct {
	DB     *gorm.DB
	Policy AlertPolicy
}

func NewHACCPService(db *gorm.DB) *HACCPService {
	return &HACCPService{DB: db, Policy: DefaultAlertPolicy()}
}

// CreateRecordInput is one logbook entry. Validation depends on the
// record_type variant.
type CreateRecordInput struct {
	RecordType       string `json:"record_type"`
	EquipmentProduct string `json:"equipment_product"`
	Value            string `json:"value"`
	PhotoURL         string `json:"photo_url"`
	UserName         string `json:"user_name"`
	Signature        string `json:"signature"`
	Notes            string `json:"notes"`
}

// validate applies the per-variant rules: temperatures must carry a numeric
// value, expiry entries a calendar date, and every entry names its subject
// and author.
func (in *CreateRecordInput) validate() error {
	in.EquipmentProduct = strings.TrimSpace(in.EquipmentProduct)
	in.UserName = strings.TrimSpace(in.UserName)
	in.Value = strings.TrimSpace(in.Value)

	if in.EquipmentProduct == "" {
		return invalidf("equipment_product", "is required")
	}
	if in.UserName == "" {
		return invalidf("user_name", "is required")
	}

	switch in.RecordType {
	case models.RecordTemperature:
		if _, err := strconv.ParseFloat(in.Value, 64); err != nil {
			return invalidf("value", "temperature records need a numeric value")
		}
	case models.RecordExpiry:
		if _, err := ParseDate(in.Value); err != nil {
			return invalidf("value", "expiry records need a YYYY-MM-DD date")
		}
	case models.RecordCleaning, models.RecordGoodsReception:
		// free-text value is fine
	default:
		return invalidf("record_type", "unknown record type %q", in.RecordType)
	}
	return nil
}

// CreateRecord appends one entry to the log. Records are immutable once
// written; there is deliberately no update or delete method.
func (s *HACCPService) CreateRecord(in CreateRecordInput) (models.HACCPRecord, error) {
	if err := in.validate(); err != nil {
		return models.HACCPRecord{}, err
	}

	record := models.HACCPRecord{
		RecordType:       in.RecordType,
		EquipmentProduct: in.EquipmentProduct,
		Value:            in.Value,
		PhotoURL:         in.PhotoURL,
		UserName:         in.UserName,
		Signature:        in.Signature,
		Notes:            in.Notes,
	}
	if err := s.DB.Create(&record).Error; err != nil {
		return models.HACCPRecord{}, fmt.Errorf("failed to persist record: %w", err)
	}
	metrics.IncHACCPRecord(record.RecordType)
	return record, nil
}

// ListRecords returns log entries newest first, optionally by type.
func (s *HACCPService) ListRecords(recordType string) ([]models.HACCPRecord, error) {
	q := s.DB.Order("created_at DESC")
	if recordType != "" {
		q = q.Where("record_type = ?", recordType)
	}
	var records []models.HACCPRecord
	err := q.Find(&records).Error
	return records, err
}

// Alerts recomputes the advisory alert set against the current log.
func (s *HACCPService) Alerts(now time.Time) ([]Alert, error) {
	var records []models.HACCPRecord
	if err := s.DB.Find(&records).Error; err != nil {
		return nil, err
	}
	var equipment []models.Equipment
	if err := s.DB.Find(&equipment).Error; err != nil {
		return nil, err
	}
	return ComputeAlerts(records, equipment, s.Policy, now), nil
}

// --- compliance inventory ---

func (s *HACCPService) CreateEquipment(eq models.Equipment) (models.Equipment, error) {
	eq.Name = strings.TrimSpace(eq.Name)
	if eq.Name == "" {
		return models.Equipment{}, invalidf("name", "is required")
	}
	if err := s.DB.Create(&eq).Error; err != nil {
		return models.Equipment{}, err
	}
	return eq, nil
}

func (s *HACCPService) ListEquipment() ([]models.Equipment, error) {
	var equipment []models.Equipment
	err := s.DB.Order("name").Find(&equipment).Error
	return equipment, err
}

func (s *HACCPService) DeleteEquipment(id string) error {
	res := s.DB.Delete(&models.Equipment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *HACCPService) CreateSpace(sp models.Space) (models.Space, error) {
	sp.Name = strings.TrimSpace(sp.Name)
	if sp.Name == "" {
		return models.Space{}, invalidf("name", "is required")
	}
	if err := s.DB.Create(&sp).Error; err != nil {
		return models.Space{}, err
	}
	return sp, nil
}

func (s *HACCPService) ListSpaces() ([]models.Space, error) {
	var spaces []models.Space
	err := s.DB.Order("name").Find(&spaces).Error
	return spaces, err
}

func (s *HACCPService) DeleteSpace(id string) error {
	res := s.DB.Delete(&models.Space{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
