package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"reserva-backend/models"

	"gorm.io/gorm"
)

// InventoryService manages the physical inventory: rooms and their tables.
type InventoryService struct {
	DB *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{DB: db}
}

func (s *InventoryService) CreateRoom(room models.Room) (models.Room, error) {
	room.Name = strings.TrimSpace(room.Name)
	if room.Name == "" {
		return models.Room{}, invalidf("name", "is required")
	}
	if room.Capacity < 1 {
		return models.Room{}, invalidf("capacity", "must be at least 1")
	}
	if err := s.DB.Create(&room).Error; err != nil {
		return models.Room{}, fmt.Errorf("failed to create room: %w", err)
	}
	return room, nil
}

func (s *InventoryService) ListRooms() ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.Preload("Tables").Order("name").Find(&rooms).Error
	return rooms, err
}

func (s *InventoryService) UpdateRoom(id string, room models.Room) (models.Room, error) {
	var existing models.Room
	if err := s.DB.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Room{}, ErrNotFound
		}
		return models.Room{}, err
	}
	if name := strings.TrimSpace(room.Name); name != "" {
		existing.Name = name
	}
	if room.Capacity != 0 {
		if room.Capacity < 1 {
			return models.Room{}, invalidf("capacity", "must be at least 1")
		}
		existing.Capacity = room.Capacity
	}
	if err := s.DB.Save(&existing).Error; err != nil {
		return models.Room{}, err
	}
	return existing, nil
}

// DeleteRoom removes a room and cascades to its tables. It refuses with
// ErrConflict while any contained table is bound to an active reservation
// today or later; the decision to cancel those belongs to the caller.
func (s *InventoryService) DeleteRoom(id string, now time.Time) error {
	var room models.Room
	if err := s.DB.Preload("Tables").First(&room, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	tableIDs := map[string]bool{}
	for _, t := range room.Tables {
		tableIDs[t.ID] = true
	}

	if len(tableIDs) > 0 {
		var active []models.Reservation
		err := s.DB.Where("date >= ? AND status IN ?",
			now.Format("2006-01-02"),
			[]string{models.StatusPending, models.StatusConfirmed}).
			Find(&active).Error
		if err != nil {
			return err
		}
		for i := range active {
			for _, tid := range active[i].TableIDList() {
				if tableIDs[tid] {
					return ErrConflict
				}
			}
		}
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Table{}, "room_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Room{}, "id = ?", id).Error
	})
}

func (s *InventoryService) CreateTable(table models.Table) (models.Table, error) {
	table.Number = strings.TrimSpace(table.Number)
	if table.Number == "" {
		return models.Table{}, invalidf("number", "is required")
	}
	if table.Capacity < 1 {
		return models.Table{}, invalidf("capacity", "must be at least 1")
	}

	var room models.Room
	if err := s.DB.First(&room, "id = ?", table.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Table{}, invalidf("room_id", "unknown room")
		}
		return models.Table{}, err
	}

	if err := s.DB.Create(&table).Error; err != nil {
		return models.Table{}, fmt.Errorf("failed to create table: %w", err)
	}
	return table, nil
}

func (s *InventoryService) ListTables() ([]models.Table, error) {
	var tables []models.Table
	err := s.DB.Order("number").Find(&tables).Error
	return tables, err
}

// UpdateTableInput carries a partial table edit. Nil fields stay untouched.
type UpdateTableInput struct {
	Number   *string `json:"number"`
	Capacity *int    `json:"capacity"`
	RoomID   *string `json:"room_id"`
	CanJoin  *bool   `json:"can_join"`
}

func (s *InventoryService) UpdateTable(id string, in UpdateTableInput) (models.Table, error) {
	var existing models.Table
	if err := s.DB.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Table{}, ErrNotFound
		}
		return models.Table{}, err
	}
	if in.Number != nil {
		n := strings.TrimSpace(*in.Number)
		if n == "" {
			return models.Table{}, invalidf("number", "is required")
		}
		existing.Number = n
	}
	if in.Capacity != nil {
		if *in.Capacity < 1 {
			return models.Table{}, invalidf("capacity", "must be at least 1")
		}
		existing.Capacity = *in.Capacity
	}
	if in.RoomID != nil && *in.RoomID != existing.RoomID {
		var room models.Room
		if err := s.DB.First(&room, "id = ?", *in.RoomID).Error; err != nil {
			return models.Table{}, invalidf("room_id", "unknown room")
		}
		existing.RoomID = *in.RoomID
	}
	if in.CanJoin != nil {
		existing.CanJoin = *in.CanJoin
	}
	if err := s.DB.Save(&existing).Error; err != nil {
		return models.Table{}, err
	}
	return existing, nil
}

func (s *InventoryService) DeleteTable(id string) error {
	res := s.DB.Delete(&models.Table{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
