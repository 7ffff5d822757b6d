package services

import (
	"math"
	"time"

	"reserva-backend/models"

	"gorm.io/gorm"
)

// DashboardStats is the admin overview aggregate.
type DashboardStats struct {
	TodayReservations    int64                `json:"today_reservations"`
	OccupancyRate        float64              `json:"occupancy_rate"`
	UpcomingReservations []models.Reservation `json:"upcoming_reservations"`
	HACCPAlerts          int                  `json:"haccp_alerts"`
}

// DashboardService aggregates counts for the admin overview. Read-only.
type DashboardService struct {
	DB       *gorm.DB
	Settings *SettingsService
	HACCP    *HACCPService
}

func NewDashboardService(db *gorm.DB, settings *SettingsService, haccp *HACCPService) *DashboardService {
	return &DashboardService{DB: db, Settings: settings, HACCP: haccp}
}

// Stats computes the overview for the given instant.
func (s *DashboardService) Stats(now time.Time) (DashboardStats, error) {
	today := now.Format("2006-01-02")
	notCancelled := []string{models.StatusPending, models.StatusConfirmed, models.StatusCompleted}

	var stats DashboardStats

	err := s.DB.Model(&models.Reservation{}).
		Where("date = ? AND status IN ?", today, notCancelled).
		Count(&stats.TodayReservations).Error
	if err != nil {
		return DashboardStats{}, err
	}

	var todays []models.Reservation
	if err := s.DB.Where("date = ? AND status IN ?", today, notCancelled).Find(&todays).Error; err != nil {
		return DashboardStats{}, err
	}
	guests := 0
	for i := range todays {
		guests += todays[i].Guests
	}

	snap := s.Settings.Snapshot()
	totalCapacity := snap.Lunch.Capacity + snap.Dinner.Capacity
	if totalCapacity > 0 {
		stats.OccupancyRate = math.Round(float64(guests)/float64(totalCapacity)*1000) / 10
	}

	err = s.DB.Where("date >= ? AND status IN ?", today, notCancelled).
		Order("date, time").Limit(5).
		Find(&stats.UpcomingReservations).Error
	if err != nil {
		return DashboardStats{}, err
	}

	alerts, err := s.HACCP.Alerts(now)
	if err != nil {
		return DashboardStats{}, err
	}
	stats.HACCPAlerts = len(alerts)

	return stats, nil
}
