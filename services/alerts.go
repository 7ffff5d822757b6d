package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"reserva-backend/models"
)

// Alert codes emitted by the compliance monitor.
const (
	AlertTemperatureOutOfRange = "TemperatureOutOfRange"
	AlertExpiryApproaching     = "ExpiryApproaching"
	AlertExpired               = "Expired"
	AlertMissingCheck          = "MissingCheck"
)

// Alert severities.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

// Alert is a derived compliance warning. Alerts are recomputed on demand
// from the record log and never persisted; they are advisory and never
// block reservations or record creation.
type Alert struct {
	Code     string `json:"code"`
	Subject  string `json:"subject,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// AlertPolicy holds the compliance thresholds. Temperatures are Celsius.
type AlertPolicy struct {
	FridgeMin  float64
	FridgeMax  float64
	FreezerMax float64

	ExpiryLeadDays int
	StaleAfter     time.Duration

	// Daily minimum record counts; zero disables the check.
	MinTemperaturePerDay int
	MinCleaningPerDay    int
}

// DefaultAlertPolicy returns the standard HACCP thresholds: fridges 0-5 °C,
// freezers at or below -18 °C, a 2-day expiry lead window and a 24 h
// temperature-check cadence.
func DefaultAlertPolicy() AlertPolicy {
	return AlertPolicy{
		FridgeMin:            0,
		FridgeMax:            5,
		FreezerMax:           -18,
		ExpiryLeadDays:       2,
		StaleAfter:           24 * time.Hour,
		MinTemperaturePerDay: 3,
		MinCleaningPerDay:    2,
	}
}

// latestByProduct keeps the newest record of one type per equipment label.
func latestByProduct(records []models.HACCPRecord, recordType string) map[string]*models.HACCPRecord {
	latest := map[string]*models.HACCPRecord{}
	for i := range records {
		r := &records[i]
		if r.RecordType != recordType {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(r.EquipmentProduct))
		if prev, ok := latest[key]; !ok || r.CreatedAt.After(prev.CreatedAt) {
			latest[key] = r
		}
	}
	return latest
}

// ComputeAlerts evaluates the record log against the policy at time now.
// Pure function: same inputs, same alerts.
func ComputeAlerts(records []models.HACCPRecord, equipment []models.Equipment, policy AlertPolicy, now time.Time) []Alert {
	alerts := []Alert{}

	latestTemp := latestByProduct(records, models.RecordTemperature)

	// Temperature range per equipment type.
	for _, eq := range equipment {
		key := strings.ToLower(strings.TrimSpace(eq.Name))
		rec, ok := latestTemp[key]
		if !ok {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(rec.Value), 64)
		if err != nil {
			continue
		}

		out := false
		switch strings.ToLower(eq.Type) {
		case models.EquipmentFreezer:
			out = value > policy.FreezerMax
		case models.EquipmentRefrigerator:
			out = value < policy.FridgeMin || value > policy.FridgeMax
		}
		if out {
			alerts = append(alerts, Alert{
				Code:     AlertTemperatureOutOfRange,
				Subject:  eq.Name,
				Message:  fmt.Sprintf("%s reads %.1f °C, outside the safe range for a %s", eq.Name, value, eq.Type),
				Severity: SeverityHigh,
			})
		}
	}

	// Expiry lead window. Expiry values are calendar dates, so "today" is
	// now's local calendar date, not the instant truncated to a UTC day.
	today, _ := ParseDate(now.Format(dateLayout))
	for _, rec := range latestByProduct(records, models.RecordExpiry) {
		expiry, err := ParseDate(strings.TrimSpace(rec.Value))
		if err != nil {
			continue
		}
		daysLeft := int(expiry.Sub(today).Hours() / 24)
		switch {
		case daysLeft < 0:
			alerts = append(alerts, Alert{
				Code:     AlertExpired,
				Subject:  rec.EquipmentProduct,
				Message:  fmt.Sprintf("%s expired on %s", rec.EquipmentProduct, rec.Value),
				Severity: SeverityHigh,
			})
		case daysLeft <= policy.ExpiryLeadDays:
			alerts = append(alerts, Alert{
				Code:     AlertExpiryApproaching,
				Subject:  rec.EquipmentProduct,
				Message:  fmt.Sprintf("%s expires on %s", rec.EquipmentProduct, rec.Value),
				Severity: SeverityMedium,
			})
		}
	}

	// Stale temperature checks for registered cold equipment.
	for _, eq := range equipment {
		t := strings.ToLower(eq.Type)
		if t != models.EquipmentRefrigerator && t != models.EquipmentFreezer {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(eq.Name))
		rec, ok := latestTemp[key]
		if !ok || now.Sub(rec.CreatedAt) > policy.StaleAfter {
			alerts = append(alerts, Alert{
				Code:     AlertMissingCheck,
				Subject:  eq.Name,
				Message:  fmt.Sprintf("no temperature check recorded for %s in the last %s", eq.Name, policy.StaleAfter),
				Severity: SeverityHigh,
			})
		}
	}

	// Daily minimum record counts across the whole log.
	if policy.MinTemperaturePerDay > 0 || policy.MinCleaningPerDay > 0 {
		date := now.Format(dateLayout)
		tempToday, cleanToday := 0, 0
		for i := range records {
			if records[i].CreatedAt.Format(dateLayout) != date {
				continue
			}
			switch records[i].RecordType {
			case models.RecordTemperature:
				tempToday++
			case models.RecordCleaning:
				cleanToday++
			}
		}
		if policy.MinTemperaturePerDay > 0 && tempToday < policy.MinTemperaturePerDay {
			alerts = append(alerts, Alert{
				Code:     AlertMissingCheck,
				Message:  fmt.Sprintf("only %d of %d temperature records logged today", tempToday, policy.MinTemperaturePerDay),
				Severity: SeverityHigh,
			})
		}
		if policy.MinCleaningPerDay > 0 && cleanToday < policy.MinCleaningPerDay {
			alerts = append(alerts, Alert{
				Code:     AlertMissingCheck,
				Message:  fmt.Sprintf("only %d of %d cleaning records logged today", cleanToday, policy.MinCleaningPerDay),
				Severity: SeverityMedium,
			})
		}
	}

	return alerts
}
