package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"reserva-backend/metrics"
	"reserva-backend/models"
	"reserva-backend/utils"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReservationService is the authoritative ledger of reservation requests.
// Creation runs the full admission pipeline (availability check, table
// allocation, persist) as one serialized step per date, so two concurrent
// requests can never be bound to the same table for overlapping intervals.
type ReservationService struct {
	DB       *gorm.DB
	Settings *SettingsService

	// AutoCompleteElapsed turns on the time-based pending/confirmed ->
	// completed sweep before list reads. Off by default; completion is
	// otherwise an administrative action.
	AutoCompleteElapsed bool

	mu sync.Mutex
	// dateLocks holds one mutex per distinct date ever locked. Entries
	// are never removed; the set stays small for a single restaurant's
	// booking horizon.
	dateLocks map[string]*sync.Mutex
}

func NewReservationService(db *gorm.DB, settings *SettingsService) *ReservationService {
	return &ReservationService{
		DB:        db,
		Settings:  settings,
		dateLocks: make(map[string]*sync.Mutex),
	}
}

// lockDates acquires the per-date mutexes in sorted order so callers
// touching two dates (reservation moves) cannot deadlock.
func (s *ReservationService) lockDates(dates ...string) func() {
	uniq := map[string]bool{}
	var ordered []string
	for _, d := range dates {
		if !uniq[d] {
			uniq[d] = true
			ordered = append(ordered, d)
		}
	}
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			if ordered[j] < ordered[i] {
				ordered[i], ordered[j] = ordered[j], ordered[i]
			}
		}
	}

	var locked []*sync.Mutex
	for _, d := range ordered {
		s.mu.Lock()
		m, ok := s.dateLocks[d]
		if !ok {
			m = &sync.Mutex{}
			s.dateLocks[d] = m
		}
		s.mu.Unlock()
		m.Lock()
		locked = append(locked, m)
	}
	return func() {
		for i := len(locked) - 1; i >= 0; i-- {
			locked[i].Unlock()
		}
	}
}

// lockReservation acquires the date locks covering a change to the
// reservation, plus any extra dates the caller will touch, and re-reads the
// row once the locks are held. Retries when a concurrent move shifted the
// reservation to a date outside the held set.
func (s *ReservationService) lockReservation(id string, extra ...string) (models.Reservation, func(), error) {
	for {
		r, err := s.Get(id)
		if err != nil {
			return models.Reservation{}, nil, err
		}
		unlock := s.lockDates(append([]string{r.Date}, extra...)...)
		fresh, err := s.Get(id)
		if err != nil {
			unlock()
			return models.Reservation{}, nil, err
		}
		if fresh.Date == r.Date {
			return fresh, unlock, nil
		}
		unlock()
	}
}

// CreateReservationInput is a public reservation request.
type CreateReservationInput struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
	Guests int    `json:"guests"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Notes  string `json:"notes"`
}

func (in *CreateReservationInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" {
		return invalidf("name", "is required")
	}
	if in.Phone == "" {
		return invalidf("phone", "is required")
	}
	if in.Guests < 1 {
		return invalidf("guests", "must be at least 1")
	}
	return nil
}

// activeOnDate loads the pending/confirmed reservations recorded for a date.
func (s *ReservationService) activeOnDate(tx *gorm.DB, date string) ([]models.Reservation, error) {
	var existing []models.Reservation
	err := tx.Where("date = ? AND status IN ?", date, []string{models.StatusPending, models.StatusConfirmed}).
		Find(&existing).Error
	return existing, err
}

// occupiedTables derives the set of table ids bound for [start, end) on the
// reservations given, skipping the excluded reservation id (used by Update).
func occupiedTables(existing []models.Reservation, start, end int, excludeID string) map[string]bool {
	occupied := map[string]bool{}
	for i := range existing {
		r := &existing[i]
		if r.ID == excludeID || !r.IsActive() {
			continue
		}
		if !overlapsInterval(r, start, end) {
			continue
		}
		for _, id := range r.TableIDList() {
			occupied[id] = true
		}
	}
	return occupied
}

// Create admits and persists a new reservation, or rejects it with a
// terminal engine error. Nothing is written on rejection.
func (s *ReservationService) Create(in CreateReservationInput) (models.Reservation, error) {
	if err := in.validate(); err != nil {
		return models.Reservation{}, err
	}

	snap := s.Settings.Snapshot()

	unlock := s.lockDates(in.Date)
	defer unlock()

	var created models.Reservation
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		existing, err := s.activeOnDate(tx, in.Date)
		if err != nil {
			return fmt.Errorf("failed to load ledger for %s: %w", in.Date, err)
		}

		period, err := CheckAvailability(snap, existing, in.Date, in.Time, in.Guests)
		if err != nil {
			return err
		}

		var tables []models.Table
		if err := tx.Find(&tables).Error; err != nil {
			return fmt.Errorf("failed to load tables: %w", err)
		}

		start, _ := ParseClock(in.Time)
		occupied := occupiedTables(existing, start, start+snap.AvgTableTime, "")

		assignment, err := Allocate(tables, occupied, in.Guests)
		if err != nil {
			return err
		}

		created = models.Reservation{
			Name:     in.Name,
			Phone:    in.Phone,
			Email:    in.Email,
			Guests:   in.Guests,
			Date:     in.Date,
			Time:     in.Time,
			Duration: snap.AvgTableTime,
			Period:   period.Name,
			Status:   models.StatusPending,
			TableIDs: models.EncodeTableIDs(assignment.TableIDs),
			Notes:    in.Notes,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("failed to persist reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		metrics.IncReservationRejected(rejectionReason(err))
		return models.Reservation{}, err
	}

	metrics.IncReservationCreated(created.Period)
	log.WithFields(log.Fields{
		"reservation_id": created.ID,
		"date":           created.Date,
		"time":           created.Time,
		"guests":         created.Guests,
		"tables":         len(created.TableIDList()),
	}).Info("reservation created")

	// Best-effort confirmation mail; never affects the admission outcome.
	if created.Email != "" {
		go func(r models.Reservation) {
			if err := utils.SendReservationEmail(r.Email, r.Name, r.Date, r.Time, r.Guests); err != nil {
				log.WithError(err).Warn("confirmation email failed")
			}
		}(created)
	}

	return created, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrClosedDay):
		return "closed_day"
	case errors.Is(err, ErrOutsideHours):
		return "outside_hours"
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, ErrNoTableAvailable):
		return "no_table_available"
	case IsValidation(err):
		return "validation"
	default:
		return "internal"
	}
}

// List returns reservations, optionally filtered by date and status.
func (s *ReservationService) List(date, status string) ([]models.Reservation, error) {
	if s.AutoCompleteElapsed {
		if _, err := s.CompleteElapsed(time.Now()); err != nil {
			log.WithError(err).Warn("auto-complete sweep failed")
		}
	}

	q := s.DB.Order("date, time")
	if date != "" {
		q = q.Where("date = ?", date)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var reservations []models.Reservation
	err := q.Find(&reservations).Error
	return reservations, err
}

// Get looks up one reservation by id.
func (s *ReservationService) Get(id string) (models.Reservation, error) {
	var r models.Reservation
	if err := s.DB.First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Reservation{}, ErrNotFound
		}
		return models.Reservation{}, err
	}
	return r, nil
}

// UpdateReservationInput carries a partial administrative edit. Nil fields
// stay untouched. Changing date, time or guests re-runs the full admission
// pipeline; contact edits never do.
type UpdateReservationInput struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Email  *string `json:"email"`
	Notes  *string `json:"notes"`
	Guests *int    `json:"guests"`
	Date   *string `json:"date"`
	Time   *string `json:"time"`
}

func (in UpdateReservationInput) movesBooking(r models.Reservation) bool {
	if in.Date != nil && *in.Date != r.Date {
		return true
	}
	if in.Time != nil && *in.Time != r.Time {
		return true
	}
	if in.Guests != nil && *in.Guests != r.Guests {
		return true
	}
	return false
}

// Update edits a reservation. A move (new date, time or party size) is
// re-admitted against the current ledger with the reservation's own
// occupancy excluded; the old binding is released only when the new slot
// sticks. On rejection nothing changes.
func (s *ReservationService) Update(id string, in UpdateReservationInput) (models.Reservation, error) {
	var extra []string
	if in.Date != nil {
		extra = append(extra, *in.Date)
	}
	current, unlock, err := s.lockReservation(id, extra...)
	if err != nil {
		return models.Reservation{}, err
	}
	defer unlock()

	if !current.IsActive() {
		return models.Reservation{}, ErrInvalidTransition
	}

	newDate := current.Date
	if in.Date != nil {
		newDate = *in.Date
	}
	newTime := current.Time
	if in.Time != nil {
		newTime = *in.Time
	}
	newGuests := current.Guests
	if in.Guests != nil {
		newGuests = *in.Guests
	}

	applyContact := func(r *models.Reservation) {
		if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
			r.Name = strings.TrimSpace(*in.Name)
		}
		if in.Phone != nil && strings.TrimSpace(*in.Phone) != "" {
			r.Phone = strings.TrimSpace(*in.Phone)
		}
		if in.Email != nil {
			r.Email = strings.TrimSpace(*in.Email)
		}
		if in.Notes != nil {
			r.Notes = *in.Notes
		}
	}

	if !in.movesBooking(current) {
		applyContact(&current)
		if err := s.DB.Save(&current).Error; err != nil {
			return models.Reservation{}, fmt.Errorf("failed to save reservation: %w", err)
		}
		return current, nil
	}

	snap := s.Settings.Snapshot()

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		existing, err := s.activeOnDate(tx, newDate)
		if err != nil {
			return fmt.Errorf("failed to load ledger for %s: %w", newDate, err)
		}

		// The reservation's own occupancy must not count against itself.
		withoutSelf := existing[:0:0]
		for _, r := range existing {
			if r.ID != current.ID {
				withoutSelf = append(withoutSelf, r)
			}
		}

		period, err := CheckAvailability(snap, withoutSelf, newDate, newTime, newGuests)
		if err != nil {
			return err
		}

		var tables []models.Table
		if err := tx.Find(&tables).Error; err != nil {
			return fmt.Errorf("failed to load tables: %w", err)
		}

		start, _ := ParseClock(newTime)
		occupied := occupiedTables(withoutSelf, start, start+snap.AvgTableTime, current.ID)

		assignment, err := Allocate(tables, occupied, newGuests)
		if err != nil {
			return err
		}

		current.Date = newDate
		current.Time = newTime
		current.Guests = newGuests
		current.Duration = snap.AvgTableTime
		current.Period = period.Name
		current.TableIDs = models.EncodeTableIDs(assignment.TableIDs)
		applyContact(&current)

		return tx.Save(&current).Error
	})
	if err != nil {
		return models.Reservation{}, err
	}
	return current, nil
}

// transition applies one state-machine step under the reservation's date
// lock, rejecting anything outside pending -> confirmed -> completed and
// pending|confirmed -> cancelled. Only the status column is written, and the
// write is guarded on the status just read, so a transition can neither
// resurrect a terminal reservation nor clobber its table binding.
func (s *ReservationService) transition(id, target string) (models.Reservation, error) {
	r, unlock, err := s.lockReservation(id)
	if err != nil {
		return models.Reservation{}, err
	}
	defer unlock()

	allowed := false
	switch target {
	case models.StatusConfirmed:
		allowed = r.Status == models.StatusPending
	case models.StatusCompleted:
		allowed = r.Status == models.StatusConfirmed
	case models.StatusCancelled:
		allowed = r.IsActive()
	}
	if !allowed {
		return models.Reservation{}, ErrInvalidTransition
	}

	res := s.DB.Model(&models.Reservation{}).
		Where("id = ? AND status = ?", r.ID, r.Status).
		Update("status", target)
	if res.Error != nil {
		return models.Reservation{}, fmt.Errorf("failed to update status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Reservation{}, ErrInvalidTransition
	}
	r.Status = target
	return r, nil
}

// Confirm moves a pending reservation to confirmed. The table binding from
// creation is retained; allocation is not re-run.
func (s *ReservationService) Confirm(id string) (models.Reservation, error) {
	return s.transition(id, models.StatusConfirmed)
}

// Complete marks a confirmed occupancy as finished. The historical table
// binding is kept on the record. Pending reservations must be confirmed
// first; only the elapsed-time sweep completes them directly.
func (s *ReservationService) Complete(id string) (models.Reservation, error) {
	return s.transition(id, models.StatusCompleted)
}

// Cancel releases the reservation's tables immediately: allocation queries
// filter on active statuses, so the interval is free the moment the status
// flips.
func (s *ReservationService) Cancel(id string) (models.Reservation, error) {
	r, err := s.transition(id, models.StatusCancelled)
	if err != nil {
		return models.Reservation{}, err
	}
	metrics.IncReservationCancelled()
	return r, nil
}

// CompleteElapsed transitions every active reservation whose occupancy
// interval has fully elapsed. Called by admins, or automatically before
// list reads when AutoCompleteElapsed is set.
func (s *ReservationService) CompleteElapsed(now time.Time) (int64, error) {
	var candidates []models.Reservation
	today := now.Format("2006-01-02")
	err := s.DB.Where("date <= ? AND status IN ?", today, []string{models.StatusPending, models.StatusConfirmed}).
		Find(&candidates).Error
	if err != nil {
		return 0, err
	}

	nowMinute := now.Hour()*60 + now.Minute()
	var done int64
	for i := range candidates {
		r := &candidates[i]
		if r.Date == today {
			start, err := ParseClock(r.Time)
			if err != nil || start+r.Duration > nowMinute {
				continue
			}
		}
		unlock := s.lockDates(r.Date)
		res := s.DB.Model(&models.Reservation{}).
			Where("id = ? AND status IN ?", r.ID, []string{models.StatusPending, models.StatusConfirmed}).
			Update("status", models.StatusCompleted)
		unlock()
		if res.Error != nil {
			return done, fmt.Errorf("failed to complete reservation %s: %w", r.ID, res.Error)
		}
		done += res.RowsAffected
	}
	return done, nil
}
