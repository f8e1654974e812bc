package service

import (
	"context"
	"errors"
	"log"
	"math"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/repository"
	"time"
)

// TrackerService is the per-user time series of body metrics.
//
// Every record goes to the remote backend; when a mirror is configured it
// also keeps the last written row per day locally and serves reads when the
// remote backend is unreachable.
type TrackerService interface {
	// Upsert replaces the whole record for (UserID, Date).
	Upsert(ctx context.Context, record *domain.TrackerRecord) error
	// GetByDate returns nil, nil when the day has no record.
	GetByDate(ctx context.Context, userID string, date domain.Date) (*domain.TrackerRecord, error)
	GetAll(ctx context.Context, userID string) ([]domain.TrackerRecord, error)
	GetRange(ctx context.Context, userID string, start, end domain.Date) ([]domain.TrackerRecord, error)
	// IncrementWaterIntake adds one glass, creating a default record if the
	// day has none. Concurrent increments are applied atomically.
	IncrementWaterIntake(ctx context.Context, userID string, date domain.Date) (*domain.TrackerRecord, error)
	AddCalories(ctx context.Context, userID string, date domain.Date, amount float64) (*domain.TrackerRecord, error)
	// GetEntriesForCurrentMonth uses the process clock, not a viewed month.
	GetEntriesForCurrentMonth(ctx context.Context, userID string) ([]domain.TrackerRecord, error)
	GetEntriesForMonth(ctx context.Context, userID string, year int, month time.Month) ([]domain.TrackerRecord, error)
}

type trackerService struct {
	remote repository.TrackerRepository
	mirror repository.TrackerRepository // optional
	now    func() time.Time
}

// NewTrackerService wires the remote repository with an optional local
// mirror (nil disables it). now defaults to time.Now.
func NewTrackerService(remote, mirror repository.TrackerRepository, now func() time.Time) TrackerService {
	if now == nil {
		now = time.Now
	}
	return &trackerService{remote: remote, mirror: mirror, now: now}
}

func validateDay(userID string, date domain.Date) error {
	if userID == "" {
		return validationErrorf("user id is required")
	}
	if !date.Valid() {
		return validationErrorf("invalid date %q", date)
	}
	return nil
}

func validMetric(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func (s *trackerService) Upsert(ctx context.Context, record *domain.TrackerRecord) error {
	if record == nil {
		return validationErrorf("record is required")
	}
	if err := validateDay(record.UserID, record.Date); err != nil {
		return err
	}
	if !validMetric(record.Weight) || !validMetric(record.CaloriesIntake) || record.WaterIntake < 0 {
		return validationErrorf("weight, water and calories must be non-negative numbers")
	}

	remoteErr := s.remote.Upsert(ctx, record)
	// A full-row write is idempotent, so the mirror takes it even when the
	// remote write failed; the next successful write wins either way.
	s.writeMirror(ctx, record)
	return transportError("upsert tracker record", remoteErr)
}

func (s *trackerService) writeMirror(ctx context.Context, record *domain.TrackerRecord) {
	if s.mirror == nil {
		return
	}
	copied := *record
	if err := s.mirror.Upsert(ctx, &copied); err != nil {
		log.Printf("WARN: Tracker mirror write for %s/%s failed: %v", record.UserID, record.Date, err)
	}
}

func (s *trackerService) GetByDate(ctx context.Context, userID string, date domain.Date) (*domain.TrackerRecord, error) {
	if err := validateDay(userID, date); err != nil {
		return nil, err
	}

	record, err := s.remote.GetByDate(ctx, userID, date)
	if err == nil {
		return record, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if s.mirror == nil {
		return nil, transportError("get tracker record", err)
	}

	log.Printf("WARN: Remote tracker read failed, serving mirror: %v", err)
	record, mirrorErr := s.mirror.GetByDate(ctx, userID, date)
	if errors.Is(mirrorErr, repository.ErrNotFound) {
		// The mirror only holds rows this process wrote; a miss proves nothing.
		return nil, transportError("get tracker record", err)
	}
	if mirrorErr != nil {
		return nil, transportError("get tracker record", errors.Join(err, mirrorErr))
	}
	return record, nil
}

func (s *trackerService) GetAll(ctx context.Context, userID string) ([]domain.TrackerRecord, error) {
	if userID == "" {
		return nil, validationErrorf("user id is required")
	}
	return s.getRange(ctx, userID, "", "")
}

func (s *trackerService) GetRange(ctx context.Context, userID string, start, end domain.Date) ([]domain.TrackerRecord, error) {
	if err := validateDay(userID, start); err != nil {
		return nil, err
	}
	if !end.Valid() {
		return nil, validationErrorf("invalid date %q", end)
	}
	if end < start {
		return []domain.TrackerRecord{}, nil
	}
	return s.getRange(ctx, userID, start, end)
}

func (s *trackerService) getRange(ctx context.Context, userID string, start, end domain.Date) ([]domain.TrackerRecord, error) {
	records, err := s.remote.GetRange(ctx, userID, start, end)
	if err == nil {
		return records, nil
	}
	if s.mirror == nil {
		return nil, transportError("get tracker records", err)
	}

	log.Printf("WARN: Remote tracker range read failed, serving mirror: %v", err)
	records, mirrorErr := s.mirror.GetRange(ctx, userID, start, end)
	if mirrorErr != nil {
		return nil, transportError("get tracker records", errors.Join(err, mirrorErr))
	}
	if len(records) == 0 {
		return nil, transportError("get tracker records", err)
	}
	return records, nil
}

func (s *trackerService) IncrementWaterIntake(ctx context.Context, userID string, date domain.Date) (*domain.TrackerRecord, error) {
	if err := validateDay(userID, date); err != nil {
		return nil, err
	}
	record, err := s.remote.IncrementWater(ctx, userID, date, 1)
	if err != nil {
		// Not replayed locally: a caller retry would count the glass twice.
		return nil, transportError("increment water intake", err)
	}
	s.writeMirror(ctx, record)
	return record, nil
}

func (s *trackerService) AddCalories(ctx context.Context, userID string, date domain.Date, amount float64) (*domain.TrackerRecord, error) {
	if err := validateDay(userID, date); err != nil {
		return nil, err
	}
	if !validMetric(amount) {
		return nil, validationErrorf("calorie amount must be a non-negative number")
	}
	record, err := s.remote.AddCalories(ctx, userID, date, amount)
	if err != nil {
		return nil, transportError("add calories", err)
	}
	s.writeMirror(ctx, record)
	return record, nil
}

func (s *trackerService) GetEntriesForCurrentMonth(ctx context.Context, userID string) ([]domain.TrackerRecord, error) {
	today := s.now()
	return s.GetEntriesForMonth(ctx, userID, today.Year(), today.Month())
}

func (s *trackerService) GetEntriesForMonth(ctx context.Context, userID string, year int, month time.Month) ([]domain.TrackerRecord, error) {
	if userID == "" {
		return nil, validationErrorf("user id is required")
	}
	if month < time.January || month > time.December {
		return nil, validationErrorf("invalid month %d", month)
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return s.getRange(ctx, userID, domain.DateOf(first), domain.DateOf(last))
}
