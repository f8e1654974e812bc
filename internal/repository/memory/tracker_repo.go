package memory

import (
	"context"
	"errors"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/repository"
	"sort"
	"sync"
	"time"
)

type trackerKey struct {
	userID string
	date   domain.Date
}

// TrackerRepository implements repository.TrackerRepository in memory.
// Increments hold the write lock for the whole read-modify-write.
type TrackerRepository struct {
	faults
	mu      sync.RWMutex
	records map[trackerKey]domain.TrackerRecord
}

func NewTrackerRepository() *TrackerRepository {
	return &TrackerRepository{records: make(map[trackerKey]domain.TrackerRecord)}
}

func (r *TrackerRepository) Upsert(ctx context.Context, record *domain.TrackerRecord) error {
	if err := r.fault(); err != nil {
		return err
	}
	if record.UserID == "" || record.Date == "" {
		return errors.New("tracker record requires userId and date")
	}
	record.UpdatedAt = time.Now().UTC()
	r.mu.Lock()
	r.records[trackerKey{record.UserID, record.Date}] = *record
	r.mu.Unlock()
	return nil
}

func (r *TrackerRepository) GetByDate(ctx context.Context, userID string, date domain.Date) (*domain.TrackerRecord, error) {
	if err := r.fault(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[trackerKey{userID, date}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (r *TrackerRepository) GetRange(ctx context.Context, userID string, from, to domain.Date) ([]domain.TrackerRecord, error) {
	if err := r.fault(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := []domain.TrackerRecord{}
	for k, rec := range r.records {
		if k.userID != userID {
			continue
		}
		if from != "" && k.date < from {
			continue
		}
		if to != "" && k.date > to {
			continue
		}
		out = append(out, rec)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *TrackerRepository) IncrementWater(ctx context.Context, userID string, date domain.Date, delta int) (*domain.TrackerRecord, error) {
	return r.apply(userID, date, func(rec *domain.TrackerRecord) { rec.WaterIntake += delta })
}

func (r *TrackerRepository) AddCalories(ctx context.Context, userID string, date domain.Date, amount float64) (*domain.TrackerRecord, error) {
	return r.apply(userID, date, func(rec *domain.TrackerRecord) { rec.CaloriesIntake += amount })
}

func (r *TrackerRepository) apply(userID string, date domain.Date, mutate func(*domain.TrackerRecord)) (*domain.TrackerRecord, error) {
	if err := r.fault(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := trackerKey{userID, date}
	rec, ok := r.records[key]
	if !ok {
		rec = domain.TrackerRecord{UserID: userID, Date: date}
	}
	mutate(&rec)
	rec.UpdatedAt = time.Now().UTC()
	r.records[key] = rec
	return &rec, nil
}
