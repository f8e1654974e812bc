package service

import (
	"context"
	"errors"
	"recipehub/meal-planner/internal/domain"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrStaleResult is returned when the selected date changed while a slot
// was loading; the fetched data has been discarded.
var ErrStaleResult = errors.New("result dropped: selected date changed")

// MealSlots is the expandable per-day meal list of a calendar screen. Slots
// load lazily: expanding one fetches it for the selected date, and changing
// the date refetches every slot that is still expanded. Paging the month
// (calendar.View) never goes through here.
type MealSlots struct {
	schedule ScheduleService
	userID   string

	mu         sync.Mutex
	date       domain.Date
	generation uint64
	expanded   map[domain.MealType]bool
	loaded     map[domain.MealType][]string
}

func NewMealSlots(schedule ScheduleService, userID string, date domain.Date) *MealSlots {
	return &MealSlots{
		schedule: schedule,
		userID:   userID,
		date:     date,
		expanded: make(map[domain.MealType]bool),
		loaded:   make(map[domain.MealType][]string),
	}
}

// Date returns the selected date.
func (s *MealSlots) Date() domain.Date {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.date
}

// Expand opens a slot and returns its recipes, fetching only if the slot
// has not been loaded for the current date.
func (s *MealSlots) Expand(ctx context.Context, mealType domain.MealType) ([]string, error) {
	s.mu.Lock()
	s.expanded[mealType] = true
	if ids, ok := s.loaded[mealType]; ok {
		s.mu.Unlock()
		return slices.Clone(ids), nil
	}
	date, gen := s.date, s.generation
	s.mu.Unlock()

	return s.load(ctx, mealType, date, gen)
}

// Collapse closes a slot; its loaded data is kept for the current date.
func (s *MealSlots) Collapse(mealType domain.MealType) {
	s.mu.Lock()
	delete(s.expanded, mealType)
	s.mu.Unlock()
}

// Expanded reports whether the slot is open.
func (s *MealSlots) Expanded(mealType domain.MealType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expanded[mealType]
}

// Meals returns what is loaded for the slot, and whether anything is.
func (s *MealSlots) Meals(mealType domain.MealType) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, ok := s.loaded[mealType]
	return slices.Clone(ids), ok
}

// SelectDate switches day, drops everything loaded for the old one and
// refetches the expanded slots concurrently. Loads still in flight for an
// older date are discarded when they complete.
func (s *MealSlots) SelectDate(ctx context.Context, date domain.Date) error {
	s.mu.Lock()
	s.date = date
	s.generation++
	gen := s.generation
	s.loaded = make(map[domain.MealType][]string)
	open := make([]domain.MealType, 0, len(s.expanded))
	for _, m := range domain.MealTypes {
		if s.expanded[m] {
			open = append(open, m)
		}
	}
	s.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, m := range open {
		g.Go(func() error {
			_, err := s.load(gctx, m, date, gen)
			return err
		})
	}
	return g.Wait()
}

func (s *MealSlots) load(ctx context.Context, mealType domain.MealType, date domain.Date, gen uint64) ([]string, error) {
	ids, err := s.schedule.FetchMeals(ctx, s.userID, date, mealType)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return nil, ErrStaleResult
	}
	if err != nil {
		return nil, err
	}
	s.loaded[mealType] = ids
	return slices.Clone(ids), nil
}
