package service

import (
	"context"
	"errors"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/repository"
)

var ErrScheduleEntryNotFound = errors.New("schedule entry not found")

// ScheduleService indexes recipes by (user, date, meal type).
type ScheduleService interface {
	AddMeal(ctx context.Context, userID string, date domain.Date, mealType domain.MealType, recipeID string) (*domain.ScheduleEntry, error)
	// FetchMeals returns the recipe ids of one meal slot in insertion order.
	// A backend failure is returned as *TransportError, never as an empty slot.
	FetchMeals(ctx context.Context, userID string, date domain.Date, mealType domain.MealType) ([]string, error)
	// FetchDay returns every meal type of a day; slots without entries map
	// to an empty slice.
	FetchDay(ctx context.Context, userID string, date domain.Date) (map[domain.MealType][]string, error)
	RemoveMeal(ctx context.Context, userID, entryID string) error
}

type scheduleService struct {
	scheduleRepo repository.ScheduleRepository
}

// NewScheduleService creates a new instance of scheduleService.
func NewScheduleService(scheduleRepo repository.ScheduleRepository) ScheduleService {
	return &scheduleService{scheduleRepo: scheduleRepo}
}

func validateSlot(userID string, date domain.Date, mealType domain.MealType) error {
	if userID == "" {
		return validationErrorf("user id is required")
	}
	if !date.Valid() {
		return validationErrorf("invalid date %q", date)
	}
	if _, err := domain.ParseMealType(string(mealType)); err != nil {
		return validationErrorf("%v", err)
	}
	return nil
}

func (s *scheduleService) AddMeal(ctx context.Context, userID string, date domain.Date, mealType domain.MealType, recipeID string) (*domain.ScheduleEntry, error) {
	if err := validateSlot(userID, date, mealType); err != nil {
		return nil, err
	}
	if recipeID == "" {
		return nil, validationErrorf("recipe id is required")
	}

	entry := &domain.ScheduleEntry{
		UserID:   userID,
		Date:     date,
		MealType: mealType,
		RecipeID: recipeID,
	}
	if err := s.scheduleRepo.Create(ctx, entry); err != nil {
		return nil, transportError("schedule meal", err)
	}
	return entry, nil
}

func (s *scheduleService) FetchMeals(ctx context.Context, userID string, date domain.Date, mealType domain.MealType) ([]string, error) {
	if err := validateSlot(userID, date, mealType); err != nil {
		return nil, err
	}
	entries, err := s.scheduleRepo.FindMeals(ctx, userID, date, mealType)
	if err != nil {
		return nil, transportError("fetch meals", err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		// the store filters already; this guards against a sloppy backend
		if e.UserID == userID && e.Date == date && e.MealType == mealType {
			ids = append(ids, e.RecipeID)
		}
	}
	return ids, nil
}

func (s *scheduleService) FetchDay(ctx context.Context, userID string, date domain.Date) (map[domain.MealType][]string, error) {
	if err := validateSlot(userID, date, domain.MealBreakfast); err != nil {
		return nil, err
	}
	entries, err := s.scheduleRepo.FindDay(ctx, userID, date)
	if err != nil {
		return nil, transportError("fetch day", err)
	}

	day := make(map[domain.MealType][]string, len(domain.MealTypes))
	for _, m := range domain.MealTypes {
		day[m] = []string{}
	}
	for _, e := range entries {
		if e.UserID != userID || e.Date != date {
			continue
		}
		if _, ok := day[e.MealType]; ok {
			day[e.MealType] = append(day[e.MealType], e.RecipeID)
		}
	}
	return day, nil
}

func (s *scheduleService) RemoveMeal(ctx context.Context, userID, entryID string) error {
	if userID == "" || entryID == "" {
		return validationErrorf("user id and entry id are required")
	}
	err := s.scheduleRepo.Delete(ctx, userID, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrScheduleEntryNotFound
		}
		return transportError("remove meal", err)
	}
	return nil
}
