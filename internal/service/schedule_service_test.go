package service

import (
	"context"
	"errors"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/repository/memory"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleFetchMealsMatchesExactly(t *testing.T) {
	ctx := context.Background()
	svc := NewScheduleService(memory.NewScheduleRepository())

	add := func(user string, date domain.Date, meal domain.MealType, recipe string) {
		_, err := svc.AddMeal(ctx, user, date, meal, recipe)
		require.NoError(t, err)
	}
	add("u1", "2026-10-17", domain.MealDinner, "r1")
	add("u1", "2026-10-17", domain.MealDinner, "r2")
	add("u1", "2026-10-17", domain.MealLunch, "r3")
	add("u1", "2026-10-18", domain.MealDinner, "r4")
	add("u2", "2026-10-17", domain.MealDinner, "r5")
	// duplicates are kept
	add("u1", "2026-10-17", domain.MealDinner, "r1")

	got, err := svc.FetchMeals(ctx, "u1", "2026-10-17", domain.MealDinner)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r1"}, got)

	got, err = svc.FetchMeals(ctx, "u1", "2026-10-17", domain.MealSnacks)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestScheduleFetchDay(t *testing.T) {
	ctx := context.Background()
	svc := NewScheduleService(memory.NewScheduleRepository())
	_, err := svc.AddMeal(ctx, "u1", "2026-10-17", domain.MealBreakfast, "r1")
	require.NoError(t, err)
	_, err = svc.AddMeal(ctx, "u1", "2026-10-17", domain.MealSnacks, "r2")
	require.NoError(t, err)

	day, err := svc.FetchDay(ctx, "u1", "2026-10-17")
	require.NoError(t, err)
	assert.Equal(t, map[domain.MealType][]string{
		domain.MealBreakfast: {"r1"},
		domain.MealLunch:     {},
		domain.MealDinner:    {},
		domain.MealSnacks:    {"r2"},
	}, day)
}

func TestScheduleValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewScheduleService(memory.NewScheduleRepository())

	_, err := svc.FetchMeals(ctx, "u1", "17/10/2026", domain.MealDinner)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.FetchMeals(ctx, "u1", "2026-10-17", "Brunch")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.FetchMeals(ctx, "", "2026-10-17", domain.MealDinner)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.AddMeal(ctx, "u1", "2026-10-17", domain.MealDinner, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestScheduleReadFailureIsNotAnEmptySlot(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewScheduleRepository()
	svc := NewScheduleService(repo)
	repo.FailWith(errors.New("connection reset"))

	got, err := svc.FetchMeals(ctx, "u1", "2026-10-17", domain.MealDinner)
	assert.Nil(t, got)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "fetch meals", te.Op)
}

func TestScheduleRemoveMeal(t *testing.T) {
	ctx := context.Background()
	svc := NewScheduleService(memory.NewScheduleRepository())
	entry, err := svc.AddMeal(ctx, "u1", "2026-10-17", domain.MealDinner, "r1")
	require.NoError(t, err)
	require.NotEmpty(t, entry.ID)

	assert.ErrorIs(t, svc.RemoveMeal(ctx, "u2", entry.ID), ErrScheduleEntryNotFound)
	require.NoError(t, svc.RemoveMeal(ctx, "u1", entry.ID))
	assert.ErrorIs(t, svc.RemoveMeal(ctx, "u1", entry.ID), ErrScheduleEntryNotFound)

	got, err := svc.FetchMeals(ctx, "u1", "2026-10-17", domain.MealDinner)
	require.NoError(t, err)
	assert.Empty(t, got)
}
