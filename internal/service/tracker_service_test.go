package service

import (
	"context"
	"errors"
	"math"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/repository/memory"
	"recipehub/meal-planner/internal/repository/sqlite"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnreachable = errors.New("backend unreachable")

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time { return time.Date(year, month, day, 9, 30, 0, 0, time.UTC) }
}

func dates(records []domain.TrackerRecord) []domain.Date {
	out := make([]domain.Date, len(records))
	for i, r := range records {
		out[i] = r.Date
	}
	return out
}

func TestTrackerUpsertReplacesWholeRecord(t *testing.T) {
	ctx := context.Background()
	svc := NewTrackerService(memory.NewTrackerRepository(), nil, nil)

	require.NoError(t, svc.Upsert(ctx, &domain.TrackerRecord{UserID: "u1", Date: "2026-10-17", Weight: 70, WaterIntake: 3, CaloriesIntake: 1500}))
	require.NoError(t, svc.Upsert(ctx, &domain.TrackerRecord{UserID: "u1", Date: "2026-10-17", Weight: 69.5}))

	got, err := svc.GetByDate(ctx, "u1", "2026-10-17")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 69.5, got.Weight)
	assert.Zero(t, got.WaterIntake)
	assert.Zero(t, got.CaloriesIntake)
}

func TestTrackerGetByDateAbsent(t *testing.T) {
	svc := NewTrackerService(memory.NewTrackerRepository(), nil, nil)
	got, err := svc.GetByDate(context.Background(), "u1", "2026-10-17")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestTrackerValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewTrackerService(memory.NewTrackerRepository(), nil, nil)

	bad := []*domain.TrackerRecord{
		nil,
		{UserID: "u1", Date: "2026/10/17"},
		{UserID: "", Date: "2026-10-17"},
		{UserID: "u1", Date: "2026-10-17", WaterIntake: -1},
		{UserID: "u1", Date: "2026-10-17", Weight: -3},
		{UserID: "u1", Date: "2026-10-17", CaloriesIntake: math.NaN()},
	}
	for _, r := range bad {
		assert.ErrorIs(t, svc.Upsert(ctx, r), ErrValidation)
	}
	_, err := svc.AddCalories(ctx, "u1", "2026-10-17", -10)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.IncrementWaterIntake(ctx, "u1", "not-a-date")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.GetEntriesForMonth(ctx, "u1", 2026, 13)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTrackerIncrementWaterCreatesDefaultRecord(t *testing.T) {
	ctx := context.Background()
	svc := NewTrackerService(memory.NewTrackerRepository(), nil, nil)

	got, err := svc.IncrementWaterIntake(ctx, "u1", "2026-10-17")
	require.NoError(t, err)
	assert.Equal(t, 1, got.WaterIntake)
	assert.Zero(t, got.Weight)
	assert.Zero(t, got.CaloriesIntake)

	got, err = svc.AddCalories(ctx, "u1", "2026-10-17", 250.5)
	require.NoError(t, err)
	assert.Equal(t, 1, got.WaterIntake)
	assert.Equal(t, 250.5, got.CaloriesIntake)
}

func TestTrackerConcurrentIncrementsAreNotLost(t *testing.T) {
	ctx := context.Background()
	svc := NewTrackerService(memory.NewTrackerRepository(), nil, nil)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.IncrementWaterIntake(ctx, "u1", "2026-10-17")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := svc.GetByDate(ctx, "u1", "2026-10-17")
	require.NoError(t, err)
	assert.Equal(t, n, got.WaterIntake)
}

func TestTrackerRanges(t *testing.T) {
	ctx := context.Background()
	svc := NewTrackerService(memory.NewTrackerRepository(), nil, fixedClock(2026, time.October, 17))
	for _, d := range []domain.Date{"2026-10-31", "2026-09-30", "2026-10-01", "2026-11-01", "2025-10-15"} {
		require.NoError(t, svc.Upsert(ctx, &domain.TrackerRecord{UserID: "u1", Date: d}))
	}
	require.NoError(t, svc.Upsert(ctx, &domain.TrackerRecord{UserID: "u2", Date: "2026-10-05"}))

	all, err := svc.GetAll(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Date{"2025-10-15", "2026-09-30", "2026-10-01", "2026-10-31", "2026-11-01"}, dates(all))

	got, err := svc.GetRange(ctx, "u1", "2026-09-30", "2026-10-31")
	require.NoError(t, err)
	assert.Equal(t, []domain.Date{"2026-09-30", "2026-10-01", "2026-10-31"}, dates(got))

	got, err = svc.GetRange(ctx, "u1", "2026-10-31", "2026-10-01")
	require.NoError(t, err)
	assert.Empty(t, got)

	// same month of another year is excluded
	got, err = svc.GetEntriesForCurrentMonth(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Date{"2026-10-01", "2026-10-31"}, dates(got))

	got, err = svc.GetEntriesForMonth(ctx, "u1", 2025, time.October)
	require.NoError(t, err)
	assert.Equal(t, []domain.Date{"2025-10-15"}, dates(got))
}

func TestTrackerReadFailureWithoutMirror(t *testing.T) {
	ctx := context.Background()
	remote := memory.NewTrackerRepository()
	svc := NewTrackerService(remote, nil, nil)
	remote.FailWith(errUnreachable)

	_, err := svc.GetByDate(ctx, "u1", "2026-10-17")
	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, errUnreachable)

	records, err := svc.GetAll(ctx, "u1")
	assert.Nil(t, records)
	assert.True(t, IsTransport(err))
}

func TestTrackerMirrorServesReadsWhenRemoteFails(t *testing.T) {
	ctx := context.Background()
	remote := memory.NewTrackerRepository()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	svc := NewTrackerService(remote, sqlite.NewTrackerRepository(db), nil)

	require.NoError(t, svc.Upsert(ctx, &domain.TrackerRecord{UserID: "u1", Date: "2026-10-16", Weight: 71}))
	_, err = svc.IncrementWaterIntake(ctx, "u1", "2026-10-17")
	require.NoError(t, err)

	remote.FailWith(errUnreachable)

	got, err := svc.GetByDate(ctx, "u1", "2026-10-17")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.WaterIntake)

	all, err := svc.GetAll(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Date{"2026-10-16", "2026-10-17"}, dates(all))

	absent, err := svc.GetByDate(ctx, "u1", "2026-10-18")
	assert.Nil(t, absent)
	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, errUnreachable)
}

func TestTrackerMirrorMissDuringOutageIsNotEmpty(t *testing.T) {
	ctx := context.Background()
	remote := memory.NewTrackerRepository()
	require.NoError(t, remote.Upsert(ctx, &domain.TrackerRecord{UserID: "u1", Date: "2026-10-17", Weight: 70, WaterIntake: 3}))
	svc := NewTrackerService(remote, memory.NewTrackerRepository(), nil)

	remote.FailWith(errUnreachable)

	record, err := svc.GetByDate(ctx, "u1", "2026-10-17")
	assert.Nil(t, record)
	assert.True(t, IsTransport(err))

	all, err := svc.GetAll(ctx, "u1")
	assert.Nil(t, all)
	assert.True(t, IsTransport(err))

	month, err := svc.GetEntriesForMonth(ctx, "u1", 2026, time.October)
	assert.Nil(t, month)
	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, errUnreachable)
}

func TestTrackerFailedWritesReachTheMirrorOnlyForUpserts(t *testing.T) {
	ctx := context.Background()
	remote := memory.NewTrackerRepository()
	mirror := memory.NewTrackerRepository()
	svc := NewTrackerService(remote, mirror, nil)
	remote.FailWith(errUnreachable)

	err := svc.Upsert(ctx, &domain.TrackerRecord{UserID: "u1", Date: "2026-10-17", Weight: 70})
	assert.True(t, IsTransport(err))
	local, err := mirror.GetByDate(ctx, "u1", "2026-10-17")
	require.NoError(t, err)
	assert.Equal(t, 70.0, local.Weight)

	_, err = svc.IncrementWaterIntake(ctx, "u1", "2026-10-17")
	assert.True(t, IsTransport(err))
	local, err = mirror.GetByDate(ctx, "u1", "2026-10-17")
	require.NoError(t, err)
	assert.Zero(t, local.WaterIntake)
}
