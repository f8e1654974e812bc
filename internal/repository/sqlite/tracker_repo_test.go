package sqlite

import (
	"context"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/repository"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMirror(t *testing.T) *TrackerRepository {
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTrackerRepository(db)
}

func TestUpsertReplacesWholeRow(t *testing.T) {
	ctx := context.Background()
	repo := setupMirror(t)

	require.NoError(t, repo.Upsert(ctx, &domain.TrackerRecord{UserID: "u1", Date: "2026-10-17", Weight: 80, WaterIntake: 3, CaloriesIntake: 1500}))
	require.NoError(t, repo.Upsert(ctx, &domain.TrackerRecord{UserID: "u1", Date: "2026-10-17", Weight: 79.5}))

	got, err := repo.GetByDate(ctx, "u1", "2026-10-17")
	require.NoError(t, err)
	assert.Equal(t, 79.5, got.Weight)
	assert.Equal(t, 0, got.WaterIntake)
	assert.Equal(t, 0.0, got.CaloriesIntake)

	all, err := repo.GetRange(ctx, "u1", "", "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetByDateMissing(t *testing.T) {
	repo := setupMirror(t)
	_, err := repo.GetByDate(context.Background(), "u1", "2026-01-01")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestIncrementWaterCreatesDefaultRow(t *testing.T) {
	repo := setupMirror(t)
	got, err := repo.IncrementWater(context.Background(), "u1", "2026-10-17", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.WaterIntake)
	assert.Equal(t, 0.0, got.Weight)
	assert.Equal(t, 0.0, got.CaloriesIntake)
}

func TestConcurrentIncrementsAreNotLost(t *testing.T) {
	ctx := context.Background()
	repo := setupMirror(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.IncrementWater(ctx, "u1", "2026-10-17", 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetByDate(ctx, "u1", "2026-10-17")
	require.NoError(t, err)
	assert.Equal(t, 20, got.WaterIntake)
}

func TestAddCaloriesAndRange(t *testing.T) {
	ctx := context.Background()
	repo := setupMirror(t)

	_, err := repo.AddCalories(ctx, "u1", "2026-10-02", 250.5)
	require.NoError(t, err)
	got, err := repo.AddCalories(ctx, "u1", "2026-10-02", 100)
	require.NoError(t, err)
	assert.InDelta(t, 350.5, got.CaloriesIntake, 1e-9)

	require.NoError(t, repo.Upsert(ctx, &domain.TrackerRecord{UserID: "u1", Date: "2026-10-05", Weight: 81}))
	require.NoError(t, repo.Upsert(ctx, &domain.TrackerRecord{UserID: "u1", Date: "2026-09-28", Weight: 82}))
	require.NoError(t, repo.Upsert(ctx, &domain.TrackerRecord{UserID: "u2", Date: "2026-10-03", Weight: 60}))

	records, err := repo.GetRange(ctx, "u1", "2026-10-01", "2026-10-05")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.Date("2026-10-02"), records[0].Date)
	assert.Equal(t, domain.Date("2026-10-05"), records[1].Date)
}
