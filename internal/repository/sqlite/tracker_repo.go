package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/repository"
	"time"

	"github.com/jmoiron/sqlx"
)

const trackerColumns = `user_id, date, weight, water_intake, calories_intake, updated_at`

// TrackerRepository implements repository.TrackerRepository on SQLite.
type TrackerRepository struct {
	db *sqlx.DB
}

var _ repository.TrackerRepository = (*TrackerRepository)(nil)

func NewTrackerRepository(db *sqlx.DB) *TrackerRepository {
	return &TrackerRepository{db: db}
}

// Upsert replaces the row for (user_id, date).
func (r *TrackerRepository) Upsert(ctx context.Context, record *domain.TrackerRecord) error {
	if record.UserID == "" || record.Date == "" {
		return errors.New("tracker record requires userId and date")
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now().UTC()
	}

	query := `INSERT INTO tracker_records (` + trackerColumns + `)
	          VALUES (:user_id, :date, :weight, :water_intake, :calories_intake, :updated_at)
	          ON CONFLICT (user_id, date) DO UPDATE SET
	              weight = excluded.weight,
	              water_intake = excluded.water_intake,
	              calories_intake = excluded.calories_intake,
	              updated_at = excluded.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("Upsert: failed to write %s/%s: %w", record.UserID, record.Date, err)
	}
	return nil
}

// GetByDate returns repository.ErrNotFound when the day has no row.
func (r *TrackerRepository) GetByDate(ctx context.Context, userID string, date domain.Date) (*domain.TrackerRecord, error) {
	return getByDate(ctx, r.db, userID, date)
}

func getByDate(ctx context.Context, q sqlx.QueryerContext, userID string, date domain.Date) (*domain.TrackerRecord, error) {
	record := &domain.TrackerRecord{}
	query := `SELECT ` + trackerColumns + ` FROM tracker_records WHERE user_id = ? AND date = ?`
	if err := sqlx.GetContext(ctx, q, record, query, userID, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("GetByDate: failed to read %s/%s: %w", userID, date, err)
	}
	return record, nil
}

// GetRange returns rows with from <= date <= to, oldest first. Empty bounds are open.
func (r *TrackerRepository) GetRange(ctx context.Context, userID string, from, to domain.Date) ([]domain.TrackerRecord, error) {
	query := `SELECT ` + trackerColumns + ` FROM tracker_records WHERE user_id = ?`
	args := []interface{}{userID}
	if from != "" {
		query += ` AND date >= ?`
		args = append(args, from)
	}
	if to != "" {
		query += ` AND date <= ?`
		args = append(args, to)
	}
	query += ` ORDER BY date ASC`

	records := []domain.TrackerRecord{}
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("GetRange: failed to read %s: %w", userID, err)
	}
	return records, nil
}

// IncrementWater adds delta glasses in a single statement.
func (r *TrackerRepository) IncrementWater(ctx context.Context, userID string, date domain.Date, delta int) (*domain.TrackerRecord, error) {
	query := `INSERT INTO tracker_records (user_id, date, water_intake, updated_at) VALUES (?, ?, ?, ?)
	          ON CONFLICT (user_id, date) DO UPDATE SET
	              water_intake = water_intake + excluded.water_intake,
	              updated_at = excluded.updated_at`
	return r.applyAtomic(ctx, userID, date, query, delta)
}

// AddCalories adds amount to calories_intake in a single statement.
func (r *TrackerRepository) AddCalories(ctx context.Context, userID string, date domain.Date, amount float64) (*domain.TrackerRecord, error) {
	query := `INSERT INTO tracker_records (user_id, date, calories_intake, updated_at) VALUES (?, ?, ?, ?)
	          ON CONFLICT (user_id, date) DO UPDATE SET
	              calories_intake = calories_intake + excluded.calories_intake,
	              updated_at = excluded.updated_at`
	return r.applyAtomic(ctx, userID, date, query, amount)
}

func (r *TrackerRepository) applyAtomic(ctx context.Context, userID string, date domain.Date, query string, delta interface{}) (*domain.TrackerRecord, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, query, userID, date, delta, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to update %s/%s: %w", userID, date, err)
	}
	record, err := getByDate(ctx, tx, userID, date)
	if err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return record, nil
}
