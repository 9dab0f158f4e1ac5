package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/habitflow/habitflow-engine/internal/core/domain"
)

type PostgresProgressRepository struct {
	db *sqlx.DB
}

func NewPostgresProgressRepository(db *sqlx.DB) *PostgresProgressRepository {
	return &PostgresProgressRepository{db: db}
}

func (r *PostgresProgressRepository) Upsert(ctx context.Context, progress *domain.DailyProgress) error {
	query := `
		INSERT INTO daily_progress (habit_id, date, progress, updated_at)
		VALUES (:habit_id, :date, :progress, :updated_at)
		ON CONFLICT (habit_id, date)
		DO UPDATE SET progress = EXCLUDED.progress, updated_at = EXCLUDED.updated_at`

	_, err := r.db.NamedExecContext(ctx, query, progress)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return domain.ErrHabitNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresProgressRepository) Get(ctx context.Context, habitID string, date time.Time) (*domain.DailyProgress, error) {
	var p domain.DailyProgress
	query := `SELECT * FROM daily_progress WHERE habit_id = $1 AND date = $2`

	err := r.db.GetContext(ctx, &p, query, habitID, domain.DateOf(date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProgressNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostgresProgressRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.DailyProgress, error) {
	list := []*domain.DailyProgress{}

	query := `
		SELECT * FROM daily_progress
		WHERE habit_id = $1
		ORDER BY date ASC`

	if err := r.db.SelectContext(ctx, &list, query, habitID); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PostgresProgressRepository) ListByHabitIDSince(ctx context.Context, habitID string, since time.Time) ([]*domain.DailyProgress, error) {
	list := []*domain.DailyProgress{}

	query := `
		SELECT * FROM daily_progress
		WHERE habit_id = $1
		  AND date >= $2
		ORDER BY date ASC`

	if err := r.db.SelectContext(ctx, &list, query, habitID, domain.DateOf(since)); err != nil {
		return nil, err
	}
	return list, nil
}
