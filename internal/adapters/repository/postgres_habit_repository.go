package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/habitflow/habitflow-engine/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresHabitRepository struct {
	db *sqlx.DB
}

func NewPostgresHabitRepository(db *sqlx.DB) *PostgresHabitRepository {
	return &PostgresHabitRepository{db: db}
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func (r *PostgresHabitRepository) scanRow(row scannable) (*domain.Habit, error) {
	var h domain.Habit
	var scheduleJSON []byte

	err := row.Scan(
		&h.ID, &h.UserID, &h.Name,
		&h.TargetValue, &h.Unit, &scheduleJSON, &h.GraceCredits,
		&h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(scheduleJSON) > 0 {
		if err := json.Unmarshal(scheduleJSON, &h.Schedule); err != nil {
			return nil, fmt.Errorf("failed to unmarshal schedule: %w", err)
		}
	}

	return &h, nil
}

// Create writes the habit and its initial streak state in one
// transaction. A habit row never exists without its streak row.
func (r *PostgresHabitRepository) Create(ctx context.Context, h *domain.Habit, state *domain.StreakState) error {
	scheduleJSON, err := json.Marshal(h.Schedule)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	habitQuery := `
        INSERT INTO habits (
            id, user_id, name,
            target_value, unit, schedule, grace_credits,
            created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = tx.ExecContext(ctx, habitQuery,
		h.ID, h.UserID, h.Name,
		h.TargetValue, h.Unit, scheduleJSON, h.GraceCredits,
		h.CreatedAt, h.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return errors.New("habit already exists")
		}
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	streakQuery := `
        INSERT INTO streak_states (
            habit_id, current_streak, grace_remaining,
            last_completed, last_evaluated, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = tx.ExecContext(ctx, streakQuery,
		state.HabitID, state.CurrentStreak, state.GraceRemaining,
		state.LastCompleted, state.LastEvaluated, state.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert streak state: %w", err)
	}

	return tx.Commit()
}

func (r *PostgresHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	query := `SELECT * FROM habits WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)

	h, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return h, nil
}

func (r *PostgresHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	query := `
        SELECT * FROM habits
        WHERE user_id = $1
        ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var habits []*domain.Habit

	for rows.Next() {
		h, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		habits = append(habits, h)
	}

	return habits, rows.Err()
}

func (r *PostgresHabitRepository) Update(ctx context.Context, h *domain.Habit) error {
	scheduleJSON, err := json.Marshal(h.Schedule)
	if err != nil {
		return err
	}

	query := `
        UPDATE habits SET
            name=$1, target_value=$2, unit=$3, schedule=$4,
            grace_credits=$5, updated_at=$6
        WHERE id=$7`

	res, err := r.db.ExecContext(ctx, query,
		h.Name, h.TargetValue, h.Unit, scheduleJSON,
		h.GraceCredits, h.UpdatedAt,
		h.ID,
	)
	if err != nil {
		return fmt.Errorf("update query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}

	return nil
}

// Delete removes the habit, its streak state, and all logged progress in
// one transaction.
func (r *PostgresHabitRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_progress WHERE habit_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete progress: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM streak_states WHERE habit_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete streak state: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}

	return tx.Commit()
}
