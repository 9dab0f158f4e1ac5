package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/habitflow/habitflow-engine/internal/core/domain"
)

type PostgresStreakRepository struct {
	db *sqlx.DB
}

func NewPostgresStreakRepository(db *sqlx.DB) *PostgresStreakRepository {
	return &PostgresStreakRepository{db: db}
}

func (r *PostgresStreakRepository) Get(ctx context.Context, habitID string) (*domain.StreakState, error) {
	var s domain.StreakState
	query := `SELECT * FROM streak_states WHERE habit_id = $1`

	err := r.db.GetContext(ctx, &s, query, habitID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStreakStateNotFound
		}
		return nil, fmt.Errorf("streak state query failed: %w", err)
	}
	return &s, nil
}

// Put replaces the committed state. The row is created with the habit,
// so a missing row is a precondition violation, not an insert case.
func (r *PostgresStreakRepository) Put(ctx context.Context, state *domain.StreakState) error {
	query := `
		UPDATE streak_states SET
			current_streak = :current_streak,
			grace_remaining = :grace_remaining,
			last_completed = :last_completed,
			last_evaluated = :last_evaluated,
			updated_at = :updated_at
		WHERE habit_id = :habit_id`

	res, err := r.db.NamedExecContext(ctx, query, state)
	if err != nil {
		return fmt.Errorf("streak state update failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrStreakStateNotFound
	}

	return nil
}
