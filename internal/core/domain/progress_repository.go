package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrProgressNotFound = errors.New("daily progress not found")
)

type ProgressRepository interface {
	// Upsert writes the progress record for (habit_id, date), replacing
	// any amount previously logged for that day.
	Upsert(ctx context.Context, progress *DailyProgress) error

	// Get retrieves the record for one habit on one calendar date.
	Get(ctx context.Context, habitID string, date time.Time) (*DailyProgress, error)

	// ListByHabitID retrieves a habit's full history, ordered by date
	// ascending.
	ListByHabitID(ctx context.Context, habitID string) ([]*DailyProgress, error)

	// ListByHabitIDSince retrieves history from a cutoff date onward,
	// ordered by date ascending.
	ListByHabitIDSince(ctx context.Context, habitID string, since time.Time) ([]*DailyProgress, error)
}
