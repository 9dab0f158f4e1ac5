package domain

import (
	"context"
	"errors"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
)

type HabitRepository interface {
	// Create persists a new habit together with its initial streak state.
	// The two rows are written atomically: a habit never exists without
	// its streak state.
	Create(ctx context.Context, habit *Habit, state *StreakState) error

	// GetByID retrieves a habit by its unique identifier.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// ListByUserID retrieves all habits owned by a user.
	ListByUserID(ctx context.Context, userID string) ([]*Habit, error)

	// Update modifies an existing habit definition.
	Update(ctx context.Context, habit *Habit) error

	// Delete removes a habit and its streak state atomically, along with
	// all daily progress logged against it.
	Delete(ctx context.Context, id string) error
}
