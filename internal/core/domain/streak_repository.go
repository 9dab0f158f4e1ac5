package domain

import "context"

type StreakRepository interface {
	// Get retrieves the streak state for a habit. Returns
	// ErrStreakStateNotFound when the habit has no state, which callers
	// treat as a precondition violation (habit creation writes the row).
	Get(ctx context.Context, habitID string) (*StreakState, error)

	// Put replaces the streak state for a habit.
	Put(ctx context.Context, state *StreakState) error
}
