package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidProgress = errors.New("invalid daily progress data")
)

// DailyProgress is the amount logged for one habit on one calendar date.
// The record is upsert-only and keyed by (habit_id, date).
type DailyProgress struct {
	HabitID  string    `json:"habit_id" db:"habit_id"`
	Date     time.Time `json:"date" db:"date"`
	Progress float64   `json:"progress" db:"progress"`

	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewDailyProgress(habitID string, date time.Time, progress float64) *DailyProgress {
	return &DailyProgress{
		HabitID:   habitID,
		Date:      DateOf(date),
		Progress:  progress,
		UpdatedAt: time.Now().UTC(),
	}
}

func (p *DailyProgress) Validate() error {
	if strings.TrimSpace(p.HabitID) == "" {
		return fmt.Errorf("%w: habit_id is required", ErrInvalidProgress)
	}
	if p.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidProgress)
	}
	if p.Progress < 0 {
		return fmt.Errorf("%w: progress cannot be negative", ErrInvalidProgress)
	}
	return nil
}

// CompletedAgainst recomputes completion from the logged amount.
// A stored completion flag is never trusted over this check.
func (p *DailyProgress) CompletedAgainst(target float64) bool {
	return p.Progress >= target
}

// Partial reports a day that was started but not finished.
func (p *DailyProgress) Partial(target float64) bool {
	return p.Progress > 0 && p.Progress < target
}
