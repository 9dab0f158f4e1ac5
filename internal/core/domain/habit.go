package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitNameEmpty     = errors.New("habit name cannot be empty")
	ErrHabitNameTooLong   = errors.New("habit name is too long (max 100 chars)")
	ErrHabitInvalidUserID = errors.New("invalid user id")
	ErrInvalidTarget      = errors.New("target value must be positive")
	ErrInvalidGrace       = errors.New("grace credits cannot be negative")
)

const (
	MaxNameLen = 100

	// DefaultGraceCredits is the grace ceiling applied when a habit is
	// created without an explicit value.
	DefaultGraceCredits = 2
)

type Habit struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	Name         string    `json:"name" db:"name"`
	TargetValue  float64   `json:"target_value" db:"target_value"`
	Unit         string    `json:"unit" db:"unit"`
	Schedule     Schedule  `json:"schedule" db:"-"`
	GraceCredits int       `json:"grace_credits" db:"grace_credits"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func validateHabit(name string, target float64, grace int, schedule Schedule) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrHabitNameEmpty
	}
	if len(trimmed) > MaxNameLen {
		return ErrHabitNameTooLong
	}
	if target <= 0 {
		return ErrInvalidTarget
	}
	if grace < 0 {
		return ErrInvalidGrace
	}
	return schedule.Validate()
}

func NewHabit(userID, name, unit string, target float64, grace int, schedule Schedule) (*Habit, error) {
	if userID == "" {
		return nil, ErrHabitInvalidUserID
	}

	if err := validateHabit(name, target, grace, schedule); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Habit{
		ID:           uuid.New().String(),
		UserID:       userID,
		Name:         strings.TrimSpace(name),
		TargetValue:  target,
		Unit:         unit,
		Schedule:     schedule.Normalize(),
		GraceCredits: grace,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (h *Habit) Update(name, unit string, target float64, grace int, schedule Schedule) error {
	if err := validateHabit(name, target, grace, schedule); err != nil {
		return err
	}

	h.Name = strings.TrimSpace(name)
	h.Unit = unit
	h.TargetValue = target
	h.GraceCredits = grace
	h.Schedule = schedule.Normalize()
	h.UpdatedAt = time.Now().UTC()

	return nil
}

// IsDue reports whether the habit's schedule requires activity on date.
func (h *Habit) IsDue(date time.Time) bool {
	return h.Schedule.IsDue(date)
}
