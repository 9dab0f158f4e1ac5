package domain

import (
	"errors"
	"math"
	"time"
)

var (
	ErrStreakStateNotFound = errors.New("streak state not found")
	ErrOutOfOrderAdvance   = errors.New("streak advance out of date order")
)

// Halving factor applied to the streak when a due day is missed with
// no grace remaining. A long streak degrades instead of zeroing out.
const StreakDecayFactor = 0.5

// Streak status thresholds.
const (
	BuildingStreakDays = 7
	StrongStreakDays   = 30
)

const (
	StatusNew      = "new"
	StatusFragile  = "fragile"
	StatusStarting = "starting"
	StatusBuilding = "building"
	StatusStrong   = "strong"
)

// StreakState is the per-habit streak record. It is created together with
// its habit and deleted together with it.
type StreakState struct {
	HabitID        string     `json:"habit_id" db:"habit_id"`
	CurrentStreak  int        `json:"current_streak" db:"current_streak"`
	GraceRemaining int        `json:"grace_remaining" db:"grace_remaining"`
	LastCompleted  *time.Time `json:"last_completed,omitempty" db:"last_completed"`

	// LastEvaluated is the most recent date whose transition has been
	// committed. Advancement must proceed strictly forward from here.
	LastEvaluated *time.Time `json:"last_evaluated,omitempty" db:"last_evaluated"`

	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewStreakState initializes the state recorded at habit creation.
func NewStreakState(habit *Habit) *StreakState {
	return &StreakState{
		HabitID:        habit.ID,
		CurrentStreak:  0,
		GraceRemaining: habit.GraceCredits,
		UpdatedAt:      time.Now().UTC(),
	}
}

// Advance applies one day's streak transition and returns the next state.
// Non-scheduled days never touch the streak or grace. Completion is
// recomputed from the logged amount, never read from a stored flag.
//
// The transition is a pure function: replaying the same day against the
// same starting state yields the same result. Callers are responsible for
// applying it exactly once per due day, in date order.
func (s StreakState) Advance(habit *Habit, date time.Time, progress *DailyProgress) StreakState {
	day := DateOf(date)

	if !habit.IsDue(day) {
		return s
	}

	completed := progress != nil && progress.CompletedAgainst(habit.TargetValue)

	next := s

	if completed {
		next.CurrentStreak++
		next.LastCompleted = &day
	} else if next.GraceRemaining > 0 {
		// Grace absorbs the miss: streak neither grows nor shrinks.
		next.GraceRemaining--
	} else {
		next.CurrentStreak = int(math.Floor(float64(next.CurrentStreak) * StreakDecayFactor))
	}

	return next
}

// Replay folds Advance over every date in [from, to] in ascending order,
// moving the evaluation watermark as it goes. progress is keyed by the
// YYYY-MM-DD date string.
func (s StreakState) Replay(habit *Habit, progress map[string]*DailyProgress, from, to time.Time) StreakState {
	next := s

	for day := DateOf(from); !day.After(DateOf(to)); day = day.AddDate(0, 0, 1) {
		next = next.Advance(habit, day, progress[FormatDate(day)])
		evaluated := day
		next.LastEvaluated = &evaluated
	}

	return next
}

// HealthScore rates the streak 0-100 from remaining grace and streak
// length (capped at StrongStreakDays).
func (s *StreakState) HealthScore(graceMax int) int {
	graceRatio := 0.0
	if graceMax > 0 {
		graceRatio = float64(s.GraceRemaining) / float64(graceMax)
	}

	streakBonus := math.Min(float64(s.CurrentStreak)/float64(StrongStreakDays), 1)

	return int(math.Round(graceRatio*50 + streakBonus*50))
}

// Status buckets the state for display.
func (s *StreakState) Status() string {
	switch {
	case s.GraceRemaining == 0:
		return StatusFragile
	case s.CurrentStreak >= StrongStreakDays:
		return StatusStrong
	case s.CurrentStreak >= BuildingStreakDays:
		return StatusBuilding
	default:
		return StatusStarting
	}
}
