package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/habitflow/habitflow-engine/internal/core/domain"
)

const (
	// AnalysisWindowDays is the rolling window most coaching rules
	// restrict themselves to. The weak-day rule deliberately scans all
	// history instead.
	AnalysisWindowDays = 14

	minHistoryForAnalysis = 3

	frequentMissThreshold   = 3
	partialPatternThreshold = 5
	celebrationStreakDays   = 7

	weakDayMinObservations   = 2
	weakDayMissRateThreshold = 0.5

	reduceTargetFactor = 0.75
)

// weak-day scan order: first encountered wins a tie.
var sundayFirst = []domain.Weekday{
	domain.Sunday,
	domain.Monday,
	domain.Tuesday,
	domain.Wednesday,
	domain.Thursday,
	domain.Friday,
	domain.Saturday,
}

// CoachingService derives actionable tips from a habit's progress history
// and streak state. It is read-only and never fails on well-formed input.
type CoachingService struct {
	habitRepo    domain.HabitRepository
	progressRepo domain.ProgressRepository
	streakRepo   domain.StreakRepository
}

func NewCoachingService(habitRepo domain.HabitRepository, progressRepo domain.ProgressRepository, streakRepo domain.StreakRepository) *CoachingService {
	return &CoachingService{
		habitRepo:    habitRepo,
		progressRepo: progressRepo,
		streakRepo:   streakRepo,
	}
}

// HabitTips loads a snapshot of the habit's history and streak state and
// returns its coaching tips, ordered by priority.
func (s *CoachingService) HabitTips(ctx context.Context, habitID, userID string, today time.Time) ([]domain.Tip, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}

	history, err := s.progressRepo.ListByHabitID(ctx, habitID)
	if err != nil {
		return nil, err
	}

	state, err := s.streakRepo.Get(ctx, habitID)
	if err != nil {
		return nil, err
	}

	return domain.SortByPriority(GenerateTips(habit, history, state, today)), nil
}

// GenerateTips evaluates the coaching rules over a date-ordered history.
// Rules are independent: any subset may fire, except that fewer than
// three logged days short-circuits to a single welcome tip. Output order
// is unspecified; callers sort with domain.SortByPriority.
func GenerateTips(habit *domain.Habit, history []*domain.DailyProgress, state *domain.StreakState, today time.Time) []domain.Tip {
	var tips []domain.Tip

	if len(history) < minHistoryForAnalysis {
		return append(tips, domain.Tip{
			Kind:    domain.TipWelcome,
			Message: fmt.Sprintf("Great start with %q! Keep logging for personalized tips.", habit.Name),
		})
	}

	recent := recentProgress(history, today)

	if missed := countMissedDays(recent, habit.TargetValue); missed >= frequentMissThreshold {
		proposed := math.Ceil(habit.TargetValue * reduceTargetFactor)
		tips = append(tips, domain.Tip{
			Kind: domain.TipReduceTarget,
			Message: fmt.Sprintf("You've missed %q %d times recently. Consider reducing your target from %g to %g.",
				habit.Name, missed, habit.TargetValue, proposed),
		})
	}

	if weakDay, ok := findWeakDay(history, habit.TargetValue); ok {
		tips = append(tips, domain.Tip{
			Kind: domain.TipWeakDay,
			Message: fmt.Sprintf("You often miss %q on %ss. Consider adjusting your schedule.",
				habit.Name, weakDay.FullName()),
		})
	}

	if state != nil && state.GraceRemaining == 0 {
		tips = append(tips, domain.Tip{
			Kind: domain.TipGraceDepleted,
			Message: fmt.Sprintf("Your streak for %q is fragile! Complete it today to start recovering grace credits.",
				habit.Name),
		})
	}

	if state != nil && state.CurrentStreak >= celebrationStreakDays {
		tips = append(tips, domain.Tip{
			Kind: domain.TipCelebration,
			Message: fmt.Sprintf("Amazing! %d day streak on %q! You're building a solid habit.",
				state.CurrentStreak, habit.Name),
		})
	}

	if partials := countPartialDays(recent, habit.TargetValue); partials >= partialPatternThreshold {
		tips = append(tips, domain.Tip{
			Kind: domain.TipPartialPattern,
			Message: fmt.Sprintf("You often partially complete %q. Your natural target might be around %g.",
				habit.Name, averageProgress(recent)),
		})
	}

	return tips
}

func recentProgress(history []*domain.DailyProgress, today time.Time) []*domain.DailyProgress {
	cutoff := domain.DateOf(today).AddDate(0, 0, -AnalysisWindowDays)

	var recent []*domain.DailyProgress
	for _, p := range history {
		if !p.Date.Before(cutoff) {
			recent = append(recent, p)
		}
	}
	return recent
}

func countMissedDays(recent []*domain.DailyProgress, target float64) int {
	count := 0
	for _, p := range recent {
		if p.Progress < target {
			count++
		}
	}
	return count
}

func countPartialDays(recent []*domain.DailyProgress, target float64) int {
	count := 0
	for _, p := range recent {
		if p.Partial(target) {
			count++
		}
	}
	return count
}

func averageProgress(recent []*domain.DailyProgress) float64 {
	if len(recent) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range recent {
		sum += p.Progress
	}
	return math.Round(sum / float64(len(recent)))
}

// findWeakDay scans the full history grouped by weekday and flags the
// single weekday with the highest miss rate strictly above the threshold,
// requiring at least two observations. Ties resolve to the weekday
// encountered first in Sunday-first order.
func findWeakDay(history []*domain.DailyProgress, target float64) (domain.Weekday, bool) {
	misses := make(map[domain.Weekday]int)
	counts := make(map[domain.Weekday]int)

	for _, p := range history {
		day := domain.WeekdayOf(p.Date)
		counts[day]++
		if p.Progress < target {
			misses[day]++
		}
	}

	var weakest domain.Weekday
	found := false
	highest := weakDayMissRateThreshold

	for _, day := range sundayFirst {
		if counts[day] < weakDayMinObservations {
			continue
		}
		rate := float64(misses[day]) / float64(counts[day])
		if rate > highest {
			highest = rate
			weakest = day
			found = true
		}
	}

	return weakest, found
}
