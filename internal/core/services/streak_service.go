package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/habitflow/habitflow-engine/internal/core/domain"
)

// StreakService owns streak advancement. Calls for the same habit are
// serialized so that each day's transition is committed before the next
// one is computed; different habits proceed independently.
type StreakService struct {
	habitRepo    domain.HabitRepository
	progressRepo domain.ProgressRepository
	streakRepo   domain.StreakRepository

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStreakService(habitRepo domain.HabitRepository, progressRepo domain.ProgressRepository, streakRepo domain.StreakRepository) *StreakService {
	return &StreakService{
		habitRepo:    habitRepo,
		progressRepo: progressRepo,
		streakRepo:   streakRepo,
		locks:        make(map[string]*sync.Mutex),
	}
}

func (s *StreakService) habitLock(habitID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[habitID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[habitID] = l
	}
	return l
}

// Advance applies the streak transition for a single calendar date and
// persists the result. The date must be strictly after the last evaluated
// date; replaying an already-committed day returns ErrOutOfOrderAdvance.
func (s *StreakService) Advance(ctx context.Context, habitID string, date time.Time) (*domain.StreakState, error) {
	lock := s.habitLock(habitID)
	lock.Lock()
	defer lock.Unlock()

	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}

	state, err := s.streakRepo.Get(ctx, habitID)
	if err != nil {
		return nil, err
	}

	day := domain.DateOf(date)
	if state.LastEvaluated != nil && !day.After(*state.LastEvaluated) {
		return nil, domain.ErrOutOfOrderAdvance
	}

	progress, err := s.progressRepo.Get(ctx, habitID, day)
	if err != nil && !errors.Is(err, domain.ErrProgressNotFound) {
		return nil, err
	}

	next := state.Advance(habit, day, progress)
	next.LastEvaluated = &day
	next.UpdatedAt = time.Now().UTC()

	if err := s.streakRepo.Put(ctx, &next); err != nil {
		return nil, err
	}

	return &next, nil
}

// CatchUp replays every unevaluated day through the given date, in order.
// A habit that is already up to date is a no-op, which makes the call
// safe to enqueue repeatedly.
func (s *StreakService) CatchUp(ctx context.Context, habitID string, through time.Time) (*domain.StreakState, error) {
	lock := s.habitLock(habitID)
	lock.Lock()
	defer lock.Unlock()

	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}

	state, err := s.streakRepo.Get(ctx, habitID)
	if err != nil {
		return nil, err
	}

	to := domain.DateOf(through)

	var from time.Time
	switch {
	case state.LastEvaluated != nil:
		from = state.LastEvaluated.AddDate(0, 0, 1)
	default:
		from = domain.DateOf(habit.CreatedAt)
	}

	if from.After(to) {
		return state, nil
	}

	history, err := s.progressRepo.ListByHabitIDSince(ctx, habitID, from)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]*domain.DailyProgress, len(history))
	for _, p := range history {
		byDate[domain.FormatDate(p.Date)] = p
	}

	next := state.Replay(habit, byDate, from, to)
	next.UpdatedAt = time.Now().UTC()

	if err := s.streakRepo.Put(ctx, &next); err != nil {
		return nil, err
	}

	return &next, nil
}

type StreakSummary struct {
	State  *domain.StreakState `json:"state"`
	Health int                 `json:"health"`
	Status string              `json:"status"`
}

// Summary returns the persisted state with its health score and status
// bucket for display.
func (s *StreakService) Summary(ctx context.Context, habitID string, userID string) (*StreakSummary, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}

	state, err := s.streakRepo.Get(ctx, habitID)
	if err != nil {
		return nil, err
	}

	return &StreakSummary{
		State:  state,
		Health: state.HealthScore(habit.GraceCredits),
		Status: state.Status(),
	}, nil
}
