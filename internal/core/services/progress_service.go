package services

import (
	"context"
	"time"

	"github.com/habitflow/habitflow-engine/internal/core/domain"
	"github.com/habitflow/habitflow-engine/internal/core/workers"
)

type ProgressService struct {
	repo      domain.ProgressRepository
	habitRepo domain.HabitRepository
	worker    *workers.StreakWorker
}

func NewProgressService(repo domain.ProgressRepository, habitRepo domain.HabitRepository, worker *workers.StreakWorker) *ProgressService {
	return &ProgressService{
		repo:      repo,
		habitRepo: habitRepo,
		worker:    worker,
	}
}

type LogProgressInput struct {
	HabitID  string
	UserID   string
	Date     time.Time
	Progress float64
}

// Log upserts the amount for (habit_id, date) and queues a streak
// catch-up so days up to the logged date get evaluated.
func (s *ProgressService) Log(ctx context.Context, input LogProgressInput) (*domain.DailyProgress, error) {
	habit, err := s.habitRepo.GetByID(ctx, input.HabitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != input.UserID {
		return nil, domain.ErrHabitNotFound
	}

	progress := domain.NewDailyProgress(input.HabitID, input.Date, input.Progress)
	if err := progress.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, progress); err != nil {
		return nil, err
	}

	if s.worker != nil {
		s.worker.Enqueue(progress.HabitID, progress.Date)
	}

	return progress, nil
}

func (s *ProgressService) Get(ctx context.Context, habitID, userID string, date time.Time) (*domain.DailyProgress, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}

	return s.repo.Get(ctx, habitID, domain.DateOf(date))
}

// History returns the habit's full progress log, ordered by date.
func (s *ProgressService) History(ctx context.Context, habitID, userID string) ([]*domain.DailyProgress, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}

	return s.repo.ListByHabitID(ctx, habitID)
}
