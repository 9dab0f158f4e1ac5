package services

import (
	"context"

	"github.com/habitflow/habitflow-engine/internal/core/domain"
)

type HabitService struct {
	repo       domain.HabitRepository
	streakRepo domain.StreakRepository
}

func NewHabitService(repo domain.HabitRepository, streakRepo domain.StreakRepository) *HabitService {
	return &HabitService{
		repo:       repo,
		streakRepo: streakRepo,
	}
}

type CreateHabitInput struct {
	UserID       string
	Name         string
	Unit         string
	TargetValue  float64
	GraceCredits *int
	Schedule     domain.Schedule
}

type UpdateHabitInput struct {
	ID           string
	UserID       string
	Name         string
	Unit         string
	TargetValue  float64
	GraceCredits *int
	Schedule     domain.Schedule
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	grace := domain.DefaultGraceCredits
	if input.GraceCredits != nil {
		grace = *input.GraceCredits
	}

	habit, err := domain.NewHabit(input.UserID, input.Name, input.Unit, input.TargetValue, grace, input.Schedule)
	if err != nil {
		return nil, err
	}

	state := domain.NewStreakState(habit)

	if err := s.repo.Create(ctx, habit, state); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) GetByID(ctx context.Context, id, userID string) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (s *HabitService) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *HabitService) Update(ctx context.Context, input UpdateHabitInput) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if habit.UserID != input.UserID {
		return nil, domain.ErrHabitNotFound
	}

	grace := habit.GraceCredits
	if input.GraceCredits != nil {
		grace = *input.GraceCredits
	}

	name := input.Name
	if name == "" {
		name = habit.Name
	}
	unit := input.Unit
	if unit == "" {
		unit = habit.Unit
	}
	target := input.TargetValue
	if target == 0 {
		target = habit.TargetValue
	}
	schedule := input.Schedule
	if schedule == nil {
		schedule = habit.Schedule
	}

	if err := habit.Update(name, unit, target, grace, schedule); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	// A lowered grace ceiling clamps the remaining credits so the
	// state invariant grace_remaining <= grace_credits keeps holding.
	// Raising the ceiling never refills spent credits.
	state, err := s.streakRepo.Get(ctx, habit.ID)
	if err != nil {
		return nil, err
	}
	if state.GraceRemaining > habit.GraceCredits {
		state.GraceRemaining = habit.GraceCredits
		if err := s.streakRepo.Put(ctx, state); err != nil {
			return nil, err
		}
	}

	return habit, nil
}

func (s *HabitService) Delete(ctx context.Context, id string, userID string) error {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if habit.UserID != userID {
		return domain.ErrHabitNotFound
	}

	return s.repo.Delete(ctx, id)
}
