package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/habitflow/habitflow-engine/internal/core/domain"
)

// In-memory implementations of the repository ports, used by tests and
// for running the API without postgres.

type InMemoryStreakRepository struct {
	store map[string]*domain.StreakState

	mu sync.RWMutex
}

func NewInMemoryStreakRepository() *InMemoryStreakRepository {
	return &InMemoryStreakRepository{
		store: make(map[string]*domain.StreakState),
	}
}

func (r *InMemoryStreakRepository) Get(ctx context.Context, habitID string) (*domain.StreakState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.store[habitID]
	if !ok {
		return nil, domain.ErrStreakStateNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *InMemoryStreakRepository) Put(ctx context.Context, state *domain.StreakState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[state.HabitID]; !ok {
		return domain.ErrStreakStateNotFound
	}
	clone := *state
	r.store[state.HabitID] = &clone
	return nil
}

func (r *InMemoryStreakRepository) create(state *domain.StreakState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *state
	r.store[state.HabitID] = &clone
}

func (r *InMemoryStreakRepository) delete(habitID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.store, habitID)
}

type InMemoryProgressRepository struct {
	store map[string]map[string]*domain.DailyProgress // habit_id -> date key

	mu sync.RWMutex
}

func NewInMemoryProgressRepository() *InMemoryProgressRepository {
	return &InMemoryProgressRepository{
		store: make(map[string]map[string]*domain.DailyProgress),
	}
}

func (r *InMemoryProgressRepository) Upsert(ctx context.Context, progress *domain.DailyProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	days, ok := r.store[progress.HabitID]
	if !ok {
		days = make(map[string]*domain.DailyProgress)
		r.store[progress.HabitID] = days
	}

	clone := *progress
	days[domain.FormatDate(progress.Date)] = &clone
	return nil
}

func (r *InMemoryProgressRepository) Get(ctx context.Context, habitID string, date time.Time) (*domain.DailyProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.store[habitID][domain.FormatDate(domain.DateOf(date))]
	if !ok {
		return nil, domain.ErrProgressNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *InMemoryProgressRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.DailyProgress, error) {
	return r.ListByHabitIDSince(ctx, habitID, time.Time{})
}

func (r *InMemoryProgressRepository) ListByHabitIDSince(ctx context.Context, habitID string, since time.Time) ([]*domain.DailyProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cutoff := domain.DateOf(since)

	list := []*domain.DailyProgress{}
	for _, p := range r.store[habitID] {
		if p.Date.Before(cutoff) {
			continue
		}
		clone := *p
		list = append(list, &clone)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Date.Before(list[j].Date)
	})

	return list, nil
}

func (r *InMemoryProgressRepository) deleteByHabit(habitID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.store, habitID)
}

// InMemoryHabitRepository keeps references to the streak and progress
// stores so habit creation and deletion stay atomic with them, matching
// the postgres transaction semantics.
type InMemoryHabitRepository struct {
	store    map[string]*domain.Habit
	streaks  *InMemoryStreakRepository
	progress *InMemoryProgressRepository

	mu sync.RWMutex
}

func NewInMemoryHabitRepository(streaks *InMemoryStreakRepository, progress *InMemoryProgressRepository) *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store:    make(map[string]*domain.Habit),
		streaks:  streaks,
		progress: progress,
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit, state *domain.StreakState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *habit
	r.store[habit.ID] = &clone
	r.streaks.create(state)
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	clone := *habit
	return &clone, nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var habits []*domain.Habit
	for _, h := range r.store {
		if h.UserID == userID {
			clone := *h
			habits = append(habits, &clone)
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[habit.ID]; !ok {
		return domain.ErrHabitNotFound
	}

	clone := *habit
	r.store[habit.ID] = &clone
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrHabitNotFound
	}

	delete(r.store, id)
	r.streaks.delete(id)
	r.progress.deleteByHabit(id)
	return nil
}
