package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitflow/habitflow-engine/internal/adapters/repository"
	"github.com/habitflow/habitflow-engine/internal/core/domain"
)

type streakFixture struct {
	habits   *repository.InMemoryHabitRepository
	progress *repository.InMemoryProgressRepository
	streaks  *repository.InMemoryStreakRepository
	service  *StreakService
}

func newStreakFixture() *streakFixture {
	streaks := repository.NewInMemoryStreakRepository()
	progress := repository.NewInMemoryProgressRepository()
	habits := repository.NewInMemoryHabitRepository(streaks, progress)

	return &streakFixture{
		habits:   habits,
		progress: progress,
		streaks:  streaks,
		service:  NewStreakService(habits, progress, streaks),
	}
}

func (f *streakFixture) createHabit(t *testing.T, target float64, grace int, schedule domain.Schedule) *domain.Habit {
	t.Helper()
	habit := mustHabit(t, "user-1", "Read", target, grace, schedule)
	require.NoError(t, f.habits.Create(context.Background(), habit, domain.NewStreakState(habit)))
	return habit
}

func TestStreakService_Advance(t *testing.T) {
	ctx := context.Background()
	f := newStreakFixture()
	habit := f.createHabit(t, 30, 2, everyDay)

	monday := date(2026, 1, 5)
	require.NoError(t, f.progress.Upsert(ctx, entry(habit.ID, monday, 30)))

	state, err := f.service.Advance(ctx, habit.ID, monday)
	require.NoError(t, err)

	assert.Equal(t, 1, state.CurrentStreak)
	assert.Equal(t, 2, state.GraceRemaining)
	require.NotNil(t, state.LastEvaluated)
	assert.Equal(t, monday, *state.LastEvaluated)

	// The result is persisted, not just returned.
	stored, err := f.streaks.Get(ctx, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentStreak)
}

func TestStreakService_Advance_MissingProgressIsAMiss(t *testing.T) {
	ctx := context.Background()
	f := newStreakFixture()
	habit := f.createHabit(t, 30, 1, everyDay)

	state, err := f.service.Advance(ctx, habit.ID, date(2026, 1, 5))
	require.NoError(t, err)

	assert.Equal(t, 0, state.CurrentStreak)
	assert.Equal(t, 0, state.GraceRemaining, "the unlogged day burns a grace credit")
}

func TestStreakService_Advance_RejectsReplayedDays(t *testing.T) {
	ctx := context.Background()
	f := newStreakFixture()
	habit := f.createHabit(t, 30, 2, everyDay)

	monday := date(2026, 1, 5)

	_, err := f.service.Advance(ctx, habit.ID, monday)
	require.NoError(t, err)

	t.Run("Same day again", func(t *testing.T) {
		_, err := f.service.Advance(ctx, habit.ID, monday)
		assert.ErrorIs(t, err, domain.ErrOutOfOrderAdvance)
	})

	t.Run("Earlier day", func(t *testing.T) {
		_, err := f.service.Advance(ctx, habit.ID, date(2026, 1, 4))
		assert.ErrorIs(t, err, domain.ErrOutOfOrderAdvance)
	})

	t.Run("Next day proceeds", func(t *testing.T) {
		_, err := f.service.Advance(ctx, habit.ID, date(2026, 1, 6))
		assert.NoError(t, err)
	})
}

func TestStreakService_Advance_UnknownHabit(t *testing.T) {
	f := newStreakFixture()

	_, err := f.service.Advance(context.Background(), "missing", date(2026, 1, 5))
	assert.ErrorIs(t, err, domain.ErrHabitNotFound)
}

func TestStreakService_CatchUp(t *testing.T) {
	ctx := context.Background()
	f := newStreakFixture()
	habit := f.createHabit(t, 30, 1, everyDay)

	// Pin the replay start so the fold is deterministic.
	habit.CreatedAt = date(2026, 1, 5)
	require.NoError(t, f.habits.Update(ctx, habit))

	// Mon complete, Tue complete, Wed unlogged (grace), Thu unlogged
	// (decay), Fri complete.
	require.NoError(t, f.progress.Upsert(ctx, entry(habit.ID, date(2026, 1, 5), 30)))
	require.NoError(t, f.progress.Upsert(ctx, entry(habit.ID, date(2026, 1, 6), 35)))
	require.NoError(t, f.progress.Upsert(ctx, entry(habit.ID, date(2026, 1, 9), 30)))

	state, err := f.service.CatchUp(ctx, habit.ID, date(2026, 1, 9))
	require.NoError(t, err)

	assert.Equal(t, 2, state.CurrentStreak)
	assert.Equal(t, 0, state.GraceRemaining)
	require.NotNil(t, state.LastEvaluated)
	assert.Equal(t, date(2026, 1, 9), *state.LastEvaluated)

	t.Run("Already caught up is a no-op", func(t *testing.T) {
		again, err := f.service.CatchUp(ctx, habit.ID, date(2026, 1, 9))
		require.NoError(t, err)

		assert.Equal(t, state.CurrentStreak, again.CurrentStreak)
		assert.Equal(t, state.GraceRemaining, again.GraceRemaining)
	})

	t.Run("Resumes from the watermark", func(t *testing.T) {
		require.NoError(t, f.progress.Upsert(ctx, entry(habit.ID, date(2026, 1, 10), 30)))

		next, err := f.service.CatchUp(ctx, habit.ID, date(2026, 1, 10))
		require.NoError(t, err)

		assert.Equal(t, 3, next.CurrentStreak)
	})
}

func TestStreakService_CatchUp_SkipsNonScheduledDays(t *testing.T) {
	ctx := context.Background()
	f := newStreakFixture()
	habit := f.createHabit(t, 30, 0, domain.Schedule{domain.Monday, domain.Friday})

	habit.CreatedAt = date(2026, 1, 5)
	require.NoError(t, f.habits.Update(ctx, habit))

	require.NoError(t, f.progress.Upsert(ctx, entry(habit.ID, date(2026, 1, 5), 30)))
	require.NoError(t, f.progress.Upsert(ctx, entry(habit.ID, date(2026, 1, 9), 30)))

	// Tue through Thu have no log, but they are not scheduled, so the
	// streak survives without any grace.
	state, err := f.service.CatchUp(ctx, habit.ID, date(2026, 1, 11))
	require.NoError(t, err)

	assert.Equal(t, 2, state.CurrentStreak)
	require.NotNil(t, state.LastEvaluated)
	assert.Equal(t, date(2026, 1, 11), *state.LastEvaluated)
}

func TestStreakService_Summary(t *testing.T) {
	ctx := context.Background()
	f := newStreakFixture()
	habit := f.createHabit(t, 30, 2, everyDay)

	state, err := f.streaks.Get(ctx, habit.ID)
	require.NoError(t, err)
	state.CurrentStreak = 15
	state.GraceRemaining = 1
	require.NoError(t, f.streaks.Put(ctx, state))

	summary, err := f.service.Summary(ctx, habit.ID, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 15, summary.State.CurrentStreak)
	assert.Equal(t, 50, summary.Health)
	assert.Equal(t, domain.StatusBuilding, summary.Status)

	t.Run("Foreign habit looks like not found", func(t *testing.T) {
		_, err := f.service.Summary(ctx, habit.ID, "someone-else")
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})
}
