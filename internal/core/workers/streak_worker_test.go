package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/habitflow/habitflow-engine/internal/core/domain"
)

type recordingAdvancer struct {
	mu   sync.Mutex
	jobs []StreakJob
}

func (a *recordingAdvancer) CatchUp(ctx context.Context, habitID string, through time.Time) (*domain.StreakState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.jobs = append(a.jobs, StreakJob{HabitID: habitID, Through: through})
	return &domain.StreakState{HabitID: habitID}, nil
}

func (a *recordingAdvancer) processed() []StreakJob {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]StreakJob, len(a.jobs))
	copy(out, a.jobs)
	return out
}

func TestStreakWorker_ProcessesEnqueuedJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	advancer := &recordingAdvancer{}
	worker := NewStreakWorker(advancer)
	worker.Start(ctx)

	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	worker.Enqueue("habit-1", day)
	worker.Enqueue("habit-2", day.AddDate(0, 0, 1))

	assert.Eventually(t, func() bool {
		return len(advancer.processed()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	jobs := advancer.processed()
	assert.Equal(t, "habit-1", jobs[0].HabitID)
	assert.Equal(t, day, jobs[0].Through)
	assert.Equal(t, "habit-2", jobs[1].HabitID)
}

func TestStreakWorker_EnqueueNeverBlocks(t *testing.T) {
	// No consumer running: the buffer fills and the surplus is dropped.
	worker := NewStreakWorker(&recordingAdvancer{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 500; i++ {
			worker.Enqueue("habit-1", day)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}

func TestStreakWorker_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	advancer := &recordingAdvancer{}
	worker := NewStreakWorker(advancer)
	worker.Start(ctx)

	cancel()
	time.Sleep(50 * time.Millisecond)

	worker.Enqueue("habit-1", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, advancer.processed(), "a stopped worker must not process jobs")
}
