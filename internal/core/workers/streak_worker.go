package workers

import (
	"context"
	"log"
	"time"

	"github.com/habitflow/habitflow-engine/internal/core/domain"
)

// StreakAdvancer replays all unevaluated due days for a habit through a
// target date. Implemented by services.StreakService.
type StreakAdvancer interface {
	CatchUp(ctx context.Context, habitID string, through time.Time) (*domain.StreakState, error)
}

type StreakJob struct {
	HabitID string
	Through time.Time
}

// StreakWorker evaluates streak transitions in the background so progress
// writes never wait on replay. Jobs for the same habit are serialized by
// the advancer's per-habit locking.
type StreakWorker struct {
	advancer StreakAdvancer
	jobs     chan StreakJob
}

func NewStreakWorker(advancer StreakAdvancer) *StreakWorker {
	return &StreakWorker{
		advancer: advancer,
		jobs:     make(chan StreakJob, 100),
	}
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Streak Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Streak Worker shutting down...")
				return
			}
		}
	}()
}

// Enqueue never blocks; a full queue drops the job, which is safe because
// catch-up is resumable from the evaluation watermark.
func (w *StreakWorker) Enqueue(habitID string, through time.Time) {
	select {
	case w.jobs <- StreakJob{HabitID: habitID, Through: through}:
	default:
		log.Printf("Streak Worker queue full! Dropping job for habit %s", habitID)
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	state, err := w.advancer.CatchUp(ctx, job.HabitID, job.Through)
	if err != nil {
		log.Printf("Worker Error advancing streak for %s: %v", job.HabitID, err)
		return
	}

	log.Printf("Streak evaluated for %s through %s: current=%d grace=%d",
		job.HabitID, domain.FormatDate(job.Through), state.CurrentStreak, state.GraceRemaining)
}
