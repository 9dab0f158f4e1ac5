package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/habitflow/habitflow-engine/internal/adapters/handler/http/middleware"
	"github.com/habitflow/habitflow-engine/internal/core/domain"
	"github.com/habitflow/habitflow-engine/internal/core/services"
)

const exportVersion = "1.0"

type ExportHandler struct {
	habits   *services.HabitService
	progress *services.ProgressService
	streaks  *services.StreakService
}

func NewExportHandler(habits *services.HabitService, progress *services.ProgressService, streaks *services.StreakService) *ExportHandler {
	return &ExportHandler{
		habits:   habits,
		progress: progress,
		streaks:  streaks,
	}
}

type habitExport struct {
	Habit    *domain.Habit           `json:"habit"`
	Progress []*domain.DailyProgress `json:"progress"`
	Streak   *domain.StreakState     `json:"streak"`
}

type exportPayload struct {
	Version    string        `json:"version"`
	ExportDate time.Time     `json:"export_date"`
	Habits     []habitExport `json:"habits"`
}

func (h *ExportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/export", h.Export)
}

// Export produces a full JSON backup of the caller's habits, logged
// progress, and streak states.
func (h *ExportHandler) Export(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	ctx := c.Request.Context()

	habits, err := h.habits.ListByUserID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	payload := exportPayload{
		Version:    exportVersion,
		ExportDate: time.Now().UTC(),
		Habits:     make([]habitExport, 0, len(habits)),
	}

	for _, habit := range habits {
		history, err := h.progress.History(ctx, habit.ID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}

		summary, err := h.streaks.Summary(ctx, habit.ID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}

		payload.Habits = append(payload.Habits, habitExport{
			Habit:    habit,
			Progress: history,
			Streak:   summary.State,
		})
	}

	c.JSON(http.StatusOK, payload)
}
