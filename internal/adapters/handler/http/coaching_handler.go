package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/habitflow/habitflow-engine/internal/adapters/handler/http/middleware"
	"github.com/habitflow/habitflow-engine/internal/core/domain"
	"github.com/habitflow/habitflow-engine/internal/core/services"
)

type CoachingHandler struct {
	svc *services.CoachingService
}

func NewCoachingHandler(svc *services.CoachingService) *CoachingHandler {
	return &CoachingHandler{svc: svc}
}

func (h *CoachingHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/habits/:id/tips", h.Tips)
}

func (h *CoachingHandler) Tips(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	today := domain.DateOf(time.Now())

	tips, err := h.svc.HabitTips(c.Request.Context(), c.Param("id"), userID, today)
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		if errors.Is(err, domain.ErrStreakStateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "streak state not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tips": tips})
}
