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

type StreakHandler struct {
	svc *services.StreakService
}

func NewStreakHandler(svc *services.StreakService) *StreakHandler {
	return &StreakHandler{svc: svc}
}

type catchUpRequest struct {
	Through string `json:"through"`
}

func (h *StreakHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/habits/:id/streak", h.Summary)
	router.POST("/habits/:id/streak/catchup", h.CatchUp)
}

func (h *StreakHandler) Summary(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	summary, err := h.svc.Summary(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) || errors.Is(err, domain.ErrStreakStateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// CatchUp synchronously evaluates all pending due days through a date,
// defaulting to today. The background worker normally keeps habits up to
// date; this endpoint exists so callers can force evaluation before
// reading the streak.
func (h *StreakHandler) CatchUp(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	// ownership check before touching state
	if _, err := h.svc.Summary(c.Request.Context(), c.Param("id"), userID); err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) || errors.Is(err, domain.ErrStreakStateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	through := domain.DateOf(time.Now())

	var req catchUpRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.Through != "" {
		parsed, err := domain.ParseDate(req.Through)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid through date, expected YYYY-MM-DD"})
			return
		}
		through = parsed
	}

	state, err := h.svc.CatchUp(c.Request.Context(), c.Param("id"), through)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, state)
}
