package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/courtlog/handball-tracker/internal/services"
	"github.com/courtlog/handball-tracker/pkg/utils"
)

type ClockHandler struct {
	matches *services.MatchService
}

func NewClockHandler(matches *services.MatchService) *ClockHandler {
	return &ClockHandler{matches: matches}
}

// GetClock returns the current stopwatch view.
func (h *ClockHandler) GetClock(c *gin.Context) {
	view, err := h.matches.Clock(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, view)
}

// Start resumes the stopwatch.
func (h *ClockHandler) Start(c *gin.Context) {
	h.op(c, func(w *services.Stopwatch) error {
		return w.Start()
	})
}

// Pause stops the stopwatch without ending the half.
func (h *ClockHandler) Pause(c *gin.Context) {
	h.op(c, func(w *services.Stopwatch) error {
		w.Pause()
		return nil
	})
}

// EndHalf closes the first half of the current period.
func (h *ClockHandler) EndHalf(c *gin.Context) {
	h.op(c, func(w *services.Stopwatch) error {
		return w.EndHalf()
	})
}

// EndPeriod closes the current period, either finishing the match or
// opening an extension period.
func (h *ClockHandler) EndPeriod(c *gin.Context) {
	var req struct {
		Extension bool `json:"extension"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		utils.SendValidationError(c, "Invalid period request", err.Error())
		return
	}
	h.op(c, func(w *services.Stopwatch) error {
		return w.EndPeriod(req.Extension)
	})
}

// SetElapsed corrects the elapsed seconds within the current half.
func (h *ClockHandler) SetElapsed(c *gin.Context) {
	var req struct {
		Seconds int `json:"seconds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid elapsed value", err.Error())
		return
	}
	h.op(c, func(w *services.Stopwatch) error {
		return w.SetElapsed(req.Seconds)
	})
}

func (h *ClockHandler) op(c *gin.Context, op func(*services.Stopwatch) error) {
	view, err := h.matches.ClockOp(c.Param("id"), op)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, view)
}
