package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/courtlog/handball-tracker/internal/services"
	"github.com/courtlog/handball-tracker/pkg/utils"
)

type EventHandler struct {
	matches *services.MatchService
}

func NewEventHandler(matches *services.MatchService) *EventHandler {
	return &EventHandler{matches: matches}
}

// ListEvents returns the event log, optionally filtered. The indices
// slice maps each returned event back to its position in the full log
// so edits and deletes address the right record.
func (h *EventHandler) ListEvents(c *gin.Context) {
	events, indices, err := h.matches.Events(c.Param("id"), c.Query("filter"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, gin.H{
		"events":  events,
		"indices": indices,
	})
}

// DeleteEvent removes one record by log index and returns the
// recomputed stats.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}

	stats, err := h.matches.DeleteEvent(c.Param("id"), index)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, gin.H{"stats": stats})
}

// EditEvent patches one record by log index and returns the recomputed
// stats.
func (h *EventHandler) EditEvent(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}

	var patch services.EventPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.SendValidationError(c, "Invalid event patch", err.Error())
		return
	}

	stats, err := h.matches.EditEvent(c.Param("id"), index, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, gin.H{"stats": stats})
}
