package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/courtlog/handball-tracker/internal/services"
	"github.com/courtlog/handball-tracker/pkg/utils"
)

type MatchHandler struct {
	matches *services.MatchService
}

func NewMatchHandler(matches *services.MatchService) *MatchHandler {
	return &MatchHandler{matches: matches}
}

// CreateMatch starts a new scorekeeping session.
func (h *MatchHandler) CreateMatch(c *gin.Context) {
	var req services.CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid match request", err.Error())
		return
	}

	state, err := h.matches.CreateMatch(req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, state)
}

// ListMatches returns the saved session index, newest first.
func (h *MatchHandler) ListMatches(c *gin.Context) {
	sessions, err := h.matches.ListMatches()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, sessions)
}

// GetMatch returns a full session snapshot.
func (h *MatchHandler) GetMatch(c *gin.Context) {
	state, err := h.matches.GetMatch(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, state)
}

// DeleteMatch removes a session and its saved record.
func (h *MatchHandler) DeleteMatch(c *gin.Context) {
	if err := h.matches.DeleteMatch(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, gin.H{"deleted": c.Param("id")})
}

// SaveMatch forces a persistence pass for one session.
func (h *MatchHandler) SaveMatch(c *gin.Context) {
	if err := h.matches.SaveMatch(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, gin.H{"saved": c.Param("id")})
}

// FinishMatch closes a session for further entries.
func (h *MatchHandler) FinishMatch(c *gin.Context) {
	state, err := h.matches.FinishMatch(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, state)
}
