package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/courtlog/handball-tracker/internal/handball"
	"github.com/courtlog/handball-tracker/internal/services"
	"github.com/courtlog/handball-tracker/pkg/utils"
)

type RosterHandler struct {
	matches *services.MatchService
}

func NewRosterHandler(matches *services.MatchService) *RosterHandler {
	return &RosterHandler{matches: matches}
}

func teamSide(raw string) (string, bool) {
	switch strings.ToLower(raw) {
	case "own":
		return handball.TeamOwn, true
	case "opp":
		return handball.TeamOpp, true
	}
	return "", false
}

// AddPlayer registers one player on a side's roster.
func (h *RosterHandler) AddPlayer(c *gin.Context) {
	side, ok := teamSide(c.Param("team"))
	if !ok {
		utils.SendValidationError(c, "Invalid team", "team must be own or opp")
		return
	}

	var p handball.Player
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.SendValidationError(c, "Invalid player", err.Error())
		return
	}

	state, err := h.matches.AddPlayer(c.Param("id"), side, p)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, state)
}

// RemovePlayer drops one player from a side's roster.
func (h *RosterHandler) RemovePlayer(c *gin.Context) {
	side, ok := teamSide(c.Param("team"))
	if !ok {
		utils.SendValidationError(c, "Invalid team", "team must be own or opp")
		return
	}

	no, ok := intParam(c, "no")
	if !ok {
		return
	}

	state, err := h.matches.RemovePlayer(c.Param("id"), side, no)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, state)
}

// SetGoalkeeper switches the active keeper for one side.
func (h *RosterHandler) SetGoalkeeper(c *gin.Context) {
	side, ok := teamSide(c.Param("team"))
	if !ok {
		utils.SendValidationError(c, "Invalid team", "team must be own or opp")
		return
	}

	var req struct {
		No int `json:"no" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid goalkeeper request", err.Error())
		return
	}

	state, err := h.matches.SetGoalkeeper(c.Param("id"), side, req.No)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, state)
}

// GetTeamConfig returns the saved default team setup.
func (h *RosterHandler) GetTeamConfig(c *gin.Context) {
	cfg, err := h.matches.GetTeamConfig()
	if err != nil {
		utils.SendNotFound(c, "No team config saved")
		return
	}
	utils.SendSuccess(c, cfg)
}

// SaveTeamConfig replaces the saved default team setup.
func (h *RosterHandler) SaveTeamConfig(c *gin.Context) {
	var cfg services.TeamConfigState
	if err := c.ShouldBindJSON(&cfg); err != nil {
		utils.SendValidationError(c, "Invalid team config", err.Error())
		return
	}

	if err := h.matches.SaveTeamConfig(cfg); err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, cfg)
}
