package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/courtlog/handball-tracker/internal/handball"
	"github.com/courtlog/handball-tracker/internal/services"
	"github.com/courtlog/handball-tracker/pkg/utils"
)

type StatsHandler struct {
	matches *services.MatchService
}

func NewStatsHandler(matches *services.MatchService) *StatsHandler {
	return &StatsHandler{matches: matches}
}

// GetStats returns the full aggregate tree for both teams.
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.matches.Stats(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, stats)
}

// GetSummary returns the headline KPI pair for both sides.
func (h *StatsHandler) GetSummary(c *gin.Context) {
	summary, err := h.matches.Summary(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, summary)
}

// GetHeatmap returns per-course shot placement counts under the query
// filter.
func (h *StatsHandler) GetHeatmap(c *gin.Context) {
	var filter handball.HeatmapFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.SendValidationError(c, "Invalid heatmap filter", err.Error())
		return
	}

	grid, err := h.matches.Heatmap(c.Param("id"), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, grid)
}

// GetKeepers returns the per-keeper save breakdown for one side.
func (h *StatsHandler) GetKeepers(c *gin.Context) {
	side, ok := teamSide(c.DefaultQuery("team", "own"))
	if !ok {
		utils.SendValidationError(c, "Invalid team", "team must be own or opp")
		return
	}

	keepers, err := h.matches.Keepers(c.Param("id"), side)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, keepers)
}

// GetRanking returns the shooting ranking for one side.
func (h *StatsHandler) GetRanking(c *gin.Context) {
	side, ok := teamSide(c.DefaultQuery("team", "own"))
	if !ok {
		utils.SendValidationError(c, "Invalid team", "team must be own or opp")
		return
	}

	ranking, err := h.matches.Ranking(c.Param("id"), side)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, ranking)
}

// GetFlow returns the goal-by-goal score progression.
func (h *StatsHandler) GetFlow(c *gin.Context) {
	flow, err := h.matches.Flow(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, flow)
}
