package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/courtlog/handball-tracker/internal/handball"
	"github.com/courtlog/handball-tracker/internal/services"
	"github.com/courtlog/handball-tracker/pkg/utils"
)

// InputHandler exposes the entry machine. Every endpoint stages one
// selection; nothing reaches the log until the confirm endpoint.
type InputHandler struct {
	matches *services.MatchService
}

func NewInputHandler(matches *services.MatchService) *InputHandler {
	return &InputHandler{matches: matches}
}

// GetState returns the machine's current staged selection.
func (h *InputHandler) GetState(c *gin.Context) {
	state, err := h.matches.InputState(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, state)
}

func (h *InputHandler) runIntent(c *gin.Context, intent func(*handball.InputState) error) {
	state, err := h.matches.Input(c.Param("id"), intent)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, state)
}

// SelectTeam stages the attacking team.
func (h *InputHandler) SelectTeam(c *gin.Context) {
	var req struct {
		Team string `json:"team" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid team selection", err.Error())
		return
	}
	h.runIntent(c, func(in *handball.InputState) error {
		return in.SelectTeam(req.Team)
	})
}

// SelectPhase stages set offense or fast break.
func (h *InputHandler) SelectPhase(c *gin.Context) {
	var req struct {
		Phase string `json:"phase" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid phase selection", err.Error())
		return
	}
	h.runIntent(c, func(in *handball.InputState) error {
		return in.SelectPhase(req.Phase)
	})
}

// SelectPlayer stages the acting player.
func (h *InputHandler) SelectPlayer(c *gin.Context) {
	var req struct {
		No int `json:"no" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid player selection", err.Error())
		return
	}
	h.runIntent(c, func(in *handball.InputState) error {
		return in.SelectPlayer(req.No)
	})
}

// SelectArea stages a court area and returns the actions it offers.
func (h *InputHandler) SelectArea(c *gin.Context) {
	var req struct {
		Area string `json:"area" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid area selection", err.Error())
		return
	}

	var offered []string
	state, err := h.matches.Input(c.Param("id"), func(in *handball.InputState) error {
		actions, err := in.SelectArea(req.Area)
		if err != nil {
			return err
		}
		offered = actions
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, gin.H{
		"state":   state,
		"actions": offered,
	})
}

// SelectAction stages one of the area's offered actions.
func (h *InputHandler) SelectAction(c *gin.Context) {
	var req struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid action selection", err.Error())
		return
	}
	h.runIntent(c, func(in *handball.InputState) error {
		return in.SelectAction(req.Action)
	})
}

// SelectPSDetail stages the near-goal shot detail.
func (h *InputHandler) SelectPSDetail(c *gin.Context) {
	var req struct {
		Detail string `json:"detail" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid detail selection", err.Error())
		return
	}
	h.runIntent(c, func(in *handball.InputState) error {
		return in.SelectPSDetail(req.Detail)
	})
}

// SelectFixed stages a fixed action: penalty throw, empty goal, a
// sanction token or a timeout.
func (h *InputHandler) SelectFixed(c *gin.Context) {
	var req struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid fixed action", err.Error())
		return
	}
	h.runIntent(c, func(in *handball.InputState) error {
		return in.SelectFixedAction(req.Action)
	})
}

// SelectSanctionPlayer stages the sanctioned defender for a toggled
// sanction on a penalty throw.
func (h *InputHandler) SelectSanctionPlayer(c *gin.Context) {
	var req struct {
		No int `json:"no" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid sanction player", err.Error())
		return
	}
	h.runIntent(c, func(in *handball.InputState) error {
		return in.SelectSanctionPlayer(req.No)
	})
}

// SelectCourse stages the goal-mouth course cell.
func (h *InputHandler) SelectCourse(c *gin.Context) {
	var req struct {
		Course int `json:"course" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid course selection", err.Error())
		return
	}
	h.runIntent(c, func(in *handball.InputState) error {
		return in.SelectCourse(req.Course)
	})
}

// SetResult stages the outcome, with an optional memo.
func (h *InputHandler) SetResult(c *gin.Context) {
	var req struct {
		Result string  `json:"result" binding:"required"`
		Memo   *string `json:"memo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid result", err.Error())
		return
	}
	h.runIntent(c, func(in *handball.InputState) error {
		return in.SetResult(req.Result, req.Memo)
	})
}

// StartSequence opens the penalty earning sequence from the staged play.
func (h *InputHandler) StartSequence(c *gin.Context) {
	var req struct {
		PrevResult string `json:"prevResult"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		utils.SendValidationError(c, "Invalid sequence request", err.Error())
		return
	}
	h.runIntent(c, func(in *handball.InputState) error {
		return in.StartPenaltySequence(req.PrevResult)
	})
}

// SequenceSanction records the sanction step of the penalty sequence.
func (h *InputHandler) SequenceSanction(c *gin.Context) {
	var req struct {
		Sanction   string `json:"sanction"`
		DefenderNo *int   `json:"defenderNo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		utils.SendValidationError(c, "Invalid sanction step", err.Error())
		return
	}
	h.runIntent(c, func(in *handball.InputState) error {
		return in.SetSequenceSanction(req.Sanction, req.DefenderNo)
	})
}

// AbortSequence discards the open sequence without logging anything.
func (h *InputHandler) AbortSequence(c *gin.Context) {
	h.runIntent(c, func(in *handball.InputState) error {
		in.AbortSequence()
		return nil
	})
}

// Reset clears the staged selection.
func (h *InputHandler) Reset(c *gin.Context) {
	h.runIntent(c, func(in *handball.InputState) error {
		in.Reset()
		return nil
	})
}

// Confirm commits the staged entry to the log.
func (h *InputHandler) Confirm(c *gin.Context) {
	result, err := h.matches.Commit(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, result)
}
