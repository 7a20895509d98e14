package services

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/courtlog/handball-tracker/internal/handball"
	"github.com/courtlog/handball-tracker/internal/models"
	"github.com/courtlog/handball-tracker/pkg/database"
	"github.com/courtlog/handball-tracker/pkg/utils"
)

func newTestMatchService(t *testing.T) *MatchService {
	t.Helper()

	db, err := database.NewConnection("sqlite://"+filepath.Join(t.TempDir(), "matches.db"), false)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.MatchSession{}, &models.TeamConfig{}))
	t.Cleanup(func() { db.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewMatchService(db, nil, NewWebSocketHub(), nil, 30, log)
}

func createTestMatch(t *testing.T, svc *MatchService) *MatchState {
	t.Helper()

	state, err := svc.CreateMatch(CreateMatchRequest{
		OwnName: "Home",
		OppName: "Away",
		Players: []handball.Player{
			{No: 7, Name: "Left back"},
			{No: 9, Name: "Pivot"},
		},
	})
	require.NoError(t, err)
	return state
}

// evict drops the session from memory so the next access resumes it
// from the store.
func evict(svc *MatchService, id string) {
	svc.mu.Lock()
	delete(svc.live, id)
	svc.mu.Unlock()
}

func stageGoal(t *testing.T, svc *MatchService, id string, no int) {
	t.Helper()

	_, err := svc.Input(id, func(in *handball.InputState) error {
		if err := in.SelectPlayer(no); err != nil {
			return err
		}
		if _, err := in.SelectArea(handball.AreaBackLeft); err != nil {
			return err
		}
		if err := in.SelectAction(handball.ShotDistance); err != nil {
			return err
		}
		if err := in.SelectCourse(5); err != nil {
			return err
		}
		return in.SetResult(handball.ResultGoal, nil)
	})
	require.NoError(t, err)
}

func TestCreateMatchDefaults(t *testing.T) {
	svc := newTestMatchService(t)
	state := createTestMatch(t, svc)

	assert.NotEmpty(t, state.ID)
	assert.Equal(t, 30, state.HalfDuration)
	assert.Empty(t, state.Actions)
	require.NotNil(t, state.Stats)
	assert.Equal(t, 0, state.Stats.Own.Total.Goals)

	rows, err := svc.ListMatches()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, state.ID, rows[0].ID)
	assert.Equal(t, "Home", rows[0].OwnName)
	assert.False(t, rows[0].Finished)
}

func TestCreateMatchRejectsDuplicateNumbers(t *testing.T) {
	svc := newTestMatchService(t)

	_, err := svc.CreateMatch(CreateMatchRequest{
		OwnName: "Home",
		OppName: "Away",
		Players: []handball.Player{
			{No: 7, Name: "A"},
			{No: 7, Name: "B"},
		},
	})
	require.Error(t, err)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.ErrCodeValidation, appErr.Code)
}

func TestCreateMatchFallsBackToTeamConfig(t *testing.T) {
	svc := newTestMatchService(t)

	require.NoError(t, svc.SaveTeamConfig(TeamConfigState{
		TeamName:  "Club",
		Roster:    handball.Roster{{No: 3, Name: "Keeper"}, {No: 11, Name: "Wing"}},
		GKNumbers: []int{3},
	}))

	state, err := svc.CreateMatch(CreateMatchRequest{OwnName: "", OppName: "Away"})
	require.NoError(t, err)

	assert.Equal(t, "Club", state.OwnName)
	assert.True(t, state.Players.Has(3))
	assert.True(t, state.Players.Has(11))
	require.NotNil(t, state.OwnGK)
	assert.Equal(t, 3, *state.OwnGK)
	assert.Equal(t, []int{3}, state.OwnGKList)
}

func TestCommitLogsEventAndFlipsTeam(t *testing.T) {
	svc := newTestMatchService(t)
	state := createTestMatch(t, svc)

	stageGoal(t, svc, state.ID, 7)
	result, err := svc.Commit(state.ID)
	require.NoError(t, err)

	require.Len(t, result.Events, 1)
	e := result.Events[0]
	assert.Equal(t, handball.TeamOwn, e.Team)
	assert.Equal(t, handball.ShotDistance, e.Action)
	assert.Equal(t, handball.ResultGoal, e.Result)
	assert.Equal(t, "00~05", e.Time)
	assert.Equal(t, 1, result.ScoreOwn)
	assert.Equal(t, 0, result.ScoreOpp)
	assert.Equal(t, 1, result.Stats.Own.Total.Goals)

	// The machine resets and hands the attack to the other side.
	in, err := svc.InputState(state.ID)
	require.NoError(t, err)
	assert.Equal(t, handball.TeamOpp, in.Team)
	assert.Empty(t, in.Action)
	assert.Nil(t, in.PlayerNo)
}

func TestCommitValidationFailureKeepsLog(t *testing.T) {
	svc := newTestMatchService(t)
	state := createTestMatch(t, svc)

	// No player staged, only an area.
	_, err := svc.Input(state.ID, func(in *handball.InputState) error {
		_, err := in.SelectArea(handball.AreaBackCenter)
		return err
	})
	require.NoError(t, err)

	_, err = svc.Commit(state.ID)
	require.Error(t, err)

	events, _, err := svc.Events(state.ID, "")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCommitTimeoutPausesClock(t *testing.T) {
	svc := newTestMatchService(t)
	state := createTestMatch(t, svc)

	_, err := svc.ClockOp(state.ID, func(w *Stopwatch) error { return w.Start() })
	require.NoError(t, err)

	_, err = svc.Input(state.ID, func(in *handball.InputState) error {
		return in.SelectFixedAction(handball.ActionTimeout)
	})
	require.NoError(t, err)

	result, err := svc.Commit(state.ID)
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, handball.ResultTimeout, result.Events[0].Result)

	view, err := svc.Clock(state.ID)
	require.NoError(t, err)
	assert.False(t, view.Running)
}

func TestDeleteEventRecomputes(t *testing.T) {
	svc := newTestMatchService(t)
	state := createTestMatch(t, svc)

	stageGoal(t, svc, state.ID, 7)
	_, err := svc.Commit(state.ID)
	require.NoError(t, err)

	stats, err := svc.DeleteEvent(state.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Own.Total.Goals)
	assert.Equal(t, 0, stats.Own.Total.Attacks)

	events, _, err := svc.Events(state.ID, "")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestDeleteEventOutOfRangeIsNoOp(t *testing.T) {
	svc := newTestMatchService(t)
	state := createTestMatch(t, svc)

	stageGoal(t, svc, state.ID, 7)
	_, err := svc.Commit(state.ID)
	require.NoError(t, err)

	stats, err := svc.DeleteEvent(state.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Own.Total.Goals)
}

func TestEditEventRederivesTimeBand(t *testing.T) {
	svc := newTestMatchService(t)
	state := createTestMatch(t, svc)

	stageGoal(t, svc, state.ID, 7)
	_, err := svc.Commit(state.ID)
	require.NoError(t, err)

	newTime := "17:30"
	stats, err := svc.EditEvent(state.ID, 0, EventPatch{
		ExactTime: &newTime,
		Result:    handball.StrPtr(handball.ResultSave),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Own.Total.Goals)
	assert.Equal(t, 1, stats.Own.Total.Shots)

	events, _, err := svc.Events(state.ID, "")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "15~20", events[0].Time)
	assert.Equal(t, handball.ResultSave, events[0].Result)
}

func TestResumeRecomputesStats(t *testing.T) {
	svc := newTestMatchService(t)
	state := createTestMatch(t, svc)

	stageGoal(t, svc, state.ID, 7)
	_, err := svc.Commit(state.ID)
	require.NoError(t, err)

	evict(svc, state.ID)

	loaded, err := svc.GetMatch(state.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Actions, 1)
	require.NotNil(t, loaded.Stats)
	assert.Equal(t, 1, loaded.Stats.Own.Total.Goals)
	assert.Equal(t, 1, loaded.Stats.Own.Total.Attacks)
}

func TestResumeRejectsMalformedPayload(t *testing.T) {
	svc := newTestMatchService(t)

	row := models.MatchSession{
		ID:      "broken",
		OwnName: "Home",
		OppName: "Away",
		Payload: datatypes.JSON(`{"id": 42}`),
	}
	require.NoError(t, svc.db.Create(&row).Error)

	_, err := svc.GetMatch("broken")
	require.Error(t, err)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.ErrCodeMalformedData, appErr.Code)
}

func TestGetMatchNotFound(t *testing.T) {
	svc := newTestMatchService(t)

	_, err := svc.GetMatch("missing")
	require.Error(t, err)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.ErrCodeNotFound, appErr.Code)
}

func TestFinishMatchPersistsFinishedFlag(t *testing.T) {
	svc := newTestMatchService(t)
	state := createTestMatch(t, svc)

	_, err := svc.FinishMatch(state.ID)
	require.NoError(t, err)

	rows, err := svc.ListMatches()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Finished)

	evict(svc, state.ID)
	view, err := svc.Clock(state.ID)
	require.NoError(t, err)
	assert.True(t, view.Finished)
}

func TestDeleteMatchRemovesRow(t *testing.T) {
	svc := newTestMatchService(t)
	state := createTestMatch(t, svc)

	require.NoError(t, svc.DeleteMatch(state.ID))

	rows, err := svc.ListMatches()
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = svc.GetMatch(state.ID)
	assert.Error(t, err)
}

func TestSetGoalkeeperKeepsHistory(t *testing.T) {
	svc := newTestMatchService(t)
	state := createTestMatch(t, svc)

	_, err := svc.SetGoalkeeper(state.ID, handball.TeamOwn, 7)
	require.NoError(t, err)
	updated, err := svc.SetGoalkeeper(state.ID, handball.TeamOwn, 9)
	require.NoError(t, err)

	require.NotNil(t, updated.OwnGK)
	assert.Equal(t, 9, *updated.OwnGK)
	assert.Equal(t, []int{7, 9}, updated.OwnGKList)

	// Re-selecting a previous keeper does not duplicate the list entry.
	updated, err = svc.SetGoalkeeper(state.ID, handball.TeamOwn, 7)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 9}, updated.OwnGKList)
}

func TestRosterMutations(t *testing.T) {
	svc := newTestMatchService(t)
	state := createTestMatch(t, svc)

	updated, err := svc.AddPlayer(state.ID, handball.TeamOpp, handball.Player{No: 5, Name: "Opp back"})
	require.NoError(t, err)
	assert.True(t, updated.OppPlayers.Has(5))

	updated, err = svc.RemovePlayer(state.ID, handball.TeamOwn, 9)
	require.NoError(t, err)
	assert.False(t, updated.Players.Has(9))
	assert.True(t, updated.Players.Has(7))
}

func TestTeamConfigRoundTrip(t *testing.T) {
	svc := newTestMatchService(t)

	cfg := TeamConfigState{
		TeamName:  "Club",
		Roster:    handball.Roster{{No: 1, Name: "GK"}, {No: 10, Name: "CB"}},
		GKNumbers: []int{1},
	}
	require.NoError(t, svc.SaveTeamConfig(cfg))

	loaded, err := svc.GetTeamConfig()
	require.NoError(t, err)
	assert.Equal(t, "Club", loaded.TeamName)
	assert.Equal(t, cfg.Roster, loaded.Roster)
	assert.Equal(t, []int{1}, loaded.GKNumbers)

	// Saving again overwrites rather than accumulating rows.
	cfg.TeamName = "Renamed"
	require.NoError(t, svc.SaveTeamConfig(cfg))
	loaded, err = svc.GetTeamConfig()
	require.NoError(t, err)
	assert.Equal(t, "Renamed", loaded.TeamName)
}

func TestFlushDirtyPersistsClockChanges(t *testing.T) {
	svc := newTestMatchService(t)
	state := createTestMatch(t, svc)

	_, err := svc.ClockOp(state.ID, func(w *Stopwatch) error { return w.SetElapsed(120) })
	require.NoError(t, err)

	svc.FlushDirty()
	evict(svc, state.ID)

	view, err := svc.Clock(state.ID)
	require.NoError(t, err)
	assert.Equal(t, "02:00", view.Clock)
}

func TestHeatmapFilterKeyVersioning(t *testing.T) {
	f := handball.HeatmapFilter{Team: handball.TeamOwn, Action: handball.ShotDistance, Zone: handball.ZoneCenter}
	k1 := HeatmapCacheKey("m1", heatmapFilterKey(f, 1))
	k2 := HeatmapCacheKey("m1", heatmapFilterKey(f, 2))
	assert.NotEqual(t, k1, k2)
	assert.Contains(t, k1, "heatmap:m1:")
	assert.Contains(t, k1, ":all:")

	f.PlayerNo = handball.IntPtr(7)
	assert.Contains(t, heatmapFilterKey(f, 1), ":7:")
}

func TestHeatmapThroughService(t *testing.T) {
	svc := newTestMatchService(t)
	state := createTestMatch(t, svc)
	stageGoal(t, svc, state.ID, 7)
	_, err := svc.Commit(state.ID)
	require.NoError(t, err)

	grid, err := svc.Heatmap(state.ID, handball.HeatmapFilter{
		Team:   handball.TeamOwn,
		Action: handball.ShotDistance,
		Zone:   handball.ZoneLeft,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, grid[5].Attempts)
	assert.Equal(t, 1, grid[5].Goals)
}
