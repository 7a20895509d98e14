package handball

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keeperShot(team string, gk int, result string) Event {
	e := shot(team, 7, ShotDistance, ZoneCenter, 5, result)
	if team == TeamOwn {
		e.OppGK = IntPtr(gk)
	} else {
		e.OwnGK = IntPtr(gk)
	}
	return e
}

func TestComputeKeeperStats(t *testing.T) {
	log := []Event{
		keeperShot(TeamOpp, 1, ResultSave),
		keeperShot(TeamOpp, 1, ResultGoal),
		keeperShot(TeamOpp, 1, ResultOut),
		keeperShot(TeamOpp, 12, ResultSave),
		keeperShot(TeamOwn, 16, ResultGoal), // own attack, other keeper
	}

	keepers := ComputeKeeperStats(log, TeamOwn)
	require.Len(t, keepers, 2)

	first := keepers[0]
	assert.Equal(t, 1, first.No)
	assert.Equal(t, 1, first.Saves)
	assert.Equal(t, 1, first.Goals)
	assert.Equal(t, 2, first.OnTarget)
	assert.Equal(t, 0.5, first.SaveRate)

	second := keepers[1]
	assert.Equal(t, 12, second.No)
	assert.Equal(t, 1.0, second.SaveRate)
}

func TestShootingRanking(t *testing.T) {
	roster := Roster{{No: 7, Name: "Sato"}, {No: 9, Name: "Mori"}}
	log := []Event{
		shot(TeamOwn, 7, ShotDistance, ZoneCenter, 5, ResultGoal),
		shot(TeamOwn, 7, ShotDistance, ZoneCenter, 5, ResultSave),
		shot(TeamOwn, 9, ShotWing, ZoneLeft, 1, ResultGoal),
		shot(TeamOpp, 3, ShotWing, ZoneLeft, 1, ResultGoal),
		turnover(TeamOwn, ResultTechMiss),
	}

	ranks := ShootingRanking(log, TeamOwn, roster)
	require.Len(t, ranks, 2)

	assert.Equal(t, 9, ranks[0].No)
	assert.Equal(t, "Mori", ranks[0].Name)
	assert.Equal(t, 1.0, ranks[0].Rate)

	assert.Equal(t, 7, ranks[1].No)
	assert.Equal(t, 2, ranks[1].Shots)
	assert.Equal(t, 0.5, ranks[1].Rate)
}

func TestScoringFlowAndScore(t *testing.T) {
	log := []Event{
		shot(TeamOwn, 7, ShotDistance, ZoneCenter, 5, ResultGoal),
		shot(TeamOpp, 3, ShotWing, ZoneLeft, 1, ResultGoal),
		shot(TeamOwn, 9, ShotLine, ZoneCenter, 8, ResultSave),
		shot(TeamOwn, 9, ShotLine, ZoneCenter, 8, ResultGoal),
	}

	flow := ScoringFlow(log)
	require.Len(t, flow, 3)
	assert.Equal(t, ScorePoint{Time: "01:00", Team: TeamOwn, Own: 1, Opp: 0}, flow[0])
	assert.Equal(t, ScorePoint{Time: "01:00", Team: TeamOpp, Own: 1, Opp: 1}, flow[1])
	assert.Equal(t, ScorePoint{Time: "01:00", Team: TeamOwn, Own: 2, Opp: 1}, flow[2])

	own, opp := Score(log)
	assert.Equal(t, 2, own)
	assert.Equal(t, 1, opp)
}

func TestFilterTimeline(t *testing.T) {
	log := []Event{
		shot(TeamOwn, 7, ShotDistance, ZoneCenter, 5, ResultGoal),
		turnover(TeamOpp, ResultViolation),
		shot(TeamOpp, 3, ShotWing, ZoneLeft, 1, ResultGoal),
	}

	all, idx := FilterTimeline(log, TimelineAll)
	assert.Len(t, all, 3)
	assert.Equal(t, []int{0, 1, 2}, idx)

	goals, idx := FilterTimeline(log, TimelineGoals)
	require.Len(t, goals, 2)
	assert.Equal(t, []int{0, 2}, idx)

	tos, idx := FilterTimeline(log, TimelineTurnovers)
	require.Len(t, tos, 1)
	assert.Equal(t, []int{1}, idx)

	opp, _ := FilterTimeline(log, TeamOpp)
	assert.Len(t, opp, 2)
}

func TestSummarize(t *testing.T) {
	log := []Event{
		shot(TeamOwn, 7, ShotDistance, ZoneLeft, 5, ResultGoal),
		shot(TeamOwn, 7, ShotDistance, ZoneLeft, 1, ResultSave),
		turnover(TeamOwn, ResultTechMiss),
		shot(TeamOpp, 9, ShotWing, ZoneRight, 3, ResultGoal),
	}

	summary := Summarize(ComputeStats(log))

	assert.Equal(t, 1, summary.Own.Goals)
	assert.Equal(t, 2, summary.Own.Shots)
	assert.Equal(t, 3, summary.Own.Attacks)
	assert.Equal(t, 1, summary.Own.Turnovers)
	assert.InDelta(t, 0.5, summary.Own.ShotSuccess, 1e-9)
	assert.InDelta(t, 1.0/3.0, summary.Own.AttackConversion, 1e-9)
	assert.InDelta(t, 1.0/3.0, summary.Own.TurnoverRate, 1e-9)

	// The own side faced one opp shot on target and saved none of it.
	assert.InDelta(t, 0.0, summary.Own.SaveRate, 1e-9)
	// The opp keeper saved one of the two own shots on target.
	assert.InDelta(t, 0.5, summary.Opp.SaveRate, 1e-9)
}

func TestSummarizeNilStats(t *testing.T) {
	summary := Summarize(nil)

	assert.Zero(t, summary.Own.Goals)
	assert.Zero(t, summary.Opp.SaveRate)
}
