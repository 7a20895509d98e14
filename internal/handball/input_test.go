package handball

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStamp() ClockStamp {
	return ClockStamp{
		Band:  "10~15",
		Exact: "12:34",
		Half:  1,
		OwnGK: IntPtr(1),
		OppGK: IntPtr(16),
	}
}

func TestInputStateInitial(t *testing.T) {
	s := NewInputState()
	assert.Equal(t, TeamOwn, s.Team)
	assert.Equal(t, PhaseSetOffense, s.Phase)
	assert.Nil(t, s.PlayerNo)
	assert.False(t, s.InSequence())
}

func TestSelectAreaOffersActions(t *testing.T) {
	s := NewInputState()

	actions, err := s.SelectArea(AreaLeftWing)
	require.NoError(t, err)
	assert.Equal(t, []string{ShotWing, ActionTurnover}, actions)
	require.NotNil(t, s.Zone)
	assert.Equal(t, ZoneLeft, *s.Zone)

	actions, err = s.SelectArea(AreaBackCenter)
	require.NoError(t, err)
	assert.Equal(t, []string{ShotDistance, ShotBreakthrough, ShotLine, ActionTurnover, ShotPost}, actions)
	assert.Equal(t, ZoneCenter, *s.Zone)

	_, err = s.SelectArea("X")
	assert.Error(t, err)
}

func TestSelectActionRequiresArea(t *testing.T) {
	s := NewInputState()
	assert.Error(t, s.SelectAction(ShotDistance))

	_, err := s.SelectArea(AreaLeftWing)
	require.NoError(t, err)
	// Distance shots are not offered from the wing.
	assert.Error(t, s.SelectAction(ShotDistance))
	assert.NoError(t, s.SelectAction(ShotWing))
}

func TestConfirmValidationOrder(t *testing.T) {
	// Player is checked before action, action before zone.
	s := NewInputState()
	_, err := s.SelectArea(AreaBackCenter)
	require.NoError(t, err)
	require.NoError(t, s.SelectAction(ShotDistance))
	require.NoError(t, s.SelectCourse(5))
	require.NoError(t, s.SetResult(ResultGoal, nil))

	_, err = s.Confirm(testStamp())
	assert.ErrorIs(t, err, ErrPlayerRequired)

	require.NoError(t, s.SelectPlayer(7))
	events, err := s.Confirm(testStamp())
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestConfirmRequiresResult(t *testing.T) {
	s := NewInputState()
	_, err := s.SelectArea(AreaBackCenter)
	require.NoError(t, err)
	require.NoError(t, s.SelectAction(ShotDistance))
	require.NoError(t, s.SelectPlayer(7))

	_, err = s.Confirm(testStamp())
	assert.ErrorIs(t, err, ErrResultRequired)
}

func TestConfirmBuildsEventAndFlipsTeam(t *testing.T) {
	s := NewInputState()
	require.NoError(t, s.SelectPlayer(7))
	_, err := s.SelectArea(AreaBackLeft)
	require.NoError(t, err)
	require.NoError(t, s.SelectAction(ShotDistance))
	require.NoError(t, s.SelectCourse(3))
	require.NoError(t, s.SetResult(ResultGoal, nil))

	events, err := s.Confirm(testStamp())
	require.NoError(t, err)
	require.Len(t, events, 1)

	e := events[0]
	assert.Equal(t, "10~15", e.Time)
	assert.Equal(t, "12:34", e.ExactTime)
	assert.Equal(t, 1, e.Half)
	assert.Equal(t, TeamOwn, e.Team)
	assert.Equal(t, 7, *e.No)
	assert.Equal(t, PhaseSetOffense, e.Phase)
	assert.Equal(t, ShotDistance, e.Action)
	assert.Equal(t, ZoneLeft, *e.Zone)
	assert.Equal(t, 3, *e.Course)
	assert.Equal(t, ResultGoal, e.Result)
	assert.Equal(t, 1, *e.OwnGK)
	assert.Equal(t, 16, *e.OppGK)

	// Possession flips and the selection resets.
	assert.Equal(t, TeamOpp, s.Team)
	assert.Nil(t, s.PlayerNo)
	assert.Empty(t, s.Action)
	assert.Nil(t, s.Zone)
}

func TestTurnoverNeedsNoPlayer(t *testing.T) {
	s := NewInputState()
	_, err := s.SelectArea(AreaBackCenter)
	require.NoError(t, err)
	require.NoError(t, s.SelectAction(ActionTurnover))
	require.NoError(t, s.SetResult(ResultTechMiss, StrPtr("パスカット")))

	events, err := s.Confirm(testStamp())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Nil(t, events[0].No)
	assert.Equal(t, ResultTechMiss, events[0].Result)
	require.NotNil(t, events[0].Memo)
	assert.Equal(t, "パスカット", *events[0].Memo)
}

func TestTimeoutCommitsDirectly(t *testing.T) {
	s := NewInputState()
	require.NoError(t, s.SelectFixedAction(ActionTimeout))
	assert.Equal(t, ResultTimeout, s.PendingResult)

	events, err := s.Confirm(testStamp())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ActionTimeout, events[0].Action)
	assert.Equal(t, ResultTimeout, events[0].Result)
	assert.Nil(t, events[0].No)
}

func TestDirectSanctionCommits(t *testing.T) {
	s := NewInputState()
	require.NoError(t, s.SelectTeam(TeamOpp))
	require.NoError(t, s.SelectPlayer(4))
	require.NoError(t, s.SelectFixedAction(SanctionSuspension))
	assert.Equal(t, SanctionSuspension, s.PendingResult)

	events, err := s.Confirm(testStamp())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, TeamOpp, events[0].Team)
	assert.Equal(t, SanctionSuspension, events[0].Action)
	assert.Equal(t, SanctionSuspension, events[0].Result)
}

func TestPostShotDetailGatesCourse(t *testing.T) {
	s := NewInputState()
	require.NoError(t, s.SelectPlayer(9))
	_, err := s.SelectArea(AreaBackRight)
	require.NoError(t, err)
	require.NoError(t, s.SelectAction(ShotPost))

	assert.ErrorIs(t, s.SelectCourse(5), ErrPSDetailRequired)
	require.NoError(t, s.SelectPSDetail(PSDetailBlock))
	require.NoError(t, s.SelectCourse(5))
	require.NoError(t, s.SetResult(ResultBlock, nil))

	events, err := s.Confirm(testStamp())
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.NotNil(t, events[0].Memo)
	assert.Equal(t, "[Block]", *events[0].Memo)
}

func TestPenaltySequenceThreeEvents(t *testing.T) {
	s := NewInputState()
	require.NoError(t, s.SelectPlayer(7))
	_, err := s.SelectArea(AreaBackCenter)
	require.NoError(t, err)
	require.NoError(t, s.SelectAction(ShotBreakthrough))

	require.NoError(t, s.StartPenaltySequence(ResultOut))
	assert.True(t, s.InSequence())

	require.NoError(t, s.SetSequenceSanction(SanctionSuspension, IntPtr(4)))
	assert.Equal(t, ShotPenalty, s.Action)
	assert.Equal(t, ZoneCenter, *s.Zone)

	// Shooter may differ from the fouled player.
	require.NoError(t, s.SelectPlayer(11))
	require.NoError(t, s.SelectCourse(5))
	require.NoError(t, s.SetResult(ResultGoal, nil))

	events, err := s.Confirm(testStamp())
	require.NoError(t, err)
	require.Len(t, events, 3)

	earned := events[0]
	assert.Equal(t, TeamOwn, earned.Team)
	assert.Equal(t, 7, *earned.No)
	assert.Equal(t, ShotBreakthrough, earned.Action)
	assert.Equal(t, ResultOut, earned.Result)
	require.NotNil(t, earned.Memo)
	assert.Equal(t, MemoPenaltyEarned, *earned.Memo)

	sanction := events[1]
	assert.Equal(t, TeamOpp, sanction.Team)
	assert.Equal(t, 4, *sanction.No)
	assert.Equal(t, SanctionSuspension, sanction.Action)
	assert.Equal(t, SanctionSuspension, sanction.Result)
	require.NotNil(t, sanction.Memo)
	assert.Equal(t, MemoDefensiveFoul, *sanction.Memo)

	throw := events[2]
	assert.Equal(t, TeamOwn, throw.Team)
	assert.Equal(t, 11, *throw.No)
	assert.Equal(t, ShotPenalty, throw.Action)
	assert.Equal(t, ResultGoal, throw.Result)
	assert.Nil(t, throw.Memo)

	// All three share the commit-time stamp.
	for _, e := range events {
		assert.Equal(t, "10~15", e.Time)
		assert.Equal(t, "12:34", e.ExactTime)
		assert.Equal(t, 1, e.Half)
	}

	assert.False(t, s.InSequence())
	assert.Equal(t, TeamOpp, s.Team)
}

func TestPenaltySequenceGoalAreaDefenseSkipsSanctionRecord(t *testing.T) {
	s := NewInputState()
	require.NoError(t, s.SelectPlayer(7))
	_, err := s.SelectArea(AreaBackCenter)
	require.NoError(t, err)
	require.NoError(t, s.SelectAction(ShotDistance))

	require.NoError(t, s.StartPenaltySequence(ResultNoShot))
	require.NoError(t, s.SetSequenceSanction("", nil))
	require.NoError(t, s.SelectCourse(1))
	require.NoError(t, s.SetResult(ResultSave, nil))

	events, err := s.Confirm(testStamp())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ResultNoShot, events[0].Result)
	assert.Equal(t, ShotPenalty, events[1].Action)
}

func TestPenaltySequenceCardWithoutDefenderSkipsSanctionRecord(t *testing.T) {
	s := NewInputState()
	require.NoError(t, s.SelectPlayer(7))
	_, err := s.SelectArea(AreaBackCenter)
	require.NoError(t, err)
	require.NoError(t, s.SelectAction(ShotDistance))

	require.NoError(t, s.StartPenaltySequence(ResultOut))
	require.NoError(t, s.SetSequenceSanction(SanctionWarning, nil))
	require.NoError(t, s.SelectCourse(9))
	require.NoError(t, s.SetResult(ResultGoal, nil))

	events, err := s.Confirm(testStamp())
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestAbortSequenceEmitsNothing(t *testing.T) {
	s := NewInputState()
	require.NoError(t, s.SelectPlayer(7))
	_, err := s.SelectArea(AreaBackCenter)
	require.NoError(t, err)
	require.NoError(t, s.SelectAction(ShotBreakthrough))
	require.NoError(t, s.StartPenaltySequence(ResultOut))

	s.AbortSequence()
	assert.False(t, s.InSequence())
	assert.Empty(t, s.Action)

	_, err = s.Confirm(testStamp())
	assert.ErrorIs(t, err, ErrResultRequired)
}

func TestSanctionToggleOnPenaltyThrow(t *testing.T) {
	s := NewInputState()
	require.NoError(t, s.SelectPlayer(7))
	require.NoError(t, s.SelectFixedAction(ShotPenalty))
	assert.Equal(t, ShotPenalty, s.Action)
	assert.Equal(t, ZoneCenter, *s.Zone)

	// A sanction press on a pending throw toggles instead of replacing.
	require.NoError(t, s.SelectFixedAction(SanctionSuspension))
	assert.Equal(t, ShotPenalty, s.Action)
	assert.Equal(t, SanctionSuspension, s.Sanction)

	require.NoError(t, s.SelectSanctionPlayer(4))
	require.NoError(t, s.SelectCourse(5))
	require.NoError(t, s.SetResult(ResultGoal, nil))

	events, err := s.Confirm(testStamp())
	require.NoError(t, err)
	require.Len(t, events, 2)

	sanction := events[0]
	assert.Equal(t, TeamOpp, sanction.Team)
	assert.Equal(t, 4, *sanction.No)
	assert.Equal(t, SanctionSuspension, sanction.Action)
	require.NotNil(t, sanction.Memo)
	assert.Equal(t, MemoPenaltySanction, *sanction.Memo)

	throw := events[1]
	assert.Equal(t, ShotPenalty, throw.Action)
	assert.Equal(t, ResultGoal, throw.Result)
}

func TestSanctionToggleOff(t *testing.T) {
	s := NewInputState()
	require.NoError(t, s.SelectPlayer(7))
	require.NoError(t, s.SelectFixedAction(ShotPenalty))
	require.NoError(t, s.SelectFixedAction(SanctionWarning))
	assert.Equal(t, SanctionWarning, s.Sanction)

	require.NoError(t, s.SelectFixedAction(SanctionWarning))
	assert.Empty(t, s.Sanction)

	require.NoError(t, s.SelectCourse(5))
	require.NoError(t, s.SetResult(ResultGoal, nil))
	events, err := s.Confirm(testStamp())
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestSelectTeamResetsSelection(t *testing.T) {
	s := NewInputState()
	require.NoError(t, s.SelectPlayer(7))
	_, err := s.SelectArea(AreaBackCenter)
	require.NoError(t, err)
	require.NoError(t, s.SelectAction(ShotDistance))
	require.NoError(t, s.SelectCourse(5))

	// Switching sides drops the player and the whole staged action, so
	// nothing half-entered can be confirmed against the other team.
	require.NoError(t, s.SelectTeam(TeamOpp))
	assert.Equal(t, TeamOpp, s.Team)
	assert.Nil(t, s.PlayerNo)
	assert.Empty(t, s.Action)
	assert.Nil(t, s.Zone)
	assert.Nil(t, s.Course)

	assert.Error(t, s.SelectTeam("Both"))
}

func TestSelectPlayerRange(t *testing.T) {
	s := NewInputState()
	assert.Error(t, s.SelectPlayer(0))
	assert.Error(t, s.SelectPlayer(100))
	assert.NoError(t, s.SelectPlayer(1))
	assert.NoError(t, s.SelectPlayer(99))
}
