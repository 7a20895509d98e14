// Package handball implements the scorekeeping core: the action input
// state machine, the event log vocabulary, statistics aggregation and
// the course heatmap. It has no transport or storage concerns.
package handball

// Team sides. Every event is recorded against exactly one of these.
const (
	TeamOwn = "Own"
	TeamOpp = "Opp"
)

// OpposingTeam returns the other side.
func OpposingTeam(team string) string {
	if team == TeamOwn {
		return TeamOpp
	}
	return TeamOwn
}

// Attack phases.
const (
	PhaseSetOffense = "SetOF"
	PhaseFastBreak  = "FB"
)

// Shot type codes as they appear on the wire and in persisted logs.
const (
	ShotDistance     = "DS" // distance shot from the backcourt
	ShotLine         = "LS" // line shot from the pivot
	ShotWing         = "WS" // wing shot
	ShotBreakthrough = "BT" // breakthrough
	ShotEmptyGoal    = "EG" // empty goal
	ShotPenalty      = "PT" // 7m penalty throw
	ShotPost         = "PS" // post shot
)

// ShotTypes lists every shot code. Order matters: it fixes iteration
// order for the per-shot statistics maps and the comparison exports.
var ShotTypes = []string{
	ShotDistance, ShotLine, ShotWing, ShotBreakthrough, ShotEmptyGoal, ShotPenalty, ShotPost,
}

// ShotLabels carries the display names the scoreboard UIs use.
var ShotLabels = map[string]string{
	ShotDistance:     "ディスタンスシュート",
	ShotLine:         "ラインシュート",
	ShotWing:         "ウィングシュート",
	ShotBreakthrough: "ブレイクスルー",
	ShotEmptyGoal:    "エンプティゴール",
	ShotPenalty:      "7mスロー",
	ShotPost:         "ポストシュート",
}

// Sanction and whistle tokens. These are stored verbatim in event logs,
// so the original Japanese tokens are kept for compatibility with logs
// recorded by earlier versions of the tracker.
const (
	SanctionWarning          = "警告"     // yellow card
	SanctionSuspension       = "退場"     // 2-minute suspension
	SanctionDisqualification = "失格"     // red card
	SanctionGoalAreaDefense  = "ライン内防御" // goal-area line defence, no personal card
	ActionTimeout            = "タイムアウト"
)

// ActionTurnover is the non-shot possession loss action.
const ActionTurnover = "TO"

// DirectActions commit immediately from a single button press, without
// zone or course selection.
var DirectActions = []string{
	SanctionWarning, SanctionSuspension, SanctionDisqualification, ActionTimeout,
}

// CardedSanctions are the personal punishments that identify a specific
// defender. Goal-area defence is excluded: it sanctions the situation,
// not a player.
var CardedSanctions = []string{
	SanctionWarning, SanctionSuspension, SanctionDisqualification,
}

// Result tokens.
const (
	ResultGoal      = "Goal"
	ResultSave      = "Save"
	ResultOut       = "Out"
	ResultBlock     = "Block"
	ResultTechMiss  = "TM" // technical mistake: dropped catch, bad pass
	ResultViolation = "VL" // rule violation: steps, offensive foul, line cross
	ResultTurnover  = "TO"
	ResultTimeout   = "TimeOut"
	ResultNoShot    = "No Shot"
)

// ResultTypes lists every value the result field of a committed event
// may hold.
var ResultTypes = []string{
	ResultGoal, ResultSave, ResultOut, ResultBlock, ResultTechMiss, ResultViolation,
	SanctionWarning, SanctionSuspension, SanctionDisqualification, ResultTurnover,
	ResultTimeout,
}

// Court zones, attacker's point of view.
const (
	ZoneLeft   = "L"
	ZoneCenter = "C"
	ZoneRight  = "R"
)

var Zones = []string{ZoneLeft, ZoneCenter, ZoneRight}

// Court areas selectable on the input panel. Wings map straight to a
// zone, the three back areas carry the zone for backcourt actions.
const (
	AreaLeftWing   = "LW"
	AreaRightWing  = "RW"
	AreaBackLeft   = "L"
	AreaBackCenter = "C"
	AreaBackRight  = "R"
)

// Tactical positions derived from shot type and zone.
const (
	PosLeftWing   = "LW"
	PosLeftBack   = "LB"
	PosCenterBack = "CB"
	PosPivot      = "PV"
	PosPenalty    = "PT"
	PosRightBack  = "RB"
	PosRightWing  = "RW"
)

// Positions lists every tactical position in display order.
var Positions = []string{
	PosLeftWing, PosLeftBack, PosCenterBack, PosPivot, PosPenalty, PosRightBack, PosRightWing,
}

// Post shot details.
const (
	PSDetailBlock  = "Block"
	PSDetailBehind = "Behind"
)

// Goal course grid bounds. Courses are numbered 1..9 on a 3x3 grid,
// row-major from the shooter's top left.
const (
	MinCourse = 1
	MaxCourse = 9
)

// Player shirt number bounds.
const (
	MinPlayerNo = 1
	MaxPlayerNo = 99
)

// Match periods.
const (
	PeriodFirst  = "first"
	PeriodSecond = "second"
)

// IsShotType reports whether action is one of the shot codes.
func IsShotType(action string) bool {
	for _, s := range ShotTypes {
		if action == s {
			return true
		}
	}
	return false
}

// IsCardedSanction reports whether action is a personal punishment.
func IsCardedSanction(action string) bool {
	for _, s := range CardedSanctions {
		if action == s {
			return true
		}
	}
	return false
}

// IsDirectAction reports whether action commits without zone or course
// selection.
func IsDirectAction(action string) bool {
	for _, a := range DirectActions {
		if action == a {
			return true
		}
	}
	return false
}

// ValidZone reports whether zone is one of L, C, R.
func ValidZone(zone string) bool {
	return zone == ZoneLeft || zone == ZoneCenter || zone == ZoneRight
}

// ValidCourse reports whether course is on the 3x3 grid.
func ValidCourse(course int) bool {
	return course >= MinCourse && course <= MaxCourse
}

// ValidPlayerNo reports whether no is a legal shirt number.
func ValidPlayerNo(no int) bool {
	return no >= MinPlayerNo && no <= MaxPlayerNo
}
