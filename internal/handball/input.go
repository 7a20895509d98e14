package handball

import (
	"errors"
	"fmt"
)

// Validation errors raised by the input machine, in the order the
// checks run on confirm.
var (
	ErrPlayerRequired   = errors.New("player number required")
	ErrActionRequired   = errors.New("action required")
	ErrZoneRequired     = errors.New("zone required for shot actions")
	ErrResultRequired   = errors.New("result required")
	ErrNoActionSelected = errors.New("no action selected")
	ErrPSDetailRequired = errors.New("post shot detail required")
	ErrNoSequence       = errors.New("no penalty sequence in progress")
)

// ClockStamp carries the timing context an event is committed with:
// the band label, the exact half clock, the half number and the active
// goalkeepers. The session layer builds it from the stopwatch.
type ClockStamp struct {
	Band  string
	Exact string
	Half  int
	OwnGK *int
	OppGK *int
}

// sequenceStep1 snapshots the play that earned the penalty throw.
type sequenceStep1 struct {
	Team   string
	No     *int
	Phase  string
	Action string
	Zone   *string
	Course *int
	Result string
}

// penaltySequence accumulates the penalty throw protocol: the earning
// play, the sanction, then the throw itself.
type penaltySequence struct {
	step1      sequenceStep1
	sanction   string
	defenderNo *int
	hasStep2   bool
}

// InputState is the guided entry machine for one match. One operator
// drives it; the session layer serializes access. Selections narrow
// down team, player, phase, action, placement and outcome, and Confirm
// turns them into log events.
type InputState struct {
	Team          string  `json:"team"`
	PlayerNo      *int    `json:"playerNo"`
	Phase         string  `json:"phase"`
	Action        string  `json:"action"`
	Zone          *string `json:"zone"`
	Course        *int    `json:"course"`
	PSDetail      string  `json:"psDetail,omitempty"`
	PendingResult string  `json:"pendingResult"`
	PendingMemo   *string `json:"pendingMemo"`
	// Sanction is set by the standalone sanction toggle on a pending
	// penalty throw, outside the three-step sequence.
	Sanction         string `json:"sanction,omitempty"`
	SanctionPlayerNo *int   `json:"sanctionPlayerNo,omitempty"`

	seq *penaltySequence
}

// NewInputState returns a machine at its initial selection: own team,
// set offense, nothing else chosen.
func NewInputState() *InputState {
	return &InputState{Team: TeamOwn, Phase: PhaseSetOffense}
}

// InSequence reports whether a penalty throw sequence is in progress.
func (s *InputState) InSequence() bool { return s.seq != nil }

// SelectTeam switches the acting side and drops the player selection.
func (s *InputState) SelectTeam(team string) error {
	if team != TeamOwn && team != TeamOpp {
		return fmt.Errorf("unknown team %q", team)
	}
	s.Team = team
	s.PlayerNo = nil
	// Switching sides discards any staged action so it cannot be
	// confirmed against the new team.
	s.Reset()
	return nil
}

// SelectPhase sets the attack phase.
func (s *InputState) SelectPhase(phase string) error {
	if phase != PhaseSetOffense && phase != PhaseFastBreak {
		return fmt.Errorf("unknown phase %q", phase)
	}
	s.Phase = phase
	return nil
}

// SelectPlayer picks the acting player.
func (s *InputState) SelectPlayer(no int) error {
	if !ValidPlayerNo(no) {
		return fmt.Errorf("player number %d out of range %d-%d", no, MinPlayerNo, MaxPlayerNo)
	}
	s.PlayerNo = IntPtr(no)
	return nil
}

// areaActions maps each court area to the actions it offers.
var areaActions = map[string][]string{
	AreaLeftWing:   {ShotWing, ActionTurnover},
	AreaRightWing:  {ShotWing, ActionTurnover},
	AreaBackLeft:   {ShotDistance, ShotBreakthrough, ShotLine, ActionTurnover, ShotPost},
	AreaBackCenter: {ShotDistance, ShotBreakthrough, ShotLine, ActionTurnover, ShotPost},
	AreaBackRight:  {ShotDistance, ShotBreakthrough, ShotLine, ActionTurnover, ShotPost},
}

// SelectArea fixes the zone from a court area and returns the action
// choices it offers. Any earlier action, course and result selection
// is discarded.
func (s *InputState) SelectArea(area string) ([]string, error) {
	actions, ok := areaActions[area]
	if !ok {
		return nil, fmt.Errorf("unknown court area %q", area)
	}
	s.Action = ""
	s.Course = nil
	s.PSDetail = ""
	s.PendingResult = ""
	s.PendingMemo = nil
	switch area {
	case AreaLeftWing:
		s.Zone = StrPtr(ZoneLeft)
	case AreaRightWing:
		s.Zone = StrPtr(ZoneRight)
	default:
		s.Zone = StrPtr(area)
	}
	return actions, nil
}

// SelectAction picks one of the actions the current area offers.
func (s *InputState) SelectAction(action string) error {
	if s.Zone == nil {
		return fmt.Errorf("select a court area first")
	}
	offered := areaActions[zoneArea(*s.Zone)]
	found := false
	for _, a := range offered {
		if a == action {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("action %q not available from this area", action)
	}
	s.Action = action
	s.Course = nil
	s.PSDetail = ""
	s.PendingResult = ""
	s.PendingMemo = nil
	return nil
}

// zoneArea maps a zone back to the area that fixed it.
func zoneArea(zone string) string {
	switch zone {
	case ZoneLeft:
		return AreaBackLeft
	case ZoneRight:
		return AreaBackRight
	default:
		return AreaBackCenter
	}
}

// SelectPSDetail records how a post shot missed, Block or Behind.
// Required before a post shot accepts a course.
func (s *InputState) SelectPSDetail(detail string) error {
	if s.Action != ShotPost {
		return fmt.Errorf("detail only applies to post shots")
	}
	if detail != PSDetailBlock && detail != PSDetailBehind {
		return fmt.Errorf("unknown post shot detail %q", detail)
	}
	s.PSDetail = detail
	return nil
}

// SelectFixedAction handles the dedicated buttons outside the area
// flow: penalty throw, empty goal, the three sanctions and timeout.
//
// Pressing a sanction while a penalty throw entry is pending does not
// replace the action: it toggles an attached sanction for the
// opposing team, committed alongside the throw.
func (s *InputState) SelectFixedAction(action string) error {
	isSanction := IsCardedSanction(action)

	if s.Action == ShotPenalty && isSanction {
		if s.Sanction == action {
			s.Sanction = ""
			s.SanctionPlayerNo = nil
		} else {
			s.Sanction = action
		}
		return nil
	}

	switch {
	case action == ShotPenalty || action == ShotEmptyGoal:
		s.Action = action
		s.Sanction = ""
		s.SanctionPlayerNo = nil
		s.Zone = StrPtr(ZoneCenter)
		s.Course = nil
		s.PSDetail = ""
		s.PendingResult = ""
		s.PendingMemo = nil
	case isSanction:
		s.Action = action
		s.Sanction = ""
		s.SanctionPlayerNo = nil
		s.Zone = StrPtr(ZoneCenter)
		s.Course = nil
		s.PSDetail = ""
		s.PendingResult = action
		s.PendingMemo = nil
	case action == ActionTimeout:
		s.Action = action
		s.Sanction = ""
		s.SanctionPlayerNo = nil
		s.Zone = StrPtr(ZoneCenter)
		s.Course = nil
		s.PSDetail = ""
		s.PendingResult = ResultTimeout
		s.PendingMemo = nil
	default:
		return fmt.Errorf("unknown fixed action %q", action)
	}
	return nil
}

// SelectSanctionPlayer identifies the sanctioned opposing defender for
// a toggled sanction.
func (s *InputState) SelectSanctionPlayer(no int) error {
	if s.Sanction == "" {
		return fmt.Errorf("no sanction toggled")
	}
	if !ValidPlayerNo(no) {
		return fmt.Errorf("player number %d out of range %d-%d", no, MinPlayerNo, MaxPlayerNo)
	}
	s.SanctionPlayerNo = IntPtr(no)
	return nil
}

// SelectCourse records where the shot went on the 3x3 goal grid.
func (s *InputState) SelectCourse(course int) error {
	if s.Action == "" {
		return ErrNoActionSelected
	}
	if s.Action == ActionTurnover || IsDirectAction(s.Action) {
		return fmt.Errorf("action %q takes no course", s.Action)
	}
	if s.Action == ShotPost && s.PSDetail == "" {
		return ErrPSDetailRequired
	}
	if !ValidCourse(course) {
		return fmt.Errorf("course %d out of range %d-%d", course, MinCourse, MaxCourse)
	}
	s.Course = IntPtr(course)
	return nil
}

// SetResult stages the outcome. Turnover outcomes carry a memo naming
// the turnover reason.
func (s *InputState) SetResult(result string, memo *string) error {
	if s.Action == "" {
		return ErrNoActionSelected
	}
	valid := false
	for _, r := range ResultTypes {
		if r == result {
			valid = true
			break
		}
	}
	if !valid && result != ResultNoShot {
		return fmt.Errorf("unknown result %q", result)
	}
	s.PendingResult = result
	s.PendingMemo = memo
	return nil
}

// StartPenaltySequence snapshots the current selection as the play
// that earned a penalty throw. prevResult records how that play ended,
// Out when the throw interrupted a shot, No Shot when no shot was
// taken; empty defaults to Out. The machine then expects the sanction
// step.
func (s *InputState) StartPenaltySequence(prevResult string) error {
	if s.Action == "" {
		return ErrNoActionSelected
	}
	if prevResult == "" {
		prevResult = ResultOut
	}
	if prevResult != ResultOut && prevResult != ResultNoShot {
		return fmt.Errorf("invalid sequence result %q", prevResult)
	}
	s.seq = &penaltySequence{
		step1: sequenceStep1{
			Team:   s.Team,
			No:     s.PlayerNo,
			Phase:  s.Phase,
			Action: s.Action,
			Zone:   s.Zone,
			Course: s.Course,
			Result: prevResult,
		},
	}
	s.PendingResult = ""
	s.PendingMemo = nil
	return nil
}

// SetSequenceSanction records the sequence's sanction step and arms
// the penalty throw itself: action becomes PT from center, awaiting
// shooter, course and result. An empty sanction means goal-area
// defence without a personal card; defenderNo may be nil.
func (s *InputState) SetSequenceSanction(sanction string, defenderNo *int) error {
	if s.seq == nil {
		return ErrNoSequence
	}
	if sanction == "" {
		sanction = SanctionGoalAreaDefense
	}
	if sanction != SanctionGoalAreaDefense && !IsCardedSanction(sanction) {
		return fmt.Errorf("unknown sanction %q", sanction)
	}
	if defenderNo != nil && !ValidPlayerNo(*defenderNo) {
		return fmt.Errorf("player number %d out of range %d-%d", *defenderNo, MinPlayerNo, MaxPlayerNo)
	}
	s.seq.sanction = sanction
	s.seq.defenderNo = defenderNo
	s.seq.hasStep2 = true

	s.Action = ShotPenalty
	s.Zone = StrPtr(ZoneCenter)
	s.Course = nil
	s.Sanction = ""
	s.SanctionPlayerNo = nil
	return nil
}

// AbortSequence discards an in-progress penalty sequence together with
// the rest of the selection. Nothing is logged.
func (s *InputState) AbortSequence() {
	s.Reset()
}

// Reset clears everything except team and phase.
func (s *InputState) Reset() {
	s.Action = ""
	s.Zone = nil
	s.Course = nil
	s.PSDetail = ""
	s.PendingResult = ""
	s.PendingMemo = nil
	s.Sanction = ""
	s.SanctionPlayerNo = nil
	s.seq = nil
}

// Confirm validates the staged entry and materializes it as log
// events: one for a plain action, two for a sanctioned penalty throw,
// three for a full penalty sequence. On success the selection resets
// and the acting team flips for the next possession.
func (s *InputState) Confirm(clk ClockStamp) ([]Event, error) {
	result := s.PendingResult
	if result == "" {
		return nil, ErrResultRequired
	}

	memo := s.PendingMemo
	if s.Action == ShotPost && s.PSDetail != "" {
		tag := "[" + s.PSDetail + "]"
		if memo != nil {
			memo = StrPtr(tag + " " + *memo)
		} else {
			memo = StrPtr(tag)
		}
	}

	// Validation order is fixed: player, then action, then zone.
	if s.PlayerNo == nil && s.Action != ActionTimeout && s.Action != ActionTurnover {
		return nil, ErrPlayerRequired
	}
	if s.Action == "" {
		return nil, ErrActionRequired
	}
	if IsShotType(s.Action) && s.Zone == nil {
		return nil, ErrZoneRequired
	}

	stamp := func(e Event) Event {
		e.Time = clk.Band
		e.ExactTime = clk.Exact
		e.Half = clk.Half
		e.OwnGK = clk.OwnGK
		e.OppGK = clk.OppGK
		return e
	}

	var events []Event

	switch {
	case s.seq != nil:
		s1 := s.seq.step1
		events = append(events, stamp(Event{
			Team:   s1.Team,
			No:     s1.No,
			Phase:  s1.Phase,
			Action: s1.Action,
			Zone:   s1.Zone,
			Course: s1.Course,
			Result: s1.Result,
			Memo:   StrPtr(MemoPenaltyEarned),
		}))
		if s.seq.hasStep2 && IsCardedSanction(s.seq.sanction) && s.seq.defenderNo != nil {
			events = append(events, stamp(Event{
				Team:   OpposingTeam(s.Team),
				No:     s.seq.defenderNo,
				Phase:  s1.Phase,
				Action: s.seq.sanction,
				Zone:   StrPtr(ZoneCenter),
				Result: s.seq.sanction,
				Memo:   StrPtr(MemoDefensiveFoul),
			}))
		}
		events = append(events, stamp(Event{
			Team:   s.Team,
			No:     s.PlayerNo,
			Phase:  s.Phase,
			Action: ShotPenalty,
			Zone:   s.Zone,
			Course: s.Course,
			Result: result,
		}))

	case s.Sanction != "":
		events = append(events, stamp(Event{
			Team:   OpposingTeam(s.Team),
			No:     s.SanctionPlayerNo,
			Phase:  s.Phase,
			Action: s.Sanction,
			Zone:   s.Zone,
			Result: s.Sanction,
			Memo:   StrPtr(MemoPenaltySanction),
		}))
		fallthrough

	default:
		events = append(events, stamp(Event{
			Team:   s.Team,
			No:     s.PlayerNo,
			Phase:  s.Phase,
			Action: s.Action,
			Zone:   s.Zone,
			Course: s.Course,
			Result: result,
			Memo:   memo,
		}))
	}

	s.Reset()
	s.Team = OpposingTeam(s.Team)
	s.PlayerNo = nil
	return events, nil
}
