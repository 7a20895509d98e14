package handball

// Memo strings attached automatically by the penalty throw flow.
const (
	MemoPenaltyEarned   = "penalty earned"
	MemoDefensiveFoul   = "defensive foul"
	MemoPenaltySanction = "penalty sanction"
)

// Event is one committed record of the append-only match log. Field
// names and JSON keys match the persisted session format, so logs
// written by any version of the tracker stay readable.
//
// Nullable fields are pointers: a nil zone or course means the value
// does not apply to the action (turnovers have no course, timeouts have
// no player).
type Event struct {
	// Time is the five-minute band label the event falls in, e.g.
	// "10~15". Derived from ExactTime and Half, never entered by hand.
	Time string `json:"time"`
	// ExactTime is the match clock at commit, "MM:SS" within the half.
	ExactTime string `json:"exactTime"`
	// Half numbers the period, 1-based: odd halves count as first
	// half, even as second. Zero means the event predates half
	// tracking; Period falls back to the band label then.
	Half  int    `json:"half,omitempty"`
	OwnGK *int   `json:"own_gk"`
	OppGK *int   `json:"opp_gk"`
	Team  string `json:"team"`
	No    *int   `json:"no"`
	Phase string `json:"phase"`
	// Action is a shot code, "TO", a sanction token or "タイムアウト".
	Action string  `json:"action"`
	Zone   *string `json:"zone"`
	Course *int    `json:"course"`
	Result string  `json:"result"`
	Memo   *string `json:"memo"`
}

// Period classifies the event as first or second half. Events with a
// half number use it directly; legacy events without one are classified
// by their band label: first-half bands map to first, everything else,
// extension labels included, maps to second.
func (e *Event) Period() string {
	if e.Half > 0 {
		return PeriodForHalf(e.Half)
	}
	for _, band := range TimeBandsFirst {
		if e.Time == band {
			return PeriodFirst
		}
	}
	return PeriodSecond
}

// IsShot reports whether the event records a throw at goal.
func (e *Event) IsShot() bool {
	return IsShotType(e.Action)
}

// OnTarget reports whether the shot required a keeper intervention or
// scored. Only meaningful for shot events.
func (e *Event) OnTarget() bool {
	return e.Result == ResultGoal || e.Result == ResultSave
}

// KeeperNo returns the shirt number of the goalkeeper facing this
// event, i.e. the keeper of the team the acting team attacks.
func (e *Event) KeeperNo() *int {
	if e.Team == TeamOwn {
		return e.OppGK
	}
	return e.OwnGK
}

// IntPtr returns a pointer to n. Convenience for building events.
func IntPtr(n int) *int { return &n }

// StrPtr returns a pointer to s.
func StrPtr(s string) *string { return &s }
