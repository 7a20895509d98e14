package handball

// PeriodStats is the flat counter block kept for a whole match, a half,
// or any other slice of the log.
type PeriodStats struct {
	Attacks          int `json:"attacks"`
	Goals            int `json:"goals"`
	Shots            int `json:"shots"`
	Turnovers        int `json:"turnovers"`
	SavesMade        int `json:"saves_made"`
	OnTargetAgainst  int `json:"on_target_against"`
	SetAttacks       int `json:"set_attacks"`
	SetGoals         int `json:"set_goals"`
	FastBreakAttacks int `json:"fb_attacks"`
	FastBreakGoals   int `json:"fb_goals"`
}

// TimeBandStats counts events inside one five-minute band.
type TimeBandStats struct {
	Attacks   int `json:"attacks"`
	Goals     int `json:"goals"`
	Shots     int `json:"shots"`
	Turnovers int `json:"to"`
}

// ShotTypeStats counts goals and attempts per shot type.
type ShotTypeStats struct {
	Goals int `json:"goals"`
	Shots int `json:"shots"`
}

// BreakdownStats counts goals, attempts and turnovers per zone or per
// tactical position.
type BreakdownStats struct {
	Goals     int `json:"goals"`
	Shots     int `json:"shots"`
	Turnovers int `json:"to"`
}

// TeamStats is the full aggregation tree for one side. Every key of
// the breakdown maps is pre-seeded at zero, so consumers index bands,
// shot types, zones and positions without existence checks.
type TeamStats struct {
	Total      PeriodStats                `json:"total"`
	First      PeriodStats                `json:"first"`
	Second     PeriodStats                `json:"second"`
	ByTime     map[string]*TimeBandStats  `json:"byTime"`
	ByShoot    map[string]*ShotTypeStats  `json:"byShoot"`
	ByZone     map[string]*BreakdownStats `json:"byZone"`
	ByPosition map[string]*BreakdownStats `json:"byPosition"`
}

// MatchStats pairs the aggregation trees of both sides.
type MatchStats struct {
	Own *TeamStats `json:"own"`
	Opp *TeamStats `json:"opp"`
}

// NewTeamStats returns a fully seeded, all-zero tree for one side.
func NewTeamStats() *TeamStats {
	ts := &TeamStats{
		ByTime:     make(map[string]*TimeBandStats, len(TimeBands)),
		ByShoot:    make(map[string]*ShotTypeStats, len(ShotTypes)),
		ByZone:     make(map[string]*BreakdownStats, len(Zones)),
		ByPosition: make(map[string]*BreakdownStats, len(Positions)),
	}
	for _, band := range TimeBands {
		ts.ByTime[band] = &TimeBandStats{}
	}
	for _, shot := range ShotTypes {
		ts.ByShoot[shot] = &ShotTypeStats{}
	}
	for _, zone := range Zones {
		ts.ByZone[zone] = &BreakdownStats{}
	}
	for _, pos := range Positions {
		ts.ByPosition[pos] = &BreakdownStats{}
	}
	return ts
}

// NewMatchStats returns seeded all-zero trees for both sides.
func NewMatchStats() *MatchStats {
	return &MatchStats{Own: NewTeamStats(), Opp: NewTeamStats()}
}

// periodBlock selects the half block matching the event's period.
func (ts *TeamStats) periodBlock(e *Event) *PeriodStats {
	if e.Period() == PeriodSecond {
		return &ts.Second
	}
	return &ts.First
}

// ComputeStats folds the full event log into both aggregation trees.
// It is a pure function of the log: callers rebuild the trees after
// every mutation instead of patching counters, so deletes and edits
// can never leave the stats stale.
func ComputeStats(events []Event) *MatchStats {
	stats := NewMatchStats()
	for i := range events {
		e := &events[i]
		acting := stats.Own
		opposing := stats.Opp
		if e.Team == TeamOpp {
			acting = stats.Opp
			opposing = stats.Own
		}
		accumulate(acting, opposing, e)
	}
	return stats
}

func accumulate(acting, opposing *TeamStats, e *Event) {
	total := &acting.Total
	period := acting.periodBlock(e)
	band, hasBand := acting.ByTime[e.Time]

	// Every record is one attack, sanctions and timeouts included.
	total.Attacks++
	period.Attacks++
	if hasBand {
		band.Attacks++
	}
	if e.Phase == PhaseSetOffense {
		total.SetAttacks++
		period.SetAttacks++
	} else {
		total.FastBreakAttacks++
		period.FastBreakAttacks++
	}

	switch {
	case e.IsShot():
		total.Shots++
		period.Shots++
		if hasBand {
			band.Shots++
		}
		if st, ok := acting.ByShoot[e.Action]; ok {
			st.Shots++
		}
		if e.Zone != nil {
			if zs, ok := acting.ByZone[*e.Zone]; ok {
				zs.Shots++
			}
		}
		pos, hasPos := MapToPosition(e.Action, e.Zone)
		if hasPos {
			acting.ByPosition[pos].Shots++
		}

		if e.Result == ResultGoal {
			total.Goals++
			period.Goals++
			if hasBand {
				band.Goals++
			}
			if e.Phase == PhaseSetOffense {
				total.SetGoals++
				period.SetGoals++
			} else {
				total.FastBreakGoals++
				period.FastBreakGoals++
			}
			if st, ok := acting.ByShoot[e.Action]; ok {
				st.Goals++
			}
			if e.Zone != nil {
				if zs, ok := acting.ByZone[*e.Zone]; ok {
					zs.Goals++
				}
			}
			if hasPos {
				acting.ByPosition[pos].Goals++
			}
		}

		// Keeper counters accrue to the defending side.
		oppPeriod := opposing.periodBlock(e)
		if e.Result == ResultSave {
			opposing.Total.SavesMade++
			oppPeriod.SavesMade++
		}
		if e.OnTarget() {
			opposing.Total.OnTargetAgainst++
			oppPeriod.OnTargetAgainst++
		}

	case e.Action == ActionTurnover:
		total.Turnovers++
		period.Turnovers++
		if hasBand {
			band.Turnovers++
		}
		if e.Zone != nil {
			if zs, ok := acting.ByZone[*e.Zone]; ok {
				zs.Turnovers++
			}
		}
	}
	// Sanctions and timeouts count as an attack only; no shot or
	// turnover counters move.
}

// Rate divides num by den, returning 0 on an empty denominator.
func Rate(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
