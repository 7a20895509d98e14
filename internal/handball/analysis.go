package handball

import "sort"

// KeeperStats summarizes one goalkeeper's stint from the defending
// side's point of view.
type KeeperStats struct {
	No       int     `json:"no"`
	Saves    int     `json:"saves"`
	OnTarget int     `json:"on_target"`
	Goals    int     `json:"goals_against"`
	SaveRate float64 `json:"save_rate"`
}

// ComputeKeeperStats breaks down saves and goals against per
// goalkeeper of the given side. A shot by the other side is attributed
// to whichever keeper the log recorded as active at commit time.
func ComputeKeeperStats(events []Event, team string) []KeeperStats {
	byNo := make(map[int]*KeeperStats)
	for i := range events {
		e := &events[i]
		if e.Team == team || !e.IsShot() {
			continue
		}
		gk := e.KeeperNo()
		if gk == nil {
			continue
		}
		ks, ok := byNo[*gk]
		if !ok {
			ks = &KeeperStats{No: *gk}
			byNo[*gk] = ks
		}
		switch e.Result {
		case ResultSave:
			ks.Saves++
			ks.OnTarget++
		case ResultGoal:
			ks.Goals++
			ks.OnTarget++
		}
	}
	out := make([]KeeperStats, 0, len(byNo))
	for _, ks := range byNo {
		ks.SaveRate = Rate(ks.Saves, ks.OnTarget)
		out = append(out, *ks)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].No < out[j].No })
	return out
}

// PlayerRank is one row of the shooting efficiency ranking.
type PlayerRank struct {
	No    int     `json:"no"`
	Name  string  `json:"name,omitempty"`
	Goals int     `json:"goals"`
	Shots int     `json:"shots"`
	Rate  float64 `json:"rate"`
}

// ShootingRanking ranks one side's shooters by scoring rate, ties
// broken by goal count then shirt number.
func ShootingRanking(events []Event, team string, roster Roster) []PlayerRank {
	byNo := make(map[int]*PlayerRank)
	for i := range events {
		e := &events[i]
		if e.Team != team || !e.IsShot() || e.No == nil {
			continue
		}
		pr, ok := byNo[*e.No]
		if !ok {
			pr = &PlayerRank{No: *e.No, Name: roster.Name(*e.No)}
			byNo[*e.No] = pr
		}
		pr.Shots++
		if e.Result == ResultGoal {
			pr.Goals++
		}
	}
	out := make([]PlayerRank, 0, len(byNo))
	for _, pr := range byNo {
		pr.Rate = Rate(pr.Goals, pr.Shots)
		out = append(out, *pr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rate != out[j].Rate {
			return out[i].Rate > out[j].Rate
		}
		if out[i].Goals != out[j].Goals {
			return out[i].Goals > out[j].Goals
		}
		return out[i].No < out[j].No
	})
	return out
}

// ScorePoint is one node of the cumulative scoring flow line.
type ScorePoint struct {
	Time string `json:"time"`
	Team string `json:"team"`
	Own  int    `json:"own"`
	Opp  int    `json:"opp"`
}

// ScoringFlow returns the running score after each goal, in log order.
func ScoringFlow(events []Event) []ScorePoint {
	var flow []ScorePoint
	own, opp := 0, 0
	for i := range events {
		e := &events[i]
		if e.Result != ResultGoal {
			continue
		}
		if e.Team == TeamOwn {
			own++
		} else {
			opp++
		}
		flow = append(flow, ScorePoint{Time: e.ExactTime, Team: e.Team, Own: own, Opp: opp})
	}
	return flow
}

// Score totals the goals of both sides over the whole log.
func Score(events []Event) (own, opp int) {
	for i := range events {
		if events[i].Result != ResultGoal {
			continue
		}
		if events[i].Team == TeamOwn {
			own++
		} else {
			opp++
		}
	}
	return own, opp
}

// Timeline filter values accepted by FilterTimeline.
const (
	TimelineAll       = "all"
	TimelineGoals     = "Goal"
	TimelineTurnovers = "TO"
)

// FilterTimeline returns the events matching a timeline filter: a team
// side, "Goal", "TO", or "all" for the unfiltered log. Indices into
// the original log are returned alongside, so callers can still
// address entries for edit and delete.
func FilterTimeline(events []Event, filter string) ([]Event, []int) {
	if filter == "" || filter == TimelineAll {
		idx := make([]int, len(events))
		for i := range events {
			idx[i] = i
		}
		return events, idx
	}
	var out []Event
	var idx []int
	for i := range events {
		e := events[i]
		keep := false
		switch filter {
		case TeamOwn, TeamOpp:
			keep = e.Team == filter
		case TimelineGoals:
			keep = e.Result == ResultGoal
		case TimelineTurnovers:
			keep = e.Action == ActionTurnover
		}
		if keep {
			out = append(out, e)
			idx = append(idx, i)
		}
	}
	return out, idx
}

// KPISummary condenses one side's headline numbers and rates.
type KPISummary struct {
	Goals            int     `json:"goals"`
	Shots            int     `json:"shots"`
	Attacks          int     `json:"attacks"`
	Turnovers        int     `json:"turnovers"`
	ShotSuccess      float64 `json:"shotSuccess"`
	AttackConversion float64 `json:"attackConversion"`
	TurnoverRate     float64 `json:"turnoverRate"`
	SaveRate         float64 `json:"saveRate"`
}

// MatchSummary is the side-by-side KPI view of a match.
type MatchSummary struct {
	Own KPISummary `json:"own"`
	Opp KPISummary `json:"opp"`
}

func summarize(ts *TeamStats) KPISummary {
	t := ts.Total
	return KPISummary{
		Goals:            t.Goals,
		Shots:            t.Shots,
		Attacks:          t.Attacks,
		Turnovers:        t.Turnovers,
		ShotSuccess:      Rate(t.Goals, t.Shots),
		AttackConversion: Rate(t.Goals, t.Attacks),
		TurnoverRate:     Rate(t.Turnovers, t.Attacks),
		SaveRate:         Rate(t.SavesMade, t.OnTargetAgainst),
	}
}

// Summarize reduces a stats tree to the headline KPI pair.
func Summarize(stats *MatchStats) MatchSummary {
	if stats == nil {
		stats = ComputeStats(nil)
	}
	return MatchSummary{
		Own: summarize(stats.Own),
		Opp: summarize(stats.Opp),
	}
}
