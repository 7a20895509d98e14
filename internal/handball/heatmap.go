package handball

// HeatmapFilter narrows the event log before course aggregation.
// Team, Action and Zone are required; PlayerNo is optional.
type HeatmapFilter struct {
	Team     string `form:"team" json:"team"`
	Action   string `form:"action" json:"action"`
	Zone     string `form:"zone" json:"zone"`
	PlayerNo *int   `form:"player" json:"player,omitempty"`
}

// CourseStats is the cell value of the 3x3 goal grid.
type CourseStats struct {
	Attempts int     `json:"attempts"`
	Goals    int     `json:"goals"`
	Rate     float64 `json:"rate"`
}

// ComputeHeatmap aggregates shot placement per goal course for the
// events matching the filter. Events without a recorded course are
// ignored. All nine courses are present in the result, zero-valued
// when nothing landed there.
func ComputeHeatmap(events []Event, f HeatmapFilter) map[int]CourseStats {
	grid := make(map[int]CourseStats, MaxCourse)
	for c := MinCourse; c <= MaxCourse; c++ {
		grid[c] = CourseStats{}
	}
	for i := range events {
		e := &events[i]
		if e.Team != f.Team || e.Action != f.Action {
			continue
		}
		if e.Course == nil || !ValidCourse(*e.Course) {
			continue
		}
		if e.Zone == nil || *e.Zone != f.Zone {
			continue
		}
		if f.PlayerNo != nil && (e.No == nil || *e.No != *f.PlayerNo) {
			continue
		}
		cell := grid[*e.Course]
		cell.Attempts++
		if e.Result == ResultGoal {
			cell.Goals++
		}
		cell.Rate = Rate(cell.Goals, cell.Attempts)
		grid[*e.Course] = cell
	}
	return grid
}
