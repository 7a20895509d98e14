package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/courtlog/handball-tracker/internal/handball"
)

// ExportService renders a session for download: the raw JSON form that
// can be re-imported, and CSV views for spreadsheet analysis.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

var filenameSanitizer = regexp.MustCompile(`[^\w\p{Hiragana}\p{Katakana}\p{Han}-]+`)

// Filename builds the download name: [tournament_]ownName_vs_oppName_date.
func (s *ExportService) Filename(state MatchState, ext string) string {
	date := time.UnixMilli(state.StartTime).Format("2006-01-02")
	name := fmt.Sprintf("%s_vs_%s_%s", sanitize(state.OwnName), sanitize(state.OppName), date)
	if state.TournamentName != "" {
		name = sanitize(state.TournamentName) + "_" + name
	}
	return name + "." + ext
}

func sanitize(s string) string {
	return filenameSanitizer.ReplaceAllString(s, "_")
}

// SessionJSON serializes the whole session verbatim, the same shape
// the store persists, so an export can be loaded back in.
func (s *ExportService) SessionJSON(state MatchState) ([]byte, error) {
	return json.MarshalIndent(state, "", "  ")
}

// EventLogCSV renders the event log, one committed record per row.
func (s *ExportService) EventLogCSV(state MatchState) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"time", "exact_time", "half", "team", "no", "phase", "action", "zone", "course", "result", "memo"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, e := range state.Actions {
		row := []string{
			e.Time,
			e.ExactTime,
			strconv.Itoa(e.Half),
			e.Team,
			intField(e.No),
			e.Phase,
			e.Action,
			strField(e.Zone),
			intField(e.Course),
			e.Result,
			strField(e.Memo),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// comparisonRow is one metric line of the team comparison sheet.
type comparisonRow struct {
	label string
	pick  func(handball.PeriodStats) string
}

var comparisonRows = []comparisonRow{
	{"Goals", func(p handball.PeriodStats) string { return strconv.Itoa(p.Goals) }},
	{"Shots", func(p handball.PeriodStats) string { return strconv.Itoa(p.Shots) }},
	{"Shot success", func(p handball.PeriodStats) string { return percent(p.Goals, p.Shots) }},
	{"Attacks", func(p handball.PeriodStats) string { return strconv.Itoa(p.Attacks) }},
	{"Attack conversion", func(p handball.PeriodStats) string { return percent(p.Goals, p.Attacks) }},
	{"Turnovers", func(p handball.PeriodStats) string { return strconv.Itoa(p.Turnovers) }},
	{"Saves", func(p handball.PeriodStats) string { return strconv.Itoa(p.SavesMade) }},
	{"Save rate", func(p handball.PeriodStats) string { return percent(p.SavesMade, p.OnTargetAgainst) }},
	{"Set attacks", func(p handball.PeriodStats) string { return strconv.Itoa(p.SetAttacks) }},
	{"Set goals", func(p handball.PeriodStats) string { return strconv.Itoa(p.SetGoals) }},
	{"Fast break attacks", func(p handball.PeriodStats) string { return strconv.Itoa(p.FastBreakAttacks) }},
	{"Fast break goals", func(p handball.PeriodStats) string { return strconv.Itoa(p.FastBreakGoals) }},
}

// ComparisonCSV renders the side-by-side team comparison for the whole
// match and each half.
func (s *ExportService) ComparisonCSV(state MatchState) ([]byte, error) {
	stats := state.Stats
	if stats == nil {
		stats = handball.ComputeStats(state.Actions)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"period", "metric", state.OwnName, state.OppName}); err != nil {
		return nil, err
	}

	periods := []struct {
		name string
		own  handball.PeriodStats
		opp  handball.PeriodStats
	}{
		{"total", stats.Own.Total, stats.Opp.Total},
		{"first", stats.Own.First, stats.Opp.First},
		{"second", stats.Own.Second, stats.Opp.Second},
	}

	for _, p := range periods {
		for _, row := range comparisonRows {
			if err := w.Write([]string{p.name, row.label, row.pick(p.own), row.pick(p.opp)}); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func percent(num, den int) string {
	return fmt.Sprintf("%.1f%%", handball.Rate(num, den)*100)
}

func intField(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func strField(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
