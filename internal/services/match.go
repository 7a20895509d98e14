package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/courtlog/handball-tracker/internal/handball"
	"github.com/courtlog/handball-tracker/internal/models"
	"github.com/courtlog/handball-tracker/pkg/database"
	"github.com/courtlog/handball-tracker/pkg/utils"
)

// MatchState is the serialized form of one session, the shape written
// to the payload column and returned by the export endpoints. Older
// builds of the tracker wrote the same keys, so field names are fixed.
type MatchState struct {
	ID             string               `json:"id"`
	OwnName        string               `json:"ownName"`
	OppName        string               `json:"oppName"`
	TournamentName string               `json:"tournamentName,omitempty"`
	Players        handball.Roster      `json:"players"`
	OppPlayers     handball.Roster      `json:"oppPlayers"`
	OwnGK          *int                 `json:"ownGk"`
	OppGK          *int                 `json:"oppGk"`
	OwnGKList      []int                `json:"ownGkList"`
	OppGKList      []int                `json:"oppGkList"`
	HalfDuration   int                  `json:"halfDuration"`
	Actions        []handball.Event     `json:"actions"`
	Stats          *handball.MatchStats `json:"stats"`
	StartTime      int64                `json:"startTime"`
	Stopwatch      *StopwatchState      `json:"_stopwatch,omitempty"`
}

// LiveMatch is one loaded session: its state, input machine and clock.
// The mutex serializes every operator action, so no reader can observe
// a stats tree computed from a half-mutated log.
type LiveMatch struct {
	mu    sync.Mutex
	state MatchState
	input *handball.InputState
	clock *Stopwatch
	dirty bool
	// rev changes on every persisted mutation and versions the cache
	// keys of derived views. Seeded from the wall clock so entries
	// from an earlier process can never be mistaken for current.
	rev int64
}

// CommitResult is what one confirmed entry produced.
type CommitResult struct {
	Events   []handball.Event     `json:"events"`
	Stats    *handball.MatchStats `json:"stats"`
	ScoreOwn int                  `json:"scoreOwn"`
	ScoreOpp int                  `json:"scoreOpp"`
}

// EventPatch carries an edit to one logged event. Nil fields are left
// untouched; a zero player number or course clears the value, an empty
// zone string clears the zone, mirroring how the edit form maps blank
// inputs to null.
type EventPatch struct {
	ExactTime *string `json:"exactTime"`
	Team      *string `json:"team"`
	No        *int    `json:"no"`
	Phase     *string `json:"phase"`
	Action    *string `json:"action"`
	Zone      *string `json:"zone"`
	Course    *int    `json:"course"`
	Result    *string `json:"result"`
}

// CreateMatchRequest starts a new session.
type CreateMatchRequest struct {
	OwnName        string            `json:"ownName" binding:"required"`
	OppName        string            `json:"oppName" binding:"required"`
	TournamentName string            `json:"tournamentName"`
	HalfDuration   int               `json:"halfDuration"`
	Players        []handball.Player `json:"players"`
	OppPlayers     []handball.Player `json:"oppPlayers"`
}

// MatchService owns every loaded session and their persistence.
type MatchService struct {
	db       *database.DB
	cache    *CacheService
	hub      *WebSocketHub
	notifier *Notifier
	logger   *logrus.Logger

	defaultHalfDuration int

	mu   sync.RWMutex
	live map[string]*LiveMatch
}

func NewMatchService(db *database.DB, cache *CacheService, hub *WebSocketHub, notifier *Notifier, defaultHalfDuration int, logger *logrus.Logger) *MatchService {
	if defaultHalfDuration <= 0 {
		defaultHalfDuration = 30
	}
	return &MatchService{
		db:                  db,
		cache:               cache,
		hub:                 hub,
		notifier:            notifier,
		logger:              logger,
		defaultHalfDuration: defaultHalfDuration,
		live:                make(map[string]*LiveMatch),
	}
}

// CreateMatch opens a new session. An empty own roster falls back to
// the stored team config.
func (s *MatchService) CreateMatch(req CreateMatchRequest) (*MatchState, error) {
	state := MatchState{
		ID:             uuid.New().String(),
		OwnName:        req.OwnName,
		OppName:        req.OppName,
		TournamentName: req.TournamentName,
		HalfDuration:   req.HalfDuration,
		Actions:        []handball.Event{},
		StartTime:      time.Now().UnixMilli(),
	}
	if state.HalfDuration <= 0 {
		state.HalfDuration = s.defaultHalfDuration
	}

	for _, p := range req.Players {
		if err := state.Players.Add(p); err != nil {
			return nil, utils.NewAppError(utils.ErrCodeValidation, "invalid own roster", err.Error())
		}
	}
	for _, p := range req.OppPlayers {
		if err := state.OppPlayers.Add(p); err != nil {
			return nil, utils.NewAppError(utils.ErrCodeValidation, "invalid opponent roster", err.Error())
		}
	}

	if len(state.Players) == 0 {
		if cfg, err := s.GetTeamConfig(); err == nil && cfg != nil {
			state.Players = cfg.Roster
			state.OwnGKList = cfg.GKNumbers
			if len(cfg.GKNumbers) > 0 {
				state.OwnGK = handball.IntPtr(cfg.GKNumbers[0])
			}
			if req.OwnName == "" {
				state.OwnName = cfg.TeamName
			}
		}
	}

	state.Stats = handball.ComputeStats(state.Actions)

	lm := &LiveMatch{
		state: state,
		input: handball.NewInputState(),
		clock: NewStopwatch(),
		rev:   time.Now().UnixNano(),
	}

	s.mu.Lock()
	s.live[state.ID] = lm
	s.mu.Unlock()

	if err := s.persist(lm); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"match_id": state.ID,
		"own_name": state.OwnName,
		"opp_name": state.OppName,
	}).Info("Match created")

	snapshot := lm.snapshot()
	return &snapshot, nil
}

// ListMatches returns the persisted index rows, newest first.
func (s *MatchService) ListMatches() ([]models.MatchSession, error) {
	var rows []models.MatchSession
	if s.cache != nil {
		if err := s.cache.GetSimple(MatchIndexCacheKey(), &rows); err == nil {
			return rows, nil
		}
	}
	if err := s.db.Omit("payload").Order("start_time DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	if s.cache != nil {
		s.cache.SetSimple(MatchIndexCacheKey(), rows, time.Minute)
	}
	return rows, nil
}

// GetMatch returns the current state of a session, loading it from the
// store on first access. Loaded stats are always recomputed; the
// persisted tree is advisory only.
func (s *MatchService) GetMatch(id string) (*MatchState, error) {
	lm, err := s.resume(id)
	if err != nil {
		return nil, err
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()
	snapshot := lm.snapshot()
	return &snapshot, nil
}

// DeleteMatch removes a session from memory and the store.
func (s *MatchService) DeleteMatch(id string) error {
	s.mu.Lock()
	delete(s.live, id)
	s.mu.Unlock()

	if err := s.db.Delete(&models.MatchSession{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}
	s.invalidateStats(id)
	s.logger.WithField("match_id", id).Info("Match deleted")
	return nil
}

// SaveMatch forces a persistence pass for one session.
func (s *MatchService) SaveMatch(id string) error {
	lm, err := s.resume(id)
	if err != nil {
		return err
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return s.persist(lm)
}

// FinishMatch ends the session: the clock stops for good, the final
// state is persisted and the final score notification goes out.
func (s *MatchService) FinishMatch(id string) (*MatchState, error) {
	lm, err := s.resume(id)
	if err != nil {
		return nil, err
	}
	lm.mu.Lock()
	lm.clock.Finish()
	if err := s.persist(lm); err != nil {
		lm.mu.Unlock()
		return nil, err
	}
	snapshot := lm.snapshot()
	lm.mu.Unlock()

	s.hub.BroadcastMatch(id, WSMatchFinished, map[string]interface{}{
		"scoreOwn": scoreOf(snapshot.Stats.Own),
		"scoreOpp": scoreOf(snapshot.Stats.Opp),
	})

	if s.notifier != nil {
		go s.notifier.SendFinalScore(snapshot)
	}
	return &snapshot, nil
}

// Input runs one intent against a session's input machine under the
// match lock and returns the machine state after it.
func (s *MatchService) Input(id string, intent func(*handball.InputState) error) (*handball.InputState, error) {
	lm, err := s.resume(id)
	if err != nil {
		return nil, err
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()
	if err := intent(lm.input); err != nil {
		return nil, utils.NewAppError(utils.ErrCodeValidation, "rejected input", err.Error())
	}
	cp := *lm.input
	return &cp, nil
}

// InputState returns the current selection of a session's machine.
func (s *MatchService) InputState(id string) (*handball.InputState, error) {
	return s.Input(id, func(*handball.InputState) error { return nil })
}

// Commit confirms the staged entry: the machine emits its events, the
// log grows, stats recompute and everything persists before the result
// is visible to anyone.
func (s *MatchService) Commit(id string) (*CommitResult, error) {
	lm, err := s.resume(id)
	if err != nil {
		return nil, err
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()

	band, exact, half := lm.clock.Stamp(lm.state.HalfDuration)
	stamp := handball.ClockStamp{
		Band:  band,
		Exact: exact,
		Half:  half,
		OwnGK: lm.state.OwnGK,
		OppGK: lm.state.OppGK,
	}

	events, err := lm.input.Confirm(stamp)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrCodeValidation, "rejected entry", err.Error())
	}

	lm.state.Actions = append(lm.state.Actions, events...)
	lm.state.Stats = handball.ComputeStats(lm.state.Actions)

	// A timeout stops the clock with the entry.
	for _, e := range events {
		if e.Result == handball.ResultTimeout {
			lm.clock.Pause()
		}
	}

	if err := s.persist(lm); err != nil {
		return nil, err
	}

	own, opp := handball.Score(lm.state.Actions)
	result := &CommitResult{
		Events:   events,
		Stats:    lm.state.Stats,
		ScoreOwn: own,
		ScoreOpp: opp,
	}

	s.hub.BroadcastMatch(id, WSEventLogged, result)
	s.hub.BroadcastMatch(id, WSStatsUpdated, lm.state.Stats)
	return result, nil
}

// DeleteEvent drops one record by log index and recomputes. An
// out-of-range index is a silent no-op.
func (s *MatchService) DeleteEvent(id string, index int) (*handball.MatchStats, error) {
	lm, err := s.resume(id)
	if err != nil {
		return nil, err
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if index < 0 || index >= len(lm.state.Actions) {
		return lm.state.Stats, nil
	}
	lm.state.Actions = append(lm.state.Actions[:index], lm.state.Actions[index+1:]...)
	lm.state.Stats = handball.ComputeStats(lm.state.Actions)
	if err := s.persist(lm); err != nil {
		return nil, err
	}
	s.hub.BroadcastMatch(id, WSEventDeleted, map[string]interface{}{"index": index, "stats": lm.state.Stats})
	s.hub.BroadcastMatch(id, WSStatsUpdated, lm.state.Stats)
	return lm.state.Stats, nil
}

// EditEvent patches one record by log index and recomputes. The band
// label is re-derived whenever the exact time changes. An out-of-range
// index is a silent no-op.
func (s *MatchService) EditEvent(id string, index int, patch EventPatch) (*handball.MatchStats, error) {
	lm, err := s.resume(id)
	if err != nil {
		return nil, err
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if index < 0 || index >= len(lm.state.Actions) {
		return lm.state.Stats, nil
	}

	e := &lm.state.Actions[index]
	if patch.ExactTime != nil {
		band, ok := handball.TimeBandForClock(*patch.ExactTime)
		if !ok {
			return nil, utils.NewAppError(utils.ErrCodeValidation, "invalid exact time", *patch.ExactTime)
		}
		e.ExactTime = *patch.ExactTime
		e.Time = band
	}
	if patch.Team != nil {
		if *patch.Team != handball.TeamOwn && *patch.Team != handball.TeamOpp {
			return nil, utils.NewAppError(utils.ErrCodeValidation, "invalid team", *patch.Team)
		}
		e.Team = *patch.Team
	}
	if patch.No != nil {
		if *patch.No == 0 {
			e.No = nil
		} else {
			e.No = handball.IntPtr(*patch.No)
		}
	}
	if patch.Phase != nil {
		e.Phase = *patch.Phase
	}
	if patch.Action != nil {
		e.Action = *patch.Action
	}
	if patch.Zone != nil {
		if *patch.Zone == "" {
			e.Zone = nil
		} else {
			e.Zone = handball.StrPtr(*patch.Zone)
		}
	}
	if patch.Course != nil {
		if *patch.Course == 0 {
			e.Course = nil
		} else {
			e.Course = handball.IntPtr(*patch.Course)
		}
	}
	if patch.Result != nil {
		e.Result = *patch.Result
	}

	lm.state.Stats = handball.ComputeStats(lm.state.Actions)
	if err := s.persist(lm); err != nil {
		return nil, err
	}
	s.hub.BroadcastMatch(id, WSEventEdited, map[string]interface{}{"index": index, "event": *e, "stats": lm.state.Stats})
	s.hub.BroadcastMatch(id, WSStatsUpdated, lm.state.Stats)
	return lm.state.Stats, nil
}

// Events returns the filtered timeline with original log indices.
func (s *MatchService) Events(id string, filter string) ([]handball.Event, []int, error) {
	lm, err := s.resume(id)
	if err != nil {
		return nil, nil, err
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()
	events, idx := handball.FilterTimeline(lm.state.Actions, filter)
	out := make([]handball.Event, len(events))
	copy(out, events)
	return out, idx, nil
}

// Stats returns the current tree, recomputed on every mutation so it
// can never be stale.
func (s *MatchService) Stats(id string) (*handball.MatchStats, error) {
	lm, err := s.resume(id)
	if err != nil {
		return nil, err
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.state.Stats, nil
}

// Summary reduces the stats tree to the headline KPI pair.
func (s *MatchService) Summary(id string) (*handball.MatchSummary, error) {
	lm, err := s.resume(id)
	if err != nil {
		return nil, err
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()
	summary := handball.Summarize(lm.state.Stats)
	return &summary, nil
}

// Heatmap aggregates shot placement for one filter. Grids are cached
// per filter under the session's current revision, so a mutation moves
// readers to a fresh key instead of requiring a sweep of filter keys.
func (s *MatchService) Heatmap(id string, filter handball.HeatmapFilter) (map[int]handball.CourseStats, error) {
	lm, err := s.resume(id)
	if err != nil {
		return nil, err
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()

	key := HeatmapCacheKey(id, heatmapFilterKey(filter, lm.rev))
	if s.cache != nil {
		var grid map[int]handball.CourseStats
		if err := s.cache.GetSimple(key, &grid); err == nil {
			return grid, nil
		}
	}
	grid := handball.ComputeHeatmap(lm.state.Actions, filter)
	if s.cache != nil {
		s.cache.SetSimple(key, grid, 5*time.Minute)
	}
	return grid, nil
}

func heatmapFilterKey(f handball.HeatmapFilter, rev int64) string {
	player := "all"
	if f.PlayerNo != nil {
		player = strconv.Itoa(*f.PlayerNo)
	}
	return fmt.Sprintf("%s:%s:%s:%s:%d", f.Team, f.Action, f.Zone, player, rev)
}

// Keepers summarizes goalkeeper performance for one side.
func (s *MatchService) Keepers(id string, team string) ([]handball.KeeperStats, error) {
	lm, err := s.resume(id)
	if err != nil {
		return nil, err
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return handball.ComputeKeeperStats(lm.state.Actions, team), nil
}

// Ranking returns the shooting efficiency ranking for one side.
func (s *MatchService) Ranking(id string, team string) ([]handball.PlayerRank, error) {
	lm, err := s.resume(id)
	if err != nil {
		return nil, err
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()
	roster := lm.state.Players
	if team == handball.TeamOpp {
		roster = lm.state.OppPlayers
	}
	return handball.ShootingRanking(lm.state.Actions, team, roster), nil
}

// Flow returns the running score line.
func (s *MatchService) Flow(id string) ([]handball.ScorePoint, error) {
	lm, err := s.resume(id)
	if err != nil {
		return nil, err
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return handball.ScoringFlow(lm.state.Actions), nil
}

// AddPlayer registers a player on one side's roster.
func (s *MatchService) AddPlayer(id string, side string, p handball.Player) (*MatchState, error) {
	return s.mutate(id, func(lm *LiveMatch) error {
		roster := &lm.state.Players
		if side == handball.TeamOpp {
			roster = &lm.state.OppPlayers
		}
		if err := roster.Add(p); err != nil {
			return utils.NewAppError(utils.ErrCodeValidation, "invalid player", err.Error())
		}
		return nil
	})
}

// RemovePlayer drops a player from one side's roster.
func (s *MatchService) RemovePlayer(id string, side string, no int) (*MatchState, error) {
	return s.mutate(id, func(lm *LiveMatch) error {
		roster := &lm.state.Players
		if side == handball.TeamOpp {
			roster = &lm.state.OppPlayers
		}
		roster.Remove(no)
		return nil
	})
}

// SetGoalkeeper switches the active keeper for one side. Every number
// that has kept goal stays on the side's keeper list for the keeper
// breakdown.
func (s *MatchService) SetGoalkeeper(id string, side string, no int) (*MatchState, error) {
	return s.mutate(id, func(lm *LiveMatch) error {
		if !handball.ValidPlayerNo(no) {
			return utils.NewAppError(utils.ErrCodeValidation, "invalid goalkeeper number",
				fmt.Sprintf("number %d out of range", no))
		}
		if side == handball.TeamOpp {
			lm.state.OppGK = handball.IntPtr(no)
			lm.state.OppGKList = appendUnique(lm.state.OppGKList, no)
		} else {
			lm.state.OwnGK = handball.IntPtr(no)
			lm.state.OwnGKList = appendUnique(lm.state.OwnGKList, no)
		}
		return nil
	})
}

func appendUnique(list []int, no int) []int {
	for _, n := range list {
		if n == no {
			return list
		}
	}
	return append(list, no)
}

// mutate runs a state change under the match lock, persists and
// returns the new snapshot.
func (s *MatchService) mutate(id string, fn func(*LiveMatch) error) (*MatchState, error) {
	lm, err := s.resume(id)
	if err != nil {
		return nil, err
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()
	if err := fn(lm); err != nil {
		return nil, err
	}
	if err := s.persist(lm); err != nil {
		return nil, err
	}
	snapshot := lm.snapshot()
	return &snapshot, nil
}

// Clock operations.

type ClockView struct {
	Clock    string `json:"clock"`
	Half     int    `json:"half"`
	Running  bool   `json:"running"`
	Finished bool   `json:"finished"`
	Band     string `json:"band"`
}

func (s *MatchService) clockView(lm *LiveMatch) ClockView {
	band, exact, half := lm.clock.Stamp(lm.state.HalfDuration)
	return ClockView{
		Clock:    exact,
		Half:     half,
		Running:  lm.clock.Running(),
		Finished: lm.clock.Finished(),
		Band:     band,
	}
}

// Clock returns the current clock view.
func (s *MatchService) Clock(id string) (*ClockView, error) {
	lm, err := s.resume(id)
	if err != nil {
		return nil, err
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()
	view := s.clockView(lm)
	return &view, nil
}

// ClockOp runs one clock operation and broadcasts the new view.
func (s *MatchService) ClockOp(id string, op func(*Stopwatch) error) (*ClockView, error) {
	lm, err := s.resume(id)
	if err != nil {
		return nil, err
	}
	lm.mu.Lock()
	if err := op(lm.clock); err != nil {
		lm.mu.Unlock()
		return nil, utils.NewAppError(utils.ErrCodeValidation, "rejected clock operation", err.Error())
	}
	lm.dirty = true
	view := s.clockView(lm)
	lm.mu.Unlock()

	s.hub.BroadcastMatch(id, WSClockUpdated, view)
	return &view, nil
}

// Team config.

// TeamConfigState is the operator's saved default team.
type TeamConfigState struct {
	TeamName  string          `json:"teamName"`
	Roster    handball.Roster `json:"players"`
	GKNumbers []int           `json:"gkNumbers"`
}

// GetTeamConfig loads the default team setup, cache first.
func (s *MatchService) GetTeamConfig() (*TeamConfigState, error) {
	var cfg TeamConfigState
	if s.cache != nil {
		if err := s.cache.GetSimple(TeamConfigCacheKey(), &cfg); err == nil {
			return &cfg, nil
		}
	}

	var row models.TeamConfig
	if err := s.db.First(&row).Error; err != nil {
		return nil, fmt.Errorf("no team config: %w", err)
	}
	cfg.TeamName = row.TeamName
	if len(row.Players) > 0 {
		if err := json.Unmarshal(row.Players, &cfg.Roster); err != nil {
			return nil, fmt.Errorf("malformed team config roster: %w", err)
		}
	}
	if len(row.GKNumbers) > 0 {
		if err := json.Unmarshal(row.GKNumbers, &cfg.GKNumbers); err != nil {
			return nil, fmt.Errorf("malformed team config keepers: %w", err)
		}
	}

	if s.cache != nil {
		s.cache.SetSimple(TeamConfigCacheKey(), &cfg, time.Hour)
	}
	return &cfg, nil
}

// SaveTeamConfig replaces the default team setup.
func (s *MatchService) SaveTeamConfig(cfg TeamConfigState) error {
	var roster handball.Roster
	for _, p := range cfg.Roster {
		if err := roster.Add(p); err != nil {
			return utils.NewAppError(utils.ErrCodeValidation, "invalid roster", err.Error())
		}
	}
	cfg.Roster = roster

	players, err := json.Marshal(cfg.Roster)
	if err != nil {
		return err
	}
	keepers, err := json.Marshal(cfg.GKNumbers)
	if err != nil {
		return err
	}

	var row models.TeamConfig
	err = s.db.First(&row).Error
	row.TeamName = cfg.TeamName
	row.Players = players
	row.GKNumbers = keepers
	if err != nil {
		if createErr := s.db.Create(&row).Error; createErr != nil {
			return fmt.Errorf("failed to save team config: %w", createErr)
		}
	} else if saveErr := s.db.Save(&row).Error; saveErr != nil {
		return fmt.Errorf("failed to save team config: %w", saveErr)
	}

	if s.cache != nil {
		s.cache.Delete(context.Background(), TeamConfigCacheKey())
	}
	return nil
}

// FlushDirty persists every loaded session with unsaved changes.
// Called by the autosave job and on shutdown.
func (s *MatchService) FlushDirty() {
	s.mu.RLock()
	matches := make([]*LiveMatch, 0, len(s.live))
	for _, lm := range s.live {
		matches = append(matches, lm)
	}
	s.mu.RUnlock()

	for _, lm := range matches {
		lm.mu.Lock()
		if lm.dirty {
			if err := s.persist(lm); err != nil {
				s.logger.WithField("match_id", lm.state.ID).Warnf("Autosave failed: %v", err)
			}
		}
		lm.mu.Unlock()
	}
}

// EvictFinished drops finished sessions from memory; the store keeps
// them.
func (s *MatchService) EvictFinished() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, lm := range s.live {
		lm.mu.Lock()
		finished, dirty := lm.clock.Finished(), lm.dirty
		lm.mu.Unlock()
		if finished && !dirty {
			delete(s.live, id)
		}
	}
}

// snapshot returns a deep-enough copy for handing outside the lock.
// Callers must hold lm.mu.
func (lm *LiveMatch) snapshot() MatchState {
	st := lm.state
	st.Actions = make([]handball.Event, len(lm.state.Actions))
	copy(st.Actions, lm.state.Actions)
	sw := lm.clock.Snapshot()
	st.Stopwatch = &sw
	return st
}

// resume returns the live session, loading it from the store when it
// is not in memory.
func (s *MatchService) resume(id string) (*LiveMatch, error) {
	s.mu.RLock()
	lm, ok := s.live[id]
	s.mu.RUnlock()
	if ok {
		return lm, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if lm, ok := s.live[id]; ok {
		return lm, nil
	}

	var row models.MatchSession
	if err := s.db.First(&row, "id = ?", id).Error; err != nil {
		return nil, utils.NewAppError(utils.ErrCodeNotFound, "match not found", id)
	}

	var state MatchState
	if err := json.Unmarshal(row.Payload, &state); err != nil {
		return nil, utils.NewAppError(utils.ErrCodeMalformedData, "stored session is unreadable", err.Error())
	}
	if state.ID == "" || state.OwnName == "" {
		return nil, utils.NewAppError(utils.ErrCodeMalformedData, "stored session is missing required fields")
	}
	if state.Actions == nil {
		state.Actions = []handball.Event{}
	}
	// The persisted tree is advisory; always recompute on load.
	state.Stats = handball.ComputeStats(state.Actions)

	clock := NewStopwatch()
	if state.Stopwatch != nil {
		clock = RestoreStopwatch(*state.Stopwatch)
	}
	state.Stopwatch = nil

	lm = &LiveMatch{
		state: state,
		input: handball.NewInputState(),
		clock: clock,
		rev:   time.Now().UnixNano(),
	}
	s.live[id] = lm
	s.logger.WithField("match_id", id).Info("Match resumed from store")
	return lm, nil
}

// persist writes the session payload and its index columns. Callers
// hold lm.mu.
func (s *MatchService) persist(lm *LiveMatch) error {
	snapshot := lm.snapshot()
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	own, opp := handball.Score(snapshot.Actions)
	row := models.MatchSession{
		ID:             snapshot.ID,
		OwnName:        snapshot.OwnName,
		OppName:        snapshot.OppName,
		TournamentName: snapshot.TournamentName,
		ScoreOwn:       own,
		ScoreOpp:       opp,
		EventCount:     len(snapshot.Actions),
		Finished:       lm.clock.Finished(),
		StartTime:      time.UnixMilli(snapshot.StartTime),
		Payload:        payload,
	}

	if err := s.db.Save(&row).Error; err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	lm.dirty = false
	lm.rev++

	if s.cache != nil {
		s.cache.SetSimple(StatsCacheKey(snapshot.ID), snapshot.Stats, 5*time.Minute)
		// Index columns changed, so the cached list is stale.
		s.cache.Delete(context.Background(), MatchIndexCacheKey())
	}
	return nil
}

func (s *MatchService) invalidateStats(id string) {
	if s.cache != nil {
		s.cache.Delete(context.Background(), StatsCacheKey(id), MatchIndexCacheKey())
	}
}

func scoreOf(ts *handball.TeamStats) int {
	if ts == nil {
		return 0
	}
	return ts.Total.Goals
}
