package models

import (
	"time"

	"gorm.io/datatypes"
)

// MatchSession is the persisted row for one tracked match. The full
// session state, event log included, lives in Payload; the indexed
// columns are denormalized copies for listing matches without parsing
// the payload.
type MatchSession struct {
	ID             string    `gorm:"primaryKey;size:64" json:"id"`
	OwnName        string    `gorm:"not null;size:100" json:"own_name"`
	OppName        string    `gorm:"not null;size:100" json:"opp_name"`
	TournamentName string    `gorm:"size:100;index" json:"tournament_name"`
	ScoreOwn       int       `gorm:"default:0" json:"score_own"`
	ScoreOpp       int       `gorm:"default:0" json:"score_opp"`
	EventCount     int       `gorm:"default:0" json:"event_count"`
	Finished       bool      `gorm:"default:false" json:"finished"`
	StartTime      time.Time `gorm:"not null" json:"start_time"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Payload holds the serialized session: rosters, goalkeepers,
	// half duration, the event log and the cached stats tree.
	Payload datatypes.JSON `json:"payload"`
}

// TableName specifies the table name for GORM
func (MatchSession) TableName() string {
	return "match_sessions"
}

// TeamConfig stores the operator's default own-team setup, applied to
// every new match until changed.
type TeamConfig struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	TeamName  string         `gorm:"not null;size:100" json:"team_name"`
	Players   datatypes.JSON `json:"players"` // [{no, name}]
	GKNumbers datatypes.JSON `json:"gk_numbers"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (TeamConfig) TableName() string {
	return "team_configs"
}
