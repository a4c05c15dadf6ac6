// Package model contains domain rows passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Pick is the outcome class a player chooses for one match.
type Pick string

// The three accepted outcome classes.
const (
	PickHome Pick = "HOME"
	PickAway Pick = "AWAY"
	PickDraw Pick = "DRAW"
)

// Match statuses the upstream feed is known to report. Anything else is
// stored as-is and treated as "not finished".
const (
	StatusScheduled = "SCHEDULED"
	StatusInPlay    = "IN_PLAY"
	StatusFinished  = "FINISHED"
)

// ParsePick normalizes raw input to a Pick. Input is case-insensitive;
// anything outside the three outcome classes is rejected rather than stored.
func ParsePick(raw string) (Pick, error) {
	switch p := Pick(strings.ToUpper(strings.TrimSpace(raw))); p {
	case PickHome, PickAway, PickDraw:
		return p, nil
	default:
		return "", fmt.Errorf("invalid pick %q: must be one of HOME, AWAY, DRAW", raw)
	}
}

// Player is one member of the fixed pool roster. Rows are created once by
// the roster seed and never change afterwards.
type Player struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:80;uniqueIndex;not null" json:"name"`
}

// Match is one fixture of the tracked competition. ExternalID is the feed's
// identifier and the merge key for reconciliation; every other mutable field
// is overwritten wholesale on each re-fetch of its round.
//
// HomeScore/AwayScore are pointers: a match with no reported score is
// unknown, not 0-0. Both are set or both are nil; a half-set pair is a store
// invariant violation.
type Match struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ExternalID  int64     `gorm:"uniqueIndex;not null" json:"external_id"`
	Competition string    `gorm:"size:10;not null" json:"competition"`
	Season      *int      `json:"season,omitempty"`
	Round       int       `gorm:"index;not null" json:"round"`
	KickoffAt   time.Time `gorm:"not null" json:"kickoff_at"`
	HomeTeam    string    `gorm:"size:120;not null" json:"home_team"`
	AwayTeam    string    `gorm:"size:120;not null" json:"away_team"`
	Status      string    `gorm:"size:20;not null" json:"status"`
	HomeScore   *int      `json:"home_score,omitempty"`
	AwayScore   *int      `json:"away_score,omitempty"`
}

// HasScore reports whether both final scores are known.
func (m Match) HasScore() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// Prediction is one player's pick for one match. The (player, match) pair is
// unique; a resubmission overwrites the pick and refreshes UpdatedAt.
type Prediction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PlayerID  uint      `gorm:"uniqueIndex:uix_player_match;not null" json:"player_id"`
	MatchID   uint      `gorm:"uniqueIndex:uix_player_match;not null" json:"match_id"`
	Pick      Pick      `gorm:"size:10;not null" json:"pick"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ManualResult is an operator-entered score for a match outside normal feed
// coverage. It is an audit record: applying it flows through the same match
// upsert the reconciler uses, so canonical state never diverges from it.
type ManualResult struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	MatchExternalID int64     `gorm:"index;not null" json:"match_external_id"`
	HomeScore       int       `gorm:"not null" json:"home_score"`
	AwayScore       int       `gorm:"not null" json:"away_score"`
	EnteredAt       time.Time `json:"entered_at"`
}
