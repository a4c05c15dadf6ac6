// Package feed abstracts the upstream source of match schedule and result data.
package feed

import (
	"context"
	"time"
)

// Record is one match as reported by the feed. Scores stay nil until the
// feed reports a full-time result; nil means unknown, not 0-0.
type Record struct {
	ExternalID int64
	KickoffAt  time.Time
	Status     string
	HomeTeam   string
	AwayTeam   string
	HomeScore  *int
	AwayScore  *int
}

// Feed returns authoritative match records for a round.
type Feed interface {
	// Matches fetches all matches of the given round. Implementations make
	// at most one attempt per call; retrying is the caller's decision.
	Matches(ctx context.Context, round int) ([]Record, error)
}
