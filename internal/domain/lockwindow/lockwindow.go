// Package lockwindow decides whether a pick may still be written for a match.
package lockwindow

import "time"

// Cutoff is how long before kickoff picks become immutable. The buffer
// absorbs clock skew and feed latency so a player cannot react to imminent
// kickoff information.
const Cutoff = 5 * time.Minute

// CanModify reports whether a pick for a match kicking off at kickoff may be
// written at now. Writes are allowed strictly before kickoff-Cutoff; exactly
// at the cutoff they are already locked.
//
// Both operands are normalized to UTC first, so a kickoff loaded without a
// zone can never silently compare against a zoned clock.
func CanModify(kickoff, now time.Time) bool {
	return now.UTC().Before(kickoff.UTC().Add(-Cutoff))
}
