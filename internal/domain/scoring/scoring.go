// Package scoring derives match outcomes and computes pool points.
//
// Everything here is a pure function over in-memory rows: callers join
// predictions and matches per request, so repeated calls with the same
// inputs always produce the same tables.
package scoring

import (
	"sort"

	"github.com/tomvoss/kickpool/internal/domain/model"
)

// Outcome is the result class of a match.
type Outcome string

// Outcome values. Unknown marks a match that cannot be scored yet, which is
// a normal state and never an error.
const (
	OutcomeHome    Outcome = "HOME"
	OutcomeAway    Outcome = "AWAY"
	OutcomeDraw    Outcome = "DRAW"
	OutcomeUnknown Outcome = ""
)

// ResultOf derives the outcome of a match from its final scores. It is
// Unknown exactly when either score is absent.
func ResultOf(m model.Match) Outcome {
	if !m.HasScore() {
		return OutcomeUnknown
	}
	switch {
	case *m.HomeScore > *m.AwayScore:
		return OutcomeHome
	case *m.AwayScore > *m.HomeScore:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}

// Points returns 1 when pick matches the match outcome, 0 otherwise. An
// unscoreable match contributes 0 to every player.
func Points(pick model.Pick, m model.Match) int {
	res := ResultOf(m)
	if res != OutcomeUnknown && Outcome(pick) == res {
		return 1
	}
	return 0
}

// Cell is one (player, match) slot in a round table: the pick made, if any,
// and the points it earned.
type Cell struct {
	MatchID uint        `json:"match_id"`
	Pick    *model.Pick `json:"pick,omitempty"`
	Points  int         `json:"points"`
}

// Row is one player's line in a round table.
type Row struct {
	PlayerID   uint   `json:"player_id"`
	PlayerName string `json:"player_name"`
	Cells      []Cell `json:"cells"`
	Sum        int    `json:"sum"`
}

// RoundTable builds the per-round breakdown: one row per player in roster
// order, one cell per match in the given order. Matches without a stored
// pick earn 0 and show no pick.
func RoundTable(players []model.Player, matches []model.Match, preds []model.Prediction) []Row {
	picks := make(map[uint]map[uint]model.Pick, len(players))
	for _, p := range preds {
		if picks[p.PlayerID] == nil {
			picks[p.PlayerID] = make(map[uint]model.Pick)
		}
		picks[p.PlayerID][p.MatchID] = p.Pick
	}

	rows := make([]Row, 0, len(players))
	for _, pl := range players {
		row := Row{PlayerID: pl.ID, PlayerName: pl.Name, Cells: make([]Cell, 0, len(matches))}
		for _, m := range matches {
			cell := Cell{MatchID: m.ID}
			if pick, ok := picks[pl.ID][m.ID]; ok {
				p := pick
				cell.Pick = &p
				cell.Points = Points(pick, m)
			}
			row.Sum += cell.Points
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}
	return rows
}

// Total is one player's points over a set of matches.
type Total struct {
	PlayerID   uint   `json:"player_id"`
	PlayerName string `json:"player_name"`
	Points     int    `json:"points"`
}

// Totals sums points for every player over every match they predicted.
// Predictions referencing matches outside the given set are ignored.
func Totals(players []model.Player, matches []model.Match, preds []model.Prediction) []Total {
	byID := make(map[uint]model.Match, len(matches))
	for _, m := range matches {
		byID[m.ID] = m
	}

	sums := make(map[uint]int, len(players))
	for _, p := range preds {
		m, ok := byID[p.MatchID]
		if !ok {
			continue
		}
		sums[p.PlayerID] += Points(p.Pick, m)
	}

	out := make([]Total, 0, len(players))
	for _, pl := range players {
		out = append(out, Total{PlayerID: pl.ID, PlayerName: pl.Name, Points: sums[pl.ID]})
	}
	return out
}

// Entry is one leaderboard line.
type Entry struct {
	Rank       int    `json:"rank"`
	PlayerID   uint   `json:"player_id"`
	PlayerName string `json:"player_name"`
	Points     int    `json:"points"`
}

// Leaderboard orders totals by points descending. Ties break on ascending
// player ID, which is assigned in roster order, so the ordering is
// deterministic across runs.
func Leaderboard(totals []Total) []Entry {
	sorted := make([]Total, len(totals))
	copy(sorted, totals)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Points != sorted[j].Points {
			return sorted[i].Points > sorted[j].Points
		}
		return sorted[i].PlayerID < sorted[j].PlayerID
	})

	entries := make([]Entry, len(sorted))
	for i, t := range sorted {
		entries[i] = Entry{Rank: i + 1, PlayerID: t.PlayerID, PlayerName: t.PlayerName, Points: t.Points}
	}
	return entries
}
