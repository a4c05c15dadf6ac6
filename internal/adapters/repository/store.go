// Package repository defines the persistence interface for pool state and
// its gorm-backed implementation.
package repository

import (
	"context"

	"github.com/tomvoss/kickpool/internal/adapters/feed"
	"github.com/tomvoss/kickpool/internal/domain/model"
)

// Store provides durable access to matches, predictions and the roster.
// Every method is one atomic unit of work: concurrent calls on disjoint
// keys are safe, racing calls on the same key are last-write-wins.
type Store interface {
	// UpsertMatches merges one round of feed records into the match table
	// in a single transaction, keyed by external ID. Existing rows get
	// their mutable fields (status, kickoff, teams, scores) overwritten;
	// new rows are created with the caller-supplied round, which is
	// trusted over anything embedded in the records. Returns the number
	// of newly created rows. A record with a half-set score pair aborts
	// the whole batch with ErrPartialScore; nothing is persisted.
	UpsertMatches(ctx context.Context, round int, records []feed.Record) (int, error)

	// MatchByID returns one match or ErrNotFound.
	MatchByID(ctx context.Context, id uint) (model.Match, error)

	// MatchesByRound returns a round's matches ordered by kickoff time.
	MatchesByRound(ctx context.Context, round int) ([]model.Match, error)

	// AllMatches returns every tracked match.
	AllMatches(ctx context.Context) ([]model.Match, error)

	// SavePrediction upserts the pick keyed by (player, match) and
	// refreshes its timestamp. Lock-window checks happen above this layer.
	SavePrediction(ctx context.Context, p model.Prediction) error

	// PredictionsByPlayer returns every stored pick of one player.
	PredictionsByPlayer(ctx context.Context, playerID uint) ([]model.Prediction, error)

	// PredictionsForMatches returns all picks referencing the given matches.
	PredictionsForMatches(ctx context.Context, matchIDs []uint) ([]model.Prediction, error)

	// AllPredictions returns every stored pick.
	AllPredictions(ctx context.Context) ([]model.Prediction, error)

	// EnsureRoster creates any missing players by name. Idempotent.
	EnsureRoster(ctx context.Context, names []string) error

	// Players returns the roster in creation order.
	Players(ctx context.Context) ([]model.Player, error)

	// PlayerByID returns one player or ErrNotFound.
	PlayerByID(ctx context.Context, id uint) (model.Player, error)

	// RecordManualResults stores operator-entered scores and applies each
	// one to its match (scores set, status FINISHED) in one transaction.
	// Entries whose external ID matches no tracked match are skipped.
	// Returns the number of matches updated.
	RecordManualResults(ctx context.Context, entries []model.ManualResult) (int, error)

	// CountMatches and CountPredictions report table sizes for monitoring.
	CountMatches(ctx context.Context) (int64, error)
	CountPredictions(ctx context.Context) (int64, error)
}
