// Package app provides the core business service that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/tomvoss/kickpool/internal/adapters/feed"
	"github.com/tomvoss/kickpool/internal/adapters/repository"
	"github.com/tomvoss/kickpool/internal/domain/lockwindow"
	"github.com/tomvoss/kickpool/internal/domain/model"
	"github.com/tomvoss/kickpool/internal/domain/scoring"
	"github.com/tomvoss/kickpool/pkg/logger"
	"github.com/tomvoss/kickpool/pkg/metrics"
)

// Default season bounds for a 20-team round-robin league.
const (
	defaultMinRound = 1
	defaultMaxRound = 38
)

// Service orchestrates the pool: reconciliation, the prediction ledger and
// the scoring views. Every operation is synchronous and short-lived; state
// lives in the store, never in the service.
type Service struct {
	store repository.Store
	feed  feed.Feed

	roster   []string
	minRound int
	maxRound int

	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithDefaultRoster sets the names seeded by EnsureRoster.
func WithDefaultRoster(names []string) Option {
	return func(s *Service) {
		if len(names) > 0 {
			s.roster = names
		}
	}
}

// WithRoundBounds sets the acceptable round number range.
func WithRoundBounds(minRound, maxRound int) Option {
	return func(s *Service) {
		if minRound >= 1 && maxRound >= minRound {
			s.minRound = minRound
			s.maxRound = maxRound
		}
	}
}

// New constructs a Service over a store and a match feed.
func New(store repository.Store, matchFeed feed.Feed, opts ...Option) *Service {
	s := &Service{
		store:    store,
		feed:     matchFeed,
		minRound: defaultMinRound,
		maxRound: defaultMaxRound,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.log == nil {
		s.log = logger.Named("app")
	}
	return s
}

// EnsureRoster seeds the configured roster. Safe to call on every start;
// existing players are untouched.
func (s *Service) EnsureRoster(ctx context.Context) error {
	const op = "app.ensure_roster"

	if err := s.store.EnsureRoster(ctx, s.roster); err != nil {
		return Wrap(op, err)
	}
	players, err := s.store.Players(ctx)
	if err != nil {
		return Wrap(op, err)
	}
	metrics.UpdatePlayersTracked(len(players))
	s.log.Info(ctx, "roster ready", logger.Int("players", len(players)))
	return nil
}

// Reconcile pulls one round from the feed and merges it into the store.
// Returns the number of newly created matches. A feed failure aborts the
// whole call; previously committed rounds are unaffected. Repeating the
// call with identical upstream data is a no-op returning 0.
func (s *Service) Reconcile(ctx context.Context, round int) (int, error) {
	const op = "app.reconcile"

	if round < s.minRound || round > s.maxRound {
		return 0, NewKind(op, ErrRoundOutOfRange)
	}

	start := time.Now()
	records, err := s.feed.Matches(ctx, round)
	if err != nil {
		metrics.RecordReconcileFailure()
		return 0, Wrap(op, err)
	}

	created, err := s.store.UpsertMatches(ctx, round, records)
	if err != nil {
		metrics.RecordReconcileFailure()
		return 0, Wrap(op, err)
	}

	metrics.RecordReconcile(float64(time.Since(start).Milliseconds()))
	s.log.Info(ctx, "round reconciled",
		logger.Int("round", round),
		logger.Int("fetched", len(records)),
		logger.Int("created", created),
		logger.Duration("took", time.Since(start)),
	)
	return created, nil
}

// PickRequest is one requested pick within a batch submission. Pick is raw
// user input and validated per item.
type PickRequest struct {
	MatchID uint
	Pick    string
}

// SubmitStatus classifies the outcome of one pick in a batch.
type SubmitStatus string

// Submit outcomes. Rejections are expected user-facing states, not system
// failures; one rejected pick never blocks its siblings.
const (
	SubmitAccepted     SubmitStatus = "accepted"
	SubmitLockedWindow SubmitStatus = "locked_window"
	SubmitInvalidPick  SubmitStatus = "invalid_pick"
	SubmitUnknownMatch SubmitStatus = "unknown_match"
	SubmitFailed       SubmitStatus = "error"
)

// SubmitResult reports the outcome for one match of a batch submission.
type SubmitResult struct {
	MatchID uint         `json:"match_id"`
	Status  SubmitStatus `json:"status"`
	Detail  string       `json:"detail,omitempty"`
}

// SubmitPicks writes a batch of picks for one player, each match judged
// independently: locked or invalid entries are rejected in place while the
// rest proceed. An unknown player fails the whole call.
func (s *Service) SubmitPicks(ctx context.Context, playerID uint, picks []PickRequest, now time.Time) ([]SubmitResult, error) {
	const op = "app.submit_picks"

	if _, err := s.store.PlayerByID(ctx, playerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewKind(op, ErrUnknownPlayer)
		}
		return nil, Wrap(op, err)
	}

	results := make([]SubmitResult, 0, len(picks))
	for _, pr := range picks {
		res := s.submitOne(ctx, playerID, pr, now)
		switch res.Status {
		case SubmitAccepted:
			metrics.RecordPickAccepted()
		default:
			metrics.RecordPickRejected(string(res.Status))
		}
		results = append(results, res)
	}

	s.log.Info(ctx, "picks submitted",
		logger.Uint("player", playerID),
		logger.Int("requested", len(picks)),
	)
	return results, nil
}

func (s *Service) submitOne(ctx context.Context, playerID uint, pr PickRequest, now time.Time) SubmitResult {
	match, err := s.store.MatchByID(ctx, pr.MatchID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return SubmitResult{MatchID: pr.MatchID, Status: SubmitUnknownMatch}
		}
		return SubmitResult{MatchID: pr.MatchID, Status: SubmitFailed, Detail: err.Error()}
	}

	pick, err := model.ParsePick(pr.Pick)
	if err != nil {
		return SubmitResult{MatchID: pr.MatchID, Status: SubmitInvalidPick, Detail: err.Error()}
	}

	// Per-match gate: a locked match is skipped, leaving any stored pick
	// untouched, while siblings in the same batch still go through.
	if !lockwindow.CanModify(match.KickoffAt, now) {
		return SubmitResult{MatchID: pr.MatchID, Status: SubmitLockedWindow}
	}

	p := model.Prediction{PlayerID: playerID, MatchID: pr.MatchID, Pick: pick}
	if err := s.store.SavePrediction(ctx, p); err != nil {
		return SubmitResult{MatchID: pr.MatchID, Status: SubmitFailed, Detail: err.Error()}
	}
	return SubmitResult{MatchID: pr.MatchID, Status: SubmitAccepted}
}

// PredictionsByPlayer returns one player's stored picks.
func (s *Service) PredictionsByPlayer(ctx context.Context, playerID uint) ([]model.Prediction, error) {
	const op = "app.predictions_by_player"

	if _, err := s.store.PlayerByID(ctx, playerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewKind(op, ErrUnknownPlayer)
		}
		return nil, Wrap(op, err)
	}
	preds, err := s.store.PredictionsByPlayer(ctx, playerID)
	if err != nil {
		return nil, Wrap(op, err)
	}
	return preds, nil
}

// MatchesByRound returns the stored matches of one round. It reads current
// store state; refreshing from the feed is the reconcile paths' business.
func (s *Service) MatchesByRound(ctx context.Context, round int) ([]model.Match, error) {
	const op = "app.matches_by_round"

	if round < s.minRound || round > s.maxRound {
		return nil, NewKind(op, ErrRoundOutOfRange)
	}
	matches, err := s.store.MatchesByRound(ctx, round)
	if err != nil {
		return nil, Wrap(op, err)
	}
	return matches, nil
}

// RoundTable is the per-round results breakdown.
type RoundTable struct {
	Round   int           `json:"round"`
	Matches []model.Match `json:"matches"`
	Rows    []scoring.Row `json:"rows"`
}

// BuildRoundTable reconciles the round and builds its breakdown table. The
// refresh mirrors the reference behavior where every results view pulls
// current round data first; a feed failure therefore fails this call.
func (s *Service) BuildRoundTable(ctx context.Context, round int) (RoundTable, error) {
	const op = "app.round_table"

	if _, err := s.Reconcile(ctx, round); err != nil {
		return RoundTable{}, Wrap(op, err)
	}

	matches, err := s.store.MatchesByRound(ctx, round)
	if err != nil {
		return RoundTable{}, Wrap(op, err)
	}
	players, err := s.store.Players(ctx)
	if err != nil {
		return RoundTable{}, Wrap(op, err)
	}
	ids := make([]uint, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	preds, err := s.store.PredictionsForMatches(ctx, ids)
	if err != nil {
		return RoundTable{}, Wrap(op, err)
	}

	return RoundTable{
		Round:   round,
		Matches: matches,
		Rows:    scoring.RoundTable(players, matches, preds),
	}, nil
}

// SeasonTotals recomputes every player's season total from stored state.
// No caching: each call re-joins predictions against matches.
func (s *Service) SeasonTotals(ctx context.Context) ([]scoring.Total, error) {
	const op = "app.season_totals"

	players, err := s.store.Players(ctx)
	if err != nil {
		return nil, Wrap(op, err)
	}
	matches, err := s.store.AllMatches(ctx)
	if err != nil {
		return nil, Wrap(op, err)
	}
	preds, err := s.store.AllPredictions(ctx)
	if err != nil {
		return nil, Wrap(op, err)
	}
	return scoring.Totals(players, matches, preds), nil
}

// Leaderboard returns season totals ordered for display.
func (s *Service) Leaderboard(ctx context.Context) ([]scoring.Entry, error) {
	const op = "app.leaderboard"

	totals, err := s.SeasonTotals(ctx)
	if err != nil {
		return nil, Wrap(op, err)
	}
	return scoring.Leaderboard(totals), nil
}

// ManualEntry is one operator-entered result.
type ManualEntry struct {
	MatchExternalID int64 `json:"match_external_id"`
	HomeScore       int   `json:"home_score"`
	AwayScore       int   `json:"away_score"`
}

// ApplyManualResults backfills results for matches outside feed coverage.
// Scores are applied through the same match upsert path the reconciler
// uses; entries for unknown matches are skipped. Returns the number of
// matches updated.
func (s *Service) ApplyManualResults(ctx context.Context, entries []ManualEntry) (int, error) {
	const op = "app.apply_manual_results"

	rows := make([]model.ManualResult, 0, len(entries))
	for _, e := range entries {
		if e.HomeScore < 0 || e.AwayScore < 0 {
			return 0, NewKind(op, ErrInvalidResult)
		}
		rows = append(rows, model.ManualResult{
			MatchExternalID: e.MatchExternalID,
			HomeScore:       e.HomeScore,
			AwayScore:       e.AwayScore,
		})
	}

	applied, err := s.store.RecordManualResults(ctx, rows)
	if err != nil {
		return 0, Wrap(op, err)
	}
	s.log.Info(ctx, "manual results applied",
		logger.Int("entries", len(entries)),
		logger.Int("applied", applied),
	)
	return applied, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	ctx := context.Background()
	stats := map[string]interface{}{
		"min_round": s.minRound,
		"max_round": s.maxRound,
	}

	if players, err := s.store.Players(ctx); err == nil {
		stats["players"] = len(players)
		metrics.UpdatePlayersTracked(len(players))
	}
	if n, err := s.store.CountMatches(ctx); err == nil {
		stats["matches"] = n
		metrics.UpdateMatchesTracked(n)
	}
	if n, err := s.store.CountPredictions(ctx); err == nil {
		stats["predictions"] = n
		metrics.UpdatePredictionsTracked(n)
	}
	return stats
}
