package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tomvoss/kickpool/internal/adapters/feed"
	"github.com/tomvoss/kickpool/internal/domain/model"
	"github.com/tomvoss/kickpool/pkg/metrics"
)

// defaultCompetition tags created matches when no option overrides it.
const defaultCompetition = "PL"

// Open opens (or creates) the sqlite database at path and migrates the
// schema. Use ":memory:" for throwaway test databases.
func Open(path string) (*gorm.DB, error) {
	const op = "repository.open"

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, Wrap(op, err)
	}
	if err := db.AutoMigrate(
		&model.Player{},
		&model.Match{},
		&model.Prediction{},
		&model.ManualResult{},
	); err != nil {
		return nil, Wrap(op, err)
	}
	return db, nil
}

// GormStore implements Store on a gorm database handle.
type GormStore struct {
	db          *gorm.DB
	competition string
}

// NewGormStore creates a store bound to db.
func NewGormStore(db *gorm.DB, opts ...Option) *GormStore {
	s := &GormStore{
		db:          db,
		competition: defaultCompetition,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// UpsertMatches merges one round of feed records in a single transaction.
// See Store for the full contract.
func (s *GormStore) UpsertMatches(ctx context.Context, round int, records []feed.Record) (int, error) {
	const op = "repository.upsert_matches"

	for _, r := range records {
		if (r.HomeScore == nil) != (r.AwayScore == nil) {
			return 0, fmt.Errorf("%s: match %d: %w", op, r.ExternalID, ErrPartialScore)
		}
	}

	start := time.Now()
	created := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range records {
			var m model.Match
			res := tx.Where("external_id = ?", r.ExternalID).First(&m)
			switch {
			case res.Error == nil:
				// Full overwrite of mutable fields. Round stays as first
				// recorded; the external id never changes.
				m.KickoffAt = r.KickoffAt.UTC()
				m.Status = r.Status
				m.HomeTeam = r.HomeTeam
				m.AwayTeam = r.AwayTeam
				m.HomeScore = r.HomeScore
				m.AwayScore = r.AwayScore
				if err := tx.Save(&m).Error; err != nil {
					return err
				}
			case errors.Is(res.Error, gorm.ErrRecordNotFound):
				m = model.Match{
					ExternalID:  r.ExternalID,
					Competition: s.competition,
					Round:       round,
					KickoffAt:   r.KickoffAt.UTC(),
					HomeTeam:    r.HomeTeam,
					AwayTeam:    r.AwayTeam,
					Status:      r.Status,
					HomeScore:   r.HomeScore,
					AwayScore:   r.AwayScore,
				}
				if err := tx.Create(&m).Error; err != nil {
					return err
				}
				created++
			default:
				return res.Error
			}
		}
		return nil
	})
	if err != nil {
		return 0, Wrap(op, err)
	}

	metrics.RecordStoreLatency("upsert_matches", float64(time.Since(start).Milliseconds()))
	metrics.RecordMatchesCreated(created)
	return created, nil
}

// MatchByID returns one match or ErrNotFound.
func (s *GormStore) MatchByID(ctx context.Context, id uint) (model.Match, error) {
	const op = "repository.match_by_id"

	var m model.Match
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Match{}, Wrap(op, ErrNotFound)
		}
		return model.Match{}, Wrap(op, err)
	}
	return m, nil
}

// MatchesByRound returns a round's matches ordered by kickoff time.
func (s *GormStore) MatchesByRound(ctx context.Context, round int) ([]model.Match, error) {
	const op = "repository.matches_by_round"

	var out []model.Match
	err := s.db.WithContext(ctx).
		Where("round = ?", round).
		Order("kickoff_at, id").
		Find(&out).Error
	if err != nil {
		return nil, Wrap(op, err)
	}
	return out, nil
}

// AllMatches returns every tracked match.
func (s *GormStore) AllMatches(ctx context.Context) ([]model.Match, error) {
	const op = "repository.all_matches"

	var out []model.Match
	if err := s.db.WithContext(ctx).Order("round, kickoff_at, id").Find(&out).Error; err != nil {
		return nil, Wrap(op, err)
	}
	return out, nil
}

// SavePrediction upserts the pick keyed by (player, match).
func (s *GormStore) SavePrediction(ctx context.Context, p model.Prediction) error {
	const op = "repository.save_prediction"

	p.ID = 0
	p.UpdatedAt = time.Now().UTC()
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_id"}, {Name: "match_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"pick", "updated_at"}),
	}).Create(&p).Error
	if err != nil {
		return Wrap(op, err)
	}
	return nil
}

// PredictionsByPlayer returns every stored pick of one player.
func (s *GormStore) PredictionsByPlayer(ctx context.Context, playerID uint) ([]model.Prediction, error) {
	const op = "repository.predictions_by_player"

	var out []model.Prediction
	if err := s.db.WithContext(ctx).Where("player_id = ?", playerID).Find(&out).Error; err != nil {
		return nil, Wrap(op, err)
	}
	return out, nil
}

// PredictionsForMatches returns all picks referencing the given matches.
func (s *GormStore) PredictionsForMatches(ctx context.Context, matchIDs []uint) ([]model.Prediction, error) {
	const op = "repository.predictions_for_matches"

	if len(matchIDs) == 0 {
		return nil, nil
	}
	var out []model.Prediction
	if err := s.db.WithContext(ctx).Where("match_id IN ?", matchIDs).Find(&out).Error; err != nil {
		return nil, Wrap(op, err)
	}
	return out, nil
}

// AllPredictions returns every stored pick.
func (s *GormStore) AllPredictions(ctx context.Context) ([]model.Prediction, error) {
	const op = "repository.all_predictions"

	var out []model.Prediction
	if err := s.db.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, Wrap(op, err)
	}
	return out, nil
}

// EnsureRoster creates any missing players by name. Existing names are left
// untouched, so repeated calls converge.
func (s *GormStore) EnsureRoster(ctx context.Context, names []string) error {
	const op = "repository.ensure_roster"

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			var pl model.Player
			err := tx.Where("name = ?", name).First(&pl).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(&model.Player{Name: name}).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Wrap(op, err)
	}
	return nil
}

// Players returns the roster in creation order.
func (s *GormStore) Players(ctx context.Context) ([]model.Player, error) {
	const op = "repository.players"

	var out []model.Player
	if err := s.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, Wrap(op, err)
	}
	return out, nil
}

// PlayerByID returns one player or ErrNotFound.
func (s *GormStore) PlayerByID(ctx context.Context, id uint) (model.Player, error) {
	const op = "repository.player_by_id"

	var pl model.Player
	if err := s.db.WithContext(ctx).First(&pl, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Player{}, Wrap(op, ErrNotFound)
		}
		return model.Player{}, Wrap(op, err)
	}
	return pl, nil
}

// RecordManualResults stores audit rows and applies the scores to their
// matches in one transaction. Entries for unknown external ids are skipped;
// a skipped entry leaves no audit row either.
func (s *GormStore) RecordManualResults(ctx context.Context, entries []model.ManualResult) (int, error) {
	const op = "repository.record_manual_results"

	applied := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range entries {
			var m model.Match
			err := tx.Where("external_id = ?", e.MatchExternalID).First(&m).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			home, away := e.HomeScore, e.AwayScore
			m.HomeScore = &home
			m.AwayScore = &away
			m.Status = model.StatusFinished
			if err := tx.Save(&m).Error; err != nil {
				return err
			}

			e.ID = 0
			e.EnteredAt = time.Now().UTC()
			if err := tx.Create(&e).Error; err != nil {
				return err
			}
			applied++
		}
		return nil
	})
	if err != nil {
		return 0, Wrap(op, err)
	}
	return applied, nil
}

// CountMatches reports the number of tracked matches.
func (s *GormStore) CountMatches(ctx context.Context) (int64, error) {
	const op = "repository.count_matches"

	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Match{}).Count(&n).Error; err != nil {
		return 0, Wrap(op, err)
	}
	return n, nil
}

// CountPredictions reports the number of stored picks.
func (s *GormStore) CountPredictions(ctx context.Context) (int64, error) {
	const op = "repository.count_predictions"

	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Prediction{}).Count(&n).Error; err != nil {
		return 0, Wrap(op, err)
	}
	return n, nil
}
