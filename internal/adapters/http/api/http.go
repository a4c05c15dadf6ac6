// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/tomvoss/kickpool/internal/adapters/feed"
	"github.com/tomvoss/kickpool/internal/adapters/repository"
	"github.com/tomvoss/kickpool/internal/app"
	"github.com/tomvoss/kickpool/internal/domain/model"
	"github.com/tomvoss/kickpool/internal/domain/scoring"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Reconcile(ctx context.Context, round int) (int, error)
	MatchesByRound(ctx context.Context, round int) ([]model.Match, error)
	SubmitPicks(ctx context.Context, playerID uint, picks []app.PickRequest, now time.Time) ([]app.SubmitResult, error)
	PredictionsByPlayer(ctx context.Context, playerID uint) ([]model.Prediction, error)
	BuildRoundTable(ctx context.Context, round int) (app.RoundTable, error)
	SeasonTotals(ctx context.Context) ([]scoring.Total, error)
	Leaderboard(ctx context.Context) ([]scoring.Entry, error)
	ApplyManualResults(ctx context.Context, entries []app.ManualEntry) (int, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	reconcileHandler   *ReconcileHandler
	matchesHandler     *MatchesHandler
	predictionsHandler *PredictionsHandler
	roundsHandler      *RoundsHandler
	leaderboardHandler *LeaderboardHandler
	adminHandler       *AdminHandler
	statsHandler       *StatsHandler
	healthHandler      *HealthHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		reconcileHandler:   NewReconcileHandler(deps),
		matchesHandler:     NewMatchesHandler(deps),
		predictionsHandler: NewPredictionsHandler(deps),
		roundsHandler:      NewRoundsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		adminHandler:       NewAdminHandler(deps),
		statsHandler:       NewStatsHandler(statsProvider),
		healthHandler:      NewHealthHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", Middleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", Middleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/reconcile/", Middleware(s.reconcileHandler.HandleReconcile, "reconcile"))
	mux.HandleFunc("/matches", Middleware(s.matchesHandler.HandleListMatches, "matches"))
	mux.HandleFunc("/predictions", Middleware(s.predictionsHandler.HandlePredictions, "predictions"))
	mux.HandleFunc("/rounds/", Middleware(s.roundsHandler.HandleRoundTable, "round_table"))
	mux.HandleFunc("/totals", Middleware(s.leaderboardHandler.HandleGetTotals, "totals"))
	mux.HandleFunc("/leaderboard", Middleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/admin/results", Middleware(s.adminHandler.HandleManualResults, "manual_results"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service-layer error kinds to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrRoundOutOfRange):
		writeError(w, http.StatusBadRequest, "round_out_of_range", err)
	case errors.Is(err, app.ErrUnknownPlayer):
		writeError(w, http.StatusNotFound, "unknown_player", err)
	case errors.Is(err, app.ErrInvalidResult):
		writeError(w, http.StatusBadRequest, "invalid_result", err)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrPartialScore):
		writeError(w, http.StatusBadGateway, "data_inconsistency", err)
	case errors.Is(err, feed.ErrUnavailable):
		writeError(w, http.StatusBadGateway, "feed_unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
