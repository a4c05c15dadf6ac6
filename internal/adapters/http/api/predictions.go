package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/tomvoss/kickpool/internal/app"
)

// PredictionsHandler handles pick submission and retrieval.
type PredictionsHandler struct {
	deps Dependencies
}

// NewPredictionsHandler creates a new predictions handler.
func NewPredictionsHandler(deps Dependencies) *PredictionsHandler {
	return &PredictionsHandler{deps: deps}
}

// submitRequest mirrors the POST /predictions body: one player's batch of
// picks, each judged independently.
type submitRequest struct {
	PlayerID uint        `json:"player_id"`
	Picks    []pickEntry `json:"picks"`
}

type pickEntry struct {
	MatchID uint   `json:"match_id"`
	Pick    string `json:"pick"`
}

func (s submitRequest) validate() error {
	switch {
	case s.PlayerID == 0:
		return errors.New("missing player_id")
	case len(s.Picks) == 0:
		return errors.New("missing picks")
	}
	for _, p := range s.Picks {
		if p.MatchID == 0 {
			return errors.New("missing match_id in picks")
		}
	}
	return nil
}

type submitResponse struct {
	PlayerID uint               `json:"player_id"`
	Results  []app.SubmitResult `json:"results"`
}

// HandlePredictions dispatches POST (batch submit) and GET (list by player).
func (h *PredictionsHandler) HandlePredictions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleSubmit(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *PredictionsHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_predictions"

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	picks := make([]app.PickRequest, len(req.Picks))
	for i, p := range req.Picks {
		picks[i] = app.PickRequest{MatchID: p.MatchID, Pick: p.Pick}
	}

	results, err := h.deps.SubmitPicks(r.Context(), req.PlayerID, picks, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	// Partial acceptance is a normal batch outcome, not an error.
	writeJSON(w, http.StatusOK, submitResponse{PlayerID: req.PlayerID, Results: results})
}

func (h *PredictionsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_predictions"

	playerID, err := parseID(r.URL.Query().Get("player_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	preds, err := h.deps.PredictionsByPlayer(r.Context(), playerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preds)
}
