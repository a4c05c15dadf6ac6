package api

import (
	"net/http"
)

// RoundsHandler serves the per-round score table.
type RoundsHandler struct {
	deps Dependencies
}

// NewRoundsHandler creates a new rounds handler.
func NewRoundsHandler(deps Dependencies) *RoundsHandler {
	return &RoundsHandler{deps: deps}
}

// HandleRoundTable handles GET /rounds/{round}/table requests. Building the
// table refreshes the round from the feed first, so a dead feed surfaces as
// 502 here rather than serving a silently stale table.
func (h *RoundsHandler) HandleRoundTable(w http.ResponseWriter, r *http.Request) {
	const op = "api.round_table"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	segs := pathSegments(r.URL.Path, "/rounds/")
	if len(segs) != 2 || segs[1] != "table" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	round, err := parseRound(segs[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	table, err := h.deps.BuildRoundTable(r.Context(), round)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}
