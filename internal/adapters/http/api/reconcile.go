package api

import (
	"net/http"
)

// ReconcileHandler handles on-demand feed reconciliation.
type ReconcileHandler struct {
	deps Dependencies
}

// NewReconcileHandler creates a new reconcile handler.
func NewReconcileHandler(deps Dependencies) *ReconcileHandler {
	return &ReconcileHandler{deps: deps}
}

type reconcileResponse struct {
	Round   int `json:"round"`
	Created int `json:"created"`
}

// HandleReconcile handles POST /reconcile/{round} requests.
func (h *ReconcileHandler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	const op = "api.reconcile"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	segs := pathSegments(r.URL.Path, "/reconcile/")
	if len(segs) != 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	round, err := parseRound(segs[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	created, err := h.deps.Reconcile(r.Context(), round)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reconcileResponse{Round: round, Created: created})
}
