package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tomvoss/kickpool/internal/app"
)

// AdminHandler handles operator endpoints.
type AdminHandler struct {
	deps Dependencies
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(deps Dependencies) *AdminHandler {
	return &AdminHandler{deps: deps}
}

type manualResultsRequest struct {
	Results []app.ManualEntry `json:"results"`
}

type manualResultsResponse struct {
	Applied int `json:"applied"`
}

// HandleManualResults handles POST /admin/results requests. Results are keyed
// by the feed's external match id so operators can paste ids straight from
// the provider.
func (h *AdminHandler) HandleManualResults(w http.ResponseWriter, r *http.Request) {
	const op = "api.manual_results"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req manualResultsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Results) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing results")))
		return
	}

	applied, err := h.deps.ApplyManualResults(r.Context(), req.Results)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, manualResultsResponse{Applied: applied})
}
