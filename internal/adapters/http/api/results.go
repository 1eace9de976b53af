// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/jury/internal/domain/scoring"
)

// ResultDependencies defines the interface for aggregate read handlers.
type ResultDependencies interface {
	Results(ctx context.Context) []scoring.ProjectAggregate
	ProjectResult(ctx context.Context, projectID string) (scoring.ProjectAggregate, error)
}

// ResultsHandler handles aggregate score requests.
type ResultsHandler struct {
	deps ResultDependencies
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps ResultDependencies) *ResultsHandler {
	return &ResultsHandler{deps: deps}
}

// HandleGetResults handles GET /results requests, returning per-project
// aggregates for every project, best first.
func (h *ResultsHandler) HandleGetResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	results := h.deps.Results(r.Context())
	if results == nil {
		results = []scoring.ProjectAggregate{}
	}
	writeJSON(w, http.StatusOK, results)
}

// HandleGetProjectResult handles GET /results/{projectID} requests.
func (h *ResultsHandler) HandleGetProjectResult(w http.ResponseWriter, r *http.Request) {
	const op = "api.project_result"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := itemID(r.URL.Path, "/results/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	result, err := h.deps.ProjectResult(r.Context(), id)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
