// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/jury/internal/domain/model"
)

// ScoreDependencies defines the interface for score handlers.
type ScoreDependencies interface {
	UpsertScore(ctx context.Context, score model.Score) (model.Score, error)
	DeleteScore(ctx context.Context, id string) error
}

// ScoresHandler handles score requests.
type ScoresHandler struct {
	deps ScoreDependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps ScoreDependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

// HandleCollection handles POST /scores requests: a single-object upsert.
// Re-submission for the same (project, judge) pair overwrites the stored
// score and keeps its identifier.
func (h *ScoresHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	const op = "api.upsert_score"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req model.Score
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	stored, err := h.deps.UpsertScore(r.Context(), req)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// HandleItem handles DELETE /scores/{id} requests.
func (h *ScoresHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.score_item"
	id := itemID(r.URL.Path, "/scores/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.DeleteScore(r.Context(), id); err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
