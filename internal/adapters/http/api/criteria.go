// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/jury/internal/domain/model"
)

// CriterionDependencies defines the interface for criterion handlers.
type CriterionDependencies interface {
	CreateCriterion(ctx context.Context, criterion model.Criterion) (model.Criterion, error)
	UpdateCriterion(ctx context.Context, criterion model.Criterion) (model.Criterion, error)
	DeleteCriterion(ctx context.Context, id string) error
}

// CriteriaHandler handles criterion requests.
type CriteriaHandler struct {
	deps CriterionDependencies
}

// NewCriteriaHandler creates a new criteria handler.
func NewCriteriaHandler(deps CriterionDependencies) *CriteriaHandler {
	return &CriteriaHandler{deps: deps}
}

// HandleCollection handles POST /criteria requests.
func (h *CriteriaHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_criterion"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req model.Criterion
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	created, err := h.deps.CreateCriterion(r.Context(), req)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleItem handles PUT and DELETE /criteria/{id} requests. Deleting a
// criterion never rewrites recorded scores; the aggregation side skips
// dangling references.
func (h *CriteriaHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.criterion_item"
	id := itemID(r.URL.Path, "/criteria/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	switch r.Method {
	case http.MethodPut:
		var req model.Criterion
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		req.ID = id
		updated, err := h.deps.UpdateCriterion(r.Context(), req)
		if err != nil {
			writeStoreError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := h.deps.DeleteCriterion(r.Context(), id); err != nil {
			writeStoreError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, successResponse{Success: true})
	default:
		http.NotFound(w, r)
	}
}
