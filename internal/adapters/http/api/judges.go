// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/jury/internal/domain/model"
)

// JudgeDependencies defines the interface for judge handlers.
type JudgeDependencies interface {
	CreateJudge(ctx context.Context, judge model.Judge) (model.Judge, error)
	UpdateJudge(ctx context.Context, judge model.Judge) (model.Judge, error)
	DeleteJudge(ctx context.Context, id string) error
}

// JudgesHandler handles judge requests.
type JudgesHandler struct {
	deps JudgeDependencies
}

// NewJudgesHandler creates a new judges handler.
func NewJudgesHandler(deps JudgeDependencies) *JudgesHandler {
	return &JudgesHandler{deps: deps}
}

// HandleCollection handles POST /judges requests. Both admin creation and
// judge self-registration land here.
func (h *JudgesHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_judge"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req model.Judge
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	created, err := h.deps.CreateJudge(r.Context(), req)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleItem handles PUT and DELETE /judges/{id} requests.
func (h *JudgesHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.judge_item"
	id := itemID(r.URL.Path, "/judges/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	switch r.Method {
	case http.MethodPut:
		var req model.Judge
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		req.ID = id
		updated, err := h.deps.UpdateJudge(r.Context(), req)
		if err != nil {
			writeStoreError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := h.deps.DeleteJudge(r.Context(), id); err != nil {
			writeStoreError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, successResponse{Success: true})
	default:
		http.NotFound(w, r)
	}
}
