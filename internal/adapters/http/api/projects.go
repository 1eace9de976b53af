// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/jury/internal/domain/model"
)

// ProjectDependencies defines the interface for project handlers.
type ProjectDependencies interface {
	CreateProjects(ctx context.Context, projects []model.Project) ([]model.Project, error)
	UpdateProject(ctx context.Context, project model.Project) (model.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// ProjectsHandler handles project requests.
type ProjectsHandler struct {
	deps     ProjectDependencies
	maxBatch int
}

// NewProjectsHandler creates a new projects handler.
func NewProjectsHandler(deps ProjectDependencies, maxBatch int) *ProjectsHandler {
	return &ProjectsHandler{deps: deps, maxBatch: maxBatch}
}

// HandleCollection handles POST /projects requests. The body is an array so
// administrators can batch-create; partial success returns the created items
// alongside a 207-style error payload.
func (h *ProjectsHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_projects"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req []model.Project
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if h.maxBatch > 0 && len(req) > h.maxBatch {
		writeError(w, http.StatusBadRequest, "batch_too_large", NewKind(op, ErrBadRequest))
		return
	}
	created, err := h.deps.CreateProjects(r.Context(), req)
	if err != nil {
		if len(created) > 0 {
			// Partial success: the created items are still returned.
			writeJSON(w, http.StatusMultiStatus, struct {
				Created []model.Project `json:"created"`
				Error   errorResponse   `json:"error"`
			}{Created: created, Error: errorResponse{Code: "partial_failure", Message: err.Error()}})
			return
		}
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleItem handles PUT and DELETE /projects/{id} requests.
func (h *ProjectsHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.project_item"
	id := itemID(r.URL.Path, "/projects/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	switch r.Method {
	case http.MethodPut:
		var req model.Project
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		req.ID = id
		updated, err := h.deps.UpdateProject(r.Context(), req)
		if err != nil {
			writeStoreError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := h.deps.DeleteProject(r.Context(), id); err != nil {
			writeStoreError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, successResponse{Success: true})
	default:
		http.NotFound(w, r)
	}
}
