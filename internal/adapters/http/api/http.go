// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/jury/internal/adapters/repository"
	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/domain/scoring"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	repository.Store

	// Results expose aggregate read views computed by the scoring engine.
	Results(ctx context.Context) []scoring.ProjectAggregate
	ProjectResult(ctx context.Context, projectID string) (scoring.ProjectAggregate, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	dataHandler     *DataHandler
	projectsHandler *ProjectsHandler
	judgesHandler   *JudgesHandler
	criteriaHandler *CriteriaHandler
	scoresHandler   *ScoresHandler
	resultsHandler  *ResultsHandler
}

// NewServer creates a new API server with all handlers. maxBatch caps the
// number of projects accepted by one batch-create call.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxBatch int) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		dataHandler:     NewDataHandler(deps),
		projectsHandler: NewProjectsHandler(deps, maxBatch),
		judgesHandler:   NewJudgesHandler(deps),
		criteriaHandler: NewCriteriaHandler(deps),
		scoresHandler:   NewScoresHandler(deps),
		resultsHandler:  NewResultsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/data", MetricsMiddleware(s.dataHandler.HandleGetData, "data"))
	mux.HandleFunc("/projects", MetricsMiddleware(s.projectsHandler.HandleCollection, "projects"))
	mux.HandleFunc("/projects/", MetricsMiddleware(s.projectsHandler.HandleItem, "projects"))
	mux.HandleFunc("/judges", MetricsMiddleware(s.judgesHandler.HandleCollection, "judges"))
	mux.HandleFunc("/judges/", MetricsMiddleware(s.judgesHandler.HandleItem, "judges"))
	mux.HandleFunc("/criteria", MetricsMiddleware(s.criteriaHandler.HandleCollection, "criteria"))
	mux.HandleFunc("/criteria/", MetricsMiddleware(s.criteriaHandler.HandleItem, "criteria"))
	mux.HandleFunc("/scores", MetricsMiddleware(s.scoresHandler.HandleCollection, "scores"))
	mux.HandleFunc("/scores/", MetricsMiddleware(s.scoresHandler.HandleItem, "scores"))
	mux.HandleFunc("/results", MetricsMiddleware(s.resultsHandler.HandleGetResults, "results"))
	mux.HandleFunc("/results/", MetricsMiddleware(s.resultsHandler.HandleGetProjectResult, "results"))
}

type successResponse struct {
	Success bool `json:"success"`
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

// writeStoreError translates store errors to status codes.
func writeStoreError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
		return
	}
	writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
}

// itemID extracts the trailing identifier from a prefixed path like
// /projects/{id}. Empty when the path has no id segment.
func itemID(path, prefix string) string {
	if len(path) <= len(prefix) {
		return ""
	}
	return path[len(prefix):]
}

// DataHandler serves the full-snapshot load.
type DataHandler struct {
	deps Dependencies
}

// NewDataHandler creates a new data handler.
func NewDataHandler(deps Dependencies) *DataHandler {
	return &DataHandler{deps: deps}
}

// HandleGetData handles GET /data requests, returning all four collections
// in one call.
func (h *DataHandler) HandleGetData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	snap := h.deps.Snapshot(r.Context())
	writeJSON(w, http.StatusOK, normalizeSnapshot(snap))
}

// normalizeSnapshot replaces nil collections with empty slices so the JSON
// body always carries four arrays.
func normalizeSnapshot(snap model.Snapshot) model.Snapshot {
	if snap.Projects == nil {
		snap.Projects = []model.Project{}
	}
	if snap.Judges == nil {
		snap.Judges = []model.Judge{}
	}
	if snap.Criteria == nil {
		snap.Criteria = []model.Criterion{}
	}
	if snap.Scores == nil {
		snap.Scores = []model.Score{}
	}
	return snap
}
