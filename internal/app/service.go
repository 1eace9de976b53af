// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/okian/jury/internal/adapters/repository"
	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/domain/scoring"
	"github.com/okian/jury/pkg/logger"
)

// Service implements the API dependencies for the evaluation system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store *repository.MemStore

	// Configuration
	dataFile string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithDataFile sets a JSON snapshot file to preload on start.
func WithDataFile(path string) Option {
	return func(s *Service) {
		s.dataFile = path
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		logger: nil, // Will be replaced when service starts
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting evaluation service...")

	s.store = repository.NewMemStore(ctx)

	if s.dataFile != "" {
		snap, err := readSnapshotFile(s.dataFile)
		if err != nil {
			return fmt.Errorf("preload data file: %w", err)
		}
		s.store.Seed(ctx, snap)
		s.logger.Info(ctx, "preloaded snapshot",
			logger.String("file", s.dataFile),
			logger.Int("projects", len(snap.Projects)),
			logger.Int("judges", len(snap.Judges)),
			logger.Int("criteria", len(snap.Criteria)),
			logger.Int("scores", len(snap.Scores)),
		)
	}

	s.started = true
	s.logger.Info(ctx, "evaluation service started")
	return nil
}

// Stop shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "evaluation service stopped")
}

// readSnapshotFile parses a JSON snapshot from disk.
func readSnapshotFile(path string) (model.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("read %s: %w", path, err)
	}
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return snap, nil
}

// Snapshot returns a deep copy of all four collections.
func (s *Service) Snapshot(ctx context.Context) model.Snapshot {
	return s.store.Snapshot(ctx)
}

// CreateProjects batch-creates projects.
func (s *Service) CreateProjects(ctx context.Context, projects []model.Project) ([]model.Project, error) {
	created, err := s.store.CreateProjects(ctx, projects)
	if err != nil {
		s.logger.Warn(ctx, "project batch create failed",
			logger.Int("created", len(created)), logger.Error(err))
		return created, err
	}
	s.logger.Debug(ctx, "projects created", logger.Int("count", len(created)))
	return created, nil
}

// UpdateProject replaces a project.
func (s *Service) UpdateProject(ctx context.Context, project model.Project) (model.Project, error) {
	return s.store.UpdateProject(ctx, project)
}

// DeleteProject removes a project and its scores.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	return s.store.DeleteProject(ctx, id)
}

// CreateJudge stores a new judge.
func (s *Service) CreateJudge(ctx context.Context, judge model.Judge) (model.Judge, error) {
	return s.store.CreateJudge(ctx, judge)
}

// UpdateJudge replaces a judge.
func (s *Service) UpdateJudge(ctx context.Context, judge model.Judge) (model.Judge, error) {
	return s.store.UpdateJudge(ctx, judge)
}

// DeleteJudge removes a judge and their scores.
func (s *Service) DeleteJudge(ctx context.Context, id string) error {
	return s.store.DeleteJudge(ctx, id)
}

// CreateCriterion stores a new criterion.
func (s *Service) CreateCriterion(ctx context.Context, criterion model.Criterion) (model.Criterion, error) {
	return s.store.CreateCriterion(ctx, criterion)
}

// UpdateCriterion replaces a criterion.
func (s *Service) UpdateCriterion(ctx context.Context, criterion model.Criterion) (model.Criterion, error) {
	return s.store.UpdateCriterion(ctx, criterion)
}

// DeleteCriterion removes a criterion.
func (s *Service) DeleteCriterion(ctx context.Context, id string) error {
	return s.store.DeleteCriterion(ctx, id)
}

// UpsertScore stores one score per (project, judge) pair.
func (s *Service) UpsertScore(ctx context.Context, score model.Score) (model.Score, error) {
	stored, err := s.store.UpsertScore(ctx, score)
	if err != nil {
		return model.Score{}, err
	}
	s.logger.Debug(ctx, "score upserted",
		logger.String("id", stored.ID),
		logger.String("project", stored.ProjectID),
		logger.String("judge", stored.JudgeID),
	)
	return stored, nil
}

// DeleteScore removes a single score.
func (s *Service) DeleteScore(ctx context.Context, id string) error {
	return s.store.DeleteScore(ctx, id)
}

// Counts reports the current collection sizes.
func (s *Service) Counts(ctx context.Context) (projects, judges, criteria, scores int) {
	return s.store.Counts(ctx)
}

// Results aggregates every project in the store, best first.
func (s *Service) Results(ctx context.Context) []scoring.ProjectAggregate {
	snap := s.store.Snapshot(ctx)
	return scoring.Rankings(snap.Projects, snap.Scores, snap.Criteria)
}

// ProjectResult aggregates a single project. Returns ErrNotFound for an
// unknown project id; a known project with no scores aggregates to a
// "not yet scored" result.
func (s *Service) ProjectResult(ctx context.Context, projectID string) (scoring.ProjectAggregate, error) {
	snap := s.store.Snapshot(ctx)
	for _, p := range snap.Projects {
		if p.ID == projectID {
			return scoring.AggregateProject(projectID, snap.Scores, snap.Criteria), nil
		}
	}
	return scoring.ProjectAggregate{}, fmt.Errorf("project %q: %w", projectID, repository.ErrNotFound)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
	}
	if s.started {
		projects, judges, criteria, scores := s.store.Counts(context.Background())
		stats["projects"] = projects
		stats["judges"] = judges
		stats["criteria"] = criteria
		stats["scores"] = scores
	}
	return stats
}
