// Package local implements the persistence gateway on top of a single JSON
// file, the fallback store used when the remote API is unreachable. The
// whole four-collection snapshot lives under one well-known path, is read
// lazily on first access, and is rewritten in full on every mutation.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/gateway"
	"github.com/okian/jury/internal/ids"
	"github.com/okian/jury/pkg/logger"
)

// DefaultPath is the well-known snapshot location relative to the working
// directory.
const DefaultPath = "jury-local.json"

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithLogger sets a custom logger for the store.
func WithLogger(log logger.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// Store is the file-backed Gateway implementation. It keeps insertion order
// inside each collection so snapshot reads are deterministic.
type Store struct {
	mu     sync.Mutex
	path   string
	loaded bool
	snap   model.Snapshot
	log    logger.Logger
}

var _ gateway.Gateway = (*Store)(nil)

// NewStore creates a file-backed store at path. The file is not touched
// until the first access.
func NewStore(path string, opts ...Option) *Store {
	if path == "" {
		path = DefaultPath
	}
	s := &Store{path: path}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	return s
}

// load reads the snapshot file once. A missing or corrupt file is logged and
// treated as "no prior state". Caller must hold the lock.
func (s *Store) load(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn(ctx, "local snapshot unreadable; starting fresh",
				logger.String("path", s.path), logger.Error(err))
		}
		return
	}
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.log.Warn(ctx, "local snapshot corrupt; starting fresh",
			logger.String("path", s.path), logger.Error(err))
		return
	}
	s.snap = snap
}

// persist rewrites the snapshot file in full. Caller must hold the lock.
func (s *Store) persist(ctx context.Context) error {
	data, err := json.MarshalIndent(s.snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal local snapshot: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create local snapshot dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write local snapshot: %w", err)
	}
	return nil
}

// Seed replaces the persisted snapshot wholesale. The session controller
// uses it to hand the last-known remote state to the fallback store when the
// session degrades mid-flight.
func (s *Store) Seed(ctx context.Context, snap model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	s.snap = snap.Clone()
	return s.persist(ctx)
}

// GetAll returns a deep copy of the persisted snapshot.
func (s *Store) GetAll(ctx context.Context) (model.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)
	return s.snap.Clone(), nil
}

// CreateProjects appends projects, minting local-namespace ids as needed.
func (s *Store) CreateProjects(ctx context.Context, projects []model.Project) ([]model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)

	created := make([]model.Project, 0, len(projects))
	for i, p := range projects {
		if strings.TrimSpace(p.Name) == "" {
			return created, fmt.Errorf("project %d: missing name", i)
		}
		if p.ID == "" {
			p.ID = ids.NewLocalID()
		}
		s.snap.Projects = append(s.snap.Projects, p)
		created = append(created, p)
	}
	if err := s.persist(ctx); err != nil {
		return created, err
	}
	return created, nil
}

// UpdateProject replaces the stored project in place.
func (s *Store) UpdateProject(ctx context.Context, project model.Project) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)

	for i, p := range s.snap.Projects {
		if p.ID == project.ID {
			s.snap.Projects[i] = project
			return project, s.persist(ctx)
		}
	}
	return model.Project{}, fmt.Errorf("project %q: %w", project.ID, gateway.ErrNotFound)
}

// DeleteProject removes the project and cascades to its scores.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)

	idx := -1
	for i, p := range s.snap.Projects {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("project %q: %w", id, gateway.ErrNotFound)
	}
	s.snap.Projects = append(s.snap.Projects[:idx], s.snap.Projects[idx+1:]...)
	s.snap.Scores = filterScores(s.snap.Scores, func(sc model.Score) bool { return sc.ProjectID != id })
	return s.persist(ctx)
}

// CreateJudge appends a judge, minting a local-namespace id as needed.
func (s *Store) CreateJudge(ctx context.Context, judge model.Judge) (model.Judge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)

	if strings.TrimSpace(judge.Name) == "" {
		return model.Judge{}, fmt.Errorf("judge: missing name")
	}
	if judge.ID == "" {
		judge.ID = ids.NewLocalID()
	}
	s.snap.Judges = append(s.snap.Judges, judge)
	return judge, s.persist(ctx)
}

// UpdateJudge replaces the stored judge in place.
func (s *Store) UpdateJudge(ctx context.Context, judge model.Judge) (model.Judge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)

	for i, j := range s.snap.Judges {
		if j.ID == judge.ID {
			s.snap.Judges[i] = judge
			return judge, s.persist(ctx)
		}
	}
	return model.Judge{}, fmt.Errorf("judge %q: %w", judge.ID, gateway.ErrNotFound)
}

// DeleteJudge removes the judge and cascades to their scores.
func (s *Store) DeleteJudge(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)

	idx := -1
	for i, j := range s.snap.Judges {
		if j.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("judge %q: %w", id, gateway.ErrNotFound)
	}
	s.snap.Judges = append(s.snap.Judges[:idx], s.snap.Judges[idx+1:]...)
	s.snap.Scores = filterScores(s.snap.Scores, func(sc model.Score) bool { return sc.JudgeID != id })
	return s.persist(ctx)
}

// CreateCriterion appends a criterion, minting a local-namespace id as needed.
func (s *Store) CreateCriterion(ctx context.Context, criterion model.Criterion) (model.Criterion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)

	if strings.TrimSpace(criterion.Name) == "" {
		return model.Criterion{}, fmt.Errorf("criterion: missing name")
	}
	if criterion.ID == "" {
		criterion.ID = ids.NewLocalID()
	}
	s.snap.Criteria = append(s.snap.Criteria, criterion)
	return criterion, s.persist(ctx)
}

// UpdateCriterion replaces the stored criterion in place.
func (s *Store) UpdateCriterion(ctx context.Context, criterion model.Criterion) (model.Criterion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)

	for i, c := range s.snap.Criteria {
		if c.ID == criterion.ID {
			s.snap.Criteria[i] = criterion
			return criterion, s.persist(ctx)
		}
	}
	return model.Criterion{}, fmt.Errorf("criterion %q: %w", criterion.ID, gateway.ErrNotFound)
}

// DeleteCriterion removes the criterion. Recorded scores are untouched.
func (s *Store) DeleteCriterion(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)

	for i, c := range s.snap.Criteria {
		if c.ID == id {
			s.snap.Criteria = append(s.snap.Criteria[:i], s.snap.Criteria[i+1:]...)
			return s.persist(ctx)
		}
	}
	return fmt.Errorf("criterion %q: %w", id, gateway.ErrNotFound)
}

// UpsertScore stores the score with the same pair semantics as the remote
// store: one current score per (project, judge), first-stored id kept.
func (s *Store) UpsertScore(ctx context.Context, score model.Score) (model.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)

	if score.ProjectID == "" || score.JudgeID == "" {
		return model.Score{}, fmt.Errorf("score: missing project or judge reference")
	}
	for i, sc := range s.snap.Scores {
		if sc.ID == score.ID || (sc.ProjectID == score.ProjectID && sc.JudgeID == score.JudgeID) {
			score.ID = sc.ID
			s.snap.Scores[i] = score.Clone()
			return score, s.persist(ctx)
		}
	}
	if score.ID == "" {
		score.ID = ids.NewLocalID()
	}
	s.snap.Scores = append(s.snap.Scores, score.Clone())
	return score, s.persist(ctx)
}

// DeleteScore removes a single score.
func (s *Store) DeleteScore(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)

	for i, sc := range s.snap.Scores {
		if sc.ID == id {
			s.snap.Scores = append(s.snap.Scores[:i], s.snap.Scores[i+1:]...)
			return s.persist(ctx)
		}
	}
	return fmt.Errorf("score %q: %w", id, gateway.ErrNotFound)
}

func filterScores(scores []model.Score, keep func(model.Score) bool) []model.Score {
	out := scores[:0]
	for _, sc := range scores {
		if keep(sc) {
			out = append(out, sc)
		}
	}
	return out
}
