package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/ids"
	"github.com/okian/jury/pkg/metrics"
)

// MemStore is the in-memory Store implementation. Collections are keyed by
// id with insertion order preserved so snapshots are deterministic.
type MemStore struct {
	mu sync.RWMutex

	projects map[string]model.Project
	judges   map[string]model.Judge
	criteria map[string]model.Criterion
	scores   map[string]model.Score

	projectOrder   []string
	judgeOrder     []string
	criterionOrder []string
	scoreOrder     []string

	// scoreByPair maps "projectID/judgeID" to the stored score id, closing
	// the duplicate-score gap: one current score per judge per project no
	// matter what identifier the client submits.
	scoreByPair map[string]string
}

// NewMemStore creates an empty in-memory store.
func NewMemStore(ctx context.Context) *MemStore {
	return &MemStore{
		projects:    make(map[string]model.Project),
		judges:      make(map[string]model.Judge),
		criteria:    make(map[string]model.Criterion),
		scores:      make(map[string]model.Score),
		scoreByPair: make(map[string]string),
	}
}

// Seed loads an initial snapshot, replacing any existing state. Intended for
// process start (preloading a data file) and tests.
func (m *MemStore) Seed(ctx context.Context, snap model.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.projects = make(map[string]model.Project, len(snap.Projects))
	m.judges = make(map[string]model.Judge, len(snap.Judges))
	m.criteria = make(map[string]model.Criterion, len(snap.Criteria))
	m.scores = make(map[string]model.Score, len(snap.Scores))
	m.projectOrder = m.projectOrder[:0]
	m.judgeOrder = m.judgeOrder[:0]
	m.criterionOrder = m.criterionOrder[:0]
	m.scoreOrder = m.scoreOrder[:0]
	m.scoreByPair = make(map[string]string, len(snap.Scores))

	for _, p := range snap.Projects {
		m.projects[p.ID] = p
		m.projectOrder = append(m.projectOrder, p.ID)
	}
	for _, j := range snap.Judges {
		m.judges[j.ID] = j
		m.judgeOrder = append(m.judgeOrder, j.ID)
	}
	for _, c := range snap.Criteria {
		m.criteria[c.ID] = c
		m.criterionOrder = append(m.criterionOrder, c.ID)
	}
	for _, s := range snap.Scores {
		m.scores[s.ID] = s.Clone()
		m.scoreOrder = append(m.scoreOrder, s.ID)
		m.scoreByPair[pairKey(s.ProjectID, s.JudgeID)] = s.ID
	}
	m.updateGauges()
}

// Snapshot returns a deep copy of all four collections.
func (m *MemStore) Snapshot(ctx context.Context) model.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := model.Snapshot{
		Projects: make([]model.Project, 0, len(m.projectOrder)),
		Judges:   make([]model.Judge, 0, len(m.judgeOrder)),
		Criteria: make([]model.Criterion, 0, len(m.criterionOrder)),
		Scores:   make([]model.Score, 0, len(m.scoreOrder)),
	}
	for _, id := range m.projectOrder {
		snap.Projects = append(snap.Projects, m.projects[id])
	}
	for _, id := range m.judgeOrder {
		snap.Judges = append(snap.Judges, m.judges[id])
	}
	for _, id := range m.criterionOrder {
		snap.Criteria = append(snap.Criteria, m.criteria[id])
	}
	for _, id := range m.scoreOrder {
		snap.Scores = append(snap.Scores, m.scores[id])
	}
	return snap.Clone()
}

// CreateProjects creates projects one by one. A validation failure stops the
// batch but already-created items are still returned with the error.
func (m *MemStore) CreateProjects(ctx context.Context, projects []model.Project) ([]model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := make([]model.Project, 0, len(projects))
	for i, p := range projects {
		if strings.TrimSpace(p.Name) == "" {
			m.updateGauges()
			return created, fmt.Errorf("project %d: %w", i, ErrMissingName)
		}
		if strings.TrimSpace(p.Track) == "" {
			m.updateGauges()
			return created, fmt.Errorf("project %d: %w", i, ErrMissingTrack)
		}
		if p.ID == "" {
			p.ID = ids.NewServerID()
		}
		if _, exists := m.projects[p.ID]; !exists {
			m.projectOrder = append(m.projectOrder, p.ID)
		}
		m.projects[p.ID] = p
		created = append(created, p)
	}
	metrics.RecordProjectsCreated(len(created))
	m.updateGauges()
	return created, nil
}

// UpdateProject replaces the stored project.
func (m *MemStore) UpdateProject(ctx context.Context, project model.Project) (model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[project.ID]; !ok {
		return model.Project{}, fmt.Errorf("project %q: %w", project.ID, ErrNotFound)
	}
	m.projects[project.ID] = project
	return project, nil
}

// DeleteProject removes the project and every score referencing it.
func (m *MemStore) DeleteProject(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[id]; !ok {
		return fmt.Errorf("project %q: %w", id, ErrNotFound)
	}
	delete(m.projects, id)
	m.projectOrder = removeID(m.projectOrder, id)
	cascaded := m.removeScoresWhere(func(s model.Score) bool { return s.ProjectID == id })
	metrics.RecordCascadedScores(cascaded)
	m.updateGauges()
	return nil
}

// CreateJudge stores a new judge, minting an identifier when none is given.
func (m *MemStore) CreateJudge(ctx context.Context, judge model.Judge) (model.Judge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if strings.TrimSpace(judge.Name) == "" {
		return model.Judge{}, ErrMissingName
	}
	if judge.ID == "" {
		judge.ID = ids.NewServerID()
	}
	if _, exists := m.judges[judge.ID]; !exists {
		m.judgeOrder = append(m.judgeOrder, judge.ID)
	}
	m.judges[judge.ID] = judge
	metrics.RecordJudgeRegistered()
	m.updateGauges()
	return judge, nil
}

// UpdateJudge replaces the stored judge.
func (m *MemStore) UpdateJudge(ctx context.Context, judge model.Judge) (model.Judge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.judges[judge.ID]; !ok {
		return model.Judge{}, fmt.Errorf("judge %q: %w", judge.ID, ErrNotFound)
	}
	m.judges[judge.ID] = judge
	return judge, nil
}

// DeleteJudge removes the judge and every score by that judge.
func (m *MemStore) DeleteJudge(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.judges[id]; !ok {
		return fmt.Errorf("judge %q: %w", id, ErrNotFound)
	}
	delete(m.judges, id)
	m.judgeOrder = removeID(m.judgeOrder, id)
	cascaded := m.removeScoresWhere(func(s model.Score) bool { return s.JudgeID == id })
	metrics.RecordCascadedScores(cascaded)
	m.updateGauges()
	return nil
}

// CreateCriterion stores a new criterion.
func (m *MemStore) CreateCriterion(ctx context.Context, criterion model.Criterion) (model.Criterion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if strings.TrimSpace(criterion.Name) == "" {
		return model.Criterion{}, ErrMissingName
	}
	if criterion.ID == "" {
		criterion.ID = ids.NewServerID()
	}
	if _, exists := m.criteria[criterion.ID]; !exists {
		m.criterionOrder = append(m.criterionOrder, criterion.ID)
	}
	m.criteria[criterion.ID] = criterion
	m.updateGauges()
	return criterion, nil
}

// UpdateCriterion replaces the stored criterion.
func (m *MemStore) UpdateCriterion(ctx context.Context, criterion model.Criterion) (model.Criterion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.criteria[criterion.ID]; !ok {
		return model.Criterion{}, fmt.Errorf("criterion %q: %w", criterion.ID, ErrNotFound)
	}
	m.criteria[criterion.ID] = criterion
	return criterion, nil
}

// DeleteCriterion removes the criterion. Recorded scores keep their rating
// entries; the scoring engine skips dangling references.
func (m *MemStore) DeleteCriterion(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.criteria[id]; !ok {
		return fmt.Errorf("criterion %q: %w", id, ErrNotFound)
	}
	delete(m.criteria, id)
	m.criterionOrder = removeID(m.criterionOrder, id)
	m.updateGauges()
	return nil
}

// UpsertScore stores the score, enforcing one current score per
// (project, judge) pair.
func (m *MemStore) UpsertScore(ctx context.Context, score model.Score) (model.Score, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if score.ProjectID == "" || score.JudgeID == "" {
		return model.Score{}, ErrMissingRef
	}
	if _, ok := m.projects[score.ProjectID]; !ok {
		return model.Score{}, fmt.Errorf("project %q: %w", score.ProjectID, ErrUnknownProject)
	}
	if _, ok := m.judges[score.JudgeID]; !ok {
		return model.Score{}, fmt.Errorf("judge %q: %w", score.JudgeID, ErrUnknownJudge)
	}

	key := pairKey(score.ProjectID, score.JudgeID)
	if existingID, ok := m.scoreByPair[key]; ok {
		// Re-submission for the pair overwrites, keeping the stored id
		// stable even when the client minted a fresh one.
		score.ID = existingID
		m.scores[existingID] = score.Clone()
		metrics.RecordScoreUpserted()
		m.updateGauges()
		return score, nil
	}

	if score.ID == "" {
		score.ID = ids.NewServerID()
	}
	m.scores[score.ID] = score.Clone()
	m.scoreOrder = append(m.scoreOrder, score.ID)
	m.scoreByPair[key] = score.ID
	metrics.RecordScoreUpserted()
	m.updateGauges()
	return score, nil
}

// DeleteScore removes a single score.
func (m *MemStore) DeleteScore(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.scores[id]
	if !ok {
		return fmt.Errorf("score %q: %w", id, ErrNotFound)
	}
	delete(m.scores, id)
	m.scoreOrder = removeID(m.scoreOrder, id)
	delete(m.scoreByPair, pairKey(s.ProjectID, s.JudgeID))
	metrics.RecordScoreDeleted()
	m.updateGauges()
	return nil
}

// Counts reports the current collection sizes.
func (m *MemStore) Counts(ctx context.Context) (projects, judges, criteria, scores int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.projects), len(m.judges), len(m.criteria), len(m.scores)
}

// removeScoresWhere deletes every score matching the predicate and returns
// how many were removed. Caller must hold the write lock.
func (m *MemStore) removeScoresWhere(match func(model.Score) bool) int {
	removed := 0
	kept := m.scoreOrder[:0]
	for _, id := range m.scoreOrder {
		s := m.scores[id]
		if match(s) {
			delete(m.scores, id)
			delete(m.scoreByPair, pairKey(s.ProjectID, s.JudgeID))
			removed++
			continue
		}
		kept = append(kept, id)
	}
	m.scoreOrder = kept
	return removed
}

// updateGauges refreshes the entity-count gauges. Caller must hold a lock.
func (m *MemStore) updateGauges() {
	metrics.UpdateEntityCounts(len(m.projects), len(m.judges), len(m.criteria), len(m.scores))
}

func pairKey(projectID, judgeID string) string {
	return projectID + "/" + judgeID
}

func removeID(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
