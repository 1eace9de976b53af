// Package session maintains a consistent in-memory snapshot of the four
// entity collections, mediates every mutation through the persistence
// gateway, and transparently falls back to the local store when the remote
// store becomes unreachable.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/domain/scoring"
	"github.com/okian/jury/internal/domain/visibility"
	"github.com/okian/jury/internal/gateway"
	"github.com/okian/jury/pkg/logger"
	"github.com/okian/jury/pkg/metrics"
)

// Mode is the connectivity state of the session.
type Mode int

// Session modes. Connecting is the initial state; a session that has fallen
// Offline stays Offline until a fresh Load (new session).
const (
	Connecting Mode = iota
	Online
	Offline
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case Connecting:
		return "connecting"
	case Online:
		return "online"
	case Offline:
		return "offline"
	default:
		return "unknown"
	}
}

// FallbackStore is the local gateway plus the ability to seed it with the
// last-known remote snapshot when the session degrades mid-flight.
type FallbackStore interface {
	gateway.Gateway
	Seed(ctx context.Context, snap model.Snapshot) error
}

// Confirmation is the affirmative-confirmation token required by every
// destructive operation. It can only be produced by Confirm, so no delete
// reaches a gateway without the caller having explicitly confirmed.
type Confirmation struct {
	confirmed bool
}

// Confirm records the user's affirmative confirmation of a destructive
// operation.
func Confirm() Confirmation {
	return Confirmation{confirmed: true}
}

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithRemote sets the remote gateway.
func WithRemote(g gateway.Gateway) Option {
	return func(c *Controller) {
		if g != nil {
			c.remote = g
		}
	}
}

// WithFallback sets the local fallback store.
func WithFallback(f FallbackStore) Option {
	return func(c *Controller) {
		if f != nil {
			c.fallback = f
		}
	}
}

// WithLogger sets a custom logger for the controller.
func WithLogger(log logger.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithNotice sets the callback invoked with the user-visible banner text
// when the session degrades to fallback mode.
func WithNotice(notice func(msg string)) Option {
	return func(c *Controller) {
		if notice != nil {
			c.notice = notice
		}
	}
}

// Controller owns the in-memory snapshot exclusively. Mutations are
// serialized by a mutex: each runs to completion, apply-or-reject, before
// the next is accepted. In-flight mutations cannot be cancelled beyond what
// the underlying transport enforces.
type Controller struct {
	mu sync.Mutex

	remote   gateway.Gateway
	fallback FallbackStore
	log      logger.Logger
	notice   func(msg string)

	mode     Mode
	snap     model.Snapshot
	unsynced int
	judgeID  string
}

// New constructs a Controller in the Connecting state. Load must be called
// before any other operation.
func New(opts ...Option) *Controller {
	c := &Controller{
		mode:   Connecting,
		notice: func(string) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get()
	}
	return c
}

// Load performs the initial snapshot fetch. On remote success the session is
// Online; on transport failure it starts Offline seeded from the local
// store. Re-entering Online after a fallback requires a fresh Load, which is
// the session-lifecycle equivalent of a page refresh.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.remote != nil {
		snap, err := c.remote.GetAll(ctx)
		if err == nil {
			c.snap = snap
			c.mode = Online
			c.unsynced = 0
			c.log.Info(ctx, "session online",
				logger.Int("projects", len(snap.Projects)),
				logger.Int("judges", len(snap.Judges)),
				logger.Int("scores", len(snap.Scores)),
			)
			return nil
		}
		if !errors.Is(err, gateway.ErrUnavailable) {
			return err
		}
		c.log.Warn(ctx, "remote store unreachable on load", logger.Error(err))
	}

	if c.fallback == nil {
		return ErrNoStore
	}
	snap, err := c.fallback.GetAll(ctx)
	if err != nil {
		return err
	}
	c.snap = snap
	c.mode = Offline
	c.notice("working offline: changes are saved locally and will not sync")
	c.log.Warn(ctx, "session offline from the start",
		logger.Int("projects", len(snap.Projects)),
	)
	return nil
}

// Mode returns the current session mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Unsynced returns how many mutations have been applied only locally.
func (c *Controller) Unsynced() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unsynced
}

// Snapshot returns a deep copy of the current in-memory snapshot.
func (c *Controller) Snapshot() model.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.Clone()
}

// fallbackFrom degrades the session after a transport failure. The local
// store is seeded with the last-known snapshot so subsequent offline
// mutations operate on consistent state. Caller must hold the lock.
func (c *Controller) fallbackFrom(ctx context.Context, cause error) error {
	if c.fallback == nil {
		return cause
	}
	if err := c.fallback.Seed(ctx, c.snap); err != nil {
		c.log.Error(ctx, "failed to seed fallback store", logger.Error(err))
		return cause
	}
	c.mode = Offline
	metrics.RecordFallbackTransition()
	c.notice("connection lost: changes are saved locally and will not sync")
	c.log.Warn(ctx, "session degraded to offline mode", logger.Error(cause))
	return nil
}

// refreshFromFallback replaces the in-memory snapshot with the local store's
// state after an offline mutation. Caller must hold the lock.
func (c *Controller) refreshFromFallback(ctx context.Context) error {
	snap, err := c.fallback.GetAll(ctx)
	if err != nil {
		return err
	}
	c.snap = snap
	c.unsynced++
	metrics.RecordOfflineMutation()
	return nil
}

// CreateProjects batch-creates projects. Online, the snapshot is updated
// only after the remote store confirms; a transport failure degrades the
// session and re-applies the batch locally so the edit is not lost.
func (c *Controller) CreateProjects(ctx context.Context, projects []model.Project) ([]model.Project, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == Online {
		created, err := c.remote.CreateProjects(ctx, projects)
		if err == nil || !errors.Is(err, gateway.ErrUnavailable) {
			c.snap.Projects = append(c.snap.Projects, created...)
			return created, err
		}
		if ferr := c.fallbackFrom(ctx, err); ferr != nil {
			return nil, ferr
		}
	}

	created, err := c.fallback.CreateProjects(ctx, projects)
	if err != nil {
		return created, err
	}
	return created, c.refreshFromFallback(ctx)
}

// UpdateProject replaces a project.
func (c *Controller) UpdateProject(ctx context.Context, project model.Project) (model.Project, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == Online {
		updated, err := c.remote.UpdateProject(ctx, project)
		if err == nil {
			c.applyProjectUpdate(updated)
			return updated, nil
		}
		if !errors.Is(err, gateway.ErrUnavailable) {
			return model.Project{}, err
		}
		if ferr := c.fallbackFrom(ctx, err); ferr != nil {
			return model.Project{}, ferr
		}
	}

	updated, err := c.fallback.UpdateProject(ctx, project)
	if err != nil {
		return model.Project{}, err
	}
	return updated, c.refreshFromFallback(ctx)
}

// DeleteProject removes a project and cascades to its scores. The
// confirmation token is mandatory.
func (c *Controller) DeleteProject(ctx context.Context, confirm Confirmation, id string) error {
	if !confirm.confirmed {
		return ErrNotConfirmed
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == Online {
		err := c.remote.DeleteProject(ctx, id)
		if err == nil {
			c.applyProjectDelete(id)
			return nil
		}
		if !errors.Is(err, gateway.ErrUnavailable) {
			return err
		}
		if ferr := c.fallbackFrom(ctx, err); ferr != nil {
			return ferr
		}
	}

	if err := c.fallback.DeleteProject(ctx, id); err != nil {
		return err
	}
	return c.refreshFromFallback(ctx)
}

// CreateJudge creates a judge (admin path; judge self-registration goes
// through RegisterJudge).
func (c *Controller) CreateJudge(ctx context.Context, judge model.Judge) (model.Judge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.createJudgeLocked(ctx, judge)
}

func (c *Controller) createJudgeLocked(ctx context.Context, judge model.Judge) (model.Judge, error) {
	if c.mode == Online {
		created, err := c.remote.CreateJudge(ctx, judge)
		if err == nil {
			c.snap.Judges = append(c.snap.Judges, created)
			return created, nil
		}
		if !errors.Is(err, gateway.ErrUnavailable) {
			return model.Judge{}, err
		}
		if ferr := c.fallbackFrom(ctx, err); ferr != nil {
			return model.Judge{}, ferr
		}
	}

	created, err := c.fallback.CreateJudge(ctx, judge)
	if err != nil {
		return model.Judge{}, err
	}
	return created, c.refreshFromFallback(ctx)
}

// UpdateJudge replaces a judge.
func (c *Controller) UpdateJudge(ctx context.Context, judge model.Judge) (model.Judge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == Online {
		updated, err := c.remote.UpdateJudge(ctx, judge)
		if err == nil {
			c.applyJudgeUpdate(updated)
			return updated, nil
		}
		if !errors.Is(err, gateway.ErrUnavailable) {
			return model.Judge{}, err
		}
		if ferr := c.fallbackFrom(ctx, err); ferr != nil {
			return model.Judge{}, ferr
		}
	}

	updated, err := c.fallback.UpdateJudge(ctx, judge)
	if err != nil {
		return model.Judge{}, err
	}
	return updated, c.refreshFromFallback(ctx)
}

// DeleteJudge removes a judge and cascades to their scores. The confirmation
// token is mandatory.
func (c *Controller) DeleteJudge(ctx context.Context, confirm Confirmation, id string) error {
	if !confirm.confirmed {
		return ErrNotConfirmed
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == Online {
		err := c.remote.DeleteJudge(ctx, id)
		if err == nil {
			c.applyJudgeDelete(id)
			return nil
		}
		if !errors.Is(err, gateway.ErrUnavailable) {
			return err
		}
		if ferr := c.fallbackFrom(ctx, err); ferr != nil {
			return ferr
		}
	}

	if err := c.fallback.DeleteJudge(ctx, id); err != nil {
		return err
	}
	return c.refreshFromFallback(ctx)
}

// CreateCriterion creates a criterion.
func (c *Controller) CreateCriterion(ctx context.Context, criterion model.Criterion) (model.Criterion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == Online {
		created, err := c.remote.CreateCriterion(ctx, criterion)
		if err == nil {
			c.snap.Criteria = append(c.snap.Criteria, created)
			return created, nil
		}
		if !errors.Is(err, gateway.ErrUnavailable) {
			return model.Criterion{}, err
		}
		if ferr := c.fallbackFrom(ctx, err); ferr != nil {
			return model.Criterion{}, ferr
		}
	}

	created, err := c.fallback.CreateCriterion(ctx, criterion)
	if err != nil {
		return model.Criterion{}, err
	}
	return created, c.refreshFromFallback(ctx)
}

// UpdateCriterion replaces a criterion.
func (c *Controller) UpdateCriterion(ctx context.Context, criterion model.Criterion) (model.Criterion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == Online {
		updated, err := c.remote.UpdateCriterion(ctx, criterion)
		if err == nil {
			c.applyCriterionUpdate(updated)
			return updated, nil
		}
		if !errors.Is(err, gateway.ErrUnavailable) {
			return model.Criterion{}, err
		}
		if ferr := c.fallbackFrom(ctx, err); ferr != nil {
			return model.Criterion{}, ferr
		}
	}

	updated, err := c.fallback.UpdateCriterion(ctx, criterion)
	if err != nil {
		return model.Criterion{}, err
	}
	return updated, c.refreshFromFallback(ctx)
}

// DeleteCriterion removes a criterion; recorded scores keep their dangling
// rating entries. The confirmation token is mandatory.
func (c *Controller) DeleteCriterion(ctx context.Context, confirm Confirmation, id string) error {
	if !confirm.confirmed {
		return ErrNotConfirmed
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == Online {
		err := c.remote.DeleteCriterion(ctx, id)
		if err == nil {
			c.applyCriterionDelete(id)
			return nil
		}
		if !errors.Is(err, gateway.ErrUnavailable) {
			return err
		}
		if ferr := c.fallbackFrom(ctx, err); ferr != nil {
			return ferr
		}
	}

	if err := c.fallback.DeleteCriterion(ctx, id); err != nil {
		return err
	}
	return c.refreshFromFallback(ctx)
}

// SubmitScore upserts the bound judge's score for a project. When the judge
// already scored the project, the existing identifier is reused so
// re-submission overwrites rather than duplicates.
func (c *Controller) SubmitScore(ctx context.Context, projectID string, ratings map[string]float64, juryTRL int, notes string) (model.Score, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.judgeID == "" {
		return model.Score{}, ErrNoJudge
	}
	score := model.NewScore("", projectID, c.judgeID, ratings, juryTRL, notes)
	if existing, ok := visibility.ScoreFor(c.judgeID, projectID, c.snap.Scores); ok {
		score.ID = existing.ID
	}

	if c.mode == Online {
		stored, err := c.remote.UpsertScore(ctx, score)
		if err == nil {
			c.applyScoreUpsert(stored)
			return stored, nil
		}
		if !errors.Is(err, gateway.ErrUnavailable) {
			return model.Score{}, err
		}
		if ferr := c.fallbackFrom(ctx, err); ferr != nil {
			return model.Score{}, ferr
		}
	}

	stored, err := c.fallback.UpsertScore(ctx, score)
	if err != nil {
		return model.Score{}, err
	}
	return stored, c.refreshFromFallback(ctx)
}

// DeleteScore removes a single score. The confirmation token is mandatory.
func (c *Controller) DeleteScore(ctx context.Context, confirm Confirmation, id string) error {
	if !confirm.confirmed {
		return ErrNotConfirmed
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == Online {
		err := c.remote.DeleteScore(ctx, id)
		if err == nil {
			c.applyScoreDelete(id)
			return nil
		}
		if !errors.Is(err, gateway.ErrUnavailable) {
			return err
		}
		if ferr := c.fallbackFrom(ctx, err); ferr != nil {
			return ferr
		}
	}

	if err := c.fallback.DeleteScore(ctx, id); err != nil {
		return err
	}
	return c.refreshFromFallback(ctx)
}

// LoginJudge binds the session to an existing judge.
func (c *Controller) LoginJudge(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, j := range c.snap.Judges {
		if j.ID == id {
			c.judgeID = id
			return nil
		}
	}
	return ErrUnknownJudge
}

// RegisterJudge creates a new judge through the gateway and binds the
// session to the minted identifier. When creation fails outright the login
// does not proceed and the session stays unbound.
func (c *Controller) RegisterJudge(ctx context.Context, name string, tracks []string) (model.Judge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	created, err := c.createJudgeLocked(ctx, model.NewJudge("", name, tracks))
	if err != nil {
		return model.Judge{}, err
	}
	c.judgeID = created.ID
	return created, nil
}

// CurrentJudge returns the judge bound to the session, if any.
func (c *Controller) CurrentJudge() (model.Judge, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, j := range c.snap.Judges {
		if j.ID == c.judgeID {
			return j, true
		}
	}
	return model.Judge{}, false
}

// VisibleProjects returns the projects the bound judge may see, derived on
// demand from the current snapshot.
func (c *Controller) VisibleProjects() []model.Project {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, j := range c.snap.Judges {
		if j.ID == c.judgeID {
			return visibility.VisibleProjects(j, c.snap.Projects)
		}
	}
	return nil
}

// MyScores returns the bound judge's own scores.
func (c *Controller) MyScores() []model.Score {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, j := range c.snap.Judges {
		if j.ID == c.judgeID {
			return visibility.ScoresByJudge(j, c.snap.Scores)
		}
	}
	return nil
}

// ProjectResults aggregates the current snapshot for one project.
func (c *Controller) ProjectResults(projectID string) scoring.ProjectAggregate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return scoring.AggregateProject(projectID, c.snap.Scores, c.snap.Criteria)
}

// Results aggregates every project in the current snapshot, best first.
func (c *Controller) Results() []scoring.ProjectAggregate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return scoring.Rankings(c.snap.Projects, c.snap.Scores, c.snap.Criteria)
}

// In-memory snapshot mutators for confirmed remote mutations. These mirror
// the store's cascade and upsert semantics. Caller must hold the lock.

func (c *Controller) applyProjectUpdate(project model.Project) {
	for i, p := range c.snap.Projects {
		if p.ID == project.ID {
			c.snap.Projects[i] = project
			return
		}
	}
}

func (c *Controller) applyProjectDelete(id string) {
	for i, p := range c.snap.Projects {
		if p.ID == id {
			c.snap.Projects = append(c.snap.Projects[:i], c.snap.Projects[i+1:]...)
			break
		}
	}
	kept := c.snap.Scores[:0]
	for _, s := range c.snap.Scores {
		if s.ProjectID != id {
			kept = append(kept, s)
		}
	}
	c.snap.Scores = kept
}

func (c *Controller) applyJudgeUpdate(judge model.Judge) {
	for i, j := range c.snap.Judges {
		if j.ID == judge.ID {
			c.snap.Judges[i] = judge
			return
		}
	}
}

func (c *Controller) applyJudgeDelete(id string) {
	for i, j := range c.snap.Judges {
		if j.ID == id {
			c.snap.Judges = append(c.snap.Judges[:i], c.snap.Judges[i+1:]...)
			break
		}
	}
	kept := c.snap.Scores[:0]
	for _, s := range c.snap.Scores {
		if s.JudgeID != id {
			kept = append(kept, s)
		}
	}
	c.snap.Scores = kept
}

func (c *Controller) applyCriterionUpdate(criterion model.Criterion) {
	for i, cr := range c.snap.Criteria {
		if cr.ID == criterion.ID {
			c.snap.Criteria[i] = criterion
			return
		}
	}
}

func (c *Controller) applyCriterionDelete(id string) {
	for i, cr := range c.snap.Criteria {
		if cr.ID == id {
			c.snap.Criteria = append(c.snap.Criteria[:i], c.snap.Criteria[i+1:]...)
			return
		}
	}
}

func (c *Controller) applyScoreUpsert(score model.Score) {
	for i, s := range c.snap.Scores {
		if s.ID == score.ID || (s.ProjectID == score.ProjectID && s.JudgeID == score.JudgeID) {
			c.snap.Scores[i] = score
			return
		}
	}
	c.snap.Scores = append(c.snap.Scores, score)
}

func (c *Controller) applyScoreDelete(id string) {
	for i, s := range c.snap.Scores {
		if s.ID == id {
			c.snap.Scores = append(c.snap.Scores[:i], c.snap.Scores[i+1:]...)
			return
		}
	}
}
