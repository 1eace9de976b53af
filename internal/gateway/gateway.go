// Package gateway defines the persistence contract satisfied interchangeably
// by the remote API client and the local fallback store.
package gateway

import (
	"context"

	"github.com/okian/jury/internal/domain/model"
)

// Gateway provides CRUD access to the four entity collections. Every
// operation may fail with ErrUnavailable when the backing store is
// unreachable; update and delete operations fail with ErrNotFound when the
// identifier is unknown. No operation partially applies a multi-entity batch
// except CreateProjects, where partial success is documented.
type Gateway interface {
	// GetAll returns the full current snapshot of all four collections in
	// one call. The system is small enough that a snapshot load is cheaper
	// than incremental sync.
	GetAll(ctx context.Context) (model.Snapshot, error)

	// CreateProjects creates one or many projects. On partial failure the
	// already-created items are still returned alongside the error.
	CreateProjects(ctx context.Context, projects []model.Project) ([]model.Project, error)
	UpdateProject(ctx context.Context, project model.Project) (model.Project, error)
	// DeleteProject removes the project and cascades to every score
	// referencing it.
	DeleteProject(ctx context.Context, id string) error

	CreateJudge(ctx context.Context, judge model.Judge) (model.Judge, error)
	UpdateJudge(ctx context.Context, judge model.Judge) (model.Judge, error)
	// DeleteJudge removes the judge and cascades to every score by that
	// judge.
	DeleteJudge(ctx context.Context, id string) error

	CreateCriterion(ctx context.Context, criterion model.Criterion) (model.Criterion, error)
	UpdateCriterion(ctx context.Context, criterion model.Criterion) (model.Criterion, error)
	// DeleteCriterion does not touch recorded scores; the scoring engine
	// tolerates dangling criterion references.
	DeleteCriterion(ctx context.Context, id string) error

	// UpsertScore creates the score if its identifier is unknown or
	// overwrites the existing one. The stored score is returned.
	UpsertScore(ctx context.Context, score model.Score) (model.Score, error)
	DeleteScore(ctx context.Context, id string) error
}
