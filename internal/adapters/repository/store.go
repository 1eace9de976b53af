// Package repository defines the authoritative entity store interface and
// errors, plus the in-memory implementation backing the HTTP API.
package repository

import (
	"context"

	"github.com/okian/jury/internal/domain/model"
)

// Store provides read/write access to the four entity collections.
//
// Cascade rules: deleting a project removes every score referencing it;
// deleting a judge removes every score by that judge; deleting a criterion
// leaves recorded scores untouched.
type Store interface {
	// Snapshot returns a deep copy of all four collections.
	Snapshot(ctx context.Context) model.Snapshot

	// CreateProjects creates one or many projects, minting identifiers for
	// items that carry none. Partial success is allowed: created items are
	// returned even when a later item fails.
	CreateProjects(ctx context.Context, projects []model.Project) ([]model.Project, error)
	// UpdateProject replaces the stored project. Returns ErrNotFound for an
	// unknown identifier.
	UpdateProject(ctx context.Context, project model.Project) (model.Project, error)
	DeleteProject(ctx context.Context, id string) error

	CreateJudge(ctx context.Context, judge model.Judge) (model.Judge, error)
	UpdateJudge(ctx context.Context, judge model.Judge) (model.Judge, error)
	DeleteJudge(ctx context.Context, id string) error

	CreateCriterion(ctx context.Context, criterion model.Criterion) (model.Criterion, error)
	UpdateCriterion(ctx context.Context, criterion model.Criterion) (model.Criterion, error)
	DeleteCriterion(ctx context.Context, id string) error

	// UpsertScore stores the score, keyed by identifier and by the
	// (project, judge) pair: a second score for the same pair overwrites
	// the first even under a different identifier, keeping the
	// first-stored identifier stable.
	UpsertScore(ctx context.Context, score model.Score) (model.Score, error)
	DeleteScore(ctx context.Context, id string) error

	// Counts reports the current collection sizes.
	Counts(ctx context.Context) (projects, judges, criteria, scores int)
}
