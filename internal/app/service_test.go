package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/jury/internal/adapters/repository"
	service "github.com/okian/jury/internal/app"
	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func startedService(ctx context.Context, opts ...service.Option) *service.Service {
	svc := service.New(opts...)
	if err := svc.Start(ctx); err != nil {
		panic(err)
	}
	return svc
}

func TestServiceLifecycle(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh service", t, func() {
		svc := service.New()

		Convey("When starting it twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then stats report a started empty system", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["projects"], ShouldEqual, 0)
			})

			svc.Stop()
		})
	})
}

func TestDataFilePreload(t *testing.T) {
	ctx := context.Background()

	Convey("Given a snapshot file on disk", t, func() {
		snap := model.Snapshot{
			Projects: []model.Project{model.NewProject("p1", "Alpha", "", "AI", 3, nil)},
			Judges:   []model.Judge{model.NewJudge("j1", "Dana", []string{"AI"})},
			Criteria: []model.Criterion{model.NewCriterion("c1", "Innovation", 2)},
			Scores:   []model.Score{model.NewScore("s1", "p1", "j1", map[string]float64{"c1": 8}, 5, "")},
		}
		path := filepath.Join(t.TempDir(), "data.json")
		raw, err := json.Marshal(snap)
		So(err, ShouldBeNil)
		So(os.WriteFile(path, raw, 0o644), ShouldBeNil)

		Convey("When the service starts with the file configured", func() {
			svc := startedService(ctx, service.WithDataFile(path))
			defer svc.Stop()

			Convey("Then the store is preloaded", func() {
				projects, judges, criteria, scores := svc.Counts(ctx)
				So(projects, ShouldEqual, 1)
				So(judges, ShouldEqual, 1)
				So(criteria, ShouldEqual, 1)
				So(scores, ShouldEqual, 1)
			})
		})

		Convey("When the configured file does not exist", func() {
			svc := service.New(service.WithDataFile(filepath.Join(t.TempDir(), "missing.json")))

			So(svc.Start(ctx), ShouldNotBeNil)
		})

		Convey("When the configured file is not valid JSON", func() {
			bad := filepath.Join(t.TempDir(), "bad.json")
			So(os.WriteFile(bad, []byte("{nope"), 0o644), ShouldBeNil)
			svc := service.New(service.WithDataFile(bad))

			So(svc.Start(ctx), ShouldNotBeNil)
		})
	})
}

func TestResults(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service with scored projects", t, func() {
		svc := startedService(ctx)
		defer svc.Stop()

		_, err := svc.CreateProjects(ctx, []model.Project{
			model.NewProject("p1", "Alpha", "", "AI", 3, nil),
			model.NewProject("p2", "Beta", "", "AI", 3, nil),
		})
		So(err, ShouldBeNil)
		_, err = svc.CreateJudge(ctx, model.NewJudge("j1", "Dana", []string{"AI"}))
		So(err, ShouldBeNil)
		_, err = svc.CreateCriterion(ctx, model.NewCriterion("c1", "Innovation", 1))
		So(err, ShouldBeNil)
		_, err = svc.UpsertScore(ctx, model.NewScore("", "p2", "j1", map[string]float64{"c1": 9}, 6, ""))
		So(err, ShouldBeNil)

		Convey("When asking for overall results", func() {
			results := svc.Results(ctx)

			Convey("Then the scored project leads and the unscored one trails", func() {
				So(len(results), ShouldEqual, 2)
				So(results[0].ProjectID, ShouldEqual, "p2")
				So(results[0].MeanComposite, ShouldEqual, 9.0)
				So(results[1].ProjectID, ShouldEqual, "p1")
				So(results[1].Scored, ShouldBeFalse)
			})
		})

		Convey("When asking for a single project's result", func() {
			agg, err := svc.ProjectResult(ctx, "p2")

			So(err, ShouldBeNil)
			So(agg.TRLConsensus, ShouldEqual, 6)
		})

		Convey("When asking for an unknown project", func() {
			_, err := svc.ProjectResult(ctx, "p9")

			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When asking for a known-but-unscored project", func() {
			agg, err := svc.ProjectResult(ctx, "p1")

			Convey("Then it aggregates to a not-yet-scored result, not an error", func() {
				So(err, ShouldBeNil)
				So(agg.Scored, ShouldBeFalse)
			})
		})
	})
}
