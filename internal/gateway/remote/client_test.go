package remote_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/okian/jury/internal/adapters/http/api"
	service "github.com/okian/jury/internal/app"
	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/gateway"
	"github.com/okian/jury/internal/gateway/remote"
	"github.com/okian/jury/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// newTestServer stands up the real API over httptest so the client is
// exercised against the actual wire protocol.
func newTestServer(ctx context.Context) (*httptest.Server, *service.Service) {
	svc := service.New()
	if err := svc.Start(ctx); err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, svc, 100).Register(ctx, mux)
	return httptest.NewServer(mux), svc
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()

	Convey("Given a reachable store", t, func() {
		ts, svc := newTestServer(ctx)
		defer ts.Close()
		defer svc.Stop()
		client := remote.NewClient(ts.URL)

		Convey("When creating entities through the client", func() {
			created, err := client.CreateProjects(ctx, []model.Project{
				model.NewProject("", "Alpha", "", "AI", 3, nil),
			})
			So(err, ShouldBeNil)
			So(len(created), ShouldEqual, 1)
			So(created[0].ID, ShouldNotBeEmpty)

			judge, err := client.CreateJudge(ctx, model.NewJudge("", "Dana", []string{"AI"}))
			So(err, ShouldBeNil)

			criterion, err := client.CreateCriterion(ctx, model.NewCriterion("", "Innovation", 2))
			So(err, ShouldBeNil)

			Convey("And submitting a score for the pair", func() {
				stored, err := client.UpsertScore(ctx, model.NewScore("", created[0].ID, judge.ID,
					map[string]float64{criterion.ID: 8}, 5, ""))
				So(err, ShouldBeNil)

				Convey("Then a full load reflects every write", func() {
					snap, err := client.GetAll(ctx)
					So(err, ShouldBeNil)
					So(len(snap.Projects), ShouldEqual, 1)
					So(len(snap.Judges), ShouldEqual, 1)
					So(len(snap.Criteria), ShouldEqual, 1)
					So(len(snap.Scores), ShouldEqual, 1)
					So(snap.Scores[0].ID, ShouldEqual, stored.ID)
				})

				Convey("And deleting the project cascades on the server", func() {
					So(client.DeleteProject(ctx, created[0].ID), ShouldBeNil)
					snap, err := client.GetAll(ctx)
					So(err, ShouldBeNil)
					So(len(snap.Projects), ShouldEqual, 0)
					So(len(snap.Scores), ShouldEqual, 0)
				})
			})

			Convey("And updating the judge", func() {
				judge.Tracks = []string{"AI", "Robotics"}
				updated, err := client.UpdateJudge(ctx, judge)
				So(err, ShouldBeNil)
				So(updated.Tracks, ShouldResemble, []string{"AI", "Robotics"})
			})
		})

		Convey("When a project batch fails midway", func() {
			created, err := client.CreateProjects(ctx, []model.Project{
				model.NewProject("", "Alpha", "", "AI", 3, nil),
				model.NewProject("", "", "", "AI", 3, nil),
			})

			Convey("Then the already-created items come back with the error", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "missing name")
				So(len(created), ShouldEqual, 1)
				So(created[0].Name, ShouldEqual, "Alpha")

				Convey("And the returned items match what the server stored", func() {
					snap, gerr := client.GetAll(ctx)
					So(gerr, ShouldBeNil)
					So(len(snap.Projects), ShouldEqual, 1)
					So(snap.Projects[0].ID, ShouldEqual, created[0].ID)
				})
			})

			Convey("And the failure is not mistaken for unavailability", func() {
				So(errors.Is(err, gateway.ErrUnavailable), ShouldBeFalse)
			})
		})

		Convey("When operating on entities that do not exist", func() {
			err := client.DeleteProject(ctx, "srv-missing")

			So(errors.Is(err, gateway.ErrNotFound), ShouldBeTrue)
			So(errors.Is(err, gateway.ErrUnavailable), ShouldBeFalse)
		})
	})
}

func TestErrorMapping(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store that is not reachable at all", t, func() {
		ts := httptest.NewServer(http.NotFoundHandler())
		ts.Close() // connection refused from here on
		client := remote.NewClient(ts.URL)

		Convey("When loading the snapshot", func() {
			_, err := client.GetAll(ctx)

			Convey("Then the failure reads as unavailability", func() {
				So(errors.Is(err, gateway.ErrUnavailable), ShouldBeTrue)
			})
		})

		Convey("When mutating", func() {
			_, err := client.UpsertScore(ctx, model.NewScore("", "p1", "j1", nil, 1, ""))

			So(errors.Is(err, gateway.ErrUnavailable), ShouldBeTrue)
		})
	})

	Convey("Given a store that responds with server errors", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer ts.Close()
		client := remote.NewClient(ts.URL)

		Convey("Then a 5xx also reads as unavailability", func() {
			_, err := client.GetAll(ctx)
			So(errors.Is(err, gateway.ErrUnavailable), ShouldBeTrue)
		})
	})

	Convey("Given a store that rejects the request", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":"bad_request","message":"missing name"}`))
		}))
		defer ts.Close()
		client := remote.NewClient(ts.URL)

		Convey("Then the rejection is a plain error, not unavailability", func() {
			_, err := client.CreateJudge(ctx, model.NewJudge("", "", nil))
			So(err, ShouldNotBeNil)
			So(errors.Is(err, gateway.ErrUnavailable), ShouldBeFalse)
			So(err.Error(), ShouldContainSubstring, "missing name")
		})
	})
}
