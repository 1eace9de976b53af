package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/okian/jury/internal/adapters/http/api"
	service "github.com/okian/jury/internal/app"
	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/domain/scoring"
	"github.com/okian/jury/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// newTestMux wires the full route table against a live service so handler
// tests exercise the same path production requests take.
func newTestMux(ctx context.Context, maxBatch int) (*http.ServeMux, *service.Service) {
	svc := service.New()
	if err := svc.Start(ctx); err != nil {
		panic(err)
	}
	srv := api.NewServer(svc, svc, maxBatch)
	mux := http.NewServeMux()
	srv.Register(ctx, mux)
	return mux, svc
}

func doJSON(mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndStats(t *testing.T) {
	ctx := context.Background()

	Convey("Given a registered server", t, func() {
		mux, svc := newTestMux(ctx, 100)
		defer svc.Stop()

		Convey("When probing /healthz", func() {
			rec := doJSON(mux, http.MethodGet, "/healthz", nil)

			So(rec.Code, ShouldEqual, http.StatusOK)
		})

		Convey("When fetching /stats", func() {
			rec := doJSON(mux, http.MethodGet, "/stats", nil)

			So(rec.Code, ShouldEqual, http.StatusOK)
			var stats map[string]any
			So(json.Unmarshal(rec.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["started"], ShouldEqual, true)
		})
	})
}

func TestDataEndpoint(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty system", t, func() {
		mux, svc := newTestMux(ctx, 100)
		defer svc.Stop()

		Convey("When loading /data", func() {
			rec := doJSON(mux, http.MethodGet, "/data", nil)

			Convey("Then the body carries four arrays, never null", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var raw map[string]json.RawMessage
				So(json.Unmarshal(rec.Body.Bytes(), &raw), ShouldBeNil)
				for _, key := range []string{"projects", "judges", "criteria", "scores"} {
					So(string(raw[key]), ShouldEqual, "[]")
				}
			})
		})

		Convey("When using the wrong method on /data", func() {
			rec := doJSON(mux, http.MethodPost, "/data", nil)

			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestProjectEndpoints(t *testing.T) {
	ctx := context.Background()

	Convey("Given a registered server", t, func() {
		mux, svc := newTestMux(ctx, 2)
		defer svc.Stop()

		Convey("When batch-creating projects", func() {
			rec := doJSON(mux, http.MethodPost, "/projects", []model.Project{
				model.NewProject("", "Alpha", "", "AI", 3, nil),
				model.NewProject("", "Beta", "", "Robotics", 4, nil),
			})

			Convey("Then the created projects come back with ids", func() {
				So(rec.Code, ShouldEqual, http.StatusCreated)
				var created []model.Project
				So(json.Unmarshal(rec.Body.Bytes(), &created), ShouldBeNil)
				So(len(created), ShouldEqual, 2)
				So(created[0].ID, ShouldNotBeEmpty)
			})
		})

		Convey("When the batch exceeds the configured cap", func() {
			rec := doJSON(mux, http.MethodPost, "/projects", []model.Project{
				model.NewProject("", "A", "", "AI", 1, nil),
				model.NewProject("", "B", "", "AI", 1, nil),
				model.NewProject("", "C", "", "AI", 1, nil),
			})

			Convey("Then the request is rejected outright", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				var resp map[string]string
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["code"], ShouldEqual, "batch_too_large")
				p, _, _, _ := svc.Counts(ctx)
				So(p, ShouldEqual, 0)
			})
		})

		Convey("When a batch fails midway", func() {
			rec := doJSON(mux, http.MethodPost, "/projects", []model.Project{
				model.NewProject("", "Alpha", "", "AI", 3, nil),
				model.NewProject("", "", "", "AI", 3, nil),
			})

			Convey("Then partial success is reported with the created items", func() {
				So(rec.Code, ShouldEqual, http.StatusMultiStatus)
				var resp struct {
					Created []model.Project `json:"created"`
					Error   struct {
						Code string `json:"code"`
					} `json:"error"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(len(resp.Created), ShouldEqual, 1)
				So(resp.Error.Code, ShouldEqual, "partial_failure")
			})
		})

		Convey("When the body is not a JSON array", func() {
			rec := doJSON(mux, http.MethodPost, "/projects", model.NewProject("", "Alpha", "", "AI", 3, nil))

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Given an existing project", func() {
			created, err := svc.CreateProjects(ctx, []model.Project{model.NewProject("", "Alpha", "", "AI", 3, nil)})
			So(err, ShouldBeNil)
			id := created[0].ID

			Convey("When replacing it via PUT", func() {
				rec := doJSON(mux, http.MethodPut, "/projects/"+id, model.NewProject("ignored", "Alpha v2", "", "AI", 5, nil))

				Convey("Then the path id wins over the body id", func() {
					So(rec.Code, ShouldEqual, http.StatusOK)
					var updated model.Project
					So(json.Unmarshal(rec.Body.Bytes(), &updated), ShouldBeNil)
					So(updated.ID, ShouldEqual, id)
					So(updated.Name, ShouldEqual, "Alpha v2")
				})
			})

			Convey("When deleting it", func() {
				rec := doJSON(mux, http.MethodDelete, "/projects/"+id, nil)

				So(rec.Code, ShouldEqual, http.StatusOK)
				p, _, _, _ := svc.Counts(ctx)
				So(p, ShouldEqual, 0)
			})

			Convey("When deleting a project that does not exist", func() {
				rec := doJSON(mux, http.MethodDelete, "/projects/nope", nil)

				So(rec.Code, ShouldEqual, http.StatusNotFound)
				var resp map[string]string
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["code"], ShouldEqual, "not_found")
			})
		})
	})
}

func TestJudgeEndpoints(t *testing.T) {
	ctx := context.Background()

	Convey("Given a registered server", t, func() {
		mux, svc := newTestMux(ctx, 100)
		defer svc.Stop()

		Convey("When registering a judge", func() {
			rec := doJSON(mux, http.MethodPost, "/judges", model.NewJudge("", "Dana", []string{"AI"}))

			So(rec.Code, ShouldEqual, http.StatusCreated)
			var created model.Judge
			So(json.Unmarshal(rec.Body.Bytes(), &created), ShouldBeNil)
			So(created.ID, ShouldNotBeEmpty)

			Convey("And updating their tracks", func() {
				rec := doJSON(mux, http.MethodPut, "/judges/"+created.ID, model.NewJudge("", "Dana", []string{"AI", "Robotics"}))

				So(rec.Code, ShouldEqual, http.StatusOK)
				var updated model.Judge
				So(json.Unmarshal(rec.Body.Bytes(), &updated), ShouldBeNil)
				So(updated.Tracks, ShouldResemble, []string{"AI", "Robotics"})
			})
		})

		Convey("When registering a judge without a name", func() {
			rec := doJSON(mux, http.MethodPost, "/judges", model.NewJudge("", "", nil))

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestScoreEndpoints(t *testing.T) {
	ctx := context.Background()

	Convey("Given a project, a judge, and a criterion", t, func() {
		mux, svc := newTestMux(ctx, 100)
		defer svc.Stop()

		_, err := svc.CreateProjects(ctx, []model.Project{model.NewProject("p1", "Alpha", "", "AI", 3, nil)})
		So(err, ShouldBeNil)
		_, err = svc.CreateJudge(ctx, model.NewJudge("j1", "Dana", []string{"AI"}))
		So(err, ShouldBeNil)
		_, err = svc.CreateCriterion(ctx, model.NewCriterion("c1", "Innovation", 1))
		So(err, ShouldBeNil)

		Convey("When a judge submits a score", func() {
			rec := doJSON(mux, http.MethodPost, "/scores", model.NewScore("", "p1", "j1", map[string]float64{"c1": 8}, 5, ""))

			So(rec.Code, ShouldEqual, http.StatusOK)
			var stored model.Score
			So(json.Unmarshal(rec.Body.Bytes(), &stored), ShouldBeNil)
			So(stored.ID, ShouldNotBeEmpty)

			Convey("And re-submits for the same project", func() {
				rec := doJSON(mux, http.MethodPost, "/scores", model.NewScore("", "p1", "j1", map[string]float64{"c1": 4}, 6, ""))

				Convey("Then the stored score keeps its identifier", func() {
					So(rec.Code, ShouldEqual, http.StatusOK)
					var again model.Score
					So(json.Unmarshal(rec.Body.Bytes(), &again), ShouldBeNil)
					So(again.ID, ShouldEqual, stored.ID)
					_, _, _, scores := svc.Counts(ctx)
					So(scores, ShouldEqual, 1)
				})
			})

			Convey("And deletes it", func() {
				rec := doJSON(mux, http.MethodDelete, "/scores/"+stored.ID, nil)

				So(rec.Code, ShouldEqual, http.StatusOK)
				_, _, _, scores := svc.Counts(ctx)
				So(scores, ShouldEqual, 0)
			})
		})

		Convey("When scoring an unknown project", func() {
			rec := doJSON(mux, http.MethodPost, "/scores", model.NewScore("", "p9", "j1", nil, 1, ""))

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestResultEndpoints(t *testing.T) {
	ctx := context.Background()

	Convey("Given scored and unscored projects", t, func() {
		mux, svc := newTestMux(ctx, 100)
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

		Convey("When fetching /results", func() {
			rec := doJSON(mux, http.MethodGet, "/results", nil)

			Convey("Then aggregates come back best first", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var results []scoring.ProjectAggregate
				So(json.Unmarshal(rec.Body.Bytes(), &results), ShouldBeNil)
				So(len(results), ShouldEqual, 2)
				So(results[0].ProjectID, ShouldEqual, "p2")
			})
		})

		Convey("When fetching a single project's result", func() {
			rec := doJSON(mux, http.MethodGet, "/results/p2", nil)

			So(rec.Code, ShouldEqual, http.StatusOK)
			var agg scoring.ProjectAggregate
			So(json.Unmarshal(rec.Body.Bytes(), &agg), ShouldBeNil)
			So(agg.MeanComposite, ShouldEqual, 9.0)
		})

		Convey("When fetching results for an unknown project", func() {
			rec := doJSON(mux, http.MethodGet, "/results/p9", nil)

			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}
