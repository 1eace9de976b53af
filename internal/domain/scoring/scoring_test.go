package scoring_test

import (
	"testing"

	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestComposite(t *testing.T) {
	Convey("Given two criteria with weights 2 and 1", t, func() {
		criteria := []model.Criterion{
			{ID: "c1", Name: "Innovation", Weight: 2},
			{ID: "c2", Name: "Execution", Weight: 1},
		}

		Convey("When a score rates both criteria", func() {
			score := model.NewScore("s1", "p1", "j1", map[string]float64{"c1": 8, "c2": 5}, 5, "")

			Convey("Then the composite is the weighted mean", func() {
				composite, ok := scoring.Composite(score, criteria)
				So(ok, ShouldBeTrue)
				So(composite, ShouldEqual, 7.0) // (8*2 + 5*1) / (2+1)
			})

			Convey("And adding an unreferenced criterion leaves it unchanged", func() {
				extended := append([]model.Criterion{}, criteria...)
				extended = append(extended, model.Criterion{ID: "c9", Name: "Design", Weight: 4})
				composite, ok := scoring.Composite(score, extended)
				So(ok, ShouldBeTrue)
				So(composite, ShouldEqual, 7.0)
			})
		})

		Convey("When a score references an unknown criterion", func() {
			score := model.NewScore("s2", "p1", "j1", map[string]float64{"c1": 8, "c3": 9}, 5, "")

			Convey("Then the unknown entry is skipped and weights renormalize", func() {
				composite, ok := scoring.Composite(score, criteria)
				So(ok, ShouldBeTrue)
				So(composite, ShouldEqual, 8.0) // (8*2) / 2
			})
		})

		Convey("When no rating matches any criterion", func() {
			score := model.NewScore("s3", "p1", "j1", map[string]float64{"c7": 4}, 5, "")

			Convey("Then the sentinel is returned instead of a fault", func() {
				composite, ok := scoring.Composite(score, criteria)
				So(ok, ShouldBeFalse)
				So(composite, ShouldEqual, 0)
			})
		})

		Convey("When the ratings map is empty", func() {
			score := model.NewScore("s4", "p1", "j1", nil, 5, "")

			composite, ok := scoring.Composite(score, criteria)
			So(ok, ShouldBeFalse)
			So(composite, ShouldEqual, 0)
		})

		Convey("When a criterion has a non-positive weight", func() {
			withZero := append([]model.Criterion{}, criteria...)
			withZero = append(withZero, model.Criterion{ID: "c0", Name: "Zero", Weight: 0})
			score := model.NewScore("s5", "p1", "j1", map[string]float64{"c1": 8, "c0": 100}, 5, "")

			Convey("Then the zero-weight entry does not participate", func() {
				composite, ok := scoring.Composite(score, withZero)
				So(ok, ShouldBeTrue)
				So(composite, ShouldEqual, 8.0)
			})
		})
	})
}

func TestAggregateProject(t *testing.T) {
	Convey("Given a criterion set and scores from several judges", t, func() {
		criteria := []model.Criterion{
			{ID: "c1", Name: "Innovation", Weight: 2},
			{ID: "c2", Name: "Execution", Weight: 1},
		}
		scores := []model.Score{
			model.NewScore("s1", "p1", "j1", map[string]float64{"c1": 8, "c2": 5}, 6, ""),
			model.NewScore("s2", "p1", "j2", map[string]float64{"c1": 6, "c2": 6}, 4, ""),
			model.NewScore("s3", "p2", "j1", map[string]float64{"c1": 9}, 8, ""),
		}

		Convey("When aggregating a scored project", func() {
			agg := scoring.AggregateProject("p1", scores, criteria)

			Convey("Then only that project's scores participate", func() {
				So(agg.Scored, ShouldBeTrue)
				So(agg.Count, ShouldEqual, 2)
				So(agg.MeanComposite, ShouldEqual, 6.5) // (7.0 + 6.0) / 2
			})

			Convey("And the per-judge breakdown preserves score order", func() {
				So(len(agg.PerJudge), ShouldEqual, 2)
				So(agg.PerJudge[0].JudgeID, ShouldEqual, "j1")
				So(agg.PerJudge[0].Composite, ShouldEqual, 7.0)
				So(agg.PerJudge[1].JudgeID, ShouldEqual, "j2")
				So(agg.PerJudge[1].Composite, ShouldEqual, 6.0)
			})

			Convey("And the TRL consensus is the lower median", func() {
				So(agg.TRLConsensus, ShouldEqual, 4) // lower median of {6, 4}
			})
		})

		Convey("When aggregating a project nobody scored", func() {
			agg := scoring.AggregateProject("p9", scores, criteria)

			Convey("Then the result reads as not-yet-scored", func() {
				So(agg.Scored, ShouldBeFalse)
				So(agg.Count, ShouldEqual, 0)
				So(agg.MeanComposite, ShouldEqual, 0)
				So(agg.TRLConsensus, ShouldEqual, 0)
				So(agg.PerJudge, ShouldBeNil)
			})
		})

		Convey("When a judge's ratings all reference deleted criteria", func() {
			orphaned := append([]model.Score{}, scores...)
			orphaned = append(orphaned, model.NewScore("s4", "p1", "j3", map[string]float64{"cX": 10}, 9, ""))
			agg := scoring.AggregateProject("p1", orphaned, criteria)

			Convey("Then the judge counts but does not move the mean", func() {
				So(agg.Count, ShouldEqual, 3)
				So(agg.MeanComposite, ShouldEqual, 6.5)
				So(agg.PerJudge[2].Rated, ShouldBeFalse)
			})

			Convey("And their jury TRL still participates in the consensus", func() {
				So(agg.TRLConsensus, ShouldEqual, 6) // lower median of {4, 6, 9}
			})
		})
	})
}

func TestRankings(t *testing.T) {
	Convey("Given projects with different mean composites", t, func() {
		criteria := []model.Criterion{{ID: "c1", Name: "Innovation", Weight: 1}}
		projects := []model.Project{
			model.NewProject("p1", "Alpha", "", "AI", 3, nil),
			model.NewProject("p2", "Beta", "", "AI", 3, nil),
			model.NewProject("p3", "Gamma", "", "Robotics", 3, nil),
		}
		scores := []model.Score{
			model.NewScore("s1", "p1", "j1", map[string]float64{"c1": 5}, 5, ""),
			model.NewScore("s2", "p2", "j1", map[string]float64{"c1": 9}, 5, ""),
		}

		Convey("When ranking all projects", func() {
			ranked := scoring.Rankings(projects, scores, criteria)

			Convey("Then scored projects come first, best first", func() {
				So(len(ranked), ShouldEqual, 3)
				So(ranked[0].ProjectID, ShouldEqual, "p2")
				So(ranked[1].ProjectID, ShouldEqual, "p1")
			})

			Convey("And unscored projects trail", func() {
				So(ranked[2].ProjectID, ShouldEqual, "p3")
				So(ranked[2].Scored, ShouldBeFalse)
			})
		})

		Convey("When two projects tie", func() {
			tied := append([]model.Score{}, scores...)
			tied = append(tied, model.NewScore("s3", "p3", "j1", map[string]float64{"c1": 9}, 5, ""))
			ranked := scoring.Rankings(projects, tied, criteria)

			Convey("Then ties break by project id ascending", func() {
				So(ranked[0].ProjectID, ShouldEqual, "p2")
				So(ranked[1].ProjectID, ShouldEqual, "p3")
			})
		})
	})
}
