package model_test

import (
	"testing"

	"github.com/okian/jury/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConstructors(t *testing.T) {
	Convey("Given the entity constructors", t, func() {
		Convey("When building a score with nil ratings", func() {
			score := model.NewScore("s1", "p1", "j1", nil, 3, "")

			Convey("Then the ratings map is usable without a nil check", func() {
				So(score.Ratings, ShouldNotBeNil)
				So(len(score.Ratings), ShouldEqual, 0)
			})
		})

		Convey("When building a project", func() {
			p := model.NewProject("p1", "Alpha", "desc", "AI", 4, []string{"https://example.com"})

			So(p.ID, ShouldEqual, "p1")
			So(p.Track, ShouldEqual, "AI")
			So(p.TRL, ShouldEqual, 4)
			So(p.Links, ShouldResemble, []string{"https://example.com"})
		})
	})
}

func TestJudgeHasTrack(t *testing.T) {
	Convey("Given a judge authorized for one track", t, func() {
		judge := model.NewJudge("j1", "Dana", []string{"AI"})

		Convey("Then membership checks match exactly", func() {
			So(judge.HasTrack("AI"), ShouldBeTrue)
			So(judge.HasTrack("Robotics"), ShouldBeFalse)
			So(judge.HasTrack(""), ShouldBeFalse)
		})
	})

	Convey("Given a judge with no tracks", t, func() {
		judge := model.NewJudge("j2", "Remy", nil)

		So(judge.HasTrack("AI"), ShouldBeFalse)
	})
}

func TestClone(t *testing.T) {
	Convey("Given a score with ratings", t, func() {
		original := model.NewScore("s1", "p1", "j1", map[string]float64{"c1": 8}, 5, "solid")

		Convey("When cloning and mutating the copy", func() {
			clone := original.Clone()
			clone.Ratings["c1"] = 1
			clone.Ratings["c2"] = 2

			Convey("Then the original is untouched", func() {
				So(original.Ratings["c1"], ShouldEqual, 8)
				So(len(original.Ratings), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a populated snapshot", t, func() {
		snap := model.Snapshot{
			Projects: []model.Project{model.NewProject("p1", "Alpha", "", "AI", 3, []string{"a"})},
			Judges:   []model.Judge{model.NewJudge("j1", "Dana", []string{"AI"})},
			Criteria: []model.Criterion{model.NewCriterion("c1", "Innovation", 2)},
			Scores:   []model.Score{model.NewScore("s1", "p1", "j1", map[string]float64{"c1": 8}, 5, "")},
		}

		Convey("When cloning and mutating every nested structure", func() {
			clone := snap.Clone()
			clone.Projects[0].Links[0] = "b"
			clone.Judges[0].Tracks[0] = "Robotics"
			clone.Scores[0].Ratings["c1"] = 1

			Convey("Then the source snapshot is unaffected", func() {
				So(snap.Projects[0].Links[0], ShouldEqual, "a")
				So(snap.Judges[0].Tracks[0], ShouldEqual, "AI")
				So(snap.Scores[0].Ratings["c1"], ShouldEqual, 8)
			})
		})
	})
}
