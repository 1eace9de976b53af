// Package scoring computes weighted composite scores and per-project
// aggregates. All functions are pure; malformed-but-well-typed input
// degrades gracefully instead of faulting.
package scoring

import (
	"sort"

	"github.com/okian/jury/internal/domain/model"
)

// JudgeComposite is one judge's contribution to a project aggregate.
type JudgeComposite struct {
	JudgeID   string  `json:"judge_id"`
	Composite float64 `json:"composite"`
	// Rated is false when none of the score's ratings matched a defined
	// criterion, in which case Composite is meaningless and held at zero.
	Rated   bool `json:"rated"`
	JuryTRL int  `json:"jury_trl"`
}

// ProjectAggregate reports aggregate statistics for one project across all
// judges that scored it.
type ProjectAggregate struct {
	ProjectID     string           `json:"project_id"`
	MeanComposite float64          `json:"mean_composite"`
	Count         int              `json:"count"` // number of judges that scored the project
	// Scored is false when no judge has scored the project yet ("not yet
	// scored" is a result, never a fault).
	Scored       bool             `json:"scored"`
	TRLConsensus int              `json:"trl_consensus"`
	PerJudge     []JudgeComposite `json:"per_judge"`
}

// Composite computes the weighted mean of a score's ratings against the
// current criterion set. Ratings referencing unknown criteria are skipped
// silently, and the sum of weights is taken over only the participating
// criteria, so deleting a criterion after scoring effectively renormalizes
// the remaining weights. Non-positive weights are excluded for the same
// reason a zero divisor must never occur.
//
// The second return value is false when no rating matched a criterion; the
// composite is zero in that case and must not be interpreted as a score.
func Composite(score model.Score, criteria []model.Criterion) (float64, bool) {
	var weighted, weightSum float64
	for _, c := range criteria {
		rating, ok := score.Ratings[c.ID]
		if !ok || c.Weight <= 0 {
			continue
		}
		weighted += rating * c.Weight
		weightSum += c.Weight
	}
	if weightSum == 0 {
		return 0, false
	}
	return weighted / weightSum, true
}

// AggregateProject filters scores to the given project and reports the mean
// composite, the judge count, a per-judge breakdown in original score order,
// and the TRL consensus. The consensus is the median of the jury-assigned
// TRLs (lower median for even counts) so a single outlier judge cannot move
// it.
func AggregateProject(projectID string, scores []model.Score, criteria []model.Criterion) ProjectAggregate {
	agg := ProjectAggregate{ProjectID: projectID}

	var sum float64
	var rated int
	var trls []int
	for _, s := range scores {
		if s.ProjectID != projectID {
			continue
		}
		composite, ok := Composite(s, criteria)
		agg.PerJudge = append(agg.PerJudge, JudgeComposite{
			JudgeID:   s.JudgeID,
			Composite: composite,
			Rated:     ok,
			JuryTRL:   s.JuryTRL,
		})
		agg.Count++
		if ok {
			sum += composite
			rated++
		}
		trls = append(trls, s.JuryTRL)
	}
	if rated > 0 {
		agg.MeanComposite = sum / float64(rated)
		agg.Scored = true
	}
	agg.TRLConsensus = medianTRL(trls)
	return agg
}

// Rankings aggregates every project and orders the result best-first:
// scored projects by mean composite descending (ties broken by project id
// ascending), then unscored projects by id.
func Rankings(projects []model.Project, scores []model.Score, criteria []model.Criterion) []ProjectAggregate {
	out := make([]ProjectAggregate, 0, len(projects))
	for _, p := range projects {
		out = append(out, AggregateProject(p.ID, scores, criteria))
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Scored != b.Scored {
			return a.Scored
		}
		if a.MeanComposite != b.MeanComposite {
			return a.MeanComposite > b.MeanComposite
		}
		return a.ProjectID < b.ProjectID
	})
	return out
}

// medianTRL returns the lower median of the given TRLs, or zero when none
// were recorded.
func medianTRL(trls []int) int {
	if len(trls) == 0 {
		return 0
	}
	sorted := append([]int(nil), trls...)
	sort.Ints(sorted)
	return sorted[(len(sorted)-1)/2]
}
