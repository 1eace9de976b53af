// Package visibility derives which projects and scores a judge may see.
// These are pure views over the current snapshot, recomputed on demand and
// never stored.
package visibility

import (
	"github.com/okian/jury/internal/domain/model"
)

// VisibleProjects returns the subsequence of projects whose track is in the
// judge's track set, preserving the original ordering. A judge with no
// tracks sees nothing.
func VisibleProjects(judge model.Judge, projects []model.Project) []model.Project {
	if len(judge.Tracks) == 0 {
		return nil
	}
	tracks := make(map[string]struct{}, len(judge.Tracks))
	for _, t := range judge.Tracks {
		tracks[t] = struct{}{}
	}
	var out []model.Project
	for _, p := range projects {
		if _, ok := tracks[p.Track]; ok {
			out = append(out, p)
		}
	}
	return out
}

// ScoresByJudge returns the subsequence of scores recorded by the given
// judge, preserving the original ordering.
func ScoresByJudge(judge model.Judge, scores []model.Score) []model.Score {
	var out []model.Score
	for _, s := range scores {
		if s.JudgeID == judge.ID {
			out = append(out, s)
		}
	}
	return out
}

// ScoreFor returns the judge's current score for a project, if any. Used by
// the upsert flow to reuse the existing identifier on re-submission.
func ScoreFor(judgeID, projectID string, scores []model.Score) (model.Score, bool) {
	for _, s := range scores {
		if s.JudgeID == judgeID && s.ProjectID == projectID {
			return s, true
		}
	}
	return model.Score{}, false
}
