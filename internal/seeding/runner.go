// Package seeding generates demo projects, judges, criteria and scores and
// submits them to a running service over the store protocol.
package seeding

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/domain/visibility"
	"github.com/okian/jury/internal/gateway/remote"
	"github.com/okian/jury/pkg/logger"
)

// Run executes a complete seeding pass: criteria, judges, projects, then a
// configurable share of scores, finishing with an aggregate readback.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting seeding run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("projects", config.NumProjects),
		logger.Int("judges", config.NumJudges),
		logger.Float64("scoreRatio", config.ScoreRatio),
	)

	client := remote.NewClient(config.BaseURL, remote.WithTimeout(config.Timeout))

	// Fail fast when the service is down rather than midway through seeding.
	if _, err := client.GetAll(ctx); err != nil {
		return fmt.Errorf("service not reachable: %w", err)
	}

	// Criteria first so score ratings can reference their minted ids.
	criteria := make([]model.Criterion, 0, len(defaultCriteria))
	for _, c := range defaultCriteria {
		created, err := client.CreateCriterion(ctx, c)
		if err != nil {
			return fmt.Errorf("create criterion %q: %w", c.Name, err)
		}
		criteria = append(criteria, created)
		stats.CriteriaCreated++
	}

	created, err := client.CreateProjects(ctx, generateProjects(config.NumProjects))
	stats.ProjectsCreated = len(created)
	if err != nil {
		return fmt.Errorf("create projects: %w", err)
	}

	judges := make([]model.Judge, 0, config.NumJudges)
	for _, j := range generateJudges(config.NumJudges) {
		createdJudge, err := client.CreateJudge(ctx, j)
		if err != nil {
			return fmt.Errorf("create judge %q: %w", j.Name, err)
		}
		judges = append(judges, createdJudge)
		stats.JudgesCreated++
	}

	// Each judge scores a share of the projects in their tracks.
	for _, judge := range judges {
		for _, p := range visibility.VisibleProjects(judge, created) {
			if randomFloat() > config.ScoreRatio {
				continue
			}
			score := model.NewScore("", p.ID, judge.ID, generateRatings(criteria), trlMin+randomInt(trlRange), "seeded evaluation")
			if _, err := client.UpsertScore(ctx, score); err != nil {
				stats.ScoresFailed++
				log.Warn(ctx, "score submission failed",
					logger.String("project", p.ID),
					logger.String("judge", judge.ID),
					logger.Error(err),
				)
				continue
			}
			stats.ScoresSubmitted++
			if config.Verbose {
				log.Debug(ctx, "score submitted",
					logger.String("project", p.ID),
					logger.String("judge", judge.ID),
				)
			}
		}
	}

	// Readback: confirm the snapshot reflects what was seeded.
	snap, err := client.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("final snapshot read failed: %w", err)
	}
	stats.ProjectsAggregated = len(snap.Projects)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	log.Info(ctx, "seeding run complete",
		logger.Int("projects", stats.ProjectsCreated),
		logger.Int("judges", stats.JudgesCreated),
		logger.Int("criteria", stats.CriteriaCreated),
		logger.Int("scores", stats.ScoresSubmitted),
		logger.Int("scoresFailed", stats.ScoresFailed),
		logger.String("duration", stats.Duration.String()),
	)
	return nil
}
