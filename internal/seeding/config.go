package seeding

import "time"

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL     string        // Base URL of the service
	NumProjects int           // Number of projects to generate
	NumJudges   int           // Number of judges to generate
	ScoreRatio  float64       // Fraction of (judge, visible project) pairs to score
	Timeout     time.Duration // HTTP request timeout
	Verbose     bool          // Enable verbose logging
}

// Stats holds seeding statistics.
type Stats struct {
	ProjectsCreated    int
	JudgesCreated      int
	CriteriaCreated    int
	ScoresSubmitted    int
	ScoresFailed       int
	ProjectsAggregated int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
