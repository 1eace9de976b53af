package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/jury/internal/seeding"
	"github.com/okian/jury/pkg/logger"
)

// Default configuration constants.
const (
	defaultProjects   = 25
	defaultJudges     = 8
	defaultScoreRatio = 0.7
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8090", "Base URL of the service")
		projects = flag.Int("projects", defaultProjects, "Number of projects to generate")
		judges   = flag.Int("judges", defaultJudges, "Number of judges to generate")
		ratio    = flag.Float64("ratio", defaultScoreRatio, "Fraction of visible (judge, project) pairs to score")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seeding.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &seeding.Config{
		BaseURL:     *baseURL,
		NumProjects: *projects,
		NumJudges:   *judges,
		ScoreRatio:  *ratio,
		Timeout:     *timeout,
		Verbose:     *verbose,
	}

	if err := seeding.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seeding failed: " + err.Error() + "\n")
		return
	}
}
