package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/okian/jury/internal/config"
	"github.com/okian/jury/internal/gateway/local"
	"github.com/okian/jury/internal/gateway/remote"
	"github.com/okian/jury/internal/session"
	"github.com/okian/jury/pkg/logger"
)

const defaultRunTimeout = 5 * time.Minute

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:8090", "Base URL of the service")
		judgeID   = flag.String("judge", "", "Log in as an existing judge id")
		register  = flag.String("register", "", "Register a new judge with this name")
		tracks    = flag.String("tracks", "", "Comma-separated tracks for -register")
		projectID = flag.String("score", "", "Submit a score for this project id")
		ratings   = flag.String("ratings", "", "Comma-separated criterion=rating pairs for -score")
		juryTRL   = flag.Int("trl", 1, "Jury-assigned TRL for -score")
		notes     = flag.String("notes", "", "Free-text notes for -score")
		removeID  = flag.String("delete-score", "", "Delete this score id")
		yes       = flag.Bool("yes", false, "Confirm destructive operations")
		list      = flag.Bool("list", false, "List the projects visible to the judge")
		results   = flag.Bool("results", false, "Show aggregate results, best first")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	client := remote.NewClient(*baseURL,
		remote.WithTimeout(time.Duration(cfg.RequestTimeoutMS)*time.Millisecond))
	store := local.NewStore(cfg.LocalStorePath, local.WithLogger(log))

	ctrl := session.New(
		session.WithRemote(client),
		session.WithFallback(store),
		session.WithLogger(log),
		session.WithNotice(func(msg string) { fmt.Fprintln(os.Stderr, msg) }),
	)
	if err := ctrl.Load(ctx); err != nil {
		os.Stderr.WriteString("failed to load session: " + err.Error() + "\n")
		return
	}

	switch {
	case *register != "":
		judge, err := ctrl.RegisterJudge(ctx, *register, splitList(*tracks))
		if err != nil {
			os.Stderr.WriteString("registration failed: " + err.Error() + "\n")
			return
		}
		fmt.Printf("registered judge %s (%s)\n", judge.ID, judge.Name)
	case *judgeID != "":
		if err := ctrl.LoginJudge(*judgeID); err != nil {
			os.Stderr.WriteString("login failed: " + err.Error() + "\n")
			return
		}
	}

	if *projectID != "" {
		parsed, err := parseRatings(*ratings)
		if err != nil {
			os.Stderr.WriteString("invalid -ratings: " + err.Error() + "\n")
			return
		}
		score, err := ctrl.SubmitScore(ctx, *projectID, parsed, *juryTRL, *notes)
		if err != nil {
			os.Stderr.WriteString("score submission failed: " + err.Error() + "\n")
			return
		}
		fmt.Printf("score %s stored for project %s\n", score.ID, score.ProjectID)
	}

	if *removeID != "" {
		if !*yes {
			os.Stderr.WriteString("refusing to delete score without -yes\n")
			return
		}
		if err := ctrl.DeleteScore(ctx, session.Confirm(), *removeID); err != nil {
			os.Stderr.WriteString("score deletion failed: " + err.Error() + "\n")
			return
		}
		fmt.Printf("score %s deleted\n", *removeID)
	}

	if *list {
		for _, p := range ctrl.VisibleProjects() {
			fmt.Printf("%s\t%s\t%s\tTRL %d\n", p.ID, p.Track, p.Name, p.TRL)
		}
	}

	if *results {
		for i, agg := range ctrl.Results() {
			if !agg.Scored {
				fmt.Printf("%2d. %s  not yet scored\n", i+1, agg.ProjectID)
				continue
			}
			fmt.Printf("%2d. %s  composite %.2f  judges %d  TRL %d\n",
				i+1, agg.ProjectID, agg.MeanComposite, agg.Count, agg.TRLConsensus)
		}
	}

	if ctrl.Mode() == session.Offline {
		fmt.Fprintf(os.Stderr, "session offline: %d unsynced change(s) in %s\n",
			ctrl.Unsynced(), cfg.LocalStorePath)
	}
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseRatings parses "criterion=rating" pairs, e.g. "c1=8,c2=5.5".
func parseRatings(s string) (map[string]float64, error) {
	out := make(map[string]float64)
	for _, part := range splitList(s) {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("%q is not criterion=rating", part)
		}
		rating, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("rating for %q: %w", key, err)
		}
		out[strings.TrimSpace(key)] = rating
	}
	return out, nil
}
