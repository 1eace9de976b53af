package seeding

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/okian/jury/internal/domain/model"
)

// Demo vocabulary. Tracks double as judging pools, so judges get one to
// three of them.
var (
	tracks = []string{"AI", "Robotics", "FinTech", "HealthTech", "Sustainability"}

	projectAdjectives = []string{"Quantum", "Nimble", "Solar", "Crisp", "Drift", "Ember", "Lucid", "Vertex"}
	projectNouns      = []string{"Harvest", "Relay", "Beacon", "Canvas", "Forge", "Atlas", "Pulse", "Grove"}

	judgeFirst = []string{"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Radia", "Vint"}
	judgeLast  = []string{"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Knuth", "Perlman", "Cerf"}

	defaultCriteria = []model.Criterion{
		{Name: "Innovation", Weight: 3},
		{Name: "Technical execution", Weight: 3},
		{Name: "Impact", Weight: 2},
		{Name: "Presentation", Weight: 1},
	}
)

// Rating and TRL generation bounds.
const (
	ratingMax         = 10.0
	trlMin            = 1
	trlRange          = 9
	maxTracksPerJudge = 3
)

// randomInt returns a uniform int in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// randomFloat returns a uniform float64 in [0, 1).
func randomFloat() float64 {
	const divisor = 1_000_000
	v, _ := rand.Int(rand.Reader, big.NewInt(divisor))
	return float64(v.Int64()) / divisor
}

// generateProjects creates demo projects spread across the track pool.
func generateProjects(n int) []model.Project {
	projects := make([]model.Project, n)
	for i := range projects {
		name := fmt.Sprintf("%s %s", projectAdjectives[randomInt(len(projectAdjectives))], projectNouns[randomInt(len(projectNouns))])
		track := tracks[i%len(tracks)]
		projects[i] = model.NewProject(
			"",
			fmt.Sprintf("%s #%d", name, i+1),
			fmt.Sprintf("Demo project %d in the %s track", i+1, track),
			track,
			trlMin+randomInt(trlRange),
			[]string{"https://example.com/" + uuid.New().String()},
		)
	}
	return projects
}

// generateJudges creates demo judges with one to three track assignments.
func generateJudges(n int) []model.Judge {
	judges := make([]model.Judge, n)
	for i := range judges {
		name := fmt.Sprintf("%s %s", judgeFirst[randomInt(len(judgeFirst))], judgeLast[randomInt(len(judgeLast))])
		count := 1 + randomInt(maxTracksPerJudge)
		seen := make(map[string]struct{}, count)
		var assigned []string
		for len(assigned) < count {
			t := tracks[randomInt(len(tracks))]
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			assigned = append(assigned, t)
		}
		judges[i] = model.NewJudge("", fmt.Sprintf("%s (%d)", name, i+1), assigned)
	}
	return judges
}

// generateRatings produces a rating per criterion.
func generateRatings(criteria []model.Criterion) map[string]float64 {
	ratings := make(map[string]float64, len(criteria))
	for _, c := range criteria {
		ratings[c.ID] = randomFloat() * ratingMax
	}
	return ratings
}
