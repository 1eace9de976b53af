// Package model contains domain models passed between layers.
package model

// Project represents a competition entry curated by administrators.
// Fields mirror the wire schema for /projects.
type Project struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Track       string   `json:"track"`    // judging pool, e.g. "AI", "Robotics"
	TRL         int      `json:"trl"`      // self-declared technology readiness level
	Links       []string `json:"links,omitempty"`
}

// Judge represents an evaluator authorized for one or more tracks.
type Judge struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Tracks []string `json:"tracks"`
}

// HasTrack reports whether the judge is authorized for the given track.
func (j Judge) HasTrack(track string) bool {
	for _, t := range j.Tracks {
		if t == track {
			return true
		}
	}
	return false
}

// Criterion represents a weighted scoring dimension.
type Criterion struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Score represents one judge's evaluation of one project. Ratings map
// criterion ids to numeric ratings; entries may reference criteria that no
// longer exist and the scoring engine tolerates that.
type Score struct {
	ID        string             `json:"id"`
	ProjectID string             `json:"project_id"`
	JudgeID   string             `json:"judge_id"`
	Ratings   map[string]float64 `json:"ratings"`
	JuryTRL   int                `json:"jury_trl"` // judge-assigned TRL, independent of the project's own
	Notes     string             `json:"notes,omitempty"`
}

// Clone returns a deep copy so callers can mutate ratings freely.
func (s Score) Clone() Score {
	out := s
	if s.Ratings != nil {
		out.Ratings = make(map[string]float64, len(s.Ratings))
		for k, v := range s.Ratings {
			out.Ratings[k] = v
		}
	}
	return out
}

// Snapshot bundles the four entity collections, the shape returned by
// GET /data and persisted by the local fallback store.
type Snapshot struct {
	Projects []Project   `json:"projects"`
	Judges   []Judge     `json:"judges"`
	Criteria []Criterion `json:"criteria"`
	Scores   []Score     `json:"scores"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Projects: make([]Project, len(s.Projects)),
		Judges:   make([]Judge, len(s.Judges)),
		Criteria: make([]Criterion, len(s.Criteria)),
		Scores:   make([]Score, len(s.Scores)),
	}
	copy(out.Projects, s.Projects)
	for i, p := range s.Projects {
		if p.Links != nil {
			out.Projects[i].Links = append([]string(nil), p.Links...)
		}
	}
	for i, j := range s.Judges {
		out.Judges[i] = j
		if j.Tracks != nil {
			out.Judges[i].Tracks = append([]string(nil), j.Tracks...)
		}
	}
	copy(out.Criteria, s.Criteria)
	for i, sc := range s.Scores {
		out.Scores[i] = sc.Clone()
	}
	return out
}

// NewProject builds a fully-formed Project. All required fields are taken at
// once; entity shape never changes after construction except through the
// defined update operations.
func NewProject(id, name, description, track string, trl int, links []string) Project {
	return Project{
		ID:          id,
		Name:        name,
		Description: description,
		Track:       track,
		TRL:         trl,
		Links:       links,
	}
}

// NewJudge builds a fully-formed Judge.
func NewJudge(id, name string, tracks []string) Judge {
	return Judge{ID: id, Name: name, Tracks: tracks}
}

// NewCriterion builds a fully-formed Criterion.
func NewCriterion(id, name string, weight float64) Criterion {
	return Criterion{ID: id, Name: name, Weight: weight}
}

// NewScore builds a fully-formed Score. A nil ratings map is normalized to an
// empty one so downstream code never nil-checks.
func NewScore(id, projectID, judgeID string, ratings map[string]float64, juryTRL int, notes string) Score {
	if ratings == nil {
		ratings = make(map[string]float64)
	}
	return Score{
		ID:        id,
		ProjectID: projectID,
		JudgeID:   judgeID,
		Ratings:   ratings,
		JuryTRL:   juryTRL,
		Notes:     notes,
	}
}
