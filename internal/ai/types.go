package ai

// ProfileSummary is the candidate-facing snapshot used for prompting.
type ProfileSummary struct {
	Name       string   `json:"name"`
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
	Education  string   `json:"education"`
}

// JobSummary is the vacancy snapshot used for prompting.
type JobSummary struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Requirements string   `json:"requirements"`
	Skills       []string `json:"skills"`
	SalaryMin    int      `json:"salaryMin"`
	SalaryMax    int      `json:"salaryMax"`
	Location     string   `json:"location"`
	WorkType     string   `json:"workType"`
}

// AnalysisResult is the outcome of a CV analysis. FromModel is false when every
// field came from the static fallback.
type AnalysisResult struct {
	Skills          []string `json:"skills"`
	Experience      string   `json:"experience"`
	Recommendations []string `json:"recommendations"`
	FromModel       bool     `json:"fromModel"`
}

// MatchScore is the interpreted score of a single candidate/vacancy pair.
type MatchScore struct {
	Score     int    `json:"score"`
	Reason    string `json:"reason"`
	FromModel bool   `json:"fromModel"`
}

const (
	MinScore = 0
	MaxScore = 100
)

// ClampScore keeps a score inside [MinScore, MaxScore].
func ClampScore(score int) int {
	return min(max(score, MinScore), MaxScore)
}
