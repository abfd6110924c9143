package matching

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
)

// MatchResult is one ranked pool member. For job matches ID is the vacancy
// id; for candidate matches it is the application id and JobSeekerID is set.
type MatchResult struct {
	ID             uuid.UUID  `json:"id"`
	JobSeekerID    *uuid.UUID `json:"jobSeekerId,omitempty"`
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	MatchScore     int        `json:"matchScore"`
	MatchReason    string     `json:"matchReason,omitempty"`
	Skills         []string   `json:"skills"`
	AlreadyApplied bool       `json:"alreadyApplied"`
	Urgent         bool       `json:"urgent"`
	CreatedAt      time.Time  `json:"createdAt"`
	FromModel      bool       `json:"fromModel"`
}

// Rank orders results by score, then by recency, then by id so that the
// order is total and repeated calls give the same result.
func Rank(results []MatchResult) {
	slices.SortFunc(results, compareResults)
}

func compareResults(a, b MatchResult) int {
	if c := cmp.Compare(b.MatchScore, a.MatchScore); c != 0 {
		return c
	}
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID.String(), b.ID.String())
}
