package interpret

import (
	"slices"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/jobboard-ai/internal/ai"
)

// Analysis interprets a CV analysis answer. When raw holds no parsable object
// the fallback is returned unchanged. FromModel is set only when at least one
// field was taken from the answer.
func Analysis(raw string, fallback ai.AnalysisResult) ai.AnalysisResult {
	obj, ok := ExtractObject(raw)
	if !ok {
		return fallback
	}

	result := ai.AnalysisResult{
		Skills:          nonNil(fallback.Skills),
		Experience:      fallback.Experience,
		Recommendations: nonNil(fallback.Recommendations),
		FromModel:       fallback.FromModel,
	}

	if skills, ok := coerceStringList(obj["skills"]); ok {
		result.Skills = skills
		result.FromModel = true
	}
	if experience := coerceString(obj["experience"]); experience != "" {
		result.Experience = experience
		result.FromModel = true
	}
	if recommendations, ok := coerceStringList(obj["recommendations"]); ok {
		result.Recommendations = recommendations
		result.FromModel = true
	}

	return result
}

// MatchScore interprets a single match answer. The score is clamped to
// [ai.MinScore, ai.MaxScore]. An answer without a numeric score yields the
// fallback as is, reason included.
func MatchScore(raw string, fallback ai.MatchScore) ai.MatchScore {
	obj, ok := ExtractObject(raw)
	if !ok {
		return fallback
	}

	return scoreFromObject(obj, fallback)
}

func scoreFromObject(obj map[string]any, fallback ai.MatchScore) ai.MatchScore {
	score, ok := scoreFrom(firstPresent(obj, "score", "matchScore", "match_score"))
	if !ok {
		return fallback
	}

	result := ai.MatchScore{
		Score:     ai.ClampScore(score),
		Reason:    fallback.Reason,
		FromModel: true,
	}
	if reason := coerceString(firstPresent(obj, "reason", "matchReason", "match_reason")); reason != "" {
		result.Reason = reason
	}

	return result
}

type batchEntry struct {
	ID     string `mapstructure:"id"`
	Score  any    `mapstructure:"score"`
	Reason string `mapstructure:"reason"`
}

// BatchScores interprets a batch answer of the form
// {"matches":[{"id":..,"score":..,"reason":..}]}. Every id in ids is present
// in the result; ids the model skipped keep the fallback.
func BatchScores(raw string, ids []string, fallback ai.MatchScore) map[string]ai.MatchScore {
	scores := make(map[string]ai.MatchScore, len(ids))
	for _, id := range ids {
		scores[id] = fallback
	}

	obj, ok := ExtractObject(raw)
	if !ok {
		return scores
	}

	items, ok := obj["matches"].([]any)
	if !ok {
		return scores
	}

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		var entry batchEntry
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &entry,
		})
		if err != nil {
			continue
		}
		if err := decoder.Decode(item); err != nil {
			continue
		}

		if _, wanted := scores[entry.ID]; !wanted || seen[entry.ID] {
			continue
		}
		seen[entry.ID] = true

		scores[entry.ID] = scoreFromObject(map[string]any{
			"score":  entry.Score,
			"reason": entry.Reason,
		}, fallback)
	}

	return scores
}

// nonNil copies values so the caller's fallback is never shared or altered.
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return slices.Clone(values)
}
