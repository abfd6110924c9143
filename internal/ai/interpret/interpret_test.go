package interpret

import (
	"reflect"
	"testing"

	"github.com/spigell/jobboard-ai/internal/ai"
)

func analysisFallback() ai.AnalysisResult {
	return ai.AnalysisResult{
		Skills:          []string{"JavaScript"},
		Experience:      "3+ yil",
		Recommendations: []string{"A", "B"},
	}
}

func TestAnalysisFromPrefixedAnswer(t *testing.T) {
	raw := "Javob: {\"skills\": [\"Go\"], \"experience\": \"3 yil\", \"recommendations\": [\"X\"]}"

	got := Analysis(raw, analysisFallback())
	expect := ai.AnalysisResult{
		Skills:          []string{"Go"},
		Experience:      "3 yil",
		Recommendations: []string{"X"},
		FromModel:       true,
	}
	if !reflect.DeepEqual(got, expect) {
		t.Fatalf("unexpected analysis: %+v", got)
	}
}

func TestAnalysisReturnsFallbackUnchanged(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"no json here",
		"",
		"{ not json at all }",
		"} reversed {",
		ai.DiagnosticQuotaExceeded,
	} {
		got := Analysis(raw, analysisFallback())
		if !reflect.DeepEqual(got, analysisFallback()) {
			t.Fatalf("raw %q: expected fallback, got %+v", raw, got)
		}
	}
}

func TestAnalysisFieldValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		raw    string
		expect ai.AnalysisResult
	}{
		{
			name: "skills not a list",
			raw:  `{"skills": "Go, Python", "experience": "5 yil", "recommendations": ["R"]}`,
			expect: ai.AnalysisResult{
				Skills: []string{"JavaScript"}, Experience: "5 yil", Recommendations: []string{"R"}, FromModel: true,
			},
		},
		{
			name: "missing scalar",
			raw:  `{"skills": ["Go"], "recommendations": []}`,
			expect: ai.AnalysisResult{
				Skills: []string{"Go"}, Experience: "3+ yil", Recommendations: []string{}, FromModel: true,
			},
		},
		{
			name: "nothing usable",
			raw:  `{"skills": null, "experience": "  ", "recommendations": {"a": 1}}`,
			expect: ai.AnalysisResult{
				Skills: []string{"JavaScript"}, Experience: "3+ yil", Recommendations: []string{"A", "B"}, FromModel: false,
			},
		},
		{
			name: "empty object",
			raw:  `{}`,
			expect: ai.AnalysisResult{
				Skills: []string{"JavaScript"}, Experience: "3+ yil", Recommendations: []string{"A", "B"}, FromModel: false,
			},
		},
		{
			name: "mixed list items",
			raw:  "```json\n{\"skills\": [\"Go\", 42, \" \", \"SQL\"], \"experience\": \"2 yil\"}\n```",
			expect: ai.AnalysisResult{
				Skills: []string{"Go", "SQL"}, Experience: "2 yil", Recommendations: []string{"A", "B"}, FromModel: true,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Analysis(tc.raw, analysisFallback()); !reflect.DeepEqual(got, tc.expect) {
				t.Fatalf("expected %+v, got %+v", tc.expect, got)
			}
		})
	}
}

func TestMatchScoreClampsAndCoerces(t *testing.T) {
	t.Parallel()

	fallback := ai.MatchScore{Score: 0, Reason: "baholab bo'lmadi"}
	cases := []struct {
		name   string
		raw    string
		expect ai.MatchScore
	}{
		{name: "plain", raw: `{"score": 82, "reason": "Go tajribasi mos"}`, expect: ai.MatchScore{Score: 82, Reason: "Go tajribasi mos", FromModel: true}},
		{name: "above range", raw: `{"score": 140, "reason": "r"}`, expect: ai.MatchScore{Score: 100, Reason: "r", FromModel: true}},
		{name: "below range", raw: `{"score": -3, "reason": "r"}`, expect: ai.MatchScore{Score: 0, Reason: "r", FromModel: true}},
		{name: "string score", raw: `{"score": "67.6%"}`, expect: ai.MatchScore{Score: 68, Reason: "baholab bo'lmadi", FromModel: true}},
		{name: "alias key", raw: `{"match_score": 55}`, expect: ai.MatchScore{Score: 55, Reason: "baholab bo'lmadi", FromModel: true}},
		{name: "non numeric", raw: `{"score": "high", "reason": "r"}`, expect: fallback},
		{name: "not available", raw: `{"score": "n/a", "reason": "x"}`, expect: fallback},
		{name: "empty object", raw: `{}`, expect: fallback},
		{name: "reason only", raw: `{"reason": "x"}`, expect: fallback},
		{name: "no object", raw: "score is 90", expect: fallback},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := MatchScore(tc.raw, fallback); got != tc.expect {
				t.Fatalf("expected %+v, got %+v", tc.expect, got)
			}
		})
	}
}

func TestBatchScores(t *testing.T) {
	fallback := ai.MatchScore{Reason: "fallback"}
	raw := `Natija:
{"matches": [
  {"id": "a", "score": 90, "reason": "kuchli"},
  {"id": "b", "score": "45"},
  {"id": "a", "score": 10, "reason": "duplicate"},
  {"id": "zzz", "score": 99},
  "garbage"
]}`

	got := BatchScores(raw, []string{"a", "b", "c"}, fallback)
	expect := map[string]ai.MatchScore{
		"a": {Score: 90, Reason: "kuchli", FromModel: true},
		"b": {Score: 45, Reason: "fallback", FromModel: true},
		"c": fallback,
	}
	if !reflect.DeepEqual(got, expect) {
		t.Fatalf("unexpected batch scores: %+v", got)
	}
}

func TestBatchScoresEntryWithoutScoreKeepsFallback(t *testing.T) {
	fallback := ai.MatchScore{Reason: "fallback"}
	raw := `{"matches": [{"id": "a"}, {"id": "b", "reason": "x"}, {"id": "c", "score": "n/a"}]}`

	got := BatchScores(raw, []string{"a", "b", "c"}, fallback)
	for _, id := range []string{"a", "b", "c"} {
		if got[id] != fallback {
			t.Fatalf("id %s: expected fallback, got %+v", id, got[id])
		}
	}
}

func TestAnalysisDoesNotRewriteFallbackLists(t *testing.T) {
	fallback := ai.AnalysisResult{
		Skills:          []string{" Go ", ""},
		Experience:      "1 yil",
		Recommendations: []string{"A"},
	}

	got := Analysis(`{"experience": "2 yil"}`, fallback)
	if !reflect.DeepEqual(got.Skills, []string{" Go ", ""}) {
		t.Fatalf("expected fallback skills to be copied as is, got %q", got.Skills)
	}

	got.Skills[0] = "changed"
	if fallback.Skills[0] != " Go " {
		t.Fatal("result must not share the fallback slice")
	}
}

func TestBatchScoresWithoutObject(t *testing.T) {
	fallback := ai.MatchScore{Reason: "fallback"}

	got := BatchScores(ai.DiagnosticGeneric, []string{"a", "b"}, fallback)
	if len(got) != 2 || got["a"] != fallback || got["b"] != fallback {
		t.Fatalf("expected fallback for every id, got %+v", got)
	}
}

func TestBatchScoresNumericIDs(t *testing.T) {
	got := BatchScores(`{"matches": [{"id": 7, "score": 70}]}`, []string{"7"}, ai.MatchScore{})
	if got["7"].Score != 70 {
		t.Fatalf("expected weakly typed id to match, got %+v", got)
	}
}
