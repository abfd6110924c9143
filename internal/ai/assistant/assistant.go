package assistant

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/jobboard-ai/internal/ai"
	"github.com/spigell/jobboard-ai/internal/ai/interpret"
	"github.com/spigell/jobboard-ai/internal/ai/prompt"
)

// Fallback values used whenever the model answer cannot be interpreted.
const (
	FallbackExperience  = "3+ yil"
	FallbackMatchReason = "AI baholashi mavjud emas, standart ball qo'yildi."
)

var (
	fallbackSkills          = []string{"JavaScript", "React", "Node.js"}
	fallbackRecommendations = []string{
		"Tajribangizni aniq natijalar va raqamlar bilan tasvirlang.",
		"Asosiy texnik ko'nikmalaringizni alohida bo'limda ko'rsating.",
		"Rezyumeni qisqa va tushunarli formatda saqlang.",
	}
)

// TextGateway is the part of ai.Gateway the assistant depends on.
type TextGateway interface {
	Generate(ctx context.Context, prompt string) string
}

// Assistant composes prompt building, generation and interpretation.
// Its methods never fail; degraded answers come back as fallbacks.
type Assistant struct {
	gateway TextGateway
	builder *prompt.Builder
	logger  *zap.Logger
}

func New(gateway TextGateway, builder *prompt.Builder, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	if builder == nil {
		builder = prompt.NewBuilder(prompt.Options{})
	}
	return &Assistant{gateway: gateway, builder: builder, logger: logger}
}

// DefaultAnalysis returns a fresh copy of the static analysis fallback.
func DefaultAnalysis() ai.AnalysisResult {
	return ai.AnalysisResult{
		Skills:          append([]string(nil), fallbackSkills...),
		Experience:      FallbackExperience,
		Recommendations: append([]string(nil), fallbackRecommendations...),
	}
}

// DefaultMatchScore is the neutral score given to members the model did not score.
func DefaultMatchScore() ai.MatchScore {
	return ai.MatchScore{Score: ai.MinScore, Reason: FallbackMatchReason}
}

func (a *Assistant) AnalyzeCV(ctx context.Context, cvText string) ai.AnalysisResult {
	raw := a.gateway.Generate(ctx, a.builder.Build(prompt.KindCVAnalysis, prompt.Fields{CVText: cvText}))

	result := interpret.Analysis(raw, DefaultAnalysis())
	if !result.FromModel {
		a.logFallback(prompt.KindCVAnalysis, raw)
	}
	return result
}

// GenerateResume returns the generated résumé text. Gateway diagnostics are
// passed through so the caller can show them.
func (a *Assistant) GenerateResume(ctx context.Context, profile ai.ProfileSummary) string {
	raw := a.gateway.Generate(ctx, a.builder.Build(prompt.KindResume, prompt.Fields{Profile: profile}))
	if ai.IsDiagnostic(raw) {
		a.logFallback(prompt.KindResume, raw)
		return raw
	}
	return interpret.StripFences(raw)
}

// ScoreMatch scores one profile/vacancy pair with a job-match or candidate-match prompt.
func (a *Assistant) ScoreMatch(ctx context.Context, kind prompt.Kind, profile ai.ProfileSummary, job ai.JobSummary) ai.MatchScore {
	raw := a.gateway.Generate(ctx, a.builder.Build(kind, prompt.Fields{Profile: profile, Job: job}))

	score := interpret.MatchScore(raw, DefaultMatchScore())
	if !score.FromModel {
		a.logFallback(kind, raw)
	}
	return score
}

// ScoreBatch scores several pool members with a single prompt. The result
// holds an entry for every entry id.
func (a *Assistant) ScoreBatch(ctx context.Context, kind prompt.Kind, profile ai.ProfileSummary, job ai.JobSummary, entries []prompt.Entry) map[string]ai.MatchScore {
	if len(entries) == 0 {
		return map[string]ai.MatchScore{}
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}

	raw := a.gateway.Generate(ctx, a.builder.Build(kind, prompt.Fields{Profile: profile, Job: job, Entries: entries}))

	scores := interpret.BatchScores(raw, ids, DefaultMatchScore())
	missing := 0
	for _, score := range scores {
		if !score.FromModel {
			missing++
		}
	}
	if missing > 0 {
		a.logger.Warn("ai batch answer incomplete",
			zap.String("kind", string(kind)),
			zap.Int("entries", len(entries)),
			zap.Int("fallback", missing),
			zap.Bool("diagnostic", ai.IsDiagnostic(raw)),
		)
	}
	return scores
}

func (a *Assistant) logFallback(kind prompt.Kind, raw string) {
	a.logger.Warn("ai answer replaced by fallback",
		zap.String("kind", string(kind)),
		zap.Bool("diagnostic", ai.IsDiagnostic(raw)),
	)
}
