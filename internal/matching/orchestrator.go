package matching

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/jobboard-ai/internal/ai"
	"github.com/spigell/jobboard-ai/internal/ai/prompt"
	"github.com/spigell/jobboard-ai/internal/filtering"
	"github.com/spigell/jobboard-ai/internal/logger"
	"github.com/spigell/jobboard-ai/internal/store"
	"github.com/spigell/jobboard-ai/internal/utils"
)

const defaultConcurrency = 4

// Repository is the data access the orchestrator needs.
type Repository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (store.Profile, error)
	ListOpenVacancies(ctx context.Context) ([]store.Vacancy, error)
	ListApplicationsBySeeker(ctx context.Context, seekerID uuid.UUID) ([]store.Application, error)
	GetVacancyForCaller(ctx context.Context, caller store.Caller, id uuid.UUID) (store.Vacancy, error)
	ListCandidatesByVacancy(ctx context.Context, vacancyID uuid.UUID) ([]store.Candidate, error)
	UpdateMatchScore(ctx context.Context, applicationID uuid.UUID, score int) error
}

// Scorer produces match scores. It never fails; degraded scores carry
// FromModel=false.
type Scorer interface {
	ScoreMatch(ctx context.Context, kind prompt.Kind, profile ai.ProfileSummary, job ai.JobSummary) ai.MatchScore
	ScoreBatch(ctx context.Context, kind prompt.Kind, profile ai.ProfileSummary, job ai.JobSummary, entries []prompt.Entry) map[string]ai.MatchScore
}

type Config struct {
	// Concurrency bounds the number of scoring calls in flight.
	Concurrency int
	// BatchSize > 1 scores that many pool members with one prompt.
	BatchSize        int
	HideApplied      bool
	ExcludeCompanies []string
	// Limit caps the number of returned results; 0 means no limit.
	Limit int
}

type Orchestrator struct {
	repo   Repository
	scorer Scorer
	cfg    Config
	logger *zap.Logger
}

func New(repo Repository, scorer Scorer, cfg Config, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return &Orchestrator{repo: repo, scorer: scorer, cfg: cfg, logger: log}
}

// FindJobsForSeeker ranks the open vacancies for the calling job seeker.
func (o *Orchestrator) FindJobsForSeeker(ctx context.Context, caller store.Caller) ([]MatchResult, error) {
	if caller.Role != store.RoleJobSeeker {
		return nil, fmt.Errorf("find jobs: %w", store.ErrForbidden)
	}
	log := logger.WithCaller(o.logger, caller.ID.String(), string(caller.Role))

	pool, err := o.repo.ListOpenVacancies(ctx)
	if err != nil {
		return nil, fmt.Errorf("find jobs: %w", err)
	}
	applications, err := o.repo.ListApplicationsBySeeker(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("find jobs: %w", err)
	}
	applied := make(map[uuid.UUID]bool, len(applications))
	for _, application := range applications {
		applied[application.VacancyID] = true
	}

	steps := []filtering.Filter[store.Vacancy]{
		filtering.NewExcludedCompanies(o.cfg.ExcludeCompanies, log),
		filtering.NewAppliedHistory(applied, o.cfg.HideApplied, log),
	}
	pool, err = filtering.Run(ctx, log, steps, pool)
	if err != nil {
		return nil, fmt.Errorf("find jobs: %w", err)
	}
	if len(pool) == 0 {
		log.Info("no vacancies to match")
		return []MatchResult{}, nil
	}

	profile, err := o.seekerProfile(ctx, caller.ID, log)
	if err != nil {
		return nil, fmt.Errorf("find jobs: %w", err)
	}

	members := make([]member, 0, len(pool))
	for _, v := range pool {
		members = append(members, member{id: v.ID.String(), profile: profile, job: jobSummary(v)})
	}

	scores := o.score(ctx, prompt.KindJobMatch, prompt.KindBatchJobMatch, profile, ai.JobSummary{}, members)

	results := make([]MatchResult, 0, len(pool))
	for i, v := range pool {
		results = append(results, MatchResult{
			ID:             v.ID,
			Title:          v.Title,
			Company:        v.Company,
			MatchScore:     scores[i].Score,
			MatchReason:    scores[i].Reason,
			Skills:         utils.CleanStrings(v.Skills),
			AlreadyApplied: applied[v.ID],
			Urgent:         v.Urgent,
			CreatedAt:      v.CreatedAt,
			FromModel:      scores[i].FromModel,
		})
	}

	return o.finish(results, log), nil
}

// FindCandidatesForVacancy ranks the applicants of a vacancy owned by the
// calling employer. Admins may use any vacancy.
func (o *Orchestrator) FindCandidatesForVacancy(ctx context.Context, caller store.Caller, vacancyID uuid.UUID) ([]MatchResult, error) {
	if caller.Role != store.RoleEmployer && caller.Role != store.RoleAdmin {
		return nil, fmt.Errorf("find candidates: %w", store.ErrForbidden)
	}
	log := logger.WithCaller(o.logger, caller.ID.String(), string(caller.Role)).
		With(zap.String("vacancy_id", vacancyID.String()))

	vacancy, err := o.repo.GetVacancyForCaller(ctx, caller, vacancyID)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}

	pool, err := o.repo.ListCandidatesByVacancy(ctx, vacancyID)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}
	pool, err = filtering.Run(ctx, log, []filtering.Filter[store.Candidate]{filtering.NewActiveApplications(log)}, pool)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}
	if len(pool) == 0 {
		log.Info("no candidates to match")
		return []MatchResult{}, nil
	}

	job := jobSummary(vacancy)
	members := make([]member, 0, len(pool))
	for _, c := range pool {
		members = append(members, member{id: c.Application.ID.String(), profile: profileSummary(c.Profile), job: job})
	}

	scores := o.score(ctx, prompt.KindCandidateMatch, prompt.KindBatchCandidateMatch, ai.ProfileSummary{}, job, members)

	results := make([]MatchResult, 0, len(pool))
	for i, c := range pool {
		seekerID := c.Application.JobSeekerID
		results = append(results, MatchResult{
			ID:             c.Application.ID,
			JobSeekerID:    &seekerID,
			Title:          c.Profile.FullName,
			Company:        vacancy.Company,
			MatchScore:     scores[i].Score,
			MatchReason:    scores[i].Reason,
			Skills:         utils.CleanStrings(c.Profile.Skills),
			AlreadyApplied: true,
			Urgent:         vacancy.Urgent,
			CreatedAt:      c.Application.AppliedAt,
			FromModel:      scores[i].FromModel,
		})
	}

	o.persistScores(ctx, results, log)

	return o.finish(results, log), nil
}

// seekerProfile returns an empty snapshot for seekers without a profile, so
// the prompt is built with placeholders.
func (o *Orchestrator) seekerProfile(ctx context.Context, seekerID uuid.UUID, log *zap.Logger) (ai.ProfileSummary, error) {
	profile, err := o.repo.GetProfile(ctx, seekerID)
	if errors.Is(err, store.ErrNotFound) {
		log.Info("seeker has no profile; matching with placeholders")
		return ai.ProfileSummary{Skills: []string{}}, nil
	}
	if err != nil {
		return ai.ProfileSummary{}, err
	}
	return profileSummary(profile), nil
}

// persistScores stores model-produced scores. Failures do not fail the request.
func (o *Orchestrator) persistScores(ctx context.Context, results []MatchResult, log *zap.Logger) {
	for _, result := range results {
		if !result.FromModel {
			continue
		}
		if err := o.repo.UpdateMatchScore(ctx, result.ID, result.MatchScore); err != nil {
			log.Warn("storing match score failed",
				zap.String("application_id", result.ID.String()),
				zap.Error(err),
			)
		}
	}
}

func (o *Orchestrator) finish(results []MatchResult, log *zap.Logger) []MatchResult {
	Rank(results)

	total := len(results)
	degraded := 0
	for _, result := range results {
		if !result.FromModel {
			degraded++
		}
	}

	if o.cfg.Limit > 0 && len(results) > o.cfg.Limit {
		results = results[:o.cfg.Limit]
	}

	log.Info("matching completed",
		zap.Int("pool", total),
		zap.Int("fallback", degraded),
		zap.Int("returned", len(results)),
	)
	return results
}

type member struct {
	id      string
	profile ai.ProfileSummary
	job     ai.JobSummary
}

// score returns one MatchScore per member, in member order. All calls finish
// before it returns.
func (o *Orchestrator) score(ctx context.Context, kind, batchKind prompt.Kind, profile ai.ProfileSummary, job ai.JobSummary, members []member) []ai.MatchScore {
	scores := make([]ai.MatchScore, len(members))

	var g errgroup.Group
	g.SetLimit(o.cfg.Concurrency)

	if o.cfg.BatchSize <= 1 {
		for i := range members {
			g.Go(func() error {
				scores[i] = o.scorer.ScoreMatch(ctx, kind, members[i].profile, members[i].job)
				return nil
			})
		}
		_ = g.Wait()
		return scores
	}

	for start := 0; start < len(members); start += o.cfg.BatchSize {
		end := min(start+o.cfg.BatchSize, len(members))
		g.Go(func() error {
			chunk := members[start:end]
			entries := make([]prompt.Entry, 0, len(chunk))
			for _, m := range chunk {
				entries = append(entries, prompt.Entry{ID: m.id, Profile: m.profile, Job: m.job})
			}
			batch := o.scorer.ScoreBatch(ctx, batchKind, profile, job, entries)
			for i, m := range chunk {
				scores[start+i] = batch[m.id]
			}
			return nil
		})
	}
	_ = g.Wait()
	return scores
}

func jobSummary(v store.Vacancy) ai.JobSummary {
	return ai.JobSummary{
		Title:        v.Title,
		Company:      v.Company,
		Requirements: v.Requirements,
		Skills:       utils.CleanStrings(v.Skills),
		SalaryMin:    v.SalaryMin,
		SalaryMax:    v.SalaryMax,
		Location:     v.Location,
		WorkType:     v.WorkType,
	}
}

func profileSummary(p store.Profile) ai.ProfileSummary {
	return ai.ProfileSummary{
		Name:       p.FullName,
		Skills:     utils.CleanStrings(p.Skills),
		Experience: p.Experience,
		Education:  p.Education,
	}
}
