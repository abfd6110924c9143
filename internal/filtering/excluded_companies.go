package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobboard-ai/internal/store"
)

type excludedCompaniesFilter struct {
	toggle
	companies []string
	logger    *zap.Logger
}

// NewExcludedCompanies creates a filter that removes vacancies of the configured companies.
// Company names are compared case-insensitively.
func NewExcludedCompanies(companies []string, logger *zap.Logger) Filter[store.Vacancy] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &excludedCompaniesFilter{companies: companies, logger: logger}
}

func (f *excludedCompaniesFilter) Name() string { return "excluded_companies" }

func (f *excludedCompaniesFilter) Validate() error { return nil }

func (f *excludedCompaniesFilter) Apply(_ context.Context, pool []store.Vacancy) ([]store.Vacancy, Step, error) {
	initial := len(pool)

	blocked := make(map[string]struct{}, len(f.companies))
	for _, company := range f.companies {
		if company = strings.ToLower(strings.TrimSpace(company)); company != "" {
			blocked[company] = struct{}{}
		}
	}
	if len(blocked) == 0 {
		return pool, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept, excluded := exclude(pool, func(v store.Vacancy) bool {
		_, ok := blocked[strings.ToLower(strings.TrimSpace(v.Company))]
		return ok
	}, vacancyID)
	if len(excluded) > 0 {
		f.logger.Info("excluding vacancies by company",
			zap.Strings("excluded_companies", f.companies),
			zap.Strings("excluded_vacancies", excluded),
			zap.Int("vacancies_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(excluded), Left: len(kept)}, nil
}

func (f *excludedCompaniesFilter) Status() Status {
	details := map[string]string{}
	if len(f.companies) > 0 {
		details["companies"] = strings.Join(f.companies, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

func vacancyID(v store.Vacancy) string { return v.ID.String() }
