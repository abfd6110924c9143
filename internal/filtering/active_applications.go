package filtering

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/jobboard-ai/internal/store"
)

type activeApplicationsFilter struct {
	toggle
	logger *zap.Logger
}

// NewActiveApplications creates a filter that removes withdrawn and rejected
// applications from a candidate pool.
func NewActiveApplications(logger *zap.Logger) Filter[store.Candidate] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &activeApplicationsFilter{logger: logger}
}

func (f *activeApplicationsFilter) Name() string { return "active_applications" }

func (f *activeApplicationsFilter) Validate() error { return nil }

func (f *activeApplicationsFilter) Apply(_ context.Context, pool []store.Candidate) ([]store.Candidate, Step, error) {
	initial := len(pool)

	kept, excluded := exclude(pool, func(c store.Candidate) bool {
		switch c.Application.Status {
		case store.ApplicationStatusWithdrawn, store.ApplicationStatusRejected:
			return true
		default:
			return false
		}
	}, func(c store.Candidate) string { return c.Application.ID.String() })
	if len(excluded) > 0 {
		f.logger.Info("excluding inactive applications",
			zap.Strings("excluded_applications", excluded),
			zap.Int("applications_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(excluded), Left: len(kept)}, nil
}
