package filtering

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/jobboard-ai/internal/store"
)

const keepAppliedMsg = "hide-applied is not set"

type appliedHistoryFilter struct {
	toggle
	applied map[uuid.UUID]bool
	hide    bool
	logger  *zap.Logger
}

// NewAppliedHistory creates a filter that removes vacancies the seeker already
// applied to. When hide is false the filter keeps them and only reports.
func NewAppliedHistory(applied map[uuid.UUID]bool, hide bool, logger *zap.Logger) Filter[store.Vacancy] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &appliedHistoryFilter{applied: applied, hide: hide, logger: logger}
}

func (f *appliedHistoryFilter) Name() string { return "applied_history" }

func (f *appliedHistoryFilter) Validate() error {
	if f.hide && f.applied == nil {
		return fmt.Errorf("application history is required")
	}
	return nil
}

func (f *appliedHistoryFilter) Apply(_ context.Context, pool []store.Vacancy) ([]store.Vacancy, Step, error) {
	initial := len(pool)
	if !f.hide {
		f.logger.Debug("keeping already applied vacancies", zap.String("reason", keepAppliedMsg))
		return pool, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept, excluded := exclude(pool, func(v store.Vacancy) bool { return f.applied[v.ID] }, vacancyID)
	if len(excluded) > 0 {
		f.logger.Info("excluding vacancies based on my applications",
			zap.Strings("excluded_vacancies", excluded),
			zap.Int("vacancies_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(excluded), Left: len(kept)}, nil
}

func (f *appliedHistoryFilter) Status() Status {
	details := map[string]string{
		"hide_applied": strconv.FormatBool(f.hide),
		"applications": strconv.Itoa(len(f.applied)),
	}
	reason := f.reason
	if reason == "" && !f.hide {
		reason = keepAppliedMsg
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: reason, Details: details}
}
