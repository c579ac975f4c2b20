package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/flood-planner/internal/domain"
	"github.com/couchcryptid/flood-planner/internal/observability"
)

// ErrScheduleTooLong is returned for schedules exceeding the configured day limit.
var ErrScheduleTooLong = errors.New("schedule too long")

// PlanTransformer implements Transformer by parsing a plan request and running
// it through a domain.Planner.
type PlanTransformer struct {
	planner domain.Planner
	maxDays int
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a PlanTransformer. A maxDays of zero or less disables
// the length limit.
func NewTransformer(planner domain.Planner, maxDays int, logger *slog.Logger, metrics *observability.Metrics) *PlanTransformer {
	return &PlanTransformer{
		planner: planner,
		maxDays: maxDays,
		logger:  logger,
		metrics: metrics,
	}
}

func (t *PlanTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.PlanEvent, error) {
	req, err := domain.ParseRequest(raw)
	if err != nil {
		return domain.PlanEvent{}, err
	}
	return t.PlanRequest(ctx, req, "kafka")
}

// PlanRequest plans a decoded request. source labels the outcome metric.
func (t *PlanTransformer) PlanRequest(ctx context.Context, req domain.PlanRequest, source string) (domain.PlanEvent, error) {
	if t.maxDays > 0 && len(req.Rains) > t.maxDays {
		return domain.PlanEvent{}, fmt.Errorf("%w: %d days exceeds limit of %d", ErrScheduleTooLong, len(req.Rains), t.maxDays)
	}

	result, err := t.planner.Plan(ctx, req.Rains)
	if err != nil {
		return domain.PlanEvent{}, fmt.Errorf("plan %s: %w", req.ID, err)
	}

	event := domain.NewPlanEvent(req.ID, req.Rains, result)
	t.metrics.PlanOutcomes.WithLabelValues(event.Outcome, source).Inc()
	t.metrics.ScheduleDays.Observe(float64(event.Days))

	if result.Outcome == domain.OutcomeInfeasible {
		t.logger.Debug("schedule cannot avoid flood",
			"id", req.ID,
			"flood_day", result.FloodDay,
			"flood_lake", result.FloodLake,
		)
	}
	return event, nil
}
