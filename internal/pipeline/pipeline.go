package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/flood-planner/internal/domain"
	"github.com/couchcryptid/flood-planner/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// BatchExtractor reads up to batchSize raw requests from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer plans the schedule carried by a raw request.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.PlanEvent, error)
}

// BatchLoader writes multiple plan events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.PlanEvent) error
}

// Pipeline consumes rain schedules, plans them, and publishes the plans.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	batchSize   int

	ready   atomic.Bool
	backoff time.Duration
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
		backoff:     initialBackoff,
	}
}

// CheckReadiness returns nil once a batch of plans has been published.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no plans published yet")
	}
	return nil
}

// Run plans batches until the context is cancelled. Extract and load failures
// are retried with exponential backoff between 200ms and 5s.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	for ctx.Err() == nil {
		if !p.runOnce(ctx) {
			break
		}
	}
	p.logger.Info("pipeline stopping", "reason", context.Cause(ctx))
	return nil
}

// runOnce handles one batch. It returns false when the pipeline should stop.
func (p *Pipeline) runOnce(ctx context.Context) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err, "retry_in", p.backoff)
		return p.waitBackoff(ctx)
	}
	if len(rawBatch) == 0 {
		return true
	}

	p.metrics.SchedulesConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	p.backoff = initialBackoff

	plans, planned, report := p.planBatch(ctx, rawBatch)
	if len(plans) == 0 {
		p.logger.Debug("batch had no plannable requests", report.attrs()...)
		return true
	}

	if err := p.loader.LoadBatch(ctx, plans); err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("load batch failed", "error", err, "plans", len(plans), "retry_in", p.backoff)
		return p.waitBackoff(ctx)
	}

	p.metrics.PlansProduced.Add(float64(len(plans)))
	p.metrics.BatchInfeasibleRatio.Set(report.infeasibleRatio())
	for _, raw := range planned {
		p.commit(ctx, raw)
	}

	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
	p.logger.Info("batch planned", report.attrs()...)
	return true
}

// planBatch plans every request in rawBatch. Rejected requests are committed
// immediately so they are not redelivered; the returned raws are the ones
// whose plans still need loading before their offsets are committed.
func (p *Pipeline) planBatch(ctx context.Context, rawBatch []domain.RawEvent) ([]domain.PlanEvent, []domain.RawEvent, batchReport) {
	plans := make([]domain.PlanEvent, 0, len(rawBatch))
	planned := make([]domain.RawEvent, 0, len(rawBatch))
	var report batchReport

	for _, raw := range rawBatch {
		plan, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			report.rejected++
			p.logger.Warn("plan request rejected, skipping message",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.Inc()
			p.commit(ctx, raw)
			continue
		}
		report.record(plan.Outcome)
		plans = append(plans, plan)
		planned = append(planned, raw)
	}
	return plans, planned, report
}

// waitBackoff sleeps for the current backoff and doubles it. It returns
// false if ctx ends first.
func (p *Pipeline) waitBackoff(ctx context.Context) bool {
	if !retry.SleepWithContext(ctx, p.backoff) {
		return false
	}
	p.backoff = retry.NextBackoff(p.backoff, maxBackoff)
	return true
}

func (p *Pipeline) commit(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

// batchReport tallies plan outcomes within one batch.
type batchReport struct {
	feasible   int
	infeasible int
	empty      int
	rejected   int
}

func (r *batchReport) record(outcome string) {
	switch outcome {
	case domain.OutcomeFeasible.String():
		r.feasible++
	case domain.OutcomeInfeasible.String():
		r.infeasible++
	case domain.OutcomeEmptyInput.String():
		r.empty++
	}
}

// infeasibleRatio is the share of produced plans that could not avoid a flood.
func (r batchReport) infeasibleRatio() float64 {
	total := r.feasible + r.infeasible + r.empty
	if total == 0 {
		return 0
	}
	return float64(r.infeasible) / float64(total)
}

func (r batchReport) attrs() []any {
	return []any{
		"feasible", r.feasible,
		"infeasible", r.infeasible,
		"empty", r.empty,
		"rejected", r.rejected,
	}
}
