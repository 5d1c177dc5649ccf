package intake

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"docintake/internal/extraction"
	"docintake/internal/model"
)

const (
	outcomeOK        = "ok"
	outcomeFailed    = "failed"
	outcomeCancelled = "cancelled"
)

// Orchestrator runs one extraction per page concurrently and returns the results in page order.
type Orchestrator struct {
	extractor extraction.Extractor
	timeout   time.Duration
	limit     int
	metrics   *Metrics
	log       *slog.Logger
	tracer    trace.Tracer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTimeout bounds every single extraction call. Zero means no per-call bound.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithConcurrencyLimit caps in-flight calls. Zero or less means one goroutine per page.
func WithConcurrencyLimit(n int) Option {
	return func(o *Orchestrator) { o.limit = n }
}

// WithMetrics records per-page outcomes.
func WithMetrics(m *Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithLogger sets the logger; slog.Default is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// NewOrchestrator builds an Orchestrator around ex.
func NewOrchestrator(ex extraction.Extractor, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		extractor: ex,
		log:       slog.Default(),
		tracer:    otel.Tracer("docintake/internal/intake"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ExtractAll dispatches every page at once and waits for all of them.
//
// Each call is tagged with its page index when dispatched; results are sorted by that tag after
// the barrier, so completion order never matters. The batch is all-or-nothing: the first failing
// page cancels the calls still in flight and is returned as a *BatchExtractionError.
func (o *Orchestrator) ExtractAll(ctx context.Context, pages []model.EncodedPage) ([]model.PageExtraction, error) {
	if len(pages) == 0 {
		return nil, ErrEmptyBatch
	}

	ctx, span := o.tracer.Start(ctx, "intake.ExtractAll",
		trace.WithAttributes(attribute.Int("intake.pages", len(pages))))
	defer span.End()
	o.metrics.observeBatch(len(pages))

	results := make([]model.PageExtraction, len(pages))
	eg, gctx := errgroup.WithContext(ctx)
	if o.limit > 0 {
		eg.SetLimit(o.limit)
	}
	for slot, page := range pages {
		eg.Go(func() error {
			res, err := o.extractOne(gctx, page)
			if err != nil {
				return &BatchExtractionError{PageIndex: page.Index, Filename: page.Filename, Err: err}
			}
			res.PageIndex = page.Index
			results[slot] = res
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "batch extraction failed")
		o.log.Error("intake.batch_failed", "pages", len(pages), "error", err)
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].PageIndex < results[j].PageIndex
	})
	return results, nil
}

func (o *Orchestrator) extractOne(ctx context.Context, page model.EncodedPage) (model.PageExtraction, error) {
	ctx, span := o.tracer.Start(ctx, "intake.ExtractPage",
		trace.WithAttributes(
			attribute.Int("intake.page_index", page.Index),
			attribute.String("intake.filename", page.Filename),
		))
	defer span.End()

	if err := ctx.Err(); err != nil {
		o.metrics.observePage(outcomeCancelled, 0)
		return model.PageExtraction{}, err
	}
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := o.extractor.Extract(ctx, page)
	elapsed := time.Since(start)
	if err != nil {
		outcome := outcomeFailed
		if errors.Is(err, context.Canceled) {
			outcome = outcomeCancelled
		}
		o.metrics.observePage(outcome, elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, "page extraction failed")
		return model.PageExtraction{}, err
	}
	o.metrics.observePage(outcomeOK, elapsed)
	return res, nil
}
