// Package evaluation runs generators and screens what they produce.
package evaluation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lingnexus/lingnexus/internal/admission"
	"github.com/lingnexus/lingnexus/internal/descriptors"
	"github.com/lingnexus/lingnexus/internal/extract"
	"github.com/lingnexus/lingnexus/internal/generation"
	"github.com/lingnexus/lingnexus/internal/models"
	"golang.org/x/sync/errgroup"
)

// Request describes one generator run.
type Request struct {
	Generator    string
	Target       string
	Requirements string
	// SystemPrompt overrides the designer prompt when set.
	SystemPrompt string
	// Timeout bounds the generation call and the review call.
	Timeout time.Duration
	// Reviewer names a generator that reviews the admitted candidates when
	// set. A failed review is recorded on the run and does not fail it.
	Reviewer string
}

// ProgressListener receives progress updates
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event
type EventType string

// EventType constants
const (
	EventRunStart           EventType = "run_start"
	EventGenerationComplete EventType = "generation_complete"
	EventCandidateScreened  EventType = "candidate_screened"
	EventReviewComplete     EventType = "review_complete"
	EventRunComplete        EventType = "run_complete"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	EventType EventType
	Generator string
	RunID     string

	// Candidate events
	Candidate models.CandidateIdentifier
	Index     int
	Total     int
	Admitted  bool
	Skipped   bool

	Duration time.Duration
	Status   models.RunStatus
	Failure  *models.RunFailure
}

// Evaluator composes generation, extraction and screening into runs.
type Evaluator struct {
	runtime   *generation.Runtime
	provider  descriptors.Provider
	extractor *extract.Extractor
	workers   int
	parallel  bool

	progressMu sync.Mutex
	listeners  []ProgressListener
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithExtractor replaces the default extractor.
func WithExtractor(e *extract.Extractor) Option {
	return func(ev *Evaluator) {
		ev.extractor = e
	}
}

// WithWorkers sets the number of concurrent descriptor computations per run.
func WithWorkers(n int) Option {
	return func(ev *Evaluator) {
		ev.workers = n
	}
}

// WithParallel makes RunAll evaluate generators concurrently.
func WithParallel(parallel bool) Option {
	return func(ev *Evaluator) {
		ev.parallel = parallel
	}
}

// New creates an Evaluator. runtime may be nil for an evaluator that only
// screens existing text.
func New(runtime *generation.Runtime, provider descriptors.Provider, opts ...Option) *Evaluator {
	ev := &Evaluator{
		runtime:   runtime,
		provider:  provider,
		extractor: extract.New(),
		workers:   1,
		listeners: []ProgressListener{},
	}
	for _, o := range opts {
		o(ev)
	}
	return ev
}

// OnProgress registers a progress listener. Listeners may be called
// concurrently when screening or runs are parallel.
func (ev *Evaluator) OnProgress(listener ProgressListener) {
	ev.progressMu.Lock()
	defer ev.progressMu.Unlock()
	ev.listeners = append(ev.listeners, listener)
}

func (ev *Evaluator) notifyProgress(event ProgressEvent) {
	ev.progressMu.Lock()
	listeners := make([]ProgressListener, len(ev.listeners))
	copy(listeners, ev.listeners)
	ev.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// Run evaluates one generator once. Generation failures and empty
// extractions come back as failed records, not errors. The error return is
// reserved for an unknown generator or reviewer and for cancellation of ctx.
func (ev *Evaluator) Run(ctx context.Context, req Request) (*models.RunRecord, error) {
	if ev.runtime == nil {
		return nil, fmt.Errorf("evaluator has no generator runtime")
	}

	gen, err := ev.runtime.Generator(req.Generator)
	if err != nil {
		return nil, err
	}
	var rv *reviewer
	if req.Reviewer != "" {
		rg, err := ev.runtime.Generator(req.Reviewer)
		if err != nil {
			return nil, fmt.Errorf("reviewer: %w", err)
		}
		rv = &reviewer{gen: rg, timeout: req.Timeout}
	}

	prompt := generation.BuildPrompt(req.Target, req.Requirements)
	record := &models.RunRecord{
		RunID:       uuid.NewString(),
		GeneratorID: gen.Name(),
		Target:      req.Target,
		Request:     prompt,
		StartedAt:   time.Now(),
	}

	ev.notifyProgress(ProgressEvent{
		EventType: EventRunStart,
		Generator: record.GeneratorID,
		RunID:     record.RunID,
	})

	// Initialization is idempotent and owned by the runtime.
	_ = ev.runtime.Initialize(ctx)
	if err := ev.runtime.Err(gen.Name()); err != nil {
		return ev.fail(record, models.FailureGeneration, fmt.Sprintf("initialize: %v", err)), nil
	}

	start := time.Now()
	resp, err := gen.Generate(ctx, &generation.Request{
		Prompt:       prompt,
		SystemPrompt: req.SystemPrompt,
		Timeout:      req.Timeout,
	})
	record.Duration = time.Since(start)

	if err != nil {
		slog.Warn("generation failed", "generator", record.GeneratorID, "error", err)
		return ev.fail(record, models.FailureGeneration, err.Error()), nil
	}

	record.RawText = resp.Text
	record.Model = resp.ModelID

	ev.notifyProgress(ProgressEvent{
		EventType: EventGenerationComplete,
		Generator: record.GeneratorID,
		RunID:     record.RunID,
		Duration:  record.Duration,
	})

	return ev.screen(ctx, record, rv)
}

// ScreenText extracts and screens existing generator output without calling
// a generator. label becomes the record's generator id.
func (ev *Evaluator) ScreenText(ctx context.Context, label, target, raw string) (*models.RunRecord, error) {
	record := &models.RunRecord{
		RunID:       uuid.NewString(),
		GeneratorID: label,
		Target:      target,
		StartedAt:   time.Now(),
		RawText:     raw,
	}

	ev.notifyProgress(ProgressEvent{
		EventType: EventRunStart,
		Generator: record.GeneratorID,
		RunID:     record.RunID,
	})

	return ev.screen(ctx, record, nil)
}

// reviewer is the optional review step of a run.
type reviewer struct {
	gen     generation.Generator
	timeout time.Duration
}

func (ev *Evaluator) screen(ctx context.Context, record *models.RunRecord, rv *reviewer) (*models.RunRecord, error) {
	record.Candidates = ev.extractor.Extract(record.RawText)
	if len(record.Candidates) == 0 {
		return ev.fail(record, models.FailureEmptyExtraction, "no candidate identifiers found in generator output"), nil
	}

	total := len(record.Candidates)
	filter := admission.NewFilter(ev.provider,
		admission.WithWorkers(ev.workers),
		admission.WithObserver(func(o admission.Outcome) {
			event := ProgressEvent{
				EventType: EventCandidateScreened,
				Generator: record.GeneratorID,
				RunID:     record.RunID,
				Index:     o.Index,
				Total:     total,
			}
			if o.Skip != nil {
				event.Candidate = o.Skip.Identifier
				event.Skipped = true
			} else {
				event.Candidate = o.Result.Identifier
				event.Admitted = o.Result.Admitted
			}
			ev.notifyProgress(event)
		}),
	)

	screening, err := filter.Screen(ctx, record.Candidates)
	record.Admitted = screening.Admitted
	record.Rejected = screening.Rejected
	record.Skipped = screening.Skipped
	if err != nil {
		return record, err
	}

	record.Status = models.RunSucceeded
	if rv != nil && len(record.Admitted) > 0 {
		ev.review(ctx, record, rv)
		if err := ctx.Err(); err != nil {
			return record, err
		}
	}

	ev.notifyProgress(ProgressEvent{
		EventType: EventRunComplete,
		Generator: record.GeneratorID,
		RunID:     record.RunID,
		Duration:  record.Duration,
		Status:    record.Status,
	})
	return record, nil
}

func (ev *Evaluator) review(ctx context.Context, record *models.RunRecord, rv *reviewer) {
	record.Review = &models.RunReview{Reviewer: rv.gen.Name()}

	start := time.Now()
	var resp *generation.Response
	err := ev.runtime.Err(rv.gen.Name())
	if err == nil {
		resp, err = rv.gen.Generate(ctx, &generation.Request{
			Prompt:       generation.BuildReviewPrompt(record.Target, record.Admitted),
			SystemPrompt: generation.ReviewerSystemPrompt,
			Timeout:      rv.timeout,
		})
	}
	if err != nil {
		slog.Warn("review failed", "generator", record.GeneratorID, "reviewer", record.Review.Reviewer, "error", err)
		record.Review.Error = err.Error()
	} else {
		record.Review.Text = resp.Text
	}

	ev.notifyProgress(ProgressEvent{
		EventType: EventReviewComplete,
		Generator: record.GeneratorID,
		RunID:     record.RunID,
		Duration:  time.Since(start),
	})
}

func (ev *Evaluator) fail(record *models.RunRecord, kind models.FailureKind, msg string) *models.RunRecord {
	record.Status = models.RunFailed
	record.Failure = &models.RunFailure{Kind: kind, Message: msg}

	ev.notifyProgress(ProgressEvent{
		EventType: EventRunComplete,
		Generator: record.GeneratorID,
		RunID:     record.RunID,
		Duration:  record.Duration,
		Status:    record.Status,
		Failure:   record.Failure,
	})
	return record
}

// RunAll evaluates each request once and returns the records in request
// order. A failing generator never affects the others.
func (ev *Evaluator) RunAll(ctx context.Context, reqs []Request) ([]*models.RunRecord, error) {
	if ev.runtime == nil {
		return nil, fmt.Errorf("evaluator has no generator runtime")
	}
	for _, r := range reqs {
		if _, err := ev.runtime.Generator(r.Generator); err != nil {
			return nil, err
		}
	}

	records := make([]*models.RunRecord, len(reqs))

	if !ev.parallel {
		for i, r := range reqs {
			rec, err := ev.Run(ctx, r)
			if err != nil {
				return records, err
			}
			records[i] = rec
		}
		return records, nil
	}

	// Initialize before fanning out so generators start once, serially.
	_ = ev.runtime.Initialize(ctx)

	g, gctx := errgroup.WithContext(ctx)
	for i, r := range reqs {
		g.Go(func() error {
			rec, err := ev.Run(gctx, r)
			records[i] = rec
			return err
		})
	}
	err := g.Wait()
	return records, err
}
