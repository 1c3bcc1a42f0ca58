package admission

import (
	"context"
	"log/slog"

	"github.com/lingnexus/lingnexus/internal/descriptors"
	"github.com/lingnexus/lingnexus/internal/models"
	"golang.org/x/sync/errgroup"
)

// Screening is the outcome of screening one candidate list. Every slice is
// in extraction order.
type Screening struct {
	Admitted []models.AdmissionResult
	Rejected []models.AdmissionResult
	Skipped  []models.ScreeningSkip
}

// Screened is the number of candidates that reached the rules.
func (s *Screening) Screened() int {
	return len(s.Admitted) + len(s.Rejected)
}

// Outcome is one screened candidate, reported to a Filter's observer.
type Outcome struct {
	Index  int
	Result *models.AdmissionResult
	Skip   *models.ScreeningSkip
}

// Filter computes descriptors for candidates and applies the rule set.
type Filter struct {
	provider descriptors.Provider
	workers  int
	observe  func(Outcome)
}

// Option configures a Filter.
type Option func(*Filter)

// WithWorkers bounds the number of concurrent descriptor computations.
// Values below 2 screen sequentially.
func WithWorkers(n int) Option {
	return func(f *Filter) {
		f.workers = n
	}
}

// WithObserver registers a callback invoked once per candidate as soon as it
// is screened. Under parallel screening callbacks arrive out of order and
// may be concurrent.
func WithObserver(fn func(Outcome)) Option {
	return func(f *Filter) {
		f.observe = fn
	}
}

// NewFilter creates a Filter over provider.
func NewFilter(provider descriptors.Provider, opts ...Option) *Filter {
	f := &Filter{provider: provider, workers: 1}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Screen computes descriptors once per distinct identifier and applies the
// rules. Repeated identifiers reuse the first computation. Invalid
// identifiers and engine faults are recorded as skips; neither aborts the
// batch. Only cancellation of ctx stops screening early, in which case the
// partial screening is returned with ctx's error.
func (f *Filter) Screen(ctx context.Context, ids []models.CandidateIdentifier) (*Screening, error) {
	outcomes := make([]*Outcome, len(ids))

	first := make(map[models.CandidateIdentifier]int, len(ids))
	var distinct []int
	for i, id := range ids {
		if _, seen := first[id]; !seen {
			first[id] = i
			distinct = append(distinct, i)
		}
	}

	screenOne := func(ctx context.Context, i int) {
		o := f.screenOne(ctx, i, ids[i])
		outcomes[i] = &o
		if f.observe != nil {
			f.observe(o)
		}
	}

	var ctxErr error
	if f.workers < 2 || len(distinct) < 2 {
		for _, i := range distinct {
			if err := ctx.Err(); err != nil {
				ctxErr = err
				break
			}
			screenOne(ctx, i)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(f.workers)
		for _, i := range distinct {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				screenOne(gctx, i)
				return nil
			})
		}
		ctxErr = g.Wait()
	}

	// Re-join in extraction order.
	s := &Screening{}
	for i, id := range ids {
		o := outcomes[i]
		if o == nil {
			src := outcomes[first[id]]
			if src == nil {
				continue // not reached before cancellation
			}
			dup := *src
			dup.Index = i
			o = &dup
			if f.observe != nil {
				f.observe(dup)
			}
		}

		switch {
		case o.Skip != nil:
			s.Skipped = append(s.Skipped, *o.Skip)
		case o.Result.Admitted:
			s.Admitted = append(s.Admitted, *o.Result)
		default:
			s.Rejected = append(s.Rejected, *o.Result)
		}
	}
	return s, ctxErr
}

func (f *Filter) screenOne(ctx context.Context, i int, id models.CandidateIdentifier) Outcome {
	res, err := f.provider.Compute(ctx, id)
	if err != nil {
		slog.Warn("descriptor engine failed", "identifier", id, "error", err)
		return Outcome{Index: i, Skip: &models.ScreeningSkip{Identifier: id, Reason: err.Error(), Fault: true}}
	}
	if !res.Valid {
		slog.Debug("skipping invalid identifier", "identifier", id, "reason", res.Reason)
		return Outcome{Index: i, Skip: &models.ScreeningSkip{Identifier: id, Reason: res.Reason}}
	}

	result := Evaluate(id, res.Record)
	return Outcome{Index: i, Result: &result}
}

// Admit is the plain filter operation: it returns only the admitted
// candidates, in extraction order.
func (f *Filter) Admit(ctx context.Context, ids []models.CandidateIdentifier) ([]models.AdmissionResult, error) {
	s, err := f.Screen(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.Admitted, nil
}
