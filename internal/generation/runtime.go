package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrGeneratorNotFound is returned by Runtime.Generator for unknown names.
var ErrGeneratorNotFound = errors.New("generator not registered")

// Runtime owns a set of generators and their one-time initialization.
// A generator that fails to initialize stays registered; its error is
// reported through Err so that siblings keep working.
type Runtime struct {
	generators []Generator
	byName     map[string]Generator

	initOnce sync.Once
	mu       sync.Mutex
	initErrs map[string]error
	ready    bool
}

// NewRuntime creates a Runtime over generators. Names must be unique.
func NewRuntime(generators ...Generator) (*Runtime, error) {
	rt := &Runtime{
		byName:   make(map[string]Generator, len(generators)),
		initErrs: map[string]error{},
	}
	for _, g := range generators {
		if _, dup := rt.byName[g.Name()]; dup {
			return nil, fmt.Errorf("duplicate generator name %q", g.Name())
		}
		rt.byName[g.Name()] = g
		rt.generators = append(rt.generators, g)
	}
	return rt, nil
}

// Initialize initializes every generator exactly once, no matter how often
// it is called. The returned error joins the per-generator failures.
func (rt *Runtime) Initialize(ctx context.Context) error {
	rt.initOnce.Do(func() {
		for _, g := range rt.generators {
			if err := g.Initialize(ctx); err != nil {
				slog.Warn("generator failed to initialize", "generator", g.Name(), "error", err)
				rt.mu.Lock()
				rt.initErrs[g.Name()] = err
				rt.mu.Unlock()
			}
		}
		rt.mu.Lock()
		rt.ready = true
		rt.mu.Unlock()
	})

	rt.mu.Lock()
	defer rt.mu.Unlock()
	var errs []error
	for _, g := range rt.generators {
		if err := rt.initErrs[g.Name()]; err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Initialized reports whether Initialize has run.
func (rt *Runtime) Initialized() bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.ready
}

// Err returns the initialization error of the named generator.
func (rt *Runtime) Err(name string) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.initErrs[name]
}

// Generator returns the named generator.
func (rt *Runtime) Generator(name string) (Generator, error) {
	g, ok := rt.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrGeneratorNotFound, name)
	}
	return g, nil
}

// Names lists the registered generators in registration order.
func (rt *Runtime) Names() []string {
	names := make([]string, len(rt.generators))
	for i, g := range rt.generators {
		names[i] = g.Name()
	}
	return names
}

// Shutdown shuts every generator down, continuing past failures.
func (rt *Runtime) Shutdown(ctx context.Context) error {
	var errs []error
	for _, g := range rt.generators {
		if err := g.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutting down %s: %w", g.Name(), err))
		}
	}
	return errors.Join(errs...)
}
