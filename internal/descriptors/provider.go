// Package descriptors adapts molecular descriptor engines to a single
// Provider contract: one identifier in, a descriptor record or an invalid
// signal out.
package descriptors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lingnexus/lingnexus/internal/cache"
	"github.com/lingnexus/lingnexus/internal/models"
	"github.com/lingnexus/lingnexus/internal/projectconfig"
)

// Engine names accepted by New.
const (
	EngineProgram = "program"
	EngineTable   = "table"
)

// ErrUnknownEngine is returned by New for unsupported engine names.
var ErrUnknownEngine = errors.New("unknown descriptor engine")

// Provider computes descriptors for one identifier.
//
// Compute reports unparseable identifiers as a result with Valid == false.
// The error return is reserved for engine faults: a crashed process, a
// timeout, malformed engine output. Implementations must be safe for
// concurrent use.
type Provider interface {
	// ID names the provider; it is part of cache keys.
	ID() string
	Compute(ctx context.Context, id models.CandidateIdentifier) (models.DescriptorResult, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, id models.CandidateIdentifier) (models.DescriptorResult, error)

func (f ProviderFunc) ID() string { return "func" }

func (f ProviderFunc) Compute(ctx context.Context, id models.CandidateIdentifier) (models.DescriptorResult, error) {
	return f(ctx, id)
}

// New builds the provider described by cfg, wrapped in the prescreen and
// cache decorators when enabled. A nil diskCache disables on-disk caching.
func New(cfg projectconfig.DescriptorsConfig, diskCache *cache.Cache) (Provider, error) {
	var p Provider

	switch cfg.Engine {
	case EngineProgram, "":
		prog, err := NewProgramProvider(ProgramArgs{
			Command: cfg.Command,
			Args:    cfg.Args,
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		})
		if err != nil {
			return nil, err
		}
		p = prog
	case EngineTable:
		table, err := LoadTable(cfg.Table)
		if err != nil {
			return nil, err
		}
		p = table
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, cfg.Engine)
	}

	if cfg.Prescreen == nil || *cfg.Prescreen {
		p = NewPrescreen(p)
	}

	return NewCached(p, diskCache), nil
}
