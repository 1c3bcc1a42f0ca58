package descriptors

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lingnexus/lingnexus/internal/cache"
	"github.com/lingnexus/lingnexus/internal/models"
)

// Cached memoizes a provider in memory and, when a disk cache is given, on
// disk. Engine faults are never cached.
type Cached struct {
	next Provider
	disk *cache.Cache

	mu     sync.RWMutex
	memory map[models.CandidateIdentifier]models.DescriptorResult
}

// NewCached wraps next. diskCache may be nil.
func NewCached(next Provider, diskCache *cache.Cache) *Cached {
	return &Cached{
		next:   next,
		disk:   diskCache,
		memory: map[models.CandidateIdentifier]models.DescriptorResult{},
	}
}

func (c *Cached) ID() string { return c.next.ID() }

func (c *Cached) Compute(ctx context.Context, id models.CandidateIdentifier) (models.DescriptorResult, error) {
	c.mu.RLock()
	res, ok := c.memory[id]
	c.mu.RUnlock()
	if ok {
		return res, nil
	}

	key := ""
	if c.disk != nil {
		k, err := cache.Key(c.next.ID(), id)
		if err == nil {
			key = k
			if res, ok := c.disk.Get(key); ok {
				c.remember(id, res)
				return res, nil
			}
		}
	}

	res, err := c.next.Compute(ctx, id)
	if err != nil {
		return models.DescriptorResult{}, err
	}

	c.remember(id, res)
	if key != "" {
		if err := c.disk.Put(key, id, res); err != nil {
			slog.Warn("failed to cache descriptors", "identifier", id, "error", err)
		}
	}
	return res, nil
}

func (c *Cached) remember(id models.CandidateIdentifier, res models.DescriptorResult) {
	c.mu.Lock()
	c.memory[id] = res
	c.mu.Unlock()
}
