package generation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGenerator struct {
	*MockGenerator
	mu        sync.Mutex
	inits     int
	shutdowns int
	initErr   error
}

func (c *countingGenerator) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inits++
	return c.initErr
}

func (c *countingGenerator) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shutdowns++
	return nil
}

func newCounting(name string, initErr error) *countingGenerator {
	return &countingGenerator{MockGenerator: NewMockGenerator(name, MockOptions{}), initErr: initErr}
}

func TestRuntime_InitializeIsIdempotent(t *testing.T) {
	a := newCounting("a", nil)
	b := newCounting("b", nil)
	rt, err := NewRuntime(a, b)
	require.NoError(t, err)
	assert.False(t, rt.Initialized())

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, rt.Initialize(context.Background()))
		}()
	}
	wg.Wait()

	assert.True(t, rt.Initialized())
	assert.Equal(t, 1, a.inits)
	assert.Equal(t, 1, b.inits)
}

func TestRuntime_InitFailureIsIsolated(t *testing.T) {
	boom := errors.New("missing credentials")
	good := newCounting("good", nil)
	bad := newCounting("bad", boom)

	rt, err := NewRuntime(good, bad)
	require.NoError(t, err)

	err = rt.Initialize(context.Background())
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, rt.Initialize(context.Background()), boom)

	assert.NoError(t, rt.Err("good"))
	assert.ErrorIs(t, rt.Err("bad"), boom)
	assert.Equal(t, 1, bad.inits)
}

func TestRuntime_Lookup(t *testing.T) {
	rt, err := NewRuntime(newCounting("a", nil), newCounting("b", nil))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, rt.Names())

	g, err := rt.Generator("b")
	require.NoError(t, err)
	assert.Equal(t, "b", g.Name())

	_, err = rt.Generator("c")
	require.ErrorIs(t, err, ErrGeneratorNotFound)
}

func TestRuntime_DuplicateNames(t *testing.T) {
	_, err := NewRuntime(newCounting("a", nil), newCounting("a", nil))
	require.ErrorContains(t, err, "duplicate generator name")
}

func TestRuntime_Shutdown(t *testing.T) {
	a := newCounting("a", nil)
	b := newCounting("b", nil)
	rt, err := NewRuntime(a, b)
	require.NoError(t, err)

	require.NoError(t, rt.Shutdown(context.Background()))
	assert.Equal(t, 1, a.shutdowns)
	assert.Equal(t, 1, b.shutdowns)
}
