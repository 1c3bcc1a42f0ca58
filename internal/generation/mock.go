package generation

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// MockOptions are the engine options of a mock generator.
type MockOptions struct {
	// Text is returned verbatim by Generate.
	Text string `mapstructure:"text"`
	// Error, when set, makes Generate fail with this message.
	Error string `mapstructure:"error"`
	// Delay is slept before answering, e.g. "250ms".
	Delay time.Duration `mapstructure:"delay"`
}

// MockGenerator is a canned generator for tests and offline demos.
type MockGenerator struct {
	name  string
	model string
	opts  MockOptions

	calls atomic.Int32
}

// NewMockGenerator creates a new mock generator
func NewMockGenerator(name string, opts MockOptions) *MockGenerator {
	return &MockGenerator{name: name, model: "mock", opts: opts}
}

func (m *MockGenerator) Name() string { return m.name }

func (m *MockGenerator) Initialize(ctx context.Context) error {
	return nil
}

func (m *MockGenerator) Generate(ctx context.Context, req *Request) (*Response, error) {
	m.calls.Add(1)

	if m.opts.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.opts.Delay):
		}
	}

	if m.opts.Error != "" {
		return nil, errors.New(m.opts.Error)
	}
	return &Response{Text: m.opts.Text, ModelID: m.model}, nil
}

// Calls returns the number of Generate calls.
func (m *MockGenerator) Calls() int {
	return int(m.calls.Load())
}

func (m *MockGenerator) Shutdown(ctx context.Context) error {
	return nil
}
