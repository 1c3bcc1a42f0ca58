// Package generation is the boundary to the generative services that design
// candidate molecules.
package generation

import (
	"context"
	"errors"
	"time"
)

// Engine names accepted by New.
const (
	EngineCopilot = "copilot-sdk"
	EngineOpenAI  = "openai"
	EngineMock    = "mock"
)

// ErrUnknownEngine is returned by New for unsupported engine names.
var ErrUnknownEngine = errors.New("unknown generator engine")

// Generator is the interface for generative services
type Generator interface {
	// Name identifies the generator in run records and reports
	Name() string

	// Initialize sets up the generator
	Initialize(ctx context.Context) error

	// Generate sends one design request and returns the raw answer
	Generate(ctx context.Context, req *Request) (*Response, error)

	// Shutdown cleans up resources
	Shutdown(ctx context.Context) error
}

// Request is one design request.
type Request struct {
	// Prompt is the user message, usually built with BuildPrompt.
	Prompt string
	// SystemPrompt instructs the model. Defaults to DesignerSystemPrompt.
	SystemPrompt string
	// Timeout bounds the call. Zero means no generator-level timeout.
	Timeout time.Duration
}

// Response is the raw answer of a generator.
type Response struct {
	Text      string
	ModelID   string
	SessionID string
}

func (r *Request) systemPrompt() string {
	if r.SystemPrompt == "" {
		return DesignerSystemPrompt
	}
	return r.SystemPrompt
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
