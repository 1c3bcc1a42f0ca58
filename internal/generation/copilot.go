package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	copilot "github.com/github/copilot-sdk/go"
	"github.com/lingnexus/lingnexus/internal/utils"
)

// CopilotOptions are the engine options of a copilot-sdk generator.
type CopilotOptions struct {
	// WorkingDirectory is the session working directory. Defaults to a
	// temporary directory removed at Shutdown.
	WorkingDirectory string `mapstructure:"working_directory"`
}

// CopilotGenerator designs molecules through a GitHub Copilot SDK session.
type CopilotGenerator struct {
	name    string
	modelID string
	opts    CopilotOptions

	client sdkClient

	startOnce sync.Once
	startErr  error

	workspacesMu sync.Mutex
	workspaces   []string // workspaces to clean up at Shutdown
}

// CopilotGeneratorOption configures a CopilotGenerator.
type CopilotGeneratorOption func(*copilotGeneratorConfig)

type copilotGeneratorConfig struct {
	newClient func(clientOptions *copilot.ClientOptions) sdkClient
	opts      CopilotOptions
}

// WithCopilotOptions sets the engine options.
func WithCopilotOptions(opts CopilotOptions) CopilotGeneratorOption {
	return func(c *copilotGeneratorConfig) {
		c.opts = opts
	}
}

func withCopilotClient(newClient func(clientOptions *copilot.ClientOptions) sdkClient) CopilotGeneratorOption {
	return func(c *copilotGeneratorConfig) {
		c.newClient = newClient
	}
}

// NewCopilotGenerator creates a CopilotGenerator.
//   - modelID - can be blank, which means the copilot CLI will choose its own
//     fallback model.
func NewCopilotGenerator(name, modelID string, options ...CopilotGeneratorOption) *CopilotGenerator {
	cfg := &copilotGeneratorConfig{newClient: newSDKClient}
	for _, opt := range options {
		opt(cfg)
	}

	copilotOptions := &copilot.ClientOptions{
		// workspace is set at the session level, instead of at the client.
		LogLevel:  "error",
		AutoStart: copilot.Bool(false),
	}

	return &CopilotGenerator{
		name:    name,
		modelID: modelID,
		opts:    cfg.opts,
		client:  cfg.newClient(copilotOptions),
	}
}

func (g *CopilotGenerator) Name() string { return g.name }

// Initialize starts the Copilot client. It is safe to call more than once.
func (g *CopilotGenerator) Initialize(ctx context.Context) error {
	g.startOnce.Do(func() {
		// the client's autostart runs into issues when it starts from
		// separate goroutines, so start it exactly once here.
		g.startErr = g.client.Start(ctx)
	})

	if g.startErr != nil {
		return fmt.Errorf("copilot failed to start: %w", g.startErr)
	}
	return nil
}

// Generate runs one design request in a fresh session.
func (g *CopilotGenerator) Generate(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, errors.New("nil req was passed to CopilotGenerator.Generate")
	}

	if err := g.Initialize(ctx); err != nil {
		return nil, err
	}

	workspaceDir, err := g.workingDirectory()
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, req.Timeout)
	defer cancel()

	session, err := g.client.CreateSession(ctx, &copilot.SessionConfig{
		Model: g.modelID,

		OnPermissionRequest: allowAllTools,

		WorkingDirectory: workspaceDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	collector := NewSessionEventsCollector()

	unsubscribe := session.On(collector.On)
	defer unsubscribe()

	unsubscribe = session.On(utils.SessionLogger(g.name))
	defer unsubscribe()

	// instructions lead the prompt
	_, err = session.SendAndWait(ctx, copilot.MessageOptions{
		Prompt: req.systemPrompt() + "\n\n" + req.Prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("copilot session %s failed: %w", session.SessionID(), err)
	}
	if msg := collector.ErrorMessage(); msg != "" {
		return nil, fmt.Errorf("copilot session %s failed: %s", session.SessionID(), msg)
	}

	return &Response{
		Text:      collector.Output(),
		ModelID:   g.modelID,
		SessionID: session.SessionID(),
	}, nil
}

// Shutdown cleans up resources
func (g *CopilotGenerator) Shutdown(ctx context.Context) error {
	if err := g.client.Stop(); err != nil {
		// Log but continue cleanup
		slog.Info("failed to stop client", "generator", g.name, "error", err)
	}

	workspaces := func() []string {
		g.workspacesMu.Lock()
		defer g.workspacesMu.Unlock()
		workspaces := g.workspaces
		g.workspaces = nil
		return workspaces
	}()

	for _, ws := range workspaces {
		if err := os.RemoveAll(ws); err != nil {
			slog.Warn("failed to cleanup stale workspace", "path", ws, "error", err)
		}
	}

	return nil
}

func (g *CopilotGenerator) workingDirectory() (string, error) {
	if g.opts.WorkingDirectory != "" {
		return g.opts.WorkingDirectory, nil
	}

	dir, err := os.MkdirTemp("", "lingnexus-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp workspace: %w", err)
	}

	g.workspacesMu.Lock()
	g.workspaces = append(g.workspaces, dir)
	g.workspacesMu.Unlock()

	return dir, nil
}

func allowAllTools(request copilot.PermissionRequest, invocation copilot.PermissionInvocation) (copilot.PermissionRequestResult, error) {
	// value for 'Kind' came from the permissions_test.go in the Copilot SDK.
	return copilot.PermissionRequestResult{Kind: "approved"}, nil
}
