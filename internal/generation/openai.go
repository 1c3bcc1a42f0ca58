package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/sashabaranov/go-openai"
)

// DefaultOpenAIKeyEnv is read when no api_key or api_key_env option is set.
const DefaultOpenAIKeyEnv = "OPENAI_API_KEY"

// OpenAIOptions are the engine options of an openai generator. Any
// OpenAI-compatible endpoint works through BaseURL (DashScope, DeepSeek,
// the Gemini OpenAI endpoint).
type OpenAIOptions struct {
	BaseURL     string   `mapstructure:"base_url"`
	APIKey      string   `mapstructure:"api_key"`
	APIKeyEnv   string   `mapstructure:"api_key_env"`
	Temperature *float32 `mapstructure:"temperature"`
	MaxTokens   int      `mapstructure:"max_tokens"`
}

// KeyEnv returns the environment variable the API key is read from.
func (o OpenAIOptions) KeyEnv() string {
	if o.APIKeyEnv == "" {
		return DefaultOpenAIKeyEnv
	}
	return o.APIKeyEnv
}

// ResolveKey returns the configured API key.
func (o OpenAIOptions) ResolveKey() (string, error) {
	if o.APIKey != "" {
		return o.APIKey, nil
	}
	if key := os.Getenv(o.KeyEnv()); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%s environment variable not set", o.KeyEnv())
}

// OpenAIGenerator designs molecules with a chat completion call.
type OpenAIGenerator struct {
	name   string
	model  string
	opts   OpenAIOptions
	client *openai.Client
}

// NewOpenAIGenerator creates an OpenAIGenerator. The client is created by
// Initialize.
func NewOpenAIGenerator(name, model string, opts OpenAIOptions) *OpenAIGenerator {
	return &OpenAIGenerator{name: name, model: model, opts: opts}
}

func (g *OpenAIGenerator) Name() string { return g.name }

func (g *OpenAIGenerator) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if g.model == "" {
		return fmt.Errorf("generator %s: model is required for the openai engine", g.name)
	}

	key, err := g.opts.ResolveKey()
	if err != nil {
		return fmt.Errorf("generator %s: %w", g.name, err)
	}

	cfg := openai.DefaultConfig(key)
	if g.opts.BaseURL != "" {
		cfg.BaseURL = g.opts.BaseURL
	}

	slog.Debug("initializing OpenAI-compatible client", "generator", g.name, "model", g.model, "base_url", cfg.BaseURL)
	g.client = openai.NewClientWithConfig(cfg)
	return nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, errors.New("nil req was passed to OpenAIGenerator.Generate")
	}
	if g.client == nil {
		return nil, fmt.Errorf("generator %s is not initialized", g.name)
	}

	ctx, cancel := withTimeout(ctx, req.Timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.systemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	}
	if g.opts.Temperature != nil {
		chatReq.Temperature = *g.opts.Temperature
	}
	if g.opts.MaxTokens > 0 {
		chatReq.MaxTokens = g.opts.MaxTokens
	}

	resp, err := g.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	slog.Debug("received chat completion", "generator", g.name, "finish_reason", resp.Choices[0].FinishReason)

	model := resp.Model
	if model == "" {
		model = g.model
	}
	return &Response{Text: resp.Choices[0].Message.Content, ModelID: model}, nil
}

func (g *OpenAIGenerator) Shutdown(ctx context.Context) error {
	g.client = nil
	return nil
}
