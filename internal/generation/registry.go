package generation

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/lingnexus/lingnexus/internal/projectconfig"
)

// New builds the generator described by cfg. Engine options are decoded
// from cfg.Options; unknown option keys are an error.
func New(cfg projectconfig.GeneratorConfig) (Generator, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("generator must have a 'name'")
	}

	switch cfg.Engine {
	case EngineCopilot:
		var opts CopilotOptions
		if err := decodeOptions(cfg, &opts); err != nil {
			return nil, err
		}
		return NewCopilotGenerator(cfg.Name, cfg.Model, WithCopilotOptions(opts)), nil
	case EngineOpenAI:
		var opts OpenAIOptions
		if err := decodeOptions(cfg, &opts); err != nil {
			return nil, err
		}
		return NewOpenAIGenerator(cfg.Name, cfg.Model, opts), nil
	case EngineMock:
		var opts MockOptions
		if err := decodeOptions(cfg, &opts); err != nil {
			return nil, err
		}
		return NewMockGenerator(cfg.Name, opts), nil
	default:
		return nil, fmt.Errorf("%w: %q (generator %s)", ErrUnknownEngine, cfg.Engine, cfg.Name)
	}
}

// NewAll builds every configured generator, in configuration order.
func NewAll(cfgs []projectconfig.GeneratorConfig) ([]Generator, error) {
	gens := make([]Generator, 0, len(cfgs))
	for _, c := range cfgs {
		g, err := New(c)
		if err != nil {
			return nil, err
		}
		gens = append(gens, g)
	}
	return gens, nil
}

// Preflight checks that cfg can run without starting it: options decode
// and credentials resolve. The returned detail describes the credential
// source.
func Preflight(cfg projectconfig.GeneratorConfig) (string, error) {
	switch cfg.Engine {
	case EngineOpenAI:
		var opts OpenAIOptions
		if err := decodeOptions(cfg, &opts); err != nil {
			return "", err
		}
		if cfg.Model == "" {
			return "", fmt.Errorf("generator %s has no model", cfg.Name)
		}
		if opts.APIKey != "" {
			return "api key set in config", nil
		}
		if _, err := opts.ResolveKey(); err != nil {
			return "", err
		}
		return "api key from $" + opts.KeyEnv(), nil
	case EngineCopilot:
		var opts CopilotOptions
		if err := decodeOptions(cfg, &opts); err != nil {
			return "", err
		}
		return "signed-in GitHub Copilot CLI", nil
	case EngineMock:
		var opts MockOptions
		if err := decodeOptions(cfg, &opts); err != nil {
			return "", err
		}
		return "canned output", nil
	}
	return "", fmt.Errorf("%w: %q (generator %s)", ErrUnknownEngine, cfg.Engine, cfg.Name)
}

func decodeOptions(cfg projectconfig.GeneratorConfig, out any) error {
	if len(cfg.Options) == 0 {
		return nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}

	if err := dec.Decode(cfg.Options); err != nil {
		return fmt.Errorf("invalid options for generator %s: %w", cfg.Name, err)
	}
	return nil
}
