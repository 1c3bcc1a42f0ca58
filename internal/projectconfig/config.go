// Package projectconfig provides the ProjectConfig struct and loader for
// .lingnexus.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the project configuration file.
const FileName = ".lingnexus.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultTarget  = "EGFR"
	DefaultTimeout = 300
	DefaultWorkers = 4

	DefaultDescriptorEngine  = "program"
	DefaultDescriptorCommand = "python3"
	DefaultDescriptorTimeout = 30

	DefaultCacheDir = ".lingnexus-cache"

	DefaultWeightAdmissionRate = 0.4
	DefaultWeightQED           = 0.3
	DefaultWeightSpeed         = 0.3
	DefaultWeightTarget        = 400.0

	DefaultRateTolerance = 1.0
	DefaultQEDTolerance  = 0.05

	DefaultSuggestRateMargin = 10.0
	DefaultSuggestSpeedRatio = 0.7
	DefaultSuggestQEDMargin  = 0.05
)

// ErrNoGenerators is returned when a command needs generators but none are
// configured.
var ErrNoGenerators = errors.New("no generators configured")

// ErrGeneratorNotFound is returned by Generator for unknown names.
var ErrGeneratorNotFound = errors.New("generator not found")

// GeneratorConfig describes one generator. Options are engine specific and
// decoded by the generation package.
type GeneratorConfig struct {
	Name    string         `yaml:"name"`
	Engine  string         `yaml:"engine"`
	Model   string         `yaml:"model,omitempty"`
	Options map[string]any `yaml:"options,omitempty"`
}

// DescriptorsConfig selects and configures the descriptor engine.
type DescriptorsConfig struct {
	Engine string `yaml:"engine,omitempty"`
	// Command and Args run the program engine. An empty Args runs the
	// embedded RDKit script with Command as the interpreter.
	Command string   `yaml:"command,omitempty"`
	Args    []string `yaml:"args,omitempty"`
	// Timeout is the per-identifier timeout in seconds.
	Timeout int `yaml:"timeout,omitempty"`
	// Table is the descriptor table file used by the table engine.
	Table     string `yaml:"table,omitempty"`
	Prescreen *bool  `yaml:"prescreen,omitempty"`
}

// CacheConfig holds cache settings.
type CacheConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Dir     string `yaml:"dir,omitempty"`
}

// DefaultsConfig holds default execution parameters.
type DefaultsConfig struct {
	Target       string `yaml:"target,omitempty"`
	Requirements string `yaml:"requirements,omitempty"`
	Timeout      int    `yaml:"timeout,omitempty"`
	Parallel     *bool  `yaml:"parallel,omitempty"`
	Workers      int    `yaml:"workers,omitempty"`
	Verbose      *bool  `yaml:"verbose,omitempty"`
	// Reviewer is the generator that reviews admitted candidates after
	// run. Empty disables the review.
	Reviewer string `yaml:"reviewer,omitempty"`
}

// WeightsConfig holds the composite score weights.
type WeightsConfig struct {
	AdmissionRate *float64 `yaml:"admission_rate,omitempty"`
	QED           *float64 `yaml:"qed,omitempty"`
	Speed         *float64 `yaml:"speed,omitempty"`
}

// TolerancesConfig holds the per-metric tie tolerances.
type TolerancesConfig struct {
	Counts   *float64 `yaml:"counts,omitempty"`
	Rate     *float64 `yaml:"rate,omitempty"`
	QED      *float64 `yaml:"qed,omitempty"`
	Weight   *float64 `yaml:"weight,omitempty"`
	Duration *float64 `yaml:"duration,omitempty"`
}

// SuggestionsConfig holds the thresholds that trigger usage suggestions.
type SuggestionsConfig struct {
	RateMargin *float64 `yaml:"rate_margin,omitempty"`
	SpeedRatio *float64 `yaml:"speed_ratio,omitempty"`
	QEDMargin  *float64 `yaml:"qed_margin,omitempty"`
}

// PolicyConfig holds the comparison policy constants.
type PolicyConfig struct {
	Weights      WeightsConfig     `yaml:"weights,omitempty"`
	WeightTarget *float64          `yaml:"weight_target,omitempty"`
	Tolerances   TolerancesConfig  `yaml:"tolerances,omitempty"`
	Suggestions  SuggestionsConfig `yaml:"suggestions,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .lingnexus.yaml.
type ProjectConfig struct {
	Generators  []GeneratorConfig `yaml:"generators,omitempty"`
	Descriptors DescriptorsConfig `yaml:"descriptors,omitempty"`
	Cache       CacheConfig       `yaml:"cache,omitempty"`
	Defaults    DefaultsConfig    `yaml:"defaults,omitempty"`
	Policy      PolicyConfig      `yaml:"policy,omitempty"`

	// Path is the file the config was loaded from, empty for defaults.
	Path string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Generators: []GeneratorConfig{
			{
				Name:   "qwen",
				Engine: "openai",
				Model:  "qwen-max",
				Options: map[string]any{
					"base_url":    "https://dashscope.aliyuncs.com/compatible-mode/v1",
					"api_key_env": "DASHSCOPE_API_KEY",
				},
			},
			{
				Name:   "deepseek",
				Engine: "openai",
				Model:  "deepseek-chat",
				Options: map[string]any{
					"base_url":    "https://api.deepseek.com/v1",
					"api_key_env": "DEEPSEEK_API_KEY",
				},
			},
		},
		Descriptors: DescriptorsConfig{
			Engine:    DefaultDescriptorEngine,
			Command:   DefaultDescriptorCommand,
			Timeout:   DefaultDescriptorTimeout,
			Prescreen: boolPtr(true),
		},
		Cache: CacheConfig{
			Enabled: boolPtr(false),
			Dir:     DefaultCacheDir,
		},
		Defaults: DefaultsConfig{
			Target:   DefaultTarget,
			Timeout:  DefaultTimeout,
			Parallel: boolPtr(false),
			Workers:  DefaultWorkers,
			Verbose:  boolPtr(false),
		},
		Policy: PolicyConfig{
			Weights: WeightsConfig{
				AdmissionRate: floatPtr(DefaultWeightAdmissionRate),
				QED:           floatPtr(DefaultWeightQED),
				Speed:         floatPtr(DefaultWeightSpeed),
			},
			WeightTarget: floatPtr(DefaultWeightTarget),
			Tolerances: TolerancesConfig{
				Counts:   floatPtr(0),
				Rate:     floatPtr(DefaultRateTolerance),
				QED:      floatPtr(DefaultQEDTolerance),
				Weight:   floatPtr(0),
				Duration: floatPtr(0),
			},
			Suggestions: SuggestionsConfig{
				RateMargin: floatPtr(DefaultSuggestRateMargin),
				SpeedRatio: floatPtr(DefaultSuggestSpeedRatio),
				QEDMargin:  floatPtr(DefaultSuggestQEDMargin),
			},
		},
	}
}

// Generator returns the generator with the given name.
func (c *ProjectConfig) Generator(name string) (GeneratorConfig, error) {
	for _, g := range c.Generators {
		if g.Name == name {
			return g, nil
		}
	}
	return GeneratorConfig{}, fmt.Errorf("%w: %q", ErrGeneratorNotFound, name)
}

// Load finds .lingnexus.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	path, err := Find(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}
	return LoadFile(path)
}

// LoadFile loads the given config file over the defaults.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse unmarshals raw YAML and merges it over the defaults.
func Parse(data []byte) (*ProjectConfig, error) {
	cfg := New()

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, err
	}

	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// Find walks up from dir looking for .lingnexus.yaml (max 10 levels) and
// returns its path. Returns os.ErrNotExist if no config file is found.
func Find(dir string) (string, error) {
	// Absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		_, err := os.Stat(p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Generators replace the defaults as a whole.
	if src.Generators != nil {
		dst.Generators = src.Generators
	}

	// Descriptors
	if src.Descriptors.Engine != "" {
		dst.Descriptors.Engine = src.Descriptors.Engine
	}
	if src.Descriptors.Command != "" {
		dst.Descriptors.Command = src.Descriptors.Command
	}
	if src.Descriptors.Args != nil {
		dst.Descriptors.Args = src.Descriptors.Args
	}
	if src.Descriptors.Timeout != 0 {
		dst.Descriptors.Timeout = src.Descriptors.Timeout
	}
	if src.Descriptors.Table != "" {
		dst.Descriptors.Table = src.Descriptors.Table
	}
	if src.Descriptors.Prescreen != nil {
		dst.Descriptors.Prescreen = src.Descriptors.Prescreen
	}

	// Cache
	if src.Cache.Enabled != nil {
		dst.Cache.Enabled = src.Cache.Enabled
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}

	// Defaults
	if src.Defaults.Target != "" {
		dst.Defaults.Target = src.Defaults.Target
	}
	if src.Defaults.Requirements != "" {
		dst.Defaults.Requirements = src.Defaults.Requirements
	}
	if src.Defaults.Timeout != 0 {
		dst.Defaults.Timeout = src.Defaults.Timeout
	}
	if src.Defaults.Parallel != nil {
		dst.Defaults.Parallel = src.Defaults.Parallel
	}
	if src.Defaults.Workers != 0 {
		dst.Defaults.Workers = src.Defaults.Workers
	}
	if src.Defaults.Verbose != nil {
		dst.Defaults.Verbose = src.Defaults.Verbose
	}
	if src.Defaults.Reviewer != "" {
		dst.Defaults.Reviewer = src.Defaults.Reviewer
	}

	// Policy
	mergeFloat(&dst.Policy.Weights.AdmissionRate, src.Policy.Weights.AdmissionRate)
	mergeFloat(&dst.Policy.Weights.QED, src.Policy.Weights.QED)
	mergeFloat(&dst.Policy.Weights.Speed, src.Policy.Weights.Speed)
	mergeFloat(&dst.Policy.WeightTarget, src.Policy.WeightTarget)
	mergeFloat(&dst.Policy.Tolerances.Counts, src.Policy.Tolerances.Counts)
	mergeFloat(&dst.Policy.Tolerances.Rate, src.Policy.Tolerances.Rate)
	mergeFloat(&dst.Policy.Tolerances.QED, src.Policy.Tolerances.QED)
	mergeFloat(&dst.Policy.Tolerances.Weight, src.Policy.Tolerances.Weight)
	mergeFloat(&dst.Policy.Tolerances.Duration, src.Policy.Tolerances.Duration)
	mergeFloat(&dst.Policy.Suggestions.RateMargin, src.Policy.Suggestions.RateMargin)
	mergeFloat(&dst.Policy.Suggestions.SpeedRatio, src.Policy.Suggestions.SpeedRatio)
	mergeFloat(&dst.Policy.Suggestions.QEDMargin, src.Policy.Suggestions.QEDMargin)
}

func mergeFloat(dst **float64, src *float64) {
	if src != nil {
		*dst = src
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func floatPtr(f float64) *float64 {
	return &f
}
