package projectconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNew_ReturnsAllDefaults(t *testing.T) {
	cfg := New()

	// Generators
	if len(cfg.Generators) != 2 {
		t.Fatalf("len(Generators) = %d, want 2", len(cfg.Generators))
	}
	assertEqual(t, "Generators[0].Name", "qwen", cfg.Generators[0].Name)
	assertEqual(t, "Generators[0].Engine", "openai", cfg.Generators[0].Engine)
	assertEqual(t, "Generators[1].Name", "deepseek", cfg.Generators[1].Name)

	// Descriptors
	assertEqual(t, "Descriptors.Engine", "program", cfg.Descriptors.Engine)
	assertEqual(t, "Descriptors.Command", "python3", cfg.Descriptors.Command)
	assertEqualInt(t, "Descriptors.Timeout", 30, cfg.Descriptors.Timeout)
	assertBoolPtr(t, "Descriptors.Prescreen", true, cfg.Descriptors.Prescreen)

	// Cache
	assertBoolPtr(t, "Cache.Enabled", false, cfg.Cache.Enabled)
	assertEqual(t, "Cache.Dir", ".lingnexus-cache", cfg.Cache.Dir)

	// Defaults
	assertEqual(t, "Defaults.Target", "EGFR", cfg.Defaults.Target)
	assertEqualInt(t, "Defaults.Timeout", 300, cfg.Defaults.Timeout)
	assertEqualInt(t, "Defaults.Workers", 4, cfg.Defaults.Workers)
	assertBoolPtr(t, "Defaults.Parallel", false, cfg.Defaults.Parallel)
	assertBoolPtr(t, "Defaults.Verbose", false, cfg.Defaults.Verbose)

	// Policy
	assertFloatPtr(t, "Policy.Weights.AdmissionRate", 0.4, cfg.Policy.Weights.AdmissionRate)
	assertFloatPtr(t, "Policy.Weights.QED", 0.3, cfg.Policy.Weights.QED)
	assertFloatPtr(t, "Policy.Weights.Speed", 0.3, cfg.Policy.Weights.Speed)
	assertFloatPtr(t, "Policy.WeightTarget", 400, cfg.Policy.WeightTarget)
	assertFloatPtr(t, "Policy.Tolerances.Rate", 1.0, cfg.Policy.Tolerances.Rate)
	assertFloatPtr(t, "Policy.Tolerances.QED", 0.05, cfg.Policy.Tolerances.QED)
	assertFloatPtr(t, "Policy.Tolerances.Counts", 0, cfg.Policy.Tolerances.Counts)
	assertFloatPtr(t, "Policy.Suggestions.SpeedRatio", 0.7, cfg.Policy.Suggestions.SpeedRatio)

	if cfg.Path != "" {
		t.Errorf("Path = %q, want empty", cfg.Path)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
generators:
  - name: copilot
    engine: copilot-sdk
    model: gpt-4o
  - name: canned
    engine: mock
    options:
      text: "CCOc1ccccc1"
descriptors:
  engine: table
  table: fixtures/descriptors.yaml
  timeout: 5
  prescreen: false
cache:
  enabled: true
  dir: .cache
defaults:
  target: BTK
  requirements: oral bioavailability
  workers: 8
  parallel: true
policy:
  weights:
    admission_rate: 0.5
    qed: 0.25
    speed: 0.25
  weight_target: 350
  tolerances:
    rate: 0
    qed: 0.01
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cfg.Generators) != 2 {
		t.Fatalf("len(Generators) = %d, want 2", len(cfg.Generators))
	}
	assertEqual(t, "Generators[0].Engine", "copilot-sdk", cfg.Generators[0].Engine)
	assertEqual(t, "Generators[0].Model", "gpt-4o", cfg.Generators[0].Model)
	if got := cfg.Generators[1].Options["text"]; got != "CCOc1ccccc1" {
		t.Errorf("Generators[1].Options[text] = %v", got)
	}

	assertEqual(t, "Descriptors.Engine", "table", cfg.Descriptors.Engine)
	assertEqual(t, "Descriptors.Table", "fixtures/descriptors.yaml", cfg.Descriptors.Table)
	assertEqual(t, "Descriptors.Command", "python3", cfg.Descriptors.Command)
	assertEqualInt(t, "Descriptors.Timeout", 5, cfg.Descriptors.Timeout)
	assertBoolPtr(t, "Descriptors.Prescreen", false, cfg.Descriptors.Prescreen)

	assertBoolPtr(t, "Cache.Enabled", true, cfg.Cache.Enabled)
	assertEqual(t, "Cache.Dir", ".cache", cfg.Cache.Dir)

	assertEqual(t, "Defaults.Target", "BTK", cfg.Defaults.Target)
	assertEqual(t, "Defaults.Requirements", "oral bioavailability", cfg.Defaults.Requirements)
	assertEqualInt(t, "Defaults.Workers", 8, cfg.Defaults.Workers)
	assertEqualInt(t, "Defaults.Timeout", 300, cfg.Defaults.Timeout)
	assertBoolPtr(t, "Defaults.Parallel", true, cfg.Defaults.Parallel)

	assertFloatPtr(t, "Policy.Weights.AdmissionRate", 0.5, cfg.Policy.Weights.AdmissionRate)
	assertFloatPtr(t, "Policy.WeightTarget", 350, cfg.Policy.WeightTarget)
	// An explicit zero overrides the default tolerance.
	assertFloatPtr(t, "Policy.Tolerances.Rate", 0, cfg.Policy.Tolerances.Rate)
	assertFloatPtr(t, "Policy.Tolerances.QED", 0.01, cfg.Policy.Tolerances.QED)
	assertFloatPtr(t, "Policy.Suggestions.RateMargin", 10, cfg.Policy.Suggestions.RateMargin)

	assertEqual(t, "Path", filepath.Join(dir, FileName), cfg.Path)
}

func TestLoad_MissingFile_ReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertEqual(t, "Defaults.Target", DefaultTarget, cfg.Defaults.Target)
	if len(cfg.Generators) != 2 {
		t.Errorf("len(Generators) = %d, want 2", len(cfg.Generators))
	}
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "generators: [unterminated\n")

	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_WalksUpDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, FileName, "defaults:\n  target: KRAS\n")

	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(nested)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertEqual(t, "Defaults.Target", "KRAS", cfg.Defaults.Target)
	assertEqual(t, "Path", filepath.Join(root, FileName), cfg.Path)
}

func TestFind_NotFound(t *testing.T) {
	_, err := Find(t.TempDir())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Find err = %v, want os.ErrNotExist", err)
	}
}

func TestGenerator(t *testing.T) {
	cfg := New()

	g, err := cfg.Generator("deepseek")
	if err != nil {
		t.Fatalf("Generator: %v", err)
	}
	assertEqual(t, "Model", "deepseek-chat", g.Model)

	if _, err := cfg.Generator("nope"); !errors.Is(err, ErrGeneratorNotFound) {
		t.Errorf("Generator(nope) err = %v, want ErrGeneratorNotFound", err)
	}
}

func TestBoolPointerFields(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "cache:\n  dir: elsewhere\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// Unset pointer fields keep their defaults.
	assertBoolPtr(t, "Cache.Enabled", false, cfg.Cache.Enabled)
	assertBoolPtr(t, "Descriptors.Prescreen", true, cfg.Descriptors.Prescreen)
	assertEqual(t, "Cache.Dir", "elsewhere", cfg.Cache.Dir)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func assertEqual(t *testing.T, field, want, got string) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %q, want %q", field, got, want)
	}
}

func assertEqualInt(t *testing.T, field string, want, got int) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %d, want %d", field, got, want)
	}
}

func assertBoolPtr(t *testing.T, field string, want bool, got *bool) {
	t.Helper()
	if got == nil {
		t.Errorf("%s is nil, want *%v", field, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %v, want %v", field, *got, want)
	}
}

func assertFloatPtr(t *testing.T, field string, want float64, got *float64) {
	t.Helper()
	if got == nil {
		t.Errorf("%s is nil, want *%v", field, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %v, want %v", field, *got, want)
	}
}
