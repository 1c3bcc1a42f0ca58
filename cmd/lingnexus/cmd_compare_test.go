package main

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/lingnexus/lingnexus/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type comparisonJSON struct {
	Report models.ComparisonReport `json:"report"`
	Runs   []models.RunRecord      `json:"runs"`
}

func TestCompare_JSON(t *testing.T) {
	cfg := writeProject(t, projectConfig)

	for _, parallel := range []bool{false, true} {
		args := []string{"compare", "EGFR", "--config", cfg, "-g", "alpha", "-g", "beta", "--format", "json"}
		if parallel {
			args = append(args, "--parallel")
		}

		out, _, err := runCLI(t, "", args...)
		require.NoError(t, err, "parallel=%v", parallel)

		var doc comparisonJSON
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		require.Len(t, doc.Runs, 2)
		assert.Equal(t, "alpha", doc.Runs[0].GeneratorID)
		assert.Equal(t, "beta", doc.Runs[1].GeneratorID)

		r := doc.Report
		assert.True(t, r.Comparable())
		assert.Equal(t, "alpha", r.Recommended)
		assert.False(t, r.Tie)

		rate, ok := r.Verdict(models.CompareAdmissionRate)
		require.True(t, ok)
		assert.Equal(t, models.SideA, rate.Winner)
		assert.InDelta(t, 66.67, rate.A, 0.01)
		assert.InDelta(t, 50.0, rate.B, 0.01)
	}
}

func TestCompare_DefaultGenerators(t *testing.T) {
	cfg := writeProject(t, projectConfig)

	out, _, err := runCLI(t, "", "compare", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Comparison: alpha vs beta (EGFR)")
	assert.Contains(t, out, "alpha is recommended")
}

func TestCompare_FailedRunIsReported(t *testing.T) {
	cfg := writeProject(t, projectConfig)

	out, _, err := runCLI(t, "", "compare", "--config", cfg, "-g", "alpha", "-g", "broken", "--format", "markdown")
	var screeningErr *ScreeningFailureError
	require.True(t, errors.As(err, &screeningErr))
	assert.Contains(t, err.Error(), "broken failed")

	assert.Contains(t, out, "## Failed runs")
	assert.Contains(t, out, "quota exhausted")
	assert.NotContains(t, out, "**Recommended**")
}

func TestCompare_GeneratorCount(t *testing.T) {
	cfg := writeProject(t, projectConfig)

	_, _, err := runCLI(t, "", "compare", "--config", cfg, "-g", "alpha")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly two")

	_, _, err = runCLI(t, "", "compare", "--config", cfg, "-g", "alpha", "-g", "alpha")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "itself")
}

func TestCompare_TooFewConfigured(t *testing.T) {
	cfg := writeProject(t, "generators:\n  - name: solo\n    engine: mock\n    options:\n      text: CCOc1ccccc1\ndescriptors:\n  engine: table\n  table: descriptors.yaml\n")

	_, _, err := runCLI(t, "", "compare", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least two generators")
}
