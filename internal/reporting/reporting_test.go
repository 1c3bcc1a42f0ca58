package reporting

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/lingnexus/lingnexus/internal/benchmark"
	"github.com/lingnexus/lingnexus/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"Markdown", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{" html ", FormatHTML, false},
		{"json", FormatJSON, false},
		{"junit", FormatJUnit, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTable_AlignsWideRunes(t *testing.T) {
	tbl := NewTable("NAME", "VALUE")
	tbl.Append("通义千问", "1")
	tbl.Append("qwen", "2")

	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "NAME      VALUE", lines[0])
	assert.Equal(t, "--------  -----", lines[1])
	assert.Equal(t, "通义千问  1", lines[2])
	assert.Equal(t, "qwen      2", lines[3])
}

func TestWriteRunTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRunTable(&buf, newTestRun("qwen")))
	out := buf.String()

	assert.Contains(t, out, "Admitted:  2 of 5 (40.0%), 2 skipped")
	assert.Contains(t, out, "rejected")
	assert.Contains(t, out, "skipped: unknown atom symbol")
	assert.Contains(t, out, "5/5")

	buf.Reset()
	require.NoError(t, WriteRunTable(&buf, newFailedRun("deepseek")))
	assert.Contains(t, buf.String(), "failed (empty_extraction)")
}

func TestRunMarkdown(t *testing.T) {
	md := RunMarkdown(newTestRun("qwen"))

	assert.Contains(t, md, "# qwen: run detail")
	assert.Contains(t, md, "- **Admission rate**: 40.0%")
	assert.Contains(t, md, "1. `CCOc1ccccc1`")
	assert.Contains(t, md, "### Candidate 2")
	assert.Contains(t, md, "| molecular weight < 500 | 320.4 Da | ✅ |")
	assert.Contains(t, md, "- **Mean QED**: 0.780")
	assert.Contains(t, md, "- `C1CCX`: unknown atom symbol")

	failed := RunMarkdown(newFailedRun("deepseek"))
	assert.Contains(t, failed, "run failed")
	assert.Contains(t, failed, "```\nPlease provide the binding pocket.\n```")
}

func TestRunMarkdown_Review(t *testing.T) {
	rec := newTestRun("qwen")
	clean, flagged := true, false
	rec.Admitted[0].Descriptors.PAINSFree = &clean
	rec.Admitted[1].Descriptors.PAINSFree = &flagged
	rec.Review = &models.RunReview{Reviewer: "deepseek", Text: "Molecule 1: CCOc1ccccc1\n- Verdict: **pass**\n"}

	md := RunMarkdown(rec)
	assert.Contains(t, md, "## Expert review (deepseek)\n\nMolecule 1: CCOc1ccccc1\n- Verdict: **pass**\n")
	assert.Contains(t, md, "✅ No PAINS alerts")
	assert.Contains(t, md, "⚠️ PAINS alert matched")

	var buf bytes.Buffer
	require.NoError(t, WriteRunTable(&buf, rec))
	assert.Contains(t, buf.String(), "Review (deepseek):\n  Molecule 1: CCOc1ccccc1\n")

	rec.Review = &models.RunReview{Reviewer: "deepseek", Error: "upstream 503"}
	assert.Contains(t, RunMarkdown(rec), "Review failed: upstream 503")
	assert.NotContains(t, RunMarkdown(newTestRun("qwen")), "Expert review")
}

func TestRunMarkdown_NothingAdmitted(t *testing.T) {
	rec := newTestRun("qwen")
	rec.Admitted = nil
	md := RunMarkdown(rec)
	assert.Contains(t, md, "No candidate was admitted.")
	assert.NotContains(t, md, "## Averages")
}

func TestComparisonMarkdown(t *testing.T) {
	r, _, _ := newTestComparison()
	md := ComparisonMarkdown(r)

	assert.Contains(t, md, "# Generator comparison: EGFR")
	assert.Contains(t, md, "| Metric | qwen | deepseek | Winner |")
	assert.Contains(t, md, "| admission rate | 40.0% | 20.0% | qwen |")
	assert.Contains(t, md, "| generation time | 2.50s | 5.00s | qwen |")
	assert.Contains(t, md, "**Recommended**: qwen")
	assert.Contains(t, md, "## Usage suggestions")
	assert.Contains(t, md, "numbered")
}

func TestComparisonMarkdown_Failure(t *testing.T) {
	r := benchmark.Compare(newTestRun("qwen"), newFailedRun("deepseek"), benchmark.DefaultPolicy())
	md := ComparisonMarkdown(r)

	assert.Contains(t, md, "## Failed runs")
	assert.Contains(t, md, "**deepseek** (empty_extraction)")
	assert.Contains(t, md, "## qwen")
	assert.NotContains(t, md, "Recommended")
	assert.NotContains(t, md, "| Metric |")
}

func TestWriteComparison_Formats(t *testing.T) {
	r, a, b := newTestComparison()

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteComparison(&buf, FormatTable, r, a, b))
		assert.Contains(t, buf.String(), "Comparison: qwen vs deepseek (EGFR)")
		assert.Contains(t, buf.String(), "composite")
	})

	t.Run("html", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteComparison(&buf, FormatHTML, r, a, b))
		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
		assert.Contains(t, out, "<table>")
		assert.Contains(t, out, "<h1>Generator comparison: EGFR</h1>")
		assert.Contains(t, out, "<code>CCOc1ccccc1</code>")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteComparison(&buf, FormatJSON, r, a, b))
		var doc struct {
			Report models.ComparisonReport `json:"report"`
			Runs   []models.RunRecord      `json:"runs"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
		assert.Equal(t, "qwen", doc.Report.Recommended)
		assert.Len(t, doc.Runs, 2)
	})

	t.Run("junit", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteComparison(&buf, FormatJUnit, r, a, b))
		assert.Contains(t, buf.String(), `name="deepseek"`)
	})

	t.Run("unknown", func(t *testing.T) {
		require.ErrorIs(t, WriteComparison(&bytes.Buffer{}, Format("csv"), r), ErrUnknownFormat)
	})
}

func TestWriteRun_Formats(t *testing.T) {
	rec := newTestRun("qwen")
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteRun(&buf, f, rec))
			assert.NotEmpty(t, buf.String())
		})
	}
}
