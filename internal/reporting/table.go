package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/lingnexus/lingnexus/internal/benchmark"
	"github.com/lingnexus/lingnexus/internal/models"
	"github.com/mattn/go-runewidth"
)

// Table is a plain-text table aligned by terminal display width, so wide
// runes in identifiers or generator names keep columns straight.
type Table struct {
	Headers []string
	Rows    [][]string
}

// NewTable creates a table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{Headers: headers}
}

// Append adds a row.
func (t *Table) Append(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render writes the table to w.
func (t *Table) Render(w io.Writer) error {
	widths := make([]int, len(t.Headers))
	measure := func(cells []string) {
		for i, c := range cells {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}
	measure(t.Headers)
	for _, r := range t.Rows {
		measure(r)
	}

	var b strings.Builder
	line := func(cells []string) {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = padRight(cell, widths[i])
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, "  "), " "))
		b.WriteByte('\n')
	}

	line(t.Headers)
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	line(sep)
	for _, r := range t.Rows {
		line(r)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// WriteRunTable writes a plain-text report of one run.
func WriteRunTable(w io.Writer, rec *models.RunRecord) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Generator: %s\n", rec.GeneratorID)
	if rec.Target != "" {
		fmt.Fprintf(&b, "Target:    %s\n", rec.Target)
	}
	if rec.Failed() {
		fmt.Fprintf(&b, "Status:    failed (%s): %s\n", rec.Failure.Kind, rec.Failure.Message)
		_, err := io.WriteString(w, b.String())
		return err
	}

	stats := benchmark.Stats(rec)
	fmt.Fprintf(&b, "Admitted:  %d of %d (%.1f%%), %d skipped\n",
		stats.AdmittedCount, stats.CandidateCount, stats.AdmissionRate, stats.SkippedCount)
	if rec.Duration > 0 {
		fmt.Fprintf(&b, "Duration:  %.2fs\n", stats.DurationSeconds)
	}
	b.WriteString("\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	t := NewTable("#", "IDENTIFIER", "STATUS", "RULES", "MW", "QED", "LOGP")
	for _, row := range candidateRows(rec) {
		idx := fmt.Sprintf("%d", row.Index)
		switch {
		case row.Result != nil:
			d := row.Result.Descriptors
			t.Append(idx, string(row.ID), admittedLabel(row.Result.Admitted),
				fmt.Sprintf("%d/%d", row.Result.RulesPassed, len(row.Result.Rules)),
				fmt.Sprintf("%.1f", d.MolecularWeight), fmt.Sprintf("%.3f", d.QED), fmt.Sprintf("%.2f", d.LogP))
		case row.Skip != nil:
			t.Append(idx, string(row.ID), "skipped: "+row.Skip.Reason)
		default:
			t.Append(idx, string(row.ID), "not screened")
		}
	}
	if err := t.Render(w); err != nil {
		return err
	}

	if rv := rec.Review; rv != nil {
		var r strings.Builder
		fmt.Fprintf(&r, "\nReview (%s):\n", rv.Reviewer)
		if rv.Error != "" {
			fmt.Fprintf(&r, "  failed: %s\n", rv.Error)
		} else {
			for _, line := range strings.Split(strings.TrimSpace(rv.Text), "\n") {
				fmt.Fprintf(&r, "  %s\n", line)
			}
		}
		_, err := io.WriteString(w, r.String())
		return err
	}
	return nil
}

// WriteComparisonTable writes a plain-text comparison report.
func WriteComparisonTable(w io.Writer, r *models.ComparisonReport) error {
	nameA, nameB := r.Runs[0].GeneratorID, r.Runs[1].GeneratorID

	var b strings.Builder
	fmt.Fprintf(&b, "Comparison: %s vs %s", nameA, nameB)
	if r.Target != "" {
		fmt.Fprintf(&b, " (%s)", r.Target)
	}
	b.WriteString("\n\n")

	if !r.Comparable() {
		for _, f := range r.Failures {
			fmt.Fprintf(&b, "FAILED %s (%s): %s\n", f.GeneratorID, f.Failure.Kind, f.Failure.Message)
		}
		for _, run := range r.Runs {
			if run.Stats != nil {
				fmt.Fprintf(&b, "%s: %d of %d admitted (%.1f%%)\n",
					run.GeneratorID, run.Stats.AdmittedCount, run.Stats.CandidateCount, run.Stats.AdmissionRate)
			}
		}
		_, err := io.WriteString(w, b.String())
		return err
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	t := NewTable("METRIC", nameA, nameB, "WINNER")
	for _, v := range r.Verdicts {
		t.Append(metricLabel(v.Metric), formatMetric(v.Metric, v.A), formatMetric(v.Metric, v.B), sideLabel(r, v.Winner))
	}
	t.Append("format", string(r.Runs[0].Format.Quality), string(r.Runs[1].Format.Quality), "")
	t.Append("composite", fmt.Sprintf("%.3f", r.Scores[0].Score), fmt.Sprintf("%.3f", r.Scores[1].Score), recommendedLabel(r))
	if err := t.Render(w); err != nil {
		return err
	}

	b.Reset()
	fmt.Fprintf(&b, "\n%s\n", r.Reason)
	for _, s := range r.Suggestions {
		fmt.Fprintf(&b, "  - %s\n", s)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func admittedLabel(admitted bool) string {
	if admitted {
		return "admitted"
	}
	return "rejected"
}

func recommendedLabel(r *models.ComparisonReport) string {
	if r.Tie {
		return "tie"
	}
	return r.Recommended
}

func sideLabel(r *models.ComparisonReport, s models.Side) string {
	if name := r.GeneratorFor(s); name != "" {
		return name
	}
	return string(s)
}

func metricLabel(m models.ComparedMetric) string {
	switch m {
	case models.CompareCandidateCount:
		return "candidates"
	case models.CompareAdmittedCount:
		return "admitted"
	case models.CompareAdmissionRate:
		return "admission rate"
	case models.CompareMeanQED:
		return "mean QED"
	case models.CompareMeanWeight:
		return "mean weight"
	case models.CompareDuration:
		return "generation time"
	}
	return string(m)
}

func formatMetric(m models.ComparedMetric, v float64) string {
	switch m {
	case models.CompareCandidateCount, models.CompareAdmittedCount:
		return fmt.Sprintf("%.0f", v)
	case models.CompareAdmissionRate:
		return fmt.Sprintf("%.1f%%", v)
	case models.CompareMeanQED:
		return fmt.Sprintf("%.3f", v)
	case models.CompareMeanWeight:
		return fmt.Sprintf("%.1f", v)
	case models.CompareDuration:
		return fmt.Sprintf("%.2fs", v)
	}
	return fmt.Sprintf("%g", v)
}
