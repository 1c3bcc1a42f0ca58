package reporting

import (
	"fmt"
	"strings"

	"github.com/lingnexus/lingnexus/internal/admission"
	"github.com/lingnexus/lingnexus/internal/benchmark"
	"github.com/lingnexus/lingnexus/internal/models"
)

const (
	markPass = "✅"
	markWarn = "⚠️"
)

// ComparisonMarkdown renders a comparison report as markdown.
func ComparisonMarkdown(r *models.ComparisonReport) string {
	var b strings.Builder
	nameA, nameB := r.Runs[0].GeneratorID, r.Runs[1].GeneratorID

	b.WriteString("# Generator comparison")
	if r.Target != "" {
		fmt.Fprintf(&b, ": %s", r.Target)
	}
	b.WriteString("\n\n")

	if !r.Comparable() {
		b.WriteString("## Failed runs\n\n")
		for _, f := range r.Failures {
			fmt.Fprintf(&b, "- ❌ **%s** (%s): %s\n", f.GeneratorID, f.Failure.Kind, f.Failure.Message)
		}
		for _, run := range r.Runs {
			if run.Stats == nil {
				continue
			}
			fmt.Fprintf(&b, "\n## %s\n\n", run.GeneratorID)
			writeStatsList(&b, *run.Stats)
			fmt.Fprintf(&b, "- **Output format**: %s\n", formatDescription(run.Format))
		}
		return b.String()
	}

	fmt.Fprintf(&b, "| Metric | %s | %s | Winner |\n", mdCell(nameA), mdCell(nameB))
	b.WriteString("|---|---|---|---|\n")
	for _, v := range r.Verdicts {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			metricLabel(v.Metric), formatMetric(v.Metric, v.A), formatMetric(v.Metric, v.B), mdCell(sideLabel(r, v.Winner)))
	}

	b.WriteString("\n## Output format\n\n")
	for _, run := range r.Runs {
		fmt.Fprintf(&b, "- **%s**: %s\n", run.GeneratorID, formatDescription(run.Format))
	}

	b.WriteString("\n## Composite score\n\n")
	if r.Weights != nil {
		fmt.Fprintf(&b, "Weights: admission rate %.2f, QED %.2f, speed %.2f\n\n",
			r.Weights.AdmissionRate, r.Weights.QED, r.Weights.Speed)
	}
	for _, s := range r.Scores {
		fmt.Fprintf(&b, "- **%s**: %.3f (admission %.3f, QED %.3f, speed %.3f)\n",
			s.GeneratorID, s.Score, s.AdmissionTerm, s.QEDTerm, s.SpeedTerm)
	}
	if r.Tie {
		b.WriteString("\n**Recommended**: none (tie)\n\n")
	} else {
		fmt.Fprintf(&b, "\n**Recommended**: %s\n\n", r.Recommended)
	}
	fmt.Fprintf(&b, "%s\n", r.Reason)

	if len(r.Suggestions) > 0 {
		b.WriteString("\n## Usage suggestions\n\n")
		for _, s := range r.Suggestions {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}
	return b.String()
}

// RunMarkdown renders the detail of one run: every extracted identifier,
// the per-rule status of each admitted candidate and the admitted averages.
func RunMarkdown(rec *models.RunRecord) string {
	var b strings.Builder

	if rec.Failed() {
		fmt.Fprintf(&b, "# ❌ %s: run failed\n\n", rec.GeneratorID)
		fmt.Fprintf(&b, "**Error** (%s): %s\n", rec.Failure.Kind, rec.Failure.Message)
		if rec.RawText != "" {
			b.WriteString("\n## Raw response\n\n```\n")
			b.WriteString(strings.TrimRight(rec.RawText, "\n"))
			b.WriteString("\n```\n")
		}
		return b.String()
	}

	stats := benchmark.Stats(rec)
	fmt.Fprintf(&b, "# %s: run detail\n\n", rec.GeneratorID)
	if rec.Target != "" {
		fmt.Fprintf(&b, "- **Target**: %s\n", rec.Target)
	}
	if rec.Model != "" {
		fmt.Fprintf(&b, "- **Model**: %s\n", rec.Model)
	}
	b.WriteString("\n## Statistics\n\n")
	writeStatsList(&b, stats)

	b.WriteString("\n## Extracted identifiers\n\n")
	for i, id := range rec.Candidates {
		fmt.Fprintf(&b, "%d. `%s`\n", i+1, id)
	}

	b.WriteString("\n## Admitted candidates\n\n")
	if len(rec.Admitted) == 0 {
		fmt.Fprintf(&b, "%s No candidate was admitted.\n", markWarn)
	}
	for i := range rec.Admitted {
		writeCandidate(&b, i+1, &rec.Admitted[i])
	}

	if len(rec.Admitted) > 0 {
		b.WriteString("\n## Averages\n\n")
		fmt.Fprintf(&b, "- **Mean molecular weight**: %.1f Da\n", stats.MeanWeight)
		fmt.Fprintf(&b, "- **Mean QED**: %.3f\n", stats.MeanQED)
		fmt.Fprintf(&b, "- **Mean LogP**: %.2f\n", stats.MeanLogP)
	}

	if len(rec.Skipped) > 0 {
		b.WriteString("\n## Skipped\n\n")
		for _, s := range rec.Skipped {
			fmt.Fprintf(&b, "- `%s`: %s\n", s.Identifier, s.Reason)
		}
	}

	if rv := rec.Review; rv != nil {
		fmt.Fprintf(&b, "\n## Expert review (%s)\n\n", rv.Reviewer)
		if rv.Error != "" {
			fmt.Fprintf(&b, "%s Review failed: %s\n", markWarn, rv.Error)
		} else {
			b.WriteString(strings.TrimSpace(rv.Text))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeStatsList(b *strings.Builder, s models.RunStats) {
	fmt.Fprintf(b, "- **Candidates**: %d\n", s.CandidateCount)
	fmt.Fprintf(b, "- **Admitted**: %d\n", s.AdmittedCount)
	if s.SkippedCount > 0 {
		fmt.Fprintf(b, "- **Skipped**: %d\n", s.SkippedCount)
	}
	fmt.Fprintf(b, "- **Admission rate**: %.1f%%\n", s.AdmissionRate)
	fmt.Fprintf(b, "- **Generation time**: %.2fs\n", s.DurationSeconds)
}

func writeCandidate(b *strings.Builder, n int, a *models.AdmissionResult) {
	fmt.Fprintf(b, "### Candidate %d\n\n", n)
	fmt.Fprintf(b, "**Identifier**: `%s` (%d/%d rules passed)\n\n", a.Identifier, a.RulesPassed, len(a.Rules))
	b.WriteString("| Rule | Value | Status |\n|---|---|---|\n")
	for _, rr := range a.Rules {
		desc := string(rr.ID)
		if rule, ok := admission.RuleByID(rr.ID); ok {
			desc = rule.Description
		}
		mark := markWarn
		if rr.Passed {
			mark = markPass
		}
		fmt.Fprintf(b, "| %s | %s | %s |\n", mdCell(desc), ruleValue(rr), mark)
	}
	if p := a.Descriptors.PAINSFree; p != nil {
		if *p {
			fmt.Fprintf(b, "\n%s No PAINS alerts\n", markPass)
		} else {
			fmt.Fprintf(b, "\n%s PAINS alert matched\n", markWarn)
		}
	}
	b.WriteString("\n")
}

func ruleValue(rr models.RuleResult) string {
	switch rr.ID {
	case models.RuleMolecularWeight:
		return fmt.Sprintf("%.1f Da", rr.Value)
	case models.RuleQED:
		return fmt.Sprintf("%.3f", rr.Value)
	case models.RuleLogP:
		return fmt.Sprintf("%.2f", rr.Value)
	case models.RuleTPSA:
		return fmt.Sprintf("%.1f Å²", rr.Value)
	case models.RuleRotatableBonds:
		return fmt.Sprintf("%.0f", rr.Value)
	}
	return fmt.Sprintf("%g", rr.Value)
}

func formatDescription(f *models.FormatSignal) string {
	if f == nil {
		return "unknown"
	}
	switch f.Quality {
	case models.FormatPure:
		return markPass + " pure (identifiers only)"
	case models.FormatNumbered:
		return markWarn + " numbered (no explanatory text)"
	default:
		return markWarn + " prose (contains explanatory text)"
	}
}

// mdCell escapes pipes so a value stays inside its table cell.
func mdCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
