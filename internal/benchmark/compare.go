// Package benchmark compares two screening runs and recommends a generator.
package benchmark

import (
	"fmt"
	"math"
	"strings"

	"github.com/lingnexus/lingnexus/internal/models"
)

// scoreEpsilon absorbs floating point noise when comparing composites.
const scoreEpsilon = 1e-9

// Compare builds the comparison report of two runs. It never mutates the
// records. When either run failed, only the run summaries and the failures
// are filled in.
func Compare(a, b *models.RunRecord, policy Policy) *models.ComparisonReport {
	report := &models.ComparisonReport{
		Target: a.Target,
		Runs:   [2]models.RunSummary{Summarize(a), Summarize(b)},
	}
	if report.Target == "" {
		report.Target = b.Target
	}

	for _, run := range report.Runs {
		if run.Failure != nil {
			report.Failures = append(report.Failures, run)
		}
	}
	if len(report.Failures) > 0 {
		return report
	}

	sa, sb := *report.Runs[0].Stats, *report.Runs[1].Stats

	report.Verdicts = verdicts(sa, sb, policy)
	report.Scores = []models.CompositeScore{
		composite(a.GeneratorID, sa, sb, policy.Weights),
		composite(b.GeneratorID, sb, sa, policy.Weights),
	}
	weights := policy.Weights
	report.Weights = &weights

	side := models.SideTie
	diff := report.Scores[0].Score - report.Scores[1].Score
	switch {
	case math.Abs(diff) <= scoreEpsilon:
		report.Tie = true
	case diff > 0:
		side = models.SideA
	default:
		side = models.SideB
	}
	report.Recommended = report.GeneratorFor(side)

	report.Reason = buildReason(report, side, sa, sb, policy)
	report.Suggestions = buildSuggestions(report, sa, sb, policy)
	return report
}

func verdicts(a, b models.RunStats, p Policy) []models.MetricVerdict {
	t := p.Tolerances
	bothAdmitted := a.AdmittedCount > 0 && b.AdmittedCount > 0

	out := []models.MetricVerdict{
		higherBetter(models.CompareCandidateCount, float64(a.CandidateCount), float64(b.CandidateCount), t.Counts),
		higherBetter(models.CompareAdmittedCount, float64(a.AdmittedCount), float64(b.AdmittedCount), t.Counts),
		higherBetter(models.CompareAdmissionRate, a.AdmissionRate, b.AdmissionRate, t.Rate),
	}

	if bothAdmitted {
		out = append(out, higherBetter(models.CompareMeanQED, a.MeanQED, b.MeanQED, t.QED))
		w := lowerBetter(models.CompareMeanWeight,
			math.Abs(a.MeanWeight-p.WeightTarget), math.Abs(b.MeanWeight-p.WeightTarget), t.Weight)
		w.A, w.B = a.MeanWeight, b.MeanWeight
		out = append(out, w)
	} else {
		out = append(out,
			models.MetricVerdict{Metric: models.CompareMeanQED, A: a.MeanQED, B: b.MeanQED, Winner: models.SideNA},
			models.MetricVerdict{Metric: models.CompareMeanWeight, A: a.MeanWeight, B: b.MeanWeight, Winner: models.SideNA},
		)
	}

	out = append(out, lowerBetter(models.CompareDuration, a.DurationSeconds, b.DurationSeconds, t.Duration))
	return out
}

func higherBetter(m models.ComparedMetric, a, b, tol float64) models.MetricVerdict {
	v := models.MetricVerdict{Metric: m, A: a, B: b, Winner: models.SideTie}
	if d := a - b; math.Abs(d) > tol {
		if d > 0 {
			v.Winner = models.SideA
		} else {
			v.Winner = models.SideB
		}
	}
	return v
}

func lowerBetter(m models.ComparedMetric, a, b, tol float64) models.MetricVerdict {
	v := models.MetricVerdict{Metric: m, A: a, B: b, Winner: models.SideTie}
	if d := a - b; math.Abs(d) > tol {
		if d < 0 {
			v.Winner = models.SideA
		} else {
			v.Winner = models.SideB
		}
	}
	return v
}

// composite scores self against other. The speed term is relative to the
// slower of the two runs and 0 for both when neither took any time.
func composite(generator string, self, other models.RunStats, w models.CompositeWeights) models.CompositeScore {
	cs := models.CompositeScore{GeneratorID: generator}

	cs.AdmissionTerm = self.AdmissionRate / 100
	if self.AdmittedCount > 0 {
		cs.QEDTerm = self.MeanQED
	}
	if slowest := math.Max(self.DurationSeconds, other.DurationSeconds); slowest > 0 {
		cs.SpeedTerm = 1 - self.DurationSeconds/slowest
	}

	cs.Score = w.AdmissionRate*cs.AdmissionTerm + w.QED*cs.QEDTerm + w.Speed*cs.SpeedTerm
	return cs
}

func buildReason(r *models.ComparisonReport, side models.Side, a, b models.RunStats, p Policy) string {
	nameA, nameB := r.Runs[0].GeneratorID, r.Runs[1].GeneratorID

	if r.Tie {
		return fmt.Sprintf("%s and %s have equal composite scores (%.3f); no generator is recommended",
			nameA, nameB, r.Scores[0].Score)
	}

	winner, loser := r.Scores[0], r.Scores[1]
	if side == models.SideB {
		winner, loser = loser, winner
	}

	nearTie := math.Abs(a.AdmissionRate-b.AdmissionRate) < p.Tolerances.Rate &&
		math.Abs(a.MeanQED-b.MeanQED) < p.Tolerances.QED
	if nearTie {
		return fmt.Sprintf("%s and %s show comparable screening quality; %s leads on composite score (%.3f vs %.3f)",
			nameA, nameB, winner.GeneratorID, winner.Score, loser.Score)
	}

	var parts []string
	for _, v := range r.Verdicts {
		if v.Winner != side {
			continue
		}
		if s := advantage(v, side); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "highest weighted composite")
	}

	return fmt.Sprintf("%s is recommended: %s (composite %.3f vs %s: %.3f, margin %.3f)",
		winner.GeneratorID, strings.Join(parts, "; "), winner.Score, loser.GeneratorID, loser.Score,
		winner.Score-loser.Score)
}

// advantage describes a won metric from the winner's side.
func advantage(v models.MetricVerdict, side models.Side) string {
	mine, theirs := v.A, v.B
	if side == models.SideB {
		mine, theirs = theirs, mine
	}

	switch v.Metric {
	case models.CompareAdmissionRate:
		return fmt.Sprintf("higher admission rate (%.1f%% vs %.1f%%)", mine, theirs)
	case models.CompareMeanQED:
		return fmt.Sprintf("better mean QED (%.3f vs %.3f)", mine, theirs)
	case models.CompareMeanWeight:
		return fmt.Sprintf("mean weight closer to target (%.1f vs %.1f)", mine, theirs)
	case models.CompareDuration:
		return fmt.Sprintf("faster generation (%.2fs vs %.2fs)", mine, theirs)
	case models.CompareAdmittedCount:
		return fmt.Sprintf("more admitted candidates (%.0f vs %.0f)", mine, theirs)
	}
	return ""
}

func buildSuggestions(r *models.ComparisonReport, a, b models.RunStats, p Policy) []string {
	nameA, nameB := r.Runs[0].GeneratorID, r.Runs[1].GeneratorID
	th := p.Suggestions
	var out []string

	switch {
	case a.AdmissionRate > b.AdmissionRate+th.RateMargin:
		out = append(out, nameA+" has a clearly higher admission rate, suited to high-volume candidate generation")
	case b.AdmissionRate > a.AdmissionRate+th.RateMargin:
		out = append(out, nameB+" has a clearly higher admission rate, suited to high-volume candidate generation")
	}

	switch {
	case a.DurationSeconds < b.DurationSeconds*th.SpeedRatio:
		out = append(out, nameA+" is fast, suited to rapid prototyping and batch generation")
	case b.DurationSeconds < a.DurationSeconds*th.SpeedRatio:
		out = append(out, nameB+" is fast, suited to rapid prototyping and batch generation")
	}

	if a.AdmittedCount > 0 && b.AdmittedCount > 0 {
		switch {
		case a.MeanQED > b.MeanQED+th.QEDMargin:
			out = append(out, nameA+" has better mean drug-likeness, suited to quality-first screening")
		case b.MeanQED > a.MeanQED+th.QEDMargin:
			out = append(out, nameB+" has better mean drug-likeness, suited to quality-first screening")
		}
	}
	return out
}
