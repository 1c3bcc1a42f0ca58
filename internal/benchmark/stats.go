package benchmark

import (
	"regexp"
	"strings"

	"github.com/lingnexus/lingnexus/internal/models"
)

// ProseKeywords mark explanatory text in generator output.
var ProseKeywords = []string{"分子", "抑制剂", "设计", "具有", "该", "这", "可以", "The", "This"}

var numberingLine = regexp.MustCompile(`(?m)^\d+[\.\)、]`)

// Stats derives the statistics of one run. Means cover admitted candidates
// only and are 0 when nothing was admitted.
func Stats(rec *models.RunRecord) models.RunStats {
	s := models.RunStats{
		CandidateCount:  rec.CandidateCount(),
		AdmittedCount:   rec.AdmittedCount(),
		SkippedCount:    len(rec.Skipped),
		DurationSeconds: rec.DurationSeconds(),
	}
	if s.CandidateCount > 0 {
		s.AdmissionRate = float64(s.AdmittedCount) / float64(s.CandidateCount) * 100
	}

	weights := make([]float64, 0, len(rec.Admitted))
	qeds := make([]float64, 0, len(rec.Admitted))
	logps := make([]float64, 0, len(rec.Admitted))
	for _, a := range rec.Admitted {
		weights = append(weights, a.Descriptors.MolecularWeight)
		qeds = append(qeds, a.Descriptors.QED)
		logps = append(logps, a.Descriptors.LogP)
	}
	s.MeanWeight = mean(weights)
	s.MeanQED = mean(qeds)
	s.MeanLogP = mean(logps)
	return s
}

// Format grades the raw output of a run.
func Format(raw string) models.FormatSignal {
	sig := models.FormatSignal{
		HasNumbering: numberingLine.MatchString(raw),
	}
	for _, kw := range ProseKeywords {
		if strings.Contains(raw, kw) {
			sig.HasExplanation = true
			break
		}
	}

	switch {
	case sig.HasExplanation:
		sig.Quality = models.FormatProse
	case sig.HasNumbering:
		sig.Quality = models.FormatNumbered
	default:
		sig.Quality = models.FormatPure
	}
	return sig
}

// Summarize builds the report section of one run. Failed runs carry only
// their failure.
func Summarize(rec *models.RunRecord) models.RunSummary {
	sum := models.RunSummary{GeneratorID: rec.GeneratorID, RunID: rec.RunID}
	if rec.Failed() {
		sum.Failure = rec.Failure
		if sum.Failure == nil {
			sum.Failure = &models.RunFailure{Kind: models.FailureGeneration, Message: "unknown error"}
		}
		return sum
	}

	stats := Stats(rec)
	format := Format(rec.RawText)
	sum.Stats = &stats
	sum.Format = &format
	return sum
}

// mean computes the arithmetic mean. Returns 0 for empty input.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
