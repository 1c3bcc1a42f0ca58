package models

// Side identifies which of the two compared runs a verdict refers to.
type Side string

const (
	SideA   Side = "a"
	SideB   Side = "b"
	SideTie Side = "tie"
	// SideNA marks a metric that cannot be compared, e.g. mean QED when one
	// run admitted nothing.
	SideNA Side = "n/a"
)

// ComparedMetric names a metric that the comparative benchmark ranks.
type ComparedMetric string

const (
	CompareCandidateCount ComparedMetric = "candidate_count"
	CompareAdmittedCount  ComparedMetric = "admitted_count"
	CompareAdmissionRate  ComparedMetric = "admission_rate"
	CompareMeanQED        ComparedMetric = "mean_qed"
	CompareMeanWeight     ComparedMetric = "mean_weight"
	CompareDuration       ComparedMetric = "duration"
)

// FormatQuality grades how clean a generator's raw output was.
type FormatQuality string

const (
	// FormatPure means identifiers only: no numbering, no prose.
	FormatPure FormatQuality = "pure"
	// FormatNumbered means enumeration markers but no explanatory prose.
	FormatNumbered FormatQuality = "numbered"
	// FormatProse means the output contained explanatory text.
	FormatProse FormatQuality = "prose"
)

// RunStats are the derived statistics of one successful run.
type RunStats struct {
	CandidateCount  int     `json:"candidate_count"`
	AdmittedCount   int     `json:"admitted_count"`
	SkippedCount    int     `json:"skipped_count"`
	AdmissionRate   float64 `json:"admission_rate"`
	MeanWeight      float64 `json:"mean_weight"`
	MeanQED         float64 `json:"mean_qed"`
	MeanLogP        float64 `json:"mean_logp"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// FormatSignal is the qualitative output-format signal for one run.
type FormatSignal struct {
	HasExplanation bool          `json:"has_explanation"`
	HasNumbering   bool          `json:"has_numbering"`
	Quality        FormatQuality `json:"quality"`
}

// RunSummary is one run's section of a comparison report. Stats is nil when
// the run failed; Failure is then set.
type RunSummary struct {
	GeneratorID string        `json:"generator"`
	RunID       string        `json:"run_id"`
	Stats       *RunStats     `json:"stats,omitempty"`
	Format      *FormatSignal `json:"format,omitempty"`
	Failure     *RunFailure   `json:"failure,omitempty"`
}

// MetricVerdict is the per-metric winner of a comparison.
type MetricVerdict struct {
	Metric ComparedMetric `json:"metric"`
	A      float64        `json:"a"`
	B      float64        `json:"b"`
	Winner Side           `json:"winner"`
}

// CompositeScore is one run's weighted composite and its three terms.
type CompositeScore struct {
	GeneratorID   string  `json:"generator"`
	Score         float64 `json:"score"`
	AdmissionTerm float64 `json:"admission_term"`
	QEDTerm       float64 `json:"qed_term"`
	SpeedTerm     float64 `json:"speed_term"`
}

// CompositeWeights is the weighting of the composite score terms.
type CompositeWeights struct {
	AdmissionRate float64 `json:"admission_rate" yaml:"admission_rate"`
	QED           float64 `json:"qed" yaml:"qed"`
	Speed         float64 `json:"speed" yaml:"speed"`
}

// ComparisonReport compares exactly two runs. When either run failed, only
// Runs and Failures are populated.
type ComparisonReport struct {
	Target   string        `json:"target"`
	Runs     [2]RunSummary `json:"runs"`
	Failures []RunSummary  `json:"failures,omitempty"`

	Verdicts    []MetricVerdict   `json:"verdicts,omitempty"`
	Scores      []CompositeScore  `json:"scores,omitempty"`
	Weights     *CompositeWeights `json:"weights,omitempty"`
	Recommended string            `json:"recommended,omitempty"`
	Tie         bool              `json:"tie,omitempty"`
	Reason      string            `json:"reason,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
}

// Comparable reports whether both runs succeeded and numeric sections exist.
func (r *ComparisonReport) Comparable() bool {
	return len(r.Failures) == 0
}

// Verdict returns the verdict for the given metric.
func (r *ComparisonReport) Verdict(m ComparedMetric) (MetricVerdict, bool) {
	for _, v := range r.Verdicts {
		if v.Metric == m {
			return v, true
		}
	}
	return MetricVerdict{}, false
}

// GeneratorFor maps a side to its generator id. Ties and n/a map to "".
func (r *ComparisonReport) GeneratorFor(s Side) string {
	switch s {
	case SideA:
		return r.Runs[0].GeneratorID
	case SideB:
		return r.Runs[1].GeneratorID
	}
	return ""
}
