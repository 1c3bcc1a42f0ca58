package benchmark

import (
	"github.com/lingnexus/lingnexus/internal/models"
	"github.com/lingnexus/lingnexus/internal/projectconfig"
)

// Tolerances are the per-metric margins within which two values tie.
type Tolerances struct {
	// Counts applies to candidate and admitted counts.
	Counts float64
	// Rate is in percentage points.
	Rate float64
	QED  float64
	// Weight applies to the distance from the weight target.
	Weight float64
	// Duration is in seconds.
	Duration float64
}

// SuggestionThresholds trigger the usage suggestions of a comparison.
type SuggestionThresholds struct {
	// RateMargin is the admission rate lead, in points, for a high-volume suggestion.
	RateMargin float64
	// SpeedRatio is the duration ratio below which a run is called fast.
	SpeedRatio float64
	// QEDMargin is the mean QED lead for a quality-first suggestion.
	QEDMargin float64
}

// Policy holds every tunable constant of a comparison.
type Policy struct {
	Weights      models.CompositeWeights
	WeightTarget float64
	Tolerances   Tolerances
	Suggestions  SuggestionThresholds
}

// DefaultPolicy returns the stock comparison policy.
func DefaultPolicy() Policy {
	return Policy{
		Weights: models.CompositeWeights{
			AdmissionRate: projectconfig.DefaultWeightAdmissionRate,
			QED:           projectconfig.DefaultWeightQED,
			Speed:         projectconfig.DefaultWeightSpeed,
		},
		WeightTarget: projectconfig.DefaultWeightTarget,
		Tolerances: Tolerances{
			Rate: projectconfig.DefaultRateTolerance,
			QED:  projectconfig.DefaultQEDTolerance,
		},
		Suggestions: SuggestionThresholds{
			RateMargin: projectconfig.DefaultSuggestRateMargin,
			SpeedRatio: projectconfig.DefaultSuggestSpeedRatio,
			QEDMargin:  projectconfig.DefaultSuggestQEDMargin,
		},
	}
}

// PolicyFromConfig overlays the values set in cfg on DefaultPolicy.
func PolicyFromConfig(cfg projectconfig.PolicyConfig) Policy {
	p := DefaultPolicy()

	set(&p.Weights.AdmissionRate, cfg.Weights.AdmissionRate)
	set(&p.Weights.QED, cfg.Weights.QED)
	set(&p.Weights.Speed, cfg.Weights.Speed)
	set(&p.WeightTarget, cfg.WeightTarget)

	set(&p.Tolerances.Counts, cfg.Tolerances.Counts)
	set(&p.Tolerances.Rate, cfg.Tolerances.Rate)
	set(&p.Tolerances.QED, cfg.Tolerances.QED)
	set(&p.Tolerances.Weight, cfg.Tolerances.Weight)
	set(&p.Tolerances.Duration, cfg.Tolerances.Duration)

	set(&p.Suggestions.RateMargin, cfg.Suggestions.RateMargin)
	set(&p.Suggestions.SpeedRatio, cfg.Suggestions.SpeedRatio)
	set(&p.Suggestions.QEDMargin, cfg.Suggestions.QEDMargin)

	return p
}

func set(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
