// Package admission scores candidates against the drug-likeness rule set
// and admits those that pass a majority of the rules.
package admission

import "github.com/lingnexus/lingnexus/internal/models"

// Rule thresholds.
const (
	MaxMolecularWeight = 500.0
	MinQED             = 0.6
	MinLogP            = 1.0
	MaxLogP            = 5.0
	MaxTPSA            = 140.0
	MaxRotatableBonds  = 10
)

// PassThreshold is the number of rules a candidate must pass to be admitted.
const PassThreshold = 3

// Rule is one independent admission predicate.
type Rule struct {
	ID          models.RuleID
	Description string
	Metric      models.Metric
	Pass        func(models.DescriptorRecord) bool
}

// Rules is the fixed admission rule set, in report order.
var Rules = []Rule{
	{
		ID:          models.RuleMolecularWeight,
		Description: "molecular weight < 500",
		Metric:      models.MetricMolecularWeight,
		Pass:        func(d models.DescriptorRecord) bool { return d.MolecularWeight < MaxMolecularWeight },
	},
	{
		ID:          models.RuleQED,
		Description: "QED > 0.6",
		Metric:      models.MetricQED,
		Pass:        func(d models.DescriptorRecord) bool { return d.QED > MinQED },
	},
	{
		ID:          models.RuleLogP,
		Description: "1 ≤ LogP ≤ 5",
		Metric:      models.MetricLogP,
		Pass:        func(d models.DescriptorRecord) bool { return d.LogP >= MinLogP && d.LogP <= MaxLogP },
	},
	{
		ID:          models.RuleTPSA,
		Description: "TPSA < 140",
		Metric:      models.MetricTPSA,
		Pass:        func(d models.DescriptorRecord) bool { return d.TPSA < MaxTPSA },
	},
	{
		ID:          models.RuleRotatableBonds,
		Description: "rotatable bonds < 10",
		Metric:      models.MetricRotatableBonds,
		Pass:        func(d models.DescriptorRecord) bool { return d.RotatableBonds < MaxRotatableBonds },
	},
}

// RuleByID returns the rule with the given id.
func RuleByID(id models.RuleID) (Rule, bool) {
	for _, r := range Rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// Evaluate applies every rule to rec. Each rule is evaluated independently
// and the passes are summed.
func Evaluate(id models.CandidateIdentifier, rec models.DescriptorRecord) models.AdmissionResult {
	res := models.AdmissionResult{
		Identifier:  id,
		Descriptors: rec,
		Rules:       make([]models.RuleResult, 0, len(Rules)),
	}

	for _, r := range Rules {
		value, _ := rec.Value(r.Metric)
		passed := r.Pass(rec)
		if passed {
			res.RulesPassed++
		}
		res.Rules = append(res.Rules, models.RuleResult{ID: r.ID, Passed: passed, Value: value})
	}

	res.Admitted = res.RulesPassed >= PassThreshold
	return res
}
