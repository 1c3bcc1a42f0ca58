package models

// CandidateIdentifier is a structural identifier (usually a SMILES string)
// extracted from generator output. It is opaque to everything except the
// descriptor engine.
type CandidateIdentifier string

func (c CandidateIdentifier) String() string { return string(c) }

// Metric names a descriptor field.
type Metric string

const (
	MetricMolecularWeight Metric = "molecular_weight"
	MetricLogP            Metric = "logp"
	MetricQED             Metric = "qed"
	MetricTPSA            Metric = "tpsa"
	MetricRotatableBonds  Metric = "rotatable_bonds"
	MetricHBondDonors     Metric = "h_bond_donors"
	MetricHBondAcceptors  Metric = "h_bond_acceptors"
	MetricAromaticRings   Metric = "aromatic_rings"
)

// AllMetrics lists every descriptor metric in report order.
var AllMetrics = []Metric{
	MetricMolecularWeight,
	MetricLogP,
	MetricQED,
	MetricTPSA,
	MetricRotatableBonds,
	MetricHBondDonors,
	MetricHBondAcceptors,
	MetricAromaticRings,
}

// DescriptorRecord holds the computed descriptors for one candidate.
type DescriptorRecord struct {
	// MolecularWeight is the average molecular weight in Da.
	MolecularWeight float64 `json:"molecular_weight" yaml:"molecular_weight"`
	// LogP is the octanol-water partition coefficient.
	LogP float64 `json:"logp" yaml:"logp"`
	// QED is the quantitative estimate of drug-likeness, 0..1.
	QED float64 `json:"qed" yaml:"qed"`
	// TPSA is the topological polar surface area in Å².
	TPSA           float64 `json:"tpsa" yaml:"tpsa"`
	RotatableBonds int     `json:"rotatable_bonds" yaml:"rotatable_bonds"`
	HBondDonors    int     `json:"h_bond_donors" yaml:"h_bond_donors"`
	HBondAcceptors int     `json:"h_bond_acceptors" yaml:"h_bond_acceptors"`
	AromaticRings  int     `json:"aromatic_rings" yaml:"aromatic_rings"`
	// PAINSFree reports whether no PAINS substructure alert matched. Nil
	// when the engine does not check PAINS. It is informational; no
	// admission rule reads it.
	PAINSFree *bool `json:"pains_free,omitempty" yaml:"pains_free,omitempty"`
}

// Value returns the named metric as a float64. Unknown metrics return 0, false.
func (d DescriptorRecord) Value(m Metric) (float64, bool) {
	switch m {
	case MetricMolecularWeight:
		return d.MolecularWeight, true
	case MetricLogP:
		return d.LogP, true
	case MetricQED:
		return d.QED, true
	case MetricTPSA:
		return d.TPSA, true
	case MetricRotatableBonds:
		return float64(d.RotatableBonds), true
	case MetricHBondDonors:
		return float64(d.HBondDonors), true
	case MetricHBondAcceptors:
		return float64(d.HBondAcceptors), true
	case MetricAromaticRings:
		return float64(d.AromaticRings), true
	}
	return 0, false
}

// DescriptorResult is what a descriptor provider returns for one identifier.
// Valid == false is the "invalid identifier" signal; Record is then zero.
type DescriptorResult struct {
	Valid  bool             `json:"valid"`
	Record DescriptorRecord `json:"descriptors"`
	Reason string           `json:"reason,omitempty"`
}

// ValidDescriptors wraps a computed record.
func ValidDescriptors(rec DescriptorRecord) DescriptorResult {
	return DescriptorResult{Valid: true, Record: rec}
}

// InvalidDescriptors reports an identifier the engine could not parse.
func InvalidDescriptors(reason string) DescriptorResult {
	return DescriptorResult{Valid: false, Reason: reason}
}

// RuleID identifies one admission rule.
type RuleID string

const (
	RuleMolecularWeight RuleID = "weight"
	RuleQED             RuleID = "qed"
	RuleLogP            RuleID = "logp"
	RuleTPSA            RuleID = "tpsa"
	RuleRotatableBonds  RuleID = "rotatable_bonds"
)

// RuleResult is the outcome of one admission rule for one candidate.
type RuleResult struct {
	ID     RuleID  `json:"id"`
	Passed bool    `json:"passed"`
	Value  float64 `json:"value"`
}

// AdmissionResult is the admission filter verdict for one candidate.
type AdmissionResult struct {
	Identifier  CandidateIdentifier `json:"identifier"`
	Descriptors DescriptorRecord    `json:"descriptors"`
	Rules       []RuleResult        `json:"rules"`
	RulesPassed int                 `json:"rules_passed"`
	Admitted    bool                `json:"admitted"`
}

// Rule returns the result for the given rule id.
func (a *AdmissionResult) Rule(id RuleID) (RuleResult, bool) {
	for _, r := range a.Rules {
		if r.ID == id {
			return r, true
		}
	}
	return RuleResult{}, false
}

// ScreeningSkip records an identifier that never reached the admission rules.
type ScreeningSkip struct {
	Identifier CandidateIdentifier `json:"identifier"`
	Reason     string              `json:"reason"`
	// Fault is true when the descriptor engine failed, as opposed to the
	// identifier being invalid.
	Fault bool `json:"fault,omitempty"`
}
