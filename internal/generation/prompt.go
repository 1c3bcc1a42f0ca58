package generation

import (
	"fmt"
	"strings"

	"github.com/lingnexus/lingnexus/internal/models"
)

// DesignerSystemPrompt constrains the model to emit one SMILES per line.
const DesignerSystemPrompt = `You are being called by an automated molecule generation pipeline. Any output other than SMILES strings breaks the pipeline. Output SMILES only.

You are a medicinal chemist focused on drug discovery. Given a target name, design 3 to 5 novel, plausible and synthesizable small-molecule candidates.

Rules:
1. Output only SMILES strings, one per line, with no explanation, numbering or extra text.
2. Candidates must satisfy: molecular weight < 500, QED > 0.6, no known toxic or PAINS substructures.
3. Base the design on public knowledge only (for example known inhibitors in ChEMBL or PubChem).
4. If no target is given, reply "please provide a target name".

Example input: "Design BTK inhibitors"
Example output:
COc1ccc(NC(=O)c2ccccc2)cc1N1CCN(C)CC1
CC(C)Oc1ccc(NC(=O)Nc2ccc(Cl)cc2)cc1
c1ccc(CNc2ncnc3[nH]ccc23)cc1
`

// BuildPrompt assembles the design request for a target and an optional
// requirement string.
func BuildPrompt(target, requirements string) string {
	prompt := "Design " + strings.TrimSpace(target) + " inhibitors"
	if r := strings.TrimSpace(requirements); r != "" {
		prompt += ", " + r
	}
	return prompt
}

// ReviewerSystemPrompt asks the model for a short ADMET verdict per
// admitted candidate.
const ReviewerSystemPrompt = `You are an ADMET (absorption, distribution, metabolism, excretion, toxicity) expert reviewing candidates from a molecule generation pipeline.

For each molecule you receive its SMILES and computed properties. Judge its drug-likeness from medicinal chemistry knowledge and give a short pass or fail verdict with the main reason.

Criteria:
- Molecular weight: < 500 Da (good), 500-600 (acceptable), > 600 (not recommended)
- QED: > 0.6 (good), 0.4-0.6 (acceptable), < 0.4 (not recommended)
- LogP: 1-3 (good), 3-5 (acceptable), < 1 or > 5 (of concern)
- TPSA: < 140 Å² (good), 140-200 (acceptable), > 200 (poor permeability)
- Rotatable bonds: < 10 (good), 10-15 (acceptable), > 15 (too flexible)
- PAINS alerts: any alert is a fail

Example:
Molecule 1: CCOc1ccc(NC(=O)c2ccc(F)cc2)cc1
- Molecular weight: 259.3 Da ✓
- QED: 0.72 ✓
- LogP: 3.2 ✓
- Verdict: **pass** - good drug-likeness, suitable for optimization

Keep the review objective and brief.
`

// BuildReviewPrompt lists the admitted candidates of a run with their
// computed properties.
func BuildReviewPrompt(target string, admitted []models.AdmissionResult) string {
	var b strings.Builder
	if t := strings.TrimSpace(target); t != "" {
		fmt.Fprintf(&b, "Review these candidate %s inhibitors:\n", t)
	} else {
		b.WriteString("Review these candidates:\n")
	}
	for i, a := range admitted {
		d := a.Descriptors
		fmt.Fprintf(&b, "\nMolecule %d: %s\n", i+1, a.Identifier)
		fmt.Fprintf(&b, "- Molecular weight: %.1f Da\n", d.MolecularWeight)
		fmt.Fprintf(&b, "- QED: %.2f\n", d.QED)
		fmt.Fprintf(&b, "- LogP: %.2f\n", d.LogP)
		fmt.Fprintf(&b, "- TPSA: %.1f\n", d.TPSA)
		fmt.Fprintf(&b, "- Rotatable bonds: %d\n", d.RotatableBonds)
		if d.PAINSFree != nil {
			if *d.PAINSFree {
				b.WriteString("- PAINS alerts: none\n")
			} else {
				b.WriteString("- PAINS alerts: present\n")
			}
		}
	}
	return b.String()
}
