package reporting

import (
	"time"

	"github.com/lingnexus/lingnexus/internal/admission"
	"github.com/lingnexus/lingnexus/internal/benchmark"
	"github.com/lingnexus/lingnexus/internal/models"
)

var (
	goodMol  = models.DescriptorRecord{MolecularWeight: 320.4, QED: 0.78, LogP: 2.9, TPSA: 75.1, RotatableBonds: 5}
	heavyMol = models.DescriptorRecord{MolecularWeight: 812.0, QED: 0.12, LogP: 7.4, TPSA: 190, RotatableBonds: 18}
)

// newTestRun has one admitted, one rejected, one invalid and one faulted
// candidate, with the admitted identifier repeated at the end.
func newTestRun(gen string) *models.RunRecord {
	return &models.RunRecord{
		RunID:       gen + "-run",
		GeneratorID: gen,
		Model:       "mock",
		Target:      "EGFR",
		Request:     "Design EGFR inhibitors",
		StartedAt:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		Duration:    2500 * time.Millisecond,
		RawText:     "1. CCOc1ccccc1\n2. CCCCCCCCCCCC\n3. C1CCX\n4. C[Si]CCC\n5. CCOc1ccccc1",
		Candidates:  []models.CandidateIdentifier{"CCOc1ccccc1", "CCCCCCCCCCCC", "C1CCX", "C[Si]CCC", "CCOc1ccccc1"},
		Admitted: []models.AdmissionResult{
			admission.Evaluate("CCOc1ccccc1", goodMol),
			admission.Evaluate("CCOc1ccccc1", goodMol),
		},
		Rejected: []models.AdmissionResult{admission.Evaluate("CCCCCCCCCCCC", heavyMol)},
		Skipped: []models.ScreeningSkip{
			{Identifier: "C1CCX", Reason: "unknown atom symbol"},
			{Identifier: "C[Si]CCC", Reason: "descriptor engine timed out", Fault: true},
		},
		Status: models.RunSucceeded,
	}
}

func newFailedRun(gen string) *models.RunRecord {
	return &models.RunRecord{
		RunID:       gen + "-run",
		GeneratorID: gen,
		Target:      "EGFR",
		StartedAt:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		RawText:     "Please provide the binding pocket.",
		Status:      models.RunFailed,
		Failure:     &models.RunFailure{Kind: models.FailureEmptyExtraction, Message: "no candidate identifiers found in generator output"},
	}
}

func newTestComparison() (*models.ComparisonReport, *models.RunRecord, *models.RunRecord) {
	a := newTestRun("qwen")
	b := newTestRun("deepseek")
	b.Duration = 5 * time.Second
	b.Admitted = b.Admitted[:1]
	b.Rejected = append(b.Rejected, admission.Evaluate("CCOc1ccccc1", heavyMol))
	return benchmark.Compare(a, b, benchmark.DefaultPolicy()), a, b
}
