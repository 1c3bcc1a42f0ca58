package reporting

import "github.com/lingnexus/lingnexus/internal/models"

// candidateRow is one extracted identifier with its screening outcome.
// Exactly one of Result and Skip is set, unless screening was interrupted.
type candidateRow struct {
	Index  int
	ID     models.CandidateIdentifier
	Result *models.AdmissionResult
	Skip   *models.ScreeningSkip
}

// candidateRows re-joins the admitted, rejected and skipped lists of rec
// into extraction order. Repeated identifiers consume outcomes in turn.
func candidateRows(rec *models.RunRecord) []candidateRow {
	results := map[models.CandidateIdentifier][]*models.AdmissionResult{}
	for i := range rec.Admitted {
		r := &rec.Admitted[i]
		results[r.Identifier] = append(results[r.Identifier], r)
	}
	for i := range rec.Rejected {
		r := &rec.Rejected[i]
		results[r.Identifier] = append(results[r.Identifier], r)
	}
	skips := map[models.CandidateIdentifier][]*models.ScreeningSkip{}
	for i := range rec.Skipped {
		s := &rec.Skipped[i]
		skips[s.Identifier] = append(skips[s.Identifier], s)
	}

	rows := make([]candidateRow, 0, len(rec.Candidates))
	for i, id := range rec.Candidates {
		row := candidateRow{Index: i + 1, ID: id}
		if q := results[id]; len(q) > 0 {
			row.Result, results[id] = q[0], q[1:]
		} else if q := skips[id]; len(q) > 0 {
			row.Skip, skips[id] = q[0], q[1:]
		}
		rows = append(rows, row)
	}
	return rows
}
