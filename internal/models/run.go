package models

import "time"

// RunStatus is the overall status of a single generator run.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// FailureKind classifies why a run failed.
type FailureKind string

const (
	// FailureEmptyExtraction means the generator answered but no candidate
	// identifier survived extraction.
	FailureEmptyExtraction FailureKind = "empty_extraction"
	// FailureGeneration means the generation call itself failed.
	FailureGeneration FailureKind = "generation_failure"
)

// RunFailure describes a failed run.
type RunFailure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

// RunReview is the expert commentary on a run's admitted candidates.
type RunReview struct {
	Reviewer string `json:"reviewer"`
	Text     string `json:"text,omitempty"`
	// Error is set when the review call failed; the run itself still
	// succeeds.
	Error string `json:"error,omitempty"`
}

// RunRecord is the result of one generator evaluated once.
// It is not modified after the evaluator returns it.
type RunRecord struct {
	RunID       string    `json:"run_id"`
	GeneratorID string    `json:"generator"`
	Model       string    `json:"model,omitempty"`
	Target      string    `json:"target"`
	Request     string    `json:"request"`
	StartedAt   time.Time `json:"started_at"`
	// Duration brackets the generation call only.
	Duration time.Duration `json:"duration_ns"`
	RawText  string        `json:"raw_text"`

	Candidates []CandidateIdentifier `json:"candidates"`
	Admitted   []AdmissionResult     `json:"admitted"`
	Rejected   []AdmissionResult     `json:"rejected,omitempty"`
	Skipped    []ScreeningSkip       `json:"skipped,omitempty"`

	Status  RunStatus   `json:"status"`
	Failure *RunFailure `json:"failure,omitempty"`

	// Review is set when a reviewer was requested and anything was admitted.
	Review *RunReview `json:"review,omitempty"`
}

// Failed reports whether the run failed before screening could complete.
func (r *RunRecord) Failed() bool {
	return r.Status == RunFailed
}

// CandidateCount is the number of extracted identifiers.
func (r *RunRecord) CandidateCount() int { return len(r.Candidates) }

// AdmittedCount is the number of admitted candidates.
func (r *RunRecord) AdmittedCount() int { return len(r.Admitted) }

// DurationSeconds returns the generation duration in seconds.
func (r *RunRecord) DurationSeconds() float64 { return r.Duration.Seconds() }
