package reporting

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lingnexus/lingnexus/internal/admission"
	"github.com/lingnexus/lingnexus/internal/benchmark"
	"github.com/lingnexus/lingnexus/internal/models"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Skipped    int              `xml:"skipped,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one generator run.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one extracted candidate.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure represents a rejected candidate.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitError represents an engine fault or a failed generation.
type JUnitError struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitSkipped marks an invalid identifier.
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit converts runs to JUnit XML, one suite per run and one test
// case per extracted candidate. A failed run becomes a suite with a single
// errored "generation" case.
func ConvertToJUnit(runs ...*models.RunRecord) *JUnitTestSuites {
	out := &JUnitTestSuites{}
	for _, rec := range runs {
		suite := convertRun(rec)
		out.Tests += suite.Tests
		out.Failures += suite.Failures
		out.Errors += suite.Errors
		out.Skipped += suite.Skipped
		out.Time += suite.Time
		out.TestSuites = append(out.TestSuites, suite)
	}
	return out
}

func convertRun(rec *models.RunRecord) JUnitTestSuite {
	suite := JUnitTestSuite{
		Name:      rec.GeneratorID,
		Time:      rec.DurationSeconds(),
		Timestamp: rec.StartedAt.Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "run_id", Value: rec.RunID},
			{Name: "target", Value: rec.Target},
			{Name: "model", Value: rec.Model},
			{Name: "status", Value: string(rec.Status)},
		},
	}

	if rec.Failed() {
		suite.Tests = 1
		suite.Errors = 1
		suite.TestCases = []JUnitTestCase{{
			Name:      "generation",
			Classname: rec.GeneratorID,
			Time:      rec.DurationSeconds(),
			Error: &JUnitError{
				Message: rec.Failure.Message,
				Type:    string(rec.Failure.Kind),
				Body:    rec.RawText,
			},
		}}
		return suite
	}

	stats := benchmark.Stats(rec)
	suite.Properties = append(suite.Properties,
		JUnitProperty{Name: "admitted", Value: fmt.Sprintf("%d", stats.AdmittedCount)},
		JUnitProperty{Name: "admission_rate", Value: fmt.Sprintf("%.2f", stats.AdmissionRate)},
	)

	for _, row := range candidateRows(rec) {
		tc := JUnitTestCase{
			Name:      fmt.Sprintf("%d: %s", row.Index, row.ID),
			Classname: rec.GeneratorID,
		}
		switch {
		case row.Result != nil && !row.Result.Admitted:
			tc.Failure = buildFailure(row.Result)
			suite.Failures++
		case row.Skip != nil && row.Skip.Fault:
			tc.Error = &JUnitError{Message: row.Skip.Reason, Type: "DescriptorEngineFault"}
			suite.Errors++
		case row.Skip != nil:
			tc.Skipped = &JUnitSkipped{Message: row.Skip.Reason}
			suite.Skipped++
		case row.Result == nil:
			tc.Skipped = &JUnitSkipped{Message: "not screened"}
			suite.Skipped++
		}
		suite.TestCases = append(suite.TestCases, tc)
	}
	suite.Tests = len(suite.TestCases)
	return suite
}

func buildFailure(a *models.AdmissionResult) *JUnitFailure {
	var details strings.Builder
	for _, rr := range a.Rules {
		if rr.Passed {
			continue
		}
		desc := string(rr.ID)
		if rule, ok := admission.RuleByID(rr.ID); ok {
			desc = rule.Description
		}
		fmt.Fprintf(&details, "[FAIL] %s (%s): value=%.2f\n", rr.ID, desc, rr.Value)
	}

	return &JUnitFailure{
		Message: fmt.Sprintf("%s: %d/%d rules passed, %d required", a.Identifier, a.RulesPassed, len(a.Rules), admission.PassThreshold),
		Type:    "AdmissionRejected",
		Body:    details.String(),
	}
}

// WriteJUnit writes runs as JUnit XML to w.
func WriteJUnit(w io.Writer, runs ...*models.RunRecord) error {
	data, err := xml.MarshalIndent(ConvertToJUnit(runs...), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}
