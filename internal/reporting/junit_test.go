package reporting

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToJUnit_Run(t *testing.T) {
	suites := ConvertToJUnit(newTestRun("qwen"))

	require.Len(t, suites.TestSuites, 1)
	suite := suites.TestSuites[0]
	assert.Equal(t, "qwen", suite.Name)
	assert.Equal(t, 5, suite.Tests)
	assert.Equal(t, 1, suite.Failures)
	assert.Equal(t, 1, suite.Errors)
	assert.Equal(t, 1, suite.Skipped)
	assert.InDelta(t, 2.5, suite.Time, 1e-9)
	assert.Equal(t, "2026-03-02T09:00:00Z", suite.Timestamp)

	assert.Equal(t, 5, suites.Tests)
	assert.Equal(t, 1, suites.Failures)
	assert.Equal(t, 1, suites.Errors)

	props := map[string]string{}
	for _, p := range suite.Properties {
		props[p.Name] = p.Value
	}
	assert.Equal(t, "EGFR", props["target"])
	assert.Equal(t, "mock", props["model"])
	assert.Equal(t, "2", props["admitted"])
	assert.Equal(t, "40.00", props["admission_rate"])
}

func TestConvertToJUnit_EveryCandidateOnce(t *testing.T) {
	rec := newTestRun("qwen")
	suite := ConvertToJUnit(rec).TestSuites[0]

	require.Len(t, suite.TestCases, len(rec.Candidates))
	for i, tc := range suite.TestCases {
		assert.True(t, strings.HasSuffix(tc.Name, string(rec.Candidates[i])), tc.Name)
		assert.Equal(t, "qwen", tc.Classname)
	}

	// admitted, rejected, invalid, fault, admitted duplicate
	assert.Nil(t, suite.TestCases[0].Failure)
	require.NotNil(t, suite.TestCases[1].Failure)
	assert.Equal(t, "AdmissionRejected", suite.TestCases[1].Failure.Type)
	assert.Contains(t, suite.TestCases[1].Failure.Message, "0/5 rules passed")
	assert.Contains(t, suite.TestCases[1].Failure.Body, "[FAIL] weight")
	require.NotNil(t, suite.TestCases[2].Skipped)
	assert.Equal(t, "unknown atom symbol", suite.TestCases[2].Skipped.Message)
	require.NotNil(t, suite.TestCases[3].Error)
	assert.Equal(t, "DescriptorEngineFault", suite.TestCases[3].Error.Type)
	assert.Nil(t, suite.TestCases[4].Failure)
	assert.Nil(t, suite.TestCases[4].Skipped)
}

func TestConvertToJUnit_FailedRun(t *testing.T) {
	suites := ConvertToJUnit(newTestRun("qwen"), newFailedRun("deepseek"))

	require.Len(t, suites.TestSuites, 2)
	failed := suites.TestSuites[1]
	assert.Equal(t, 1, failed.Tests)
	assert.Equal(t, 1, failed.Errors)
	require.Len(t, failed.TestCases, 1)
	assert.Equal(t, "generation", failed.TestCases[0].Name)
	assert.Equal(t, "empty_extraction", failed.TestCases[0].Error.Type)
	assert.Contains(t, failed.TestCases[0].Error.Body, "Please provide")

	assert.Equal(t, 6, suites.Tests)
	assert.Equal(t, 2, suites.Errors)
}

func TestWriteJUnit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJUnit(&buf, newTestRun("qwen")))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, xml.Header))
	assert.Contains(t, out, `<testsuites tests="5" failures="1" errors="1" skipped="1"`)

	var parsed JUnitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &parsed))
	assert.Len(t, parsed.TestSuites[0].TestCases, 5)
}
