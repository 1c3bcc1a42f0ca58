package generation

import (
	"strings"
	"testing"

	copilot "github.com/github/copilot-sdk/go"
	"github.com/lingnexus/lingnexus/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	assert.Equal(t, "Design BTK inhibitors", BuildPrompt("BTK", ""))
	assert.Equal(t, "Design BTK inhibitors, MW below 450", BuildPrompt(" BTK ", "  MW below 450 "))
}

func TestBuildReviewPrompt(t *testing.T) {
	clean, flagged := true, false
	prompt := BuildReviewPrompt(" EGFR ", []models.AdmissionResult{
		{Identifier: "CCO", Descriptors: models.DescriptorRecord{MolecularWeight: 46.07, QED: 0.41, LogP: -0.03, PAINSFree: &clean}},
		{Identifier: "c1ccccc1O", Descriptors: models.DescriptorRecord{MolecularWeight: 94.11, QED: 0.47, LogP: 1.39, PAINSFree: &flagged}},
		{Identifier: "CCN", Descriptors: models.DescriptorRecord{MolecularWeight: 45.08}},
	})

	assert.True(t, strings.HasPrefix(prompt, "Review these candidate EGFR inhibitors:\n"))
	assert.Contains(t, prompt, "Molecule 1: CCO\n- Molecular weight: 46.1 Da\n- QED: 0.41\n")
	assert.Contains(t, prompt, "Molecule 2: c1ccccc1O\n")
	assert.Equal(t, 1, strings.Count(prompt, "PAINS alerts: none"))
	assert.Equal(t, 1, strings.Count(prompt, "PAINS alerts: present"))
	assert.Contains(t, prompt, "Molecule 3: CCN\n")

	assert.True(t, strings.HasPrefix(BuildReviewPrompt("", nil), "Review these candidates:"))
}

func TestRequest_SystemPromptDefault(t *testing.T) {
	assert.Equal(t, DesignerSystemPrompt, (&Request{}).systemPrompt())
	assert.Equal(t, "x", (&Request{SystemPrompt: "x"}).systemPrompt())
	assert.True(t, strings.Contains(DesignerSystemPrompt, "one per line"))
}

func TestSessionEventsCollector(t *testing.T) {
	coll := NewSessionEventsCollector()

	coll.On(assistant("CCO"))
	coll.On(assistant("c1ccccc1"))
	coll.On(copilot.SessionEvent{Type: copilot.SessionIdle})

	assert.Equal(t, "CCOc1ccccc1", coll.Output())
	assert.Equal(t, 3, coll.EventCount())
	assert.Empty(t, coll.ErrorMessage())

	select {
	case <-coll.Done():
	default:
		t.Fatal("collector should be done after SessionIdle")
	}

	// A second termination event must not panic on the closed channel.
	coll.On(copilot.SessionEvent{Type: copilot.SessionError})
	assert.Equal(t, sessionFailedUnknown, coll.ErrorMessage())
}
