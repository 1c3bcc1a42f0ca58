package wizard

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDefaults(t *testing.T) {
	tests := []struct {
		name     string
		initial  CompareSpec
		expected [2]string
	}{
		{"empty", CompareSpec{}, [2]string{"qwen", "deepseek"}},
		{"first set", CompareSpec{Generators: [2]string{"deepseek"}}, [2]string{"deepseek", "qwen"}},
		{"same twice", CompareSpec{Generators: [2]string{"gemini", "gemini"}}, [2]string{"gemini", "qwen"}},
		{"both set", CompareSpec{Generators: [2]string{"gemini", "deepseek"}}, [2]string{"gemini", "deepseek"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := withDefaults(tt.initial, []string{"qwen", "deepseek", "gemini"}, []string{"markdown", "json"})
			assert.Equal(t, tt.expected, got.Generators)
			assert.Equal(t, "markdown", got.Format)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    CompareSpec
		wantErr string
	}{
		{"ok", CompareSpec{Target: "EGFR", Generators: [2]string{"a", "b"}}, ""},
		{"no target", CompareSpec{Target: "  ", Generators: [2]string{"a", "b"}}, "target is required"},
		{"missing generator", CompareSpec{Target: "EGFR", Generators: [2]string{"a", ""}}, "two generators are required"},
		{"same generator", CompareSpec{Target: "EGFR", Generators: [2]string{"a", "a"}}, "cannot compare a with itself"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.spec)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestRunCompareWizard_TooFewGenerators(t *testing.T) {
	_, err := RunCompareWizard(strings.NewReader(""), &bytes.Buffer{}, []string{"qwen"}, nil, CompareSpec{})
	require.ErrorIs(t, err, ErrTooFewGenerators)
}

func TestNewCompareForm(t *testing.T) {
	spec := withDefaults(CompareSpec{Target: "EGFR"}, []string{"qwen", "deepseek"}, nil)
	form := newCompareForm(&spec, []string{"qwen", "deepseek"}, nil)
	require.NotNil(t, form)
	assert.Empty(t, spec.Format)
}
