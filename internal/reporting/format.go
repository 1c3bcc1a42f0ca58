// Package reporting renders run records and comparison reports.
package reporting

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lingnexus/lingnexus/internal/models"
)

// Format is an output format of the CLI.
type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatJUnit    Format = "junit"
)

// Formats lists every supported format.
var Formats = []Format{FormatTable, FormatMarkdown, FormatHTML, FormatJSON, FormatJUnit}

// ErrUnknownFormat is returned for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat resolves a format name. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "md" {
		return FormatMarkdown, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q (expected one of %s)", ErrUnknownFormat, s, formatNames())
}

func formatNames() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// WriteRun renders one run in the given format.
func WriteRun(w io.Writer, f Format, rec *models.RunRecord) error {
	switch f {
	case FormatTable:
		return WriteRunTable(w, rec)
	case FormatMarkdown:
		_, err := io.WriteString(w, RunMarkdown(rec))
		return err
	case FormatHTML:
		doc, err := MarkdownToHTML(rec.GeneratorID+" run detail", RunMarkdown(rec))
		if err != nil {
			return err
		}
		_, err = w.Write(doc)
		return err
	case FormatJSON:
		return writeJSON(w, rec)
	case FormatJUnit:
		return WriteJUnit(w, rec)
	}
	return fmt.Errorf("%w %q", ErrUnknownFormat, f)
}

// comparisonDocument is the JSON form of a comparison.
type comparisonDocument struct {
	Report *models.ComparisonReport `json:"report"`
	Runs   []*models.RunRecord      `json:"runs,omitempty"`
}

// WriteComparison renders a comparison in the given format. runs are the
// compared records; JSON embeds them and JUnit is built from them alone.
func WriteComparison(w io.Writer, f Format, r *models.ComparisonReport, runs ...*models.RunRecord) error {
	switch f {
	case FormatTable:
		return WriteComparisonTable(w, r)
	case FormatMarkdown:
		_, err := io.WriteString(w, comparisonWithDetail(r, runs))
		return err
	case FormatHTML:
		doc, err := MarkdownToHTML("Generator comparison", comparisonWithDetail(r, runs))
		if err != nil {
			return err
		}
		_, err = w.Write(doc)
		return err
	case FormatJSON:
		return writeJSON(w, comparisonDocument{Report: r, Runs: runs})
	case FormatJUnit:
		return WriteJUnit(w, runs...)
	}
	return fmt.Errorf("%w %q", ErrUnknownFormat, f)
}

func comparisonWithDetail(r *models.ComparisonReport, runs []*models.RunRecord) string {
	var b strings.Builder
	b.WriteString(ComparisonMarkdown(r))
	for _, rec := range runs {
		b.WriteString("\n---\n\n")
		b.WriteString(RunMarkdown(rec))
	}
	return b.String()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
