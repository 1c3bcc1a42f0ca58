// Package extract turns unstructured generator output into candidate
// identifiers.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lingnexus/lingnexus/internal/models"
)

// MinIdentifierLength is the shortest line length, in characters, that can
// still carry an identifier.
const MinIdentifierLength = 5

// DefaultMissingInputPhrases are the phrases a generator emits when it asks
// for more input instead of answering.
var DefaultMissingInputPhrases = []string{"请提供", "please provide"}

var enumerationPrefix = regexp.MustCompile(`^[\d\-\.\)]+\s*`)

// Extractor converts raw generator text into an ordered list of identifiers.
type Extractor struct {
	phrases []string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMissingInputPhrases replaces the default missing-input phrases.
// Matching is case-insensitive.
func WithMissingInputPhrases(phrases ...string) Option {
	return func(e *Extractor) {
		e.phrases = lowerAll(phrases)
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{phrases: lowerAll(DefaultMissingInputPhrases)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultExtractor = New()

// Extract runs the default Extractor over raw.
func Extract(raw string) []models.CandidateIdentifier {
	return defaultExtractor.Extract(raw)
}

// Extract returns the candidate identifiers found in raw, one per surviving
// line, in input order. Duplicates are kept. An empty result means the
// generator produced nothing usable.
func (e *Extractor) Extract(raw string) []models.CandidateIdentifier {
	var out []models.CandidateIdentifier

	for line := range strings.Lines(raw) {
		line = strings.TrimSpace(line)
		if line == "" || utf8.RuneCountInString(line) < MinIdentifierLength {
			continue
		}
		if e.asksForInput(line) {
			continue
		}

		line = enumerationPrefix.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		out = append(out, models.CandidateIdentifier(line))
	}

	return out
}

func (e *Extractor) asksForInput(line string) bool {
	lower := strings.ToLower(line)
	for _, p := range e.phrases {
		if p != "" && strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}
