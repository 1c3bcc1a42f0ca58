package descriptors

import (
	"context"
	"log/slog"

	"github.com/lingnexus/lingnexus/internal/models"
)

// Prescreen rejects identifiers that cannot be SMILES before they reach the
// wrapped engine.
type Prescreen struct {
	next Provider
}

// NewPrescreen wraps next with a SMILES syntax check.
func NewPrescreen(next Provider) *Prescreen {
	return &Prescreen{next: next}
}

// ID differs from the wrapped engine's so cached prescreen rejections are
// not served once prescreening is turned off.
func (p *Prescreen) ID() string { return "prescreen+" + p.next.ID() }

func (p *Prescreen) Compute(ctx context.Context, id models.CandidateIdentifier) (models.DescriptorResult, error) {
	if reason := CheckSMILES(string(id)); reason != "" {
		slog.Debug("prescreen rejected identifier", "identifier", id, "reason", reason)
		return models.InvalidDescriptors(reason), nil
	}
	return p.next.Compute(ctx, id)
}

// organicAtoms are the atom symbols that may appear outside brackets.
var organicAtoms = map[string]bool{
	"B": true, "C": true, "N": true, "O": true, "P": true, "S": true,
	"F": true, "Cl": true, "Br": true, "I": true,
	"c": true, "n": true, "o": true, "s": true, "p": true, "b": true,
	"Si": true, "Se": true, "As": true, "*": true,
}

// CheckSMILES performs cheap syntax checks and returns a reason when s is
// certainly not a SMILES string, or "" when it may be one.
func CheckSMILES(s string) string {
	if s == "" {
		return "empty identifier"
	}
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7e || s[i] <= ' ' {
			return "identifier contains characters outside the SMILES alphabet"
		}
	}
	if !balanced(s, '(', ')') {
		return "unbalanced parentheses"
	}
	if !balanced(s, '[', ']') {
		return "unbalanced brackets"
	}
	if !ringClosuresPaired(s) {
		return "unmatched ring closure digits"
	}
	if !atomsKnown(s) {
		return "unknown atom symbol"
	}
	return ""
}

func balanced(s string, open, close byte) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

func ringClosuresPaired(s string) bool {
	counts := make(map[string]int)

	inBracket := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '[':
			inBracket = true
		case ch == ']':
			inBracket = false
		case inBracket:
			// charges and hydrogen counts live inside brackets
		case ch == '%' && i+2 < len(s) && isDigit(s[i+1]) && isDigit(s[i+2]):
			counts[s[i+1:i+3]]++
			i += 2
		case isDigit(ch):
			counts[string(ch)]++
		}
	}

	for _, c := range counts {
		if c%2 != 0 {
			return false
		}
	}
	return true
}

func atomsKnown(s string) bool {
	inBracket := false
	for i := 0; i < len(s); {
		ch := s[i]
		switch {
		case ch == '[':
			inBracket = true
			i++
			continue
		case ch == ']':
			inBracket = false
			i++
			continue
		case inBracket, isSpecial(ch):
			i++
			continue
		}

		if i+1 < len(s) && organicAtoms[s[i:i+2]] {
			i += 2
			continue
		}
		if organicAtoms[s[i:i+1]] {
			i++
			continue
		}
		return false
	}
	return true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isSpecial(ch byte) bool {
	switch ch {
	case '(', ')', '.', '=', '#', '$', ':', '/', '\\', '@', '+', '-', '%',
		'0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return true
	}
	return false
}
