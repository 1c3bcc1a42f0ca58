// Package wizard collects comparison parameters interactively.
package wizard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// CompareSpec holds the fields collected by the compare wizard.
type CompareSpec struct {
	Target       string
	Requirements string
	Generators   [2]string
	Format       string
}

// ErrTooFewGenerators is returned when fewer than two generators are configured.
var ErrTooFewGenerators = errors.New("at least two generators must be configured to compare")

// RunCompareWizard runs an interactive huh form that asks for the target,
// the requirements and the two generators to compare. initial pre-populates
// the fields; generators are the configured names, formats the output
// formats on offer.
func RunCompareWizard(in io.Reader, out io.Writer, generators, formats []string, initial CompareSpec) (*CompareSpec, error) {
	if len(generators) < 2 {
		return nil, ErrTooFewGenerators
	}

	spec := withDefaults(initial, generators, formats)
	form := newCompareForm(&spec, generators, formats).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	spec.Target = strings.TrimSpace(spec.Target)
	spec.Requirements = strings.TrimSpace(spec.Requirements)
	if err := Validate(spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

func newCompareForm(spec *CompareSpec, generators, formats []string) *huh.Form {
	options := func() []huh.Option[string] {
		opts := make([]huh.Option[string], len(generators))
		for i, g := range generators {
			opts[i] = huh.NewOption(g, g)
		}
		return opts
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Target").
			Description("Protein target to design inhibitors for").
			Placeholder("EGFR").
			Value(&spec.Target).
			Validate(ValidateTarget),
		huh.NewInput().
			Title("Requirements").
			Description("Optional design requirements, e.g. 'oral bioavailability'").
			Value(&spec.Requirements),
		huh.NewSelect[string]().
			Title("First generator").
			Options(options()...).
			Value(&spec.Generators[0]),
		huh.NewSelect[string]().
			Title("Second generator").
			Options(options()...).
			Value(&spec.Generators[1]).
			Validate(func(s string) error {
				if s == spec.Generators[0] {
					return fmt.Errorf("choose a generator other than %s", s)
				}
				return nil
			}),
	}
	if len(formats) > 0 {
		fopts := make([]huh.Option[string], len(formats))
		for i, f := range formats {
			fopts[i] = huh.NewOption(f, f)
		}
		fields = append(fields, huh.NewSelect[string]().
			Title("Report format").
			Options(fopts...).
			Value(&spec.Format))
	}

	return huh.NewForm(huh.NewGroup(fields...))
}

// withDefaults fills empty generator and format choices from the
// configured lists so the selects start on sensible values.
func withDefaults(spec CompareSpec, generators, formats []string) CompareSpec {
	if spec.Generators[0] == "" {
		spec.Generators[0] = generators[0]
	}
	if spec.Generators[1] == "" || spec.Generators[1] == spec.Generators[0] {
		for _, g := range generators {
			if g != spec.Generators[0] {
				spec.Generators[1] = g
				break
			}
		}
	}
	if spec.Format == "" && len(formats) > 0 {
		spec.Format = formats[0]
	}
	return spec
}

// Validate checks a collected spec.
func Validate(spec CompareSpec) error {
	if err := ValidateTarget(spec.Target); err != nil {
		return err
	}
	if spec.Generators[0] == "" || spec.Generators[1] == "" {
		return errors.New("two generators are required")
	}
	if spec.Generators[0] == spec.Generators[1] {
		return fmt.Errorf("cannot compare %s with itself", spec.Generators[0])
	}
	return nil
}

// ValidateTarget rejects an empty or blank target name.
func ValidateTarget(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("target is required")
	}
	return nil
}
