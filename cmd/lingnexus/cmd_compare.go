package main

import (
	"fmt"
	"io"
	"time"

	"github.com/lingnexus/lingnexus/internal/benchmark"
	"github.com/lingnexus/lingnexus/internal/evaluation"
	"github.com/lingnexus/lingnexus/internal/reporting"
	"github.com/lingnexus/lingnexus/internal/utils"
	"github.com/lingnexus/lingnexus/internal/wizard"
	"github.com/spf13/cobra"
)

type compareFlags struct {
	commonFlags
	generators   []string
	requirements string
	timeout      time.Duration
	parallel     bool
	interactive  bool
}

func newCompareCommand() *cobra.Command {
	flags := &compareFlags{}

	cmd := &cobra.Command{
		Use:   "compare [target]",
		Short: "Benchmark two generators on the same request",
		Long: `Run two generators once each with the same design request, screen both
answers and compare them metric by metric.

The report lists the per-metric winners, the output format of each answer,
a weighted composite score, the recommended generator and usage
suggestions.

Examples:
  lingnexus compare EGFR --generator qwen --generator deepseek
  lingnexus compare KRAS --parallel --format markdown -o kras.md
  lingnexus compare --interactive`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return compareE(cmd, args, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringArrayVarP(&flags.generators, "generator", "g", nil, "Generator to compare (give exactly two; default: first two configured)")
	cmd.Flags().StringVarP(&flags.requirements, "requirements", "r", "", "Extra design requirements appended to the request")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Generation timeout per generator (default from config)")
	cmd.Flags().BoolVar(&flags.parallel, "parallel", false, "Run both generators concurrently")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "Choose target and generators in an interactive form")

	return cmd
}

func compareE(cmd *cobra.Command, args []string, flags *compareFlags) error {
	env, err := loadEnvironment(flags.configPath)
	if err != nil {
		return err
	}

	spec := wizard.CompareSpec{
		Target:       env.cfg.Defaults.Target,
		Requirements: flags.requirements,
	}
	if len(args) > 0 {
		spec.Target = args[0]
	}
	if spec.Requirements == "" {
		spec.Requirements = env.cfg.Defaults.Requirements
	}

	switch names := env.generatorNames(); {
	case len(flags.generators) == 2:
		spec.Generators = [2]string{flags.generators[0], flags.generators[1]}
	case len(flags.generators) != 0:
		return fmt.Errorf("compare: need exactly two --generator flags, got %d", len(flags.generators))
	case len(names) < 2:
		return wizard.ErrTooFewGenerators
	default:
		spec.Generators = [2]string{names[0], names[1]}
	}

	format, err := resolveFormat(cmd, &flags.commonFlags)
	if err != nil {
		return err
	}
	spec.Format = string(format)

	if flags.interactive {
		got, err := wizard.RunCompareWizard(cmd.InOrStdin(), cmd.ErrOrStderr(), env.generatorNames(), formatNames(), spec)
		if err != nil {
			return err
		}
		spec = *got
		if format, err = reporting.ParseFormat(spec.Format); err != nil {
			return err
		}
	} else if err := wizard.Validate(spec); err != nil {
		return err
	}

	timeout := flags.timeout
	if timeout == 0 {
		timeout = env.timeout()
	}
	parallel := flags.parallel || utils.Deref(env.cfg.Defaults.Parallel, false)

	provider, err := env.descriptorProvider(flags.noCache)
	if err != nil {
		return err
	}
	rt, err := env.runtime(spec.Generators[0], spec.Generators[1])
	if err != nil {
		return err
	}
	defer shutdown(rt)

	ev := evaluation.New(rt, provider,
		evaluation.WithWorkers(env.workers(flags.workers)),
		evaluation.WithParallel(parallel),
	)
	stop := attachProgress(cmd, ev, env.verbose(flags.verbose))

	reqs := make([]evaluation.Request, len(spec.Generators))
	for i, g := range spec.Generators {
		reqs[i] = evaluation.Request{
			Generator:    g,
			Target:       spec.Target,
			Requirements: spec.Requirements,
			Timeout:      timeout,
		}
	}
	recs, err := ev.RunAll(cmd.Context(), reqs)
	stop()
	if err != nil {
		return err
	}

	report := benchmark.Compare(recs[0], recs[1], benchmark.PolicyFromConfig(env.cfg.Policy))

	if err := writeOutput(cmd, flags.outputPath, func(w io.Writer) error {
		return reporting.WriteComparison(w, format, report, recs...)
	}); err != nil {
		return err
	}

	for _, rec := range recs {
		if rec.Failed() {
			return screeningError(recs...)
		}
	}
	return nil
}

func formatNames() []string {
	names := make([]string, len(reporting.Formats))
	for i, f := range reporting.Formats {
		names[i] = string(f)
	}
	return names
}
