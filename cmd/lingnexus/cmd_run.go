package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lingnexus/lingnexus/internal/evaluation"
	"github.com/lingnexus/lingnexus/internal/reporting"
	"github.com/lingnexus/lingnexus/internal/wizard"
	"github.com/spf13/cobra"
)

type runFlags struct {
	commonFlags
	generator    string
	requirements string
	timeout      time.Duration
	reviewer     string
}

func newRunCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run [target]",
		Short: "Ask one generator for candidates and screen them",
		Long: `Ask one generator to design candidate inhibitors for a target, extract
the candidate SMILES from its answer and screen each one against the
drug-likeness rules.

The target defaults to defaults.target in .lingnexus.yaml and the generator
to the first configured one.

With --review (or defaults.reviewer) a second generator reviews the
admitted candidates as an ADMET expert. A failed review is reported but
does not change the exit code.

Exit codes: 0 when at least one candidate was admitted, 1 when the generator
failed or nothing was admitted, 2 on configuration errors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runE(cmd, args, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.generator, "generator", "g", "", "Generator to run (default: first configured)")
	cmd.Flags().StringVarP(&flags.requirements, "requirements", "r", "", "Extra design requirements appended to the request")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Generation timeout (default from config)")
	cmd.Flags().StringVar(&flags.reviewer, "review", "", "Generator that reviews the admitted candidates (default from config)")

	return cmd
}

func runE(cmd *cobra.Command, args []string, flags *runFlags) error {
	env, err := loadEnvironment(flags.configPath)
	if err != nil {
		return err
	}

	format, err := resolveFormat(cmd, &flags.commonFlags)
	if err != nil {
		return err
	}

	target := env.cfg.Defaults.Target
	if len(args) > 0 {
		target = args[0]
	}
	target = strings.TrimSpace(target)
	if err := wizard.ValidateTarget(target); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	requirements := flags.requirements
	if requirements == "" {
		requirements = env.cfg.Defaults.Requirements
	}

	name := flags.generator
	if name == "" {
		names := env.generatorNames()
		if len(names) == 0 {
			return fmt.Errorf("run: no generators configured")
		}
		name = names[0]
	}

	timeout := flags.timeout
	if timeout == 0 {
		timeout = env.timeout()
	}

	reviewer := flags.reviewer
	if reviewer == "" {
		reviewer = env.cfg.Defaults.Reviewer
	}
	names := []string{name}
	if reviewer != "" && reviewer != name {
		names = append(names, reviewer)
	}

	provider, err := env.descriptorProvider(flags.noCache)
	if err != nil {
		return err
	}
	rt, err := env.runtime(names...)
	if err != nil {
		return err
	}
	defer shutdown(rt)

	ev := evaluation.New(rt, provider, evaluation.WithWorkers(env.workers(flags.workers)))
	stop := attachProgress(cmd, ev, env.verbose(flags.verbose))

	rec, err := ev.Run(cmd.Context(), evaluation.Request{
		Generator:    name,
		Target:       target,
		Requirements: requirements,
		Timeout:      timeout,
		Reviewer:     reviewer,
	})
	stop()
	if err != nil {
		return err
	}

	if err := writeOutput(cmd, flags.outputPath, func(w io.Writer) error {
		return reporting.WriteRun(w, format, rec)
	}); err != nil {
		return err
	}

	return screeningError(rec)
}
