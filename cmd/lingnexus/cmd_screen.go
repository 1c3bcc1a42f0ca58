package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lingnexus/lingnexus/internal/evaluation"
	"github.com/lingnexus/lingnexus/internal/reporting"
	"github.com/spf13/cobra"
)

type screenFlags struct {
	commonFlags
	label  string
	target string
}

func newScreenCommand() *cobra.Command {
	flags := &screenFlags{}

	cmd := &cobra.Command{
		Use:   "screen [file]",
		Short: "Screen candidates from saved generator output",
		Long: `Extract candidate SMILES from existing generator output and screen them
against the drug-likeness rules. No generator is called.

Reads the file given as argument, or stdin when no file (or "-") is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return screenE(cmd, args, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&flags.label, "label", "input", "Name recorded as the generator of the screened text")
	cmd.Flags().StringVarP(&flags.target, "target", "t", "", "Target the text was generated for (default from config)")

	return cmd
}

func screenE(cmd *cobra.Command, args []string, flags *screenFlags) error {
	env, err := loadEnvironment(flags.configPath)
	if err != nil {
		return err
	}

	format, err := resolveFormat(cmd, &flags.commonFlags)
	if err != nil {
		return err
	}

	var raw []byte
	if len(args) == 0 || args[0] == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("reading generator output: %w", err)
	}

	target := flags.target
	if target == "" {
		target = env.cfg.Defaults.Target
	}

	provider, err := env.descriptorProvider(flags.noCache)
	if err != nil {
		return err
	}

	ev := evaluation.New(nil, provider, evaluation.WithWorkers(env.workers(flags.workers)))
	stop := attachProgress(cmd, ev, env.verbose(flags.verbose))
	rec, err := ev.ScreenText(cmd.Context(), flags.label, target, string(raw))
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
