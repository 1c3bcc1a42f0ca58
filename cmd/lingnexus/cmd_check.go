package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lingnexus/lingnexus/internal/cache"
	"github.com/lingnexus/lingnexus/internal/descriptors"
	"github.com/lingnexus/lingnexus/internal/generation"
	"github.com/lingnexus/lingnexus/internal/models"
	"github.com/lingnexus/lingnexus/internal/projectconfig"
	"github.com/lingnexus/lingnexus/internal/reporting"
	"github.com/lingnexus/lingnexus/internal/utils"
	"github.com/lingnexus/lingnexus/internal/validation"
	"github.com/spf13/cobra"
)

// sampleMolecule is aspirin; any working descriptor engine accepts it.
const sampleMolecule models.CandidateIdentifier = "CC(=O)Oc1ccccc1C(=O)O"

const sampleTimeout = 60 * time.Second

type checkStatus string

const (
	checkOK   checkStatus = "ok"
	checkWarn checkStatus = "warn"
	checkFail checkStatus = "FAIL"
)

type checkResult struct {
	name   string
	status checkStatus
	detail string
}

func newCheckCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that generators and the descriptor engine are usable",
		Long: `Check the local environment before a run:

  1. Configuration - .lingnexus.yaml found and valid against the schema
  2. Generators    - options decode and credentials are available
  3. Descriptors   - the descriptor engine computes a sample molecule
  4. Cache         - the cache directory state

Nothing is sent to a generator.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkE(cmd, configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to .lingnexus.yaml (default: search upwards from the working directory)")
	return cmd
}

func checkE(cmd *cobra.Command, configPath string) error {
	var results []checkResult

	env, err := loadEnvironment(configPath)
	if err != nil {
		results = append(results, checkResult{"config", checkFail, err.Error()})
		if werr := renderChecks(cmd, results); werr != nil {
			return werr
		}
		return fmt.Errorf("check failed: configuration could not be loaded")
	}

	if env.cfg.Path == "" {
		results = append(results, checkResult{"config", checkWarn, projectconfig.FileName + " not found, using defaults"})
	} else {
		results = append(results, checkResult{"config", checkOK, env.cfg.Path})
	}

	results = append(results, checkGenerators(env.cfg.Generators)...)
	results = append(results, checkDescriptors(cmd.Context(), env)...)
	results = append(results, checkCache(env))

	if err := renderChecks(cmd, results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.status == checkFail {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("check failed: %d of %d checks failed", failed, len(results))
	}
	return nil
}

func checkGenerators(cfgs []projectconfig.GeneratorConfig) []checkResult {
	if len(cfgs) == 0 {
		return []checkResult{{"generators", checkFail, projectconfig.ErrNoGenerators.Error()}}
	}

	results := make([]checkResult, 0, len(cfgs))
	for _, gc := range cfgs {
		name := "generator " + gc.Name
		detail, err := generation.Preflight(gc)
		if err != nil {
			results = append(results, checkResult{name, checkFail, err.Error()})
			continue
		}
		results = append(results, checkResult{name, checkOK, gc.Engine + ", " + detail})
	}
	return results
}

func checkDescriptors(ctx context.Context, env *environment) []checkResult {
	var results []checkResult

	dc := env.cfg.Descriptors
	if dc.Engine == descriptors.EngineTable {
		path := utils.ResolvePath(dc.Table, env.baseDir)
		errs, err := validation.ValidateTableFile(path)
		switch {
		case err != nil:
			results = append(results, checkResult{"descriptor table", checkFail, err.Error()})
		case len(errs) > 0:
			results = append(results, checkResult{"descriptor table", checkFail, fmt.Sprintf("%s: %s", path, errs[0])})
		default:
			results = append(results, checkResult{"descriptor table", checkOK, path})
		}
	}

	provider, err := env.descriptorProvider(true)
	if err != nil {
		return append(results, checkResult{"descriptors", checkFail, err.Error()})
	}

	ctx, cancel := context.WithTimeout(ctx, sampleTimeout)
	defer cancel()

	res, err := provider.Compute(ctx, sampleMolecule)
	switch {
	case err != nil:
		results = append(results, checkResult{"descriptors", checkFail, err.Error()})
	case !res.Valid:
		results = append(results, checkResult{"descriptors", checkWarn, fmt.Sprintf("sample %s not computed: %s", sampleMolecule, res.Reason)})
	default:
		results = append(results, checkResult{"descriptors", checkOK, fmt.Sprintf("%s (sample MW %.2f, QED %.2f)", provider.ID(), res.Record.MolecularWeight, res.Record.QED)})
	}
	return results
}

func checkCache(env *environment) checkResult {
	dir := env.cacheDir()
	if !utils.Deref(env.cfg.Cache.Enabled, false) {
		return checkResult{"cache", checkOK, "disabled"}
	}

	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return checkResult{"cache", checkOK, dir + " (empty)"}
		}
		return checkResult{"cache", checkFail, err.Error()}
	}
	return checkResult{"cache", checkOK, fmt.Sprintf("%s (%d entries)", dir, cache.New(dir).Len())}
}

func renderChecks(cmd *cobra.Command, results []checkResult) error {
	t := reporting.NewTable("CHECK", "STATUS", "DETAIL")
	for _, r := range results {
		t.Append(r.name, string(r.status), r.detail)
	}
	return t.Render(cmd.OutOrStdout())
}
