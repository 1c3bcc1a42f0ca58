package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lingnexus/lingnexus/internal/cache"
	"github.com/lingnexus/lingnexus/internal/descriptors"
	"github.com/lingnexus/lingnexus/internal/evaluation"
	"github.com/lingnexus/lingnexus/internal/generation"
	"github.com/lingnexus/lingnexus/internal/models"
	"github.com/lingnexus/lingnexus/internal/projectconfig"
	"github.com/lingnexus/lingnexus/internal/reporting"
	"github.com/lingnexus/lingnexus/internal/spinner"
	"github.com/lingnexus/lingnexus/internal/utils"
	"github.com/lingnexus/lingnexus/internal/validation"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// commonFlags are shared by the commands that screen candidates.
type commonFlags struct {
	configPath string
	outputPath string
	format     string
	workers    int
	noCache    bool
	verbose    bool
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Path to .lingnexus.yaml (default: search upwards from the working directory)")
	cmd.Flags().StringVarP(&f.outputPath, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringVarP(&f.format, "format", "f", string(reporting.FormatTable), "Output format: table, markdown, html, json, junit")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Concurrent descriptor computations (default from config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "Disable the descriptor cache")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Print progress for every candidate")
}

// environment is the loaded configuration and the directory its relative
// paths resolve against.
type environment struct {
	cfg     *projectconfig.ProjectConfig
	baseDir string
}

// loadEnvironment loads and validates the project config. An explicit path
// must exist; otherwise the config is searched from the working directory
// and defaults are used when none is found.
func loadEnvironment(configPath string) (*environment, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	path := configPath
	if path == "" {
		found, err := projectconfig.Find(wd)
		switch {
		case errors.Is(err, os.ErrNotExist):
			slog.Debug("no config file found, using defaults", "dir", wd)
			return &environment{cfg: projectconfig.New(), baseDir: wd}, nil
		case err != nil:
			return nil, err
		}
		path = found
	}

	errs, err := validation.ValidateConfigFile(path)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid config %s:\n  %s", path, strings.Join(errs, "\n  "))
	}

	cfg, err := projectconfig.LoadFile(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded config", "path", path)

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	return &environment{cfg: cfg, baseDir: filepath.Dir(absPath)}, nil
}

func (e *environment) cacheDir() string {
	return utils.ResolvePath(e.cfg.Cache.Dir, e.baseDir)
}

// descriptorProvider builds the configured descriptor engine.
func (e *environment) descriptorProvider(noCache bool) (descriptors.Provider, error) {
	dc := e.cfg.Descriptors
	dc.Table = utils.ResolvePath(dc.Table, e.baseDir)

	var disk *cache.Cache
	if utils.Deref(e.cfg.Cache.Enabled, false) && !noCache {
		disk = cache.New(e.cacheDir())
	}
	return descriptors.New(dc, disk)
}

// runtime builds a generator runtime holding the named generators.
func (e *environment) runtime(names ...string) (*generation.Runtime, error) {
	gens := make([]generation.Generator, 0, len(names))
	for _, n := range names {
		gc, err := e.cfg.Generator(n)
		if err != nil {
			return nil, err
		}
		g, err := generation.New(gc)
		if err != nil {
			return nil, err
		}
		gens = append(gens, g)
	}
	return generation.NewRuntime(gens...)
}

func (e *environment) workers(flag int) int {
	if flag > 0 {
		return flag
	}
	return max(e.cfg.Defaults.Workers, 1)
}

func (e *environment) verbose(flag bool) bool {
	return flag || utils.Deref(e.cfg.Defaults.Verbose, false)
}

func (e *environment) timeout() time.Duration {
	return time.Duration(e.cfg.Defaults.Timeout) * time.Second
}

func (e *environment) generatorNames() []string {
	names := make([]string, len(e.cfg.Generators))
	for i, g := range e.cfg.Generators {
		names[i] = g.Name
	}
	return names
}

// resolveFormat parses the --format flag. When the flag was not set and an
// output file is given, the format follows the file extension.
func resolveFormat(cmd *cobra.Command, flags *commonFlags) (reporting.Format, error) {
	if !cmd.Flags().Changed("format") && flags.outputPath != "" {
		switch strings.ToLower(filepath.Ext(flags.outputPath)) {
		case ".md":
			return reporting.FormatMarkdown, nil
		case ".html", ".htm":
			return reporting.FormatHTML, nil
		case ".json":
			return reporting.FormatJSON, nil
		case ".xml":
			return reporting.FormatJUnit, nil
		}
	}
	return reporting.ParseFormat(flags.format)
}

// writeOutput writes a report to --output or to the command's stdout.
func writeOutput(cmd *cobra.Command, outputPath string, write func(io.Writer) error) error {
	if outputPath == "" {
		return write(cmd.OutOrStdout())
	}

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to: %s\n", outputPath) //nolint:errcheck
	return nil
}

// attachProgress reports evaluator progress on stderr: one line per event
// when verbose, otherwise a spinner when stderr is a terminal. The returned
// function stops the spinner.
func attachProgress(cmd *cobra.Command, ev *evaluation.Evaluator, verbose bool) func() {
	w := cmd.ErrOrStderr()

	if verbose {
		var mu sync.Mutex
		ev.OnProgress(func(e evaluation.ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			switch e.EventType {
			case evaluation.EventRunStart:
				fmt.Fprintf(w, "[%s] generating...\n", e.Generator) //nolint:errcheck
			case evaluation.EventGenerationComplete:
				fmt.Fprintf(w, "[%s] answered in %.2fs\n", e.Generator, e.Duration.Seconds()) //nolint:errcheck
			case evaluation.EventCandidateScreened:
				status := "rejected"
				switch {
				case e.Skipped:
					status = "skipped"
				case e.Admitted:
					status = "admitted"
				}
				fmt.Fprintf(w, "[%s] %d/%d %s %s\n", e.Generator, e.Index+1, e.Total, e.Candidate, status) //nolint:errcheck
			case evaluation.EventReviewComplete:
				fmt.Fprintf(w, "[%s] reviewed in %.2fs\n", e.Generator, e.Duration.Seconds()) //nolint:errcheck
			case evaluation.EventRunComplete:
				if e.Failure != nil {
					fmt.Fprintf(w, "[%s] failed (%s): %s\n", e.Generator, e.Failure.Kind, e.Failure.Message) //nolint:errcheck
				} else {
					fmt.Fprintf(w, "[%s] done\n", e.Generator) //nolint:errcheck
				}
			}
		})
		return func() {}
	}

	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return func() {}
	}

	s := spinner.Start(w, "Designing candidates...")
	ev.OnProgress(func(e evaluation.ProgressEvent) {
		switch e.EventType {
		case evaluation.EventRunStart:
			s.Update(fmt.Sprintf("%s is designing candidates...", e.Generator))
		case evaluation.EventCandidateScreened:
			s.Update(fmt.Sprintf("%s: screened %d/%d", e.Generator, e.Index+1, e.Total))
		}
	})
	return s.Stop
}

// shutdown stops every generator, logging failures.
func shutdown(rt *generation.Runtime) {
	if err := rt.Shutdown(context.Background()); err != nil {
		slog.Warn("generator shutdown failed", "error", err)
	}
}

// screeningError turns failed or empty runs into a ScreeningFailureError.
func screeningError(recs ...*models.RunRecord) error {
	var msgs []string
	for _, rec := range recs {
		switch {
		case rec == nil:
			continue
		case rec.Failed():
			msgs = append(msgs, fmt.Sprintf("%s failed (%s): %s", rec.GeneratorID, rec.Failure.Kind, rec.Failure.Message))
		case rec.AdmittedCount() == 0:
			msgs = append(msgs, fmt.Sprintf("%s: no candidate admitted out of %d", rec.GeneratorID, rec.CandidateCount()))
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return &ScreeningFailureError{Message: strings.Join(msgs, "; ")}
}
