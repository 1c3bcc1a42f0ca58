package main

import (
	"fmt"
	"path/filepath"

	"github.com/lingnexus/lingnexus/internal/cache"
	"github.com/spf13/cobra"
)

func newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the descriptor cache",
		Long: `Manage the descriptor cache.

The cache stores computed descriptors so that repeated screening of the same
candidates does not run the descriptor engine again. Entries are keyed by the
descriptor engine and the candidate identifier. Engine faults are never
cached.`,
	}

	cmd.AddCommand(newCacheClearCommand())
	cmd.AddCommand(newCacheInfoCommand())

	return cmd
}

// cacheDirFlag resolves the cache directory from --cache-dir or the config.
type cacheDirFlag struct {
	dir        string
	configPath string
}

func (f *cacheDirFlag) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dir, "cache-dir", "", "Cache directory (default: cache.dir from config)")
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Path to .lingnexus.yaml")
}

func (f *cacheDirFlag) resolve() (string, error) {
	dir := f.dir
	if dir == "" {
		env, err := loadEnvironment(f.configPath)
		if err != nil {
			return "", err
		}
		dir = env.cacheDir()
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving cache directory: %w", err)
	}
	return absDir, nil
}

func newCacheClearCommand() *cobra.Command {
	flags := &cacheDirFlag{}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the descriptor cache",
		Long: `Clear all cached descriptor results.

The next screening recomputes every candidate. A directory holding files
that are not cache entries is left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := flags.resolve()
			if err != nil {
				return err
			}

			if err := cache.New(dir).Clear(); err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared: %s\n", dir) //nolint:errcheck
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

func newCacheInfoCommand() *cobra.Command {
	flags := &cacheDirFlag{}

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the cache directory and entry count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := flags.resolve()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cache directory: %s\nEntries:         %d\n", dir, cache.New(dir).Len()) //nolint:errcheck
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}
