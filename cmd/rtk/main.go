// Package main implements the rtk CLI: a token-reducing wrapper around
// common developer tools. It runs the real tool, captures its output, and
// prints a compact summary that keeps every error, warning, and failure
// while dropping progress noise.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chiralitie/rtk/internal/config"
	"github.com/chiralitie/rtk/internal/track"
)

var (
	// Global flags
	verbose    int
	configPath string

	// Shared per-invocation state, set up in PersistentPreRunE.
	logger *zap.Logger
	cfg    *config.Config
	sink   track.Sink = track.NopSink{}
	store  *track.Store
)

var rootCmd = &cobra.Command{
	Use:   "rtk",
	Short: "rtk - token-reducing toolkit for LLM agents",
	Long: `rtk wraps verbose developer tools (cargo, ls) and rewrites their output
into compact summaries for token-constrained readers.

Errors, warnings, and test failures always surface; progress chatter,
passing-test lines, and build banners are dropped. The wrapped tool's exit
code is always propagated.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose > 0 {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}

		if cfg.Tracking.Enabled {
			store, err = track.Open(cfg.Tracking.DatabasePath, logger)
			if err != nil {
				// Tracking is best-effort; the summary pipeline runs without it.
				logger.Warn("tracking disabled", zap.Error(err))
			} else {
				sink = store
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			_ = store.Close()
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	rootCmd.AddCommand(cargoCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(gainsCmd)
	rootCmd.AddCommand(initCmd)

	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "echo wrapped commands and report line reduction on stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.rtk/config.yaml)")

	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			cleanup()
			os.Exit(exitErr.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cleanup()
		os.Exit(1)
	}
}

// cleanup mirrors PersistentPostRun for the exit paths that bypass it.
func cleanup() {
	if store != nil {
		_ = store.Close()
	}
	if logger != nil {
		_ = logger.Sync()
	}
}
