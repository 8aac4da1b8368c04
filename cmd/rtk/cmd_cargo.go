package main

import (
	"github.com/spf13/cobra"

	"github.com/chiralitie/rtk/internal/filter"
)

var cargoCmd = &cobra.Command{
	Use:   "cargo",
	Short: "Wrap cargo invocations with compacted output",
}

// The leaf commands disable flag parsing so every argument, including
// flags like --release or --workspace, passes through to cargo verbatim.

var cargoBuildCmd = &cobra.Command{
	Use:                "build [args...]",
	Short:              "Run cargo build, showing only errors, warnings, and counts",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWrapped(cmd, "cargo", append([]string{"build"}, args...), func(raw string) string {
			return filter.FilterBuild(raw, cfg.Render)
		})
	},
}

var cargoTestCmd = &cobra.Command{
	Use:                "test [args...]",
	Short:              "Run cargo test, showing only failures and the result summary",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Test runs mirror the exact exit code, which runWrapped already
		// does; compaction never changes the outcome.
		return runWrapped(cmd, "cargo", append([]string{"test"}, args...), func(raw string) string {
			return filter.FilterTest(raw, cfg.Render)
		})
	},
}

var cargoClippyCmd = &cobra.Command{
	Use:                "clippy [args...]",
	Short:              "Run cargo clippy, grouping lint findings by rule",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWrapped(cmd, "cargo", append([]string{"clippy"}, args...), func(raw string) string {
			return filter.FilterLint(raw, cfg.Render)
		})
	},
}

func init() {
	cargoCmd.AddCommand(cargoBuildCmd)
	cargoCmd.AddCommand(cargoTestCmd)
	cargoCmd.AddCommand(cargoClippyCmd)
}
