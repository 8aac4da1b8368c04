package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chiralitie/rtk/internal/filter"
	"github.com/chiralitie/rtk/internal/proc"
	"github.com/chiralitie/rtk/internal/track"
)

var lsCmd = &cobra.Command{
	Use:   "ls [args...]",
	Short: "Proxy ls, hiding noise directories and summarizing file types",
	Long: `Proxies the native ls command instead of reimplementing directory
traversal, so every ls flag keeps working. Without arguments it defaults to
"ls -la". Noise entries (node_modules, .git, target, caches, editor litter)
are filtered out unless -a/--all is given, which is taken as explicit
intent to see everything.`,
	DisableFlagParsing: true,
	RunE:               runLs,
}

func runLs(cmd *cobra.Command, args []string) error {
	showAll := false
	for _, arg := range args {
		if arg == "-a" || arg == "--all" {
			showAll = true
			break
		}
	}

	lsArgs := args
	if len(lsArgs) == 0 {
		lsArgs = []string{"-la"}
	}

	if verbose > 0 {
		fmt.Fprintf(os.Stderr, "Running: ls %s\n", strings.Join(lsArgs, " "))
	}

	var runner proc.Runner
	result, err := runner.Run(cmd.Context(), "ls", lsArgs)
	if err != nil {
		return err
	}
	if !result.Success() {
		// Listing failed; relay the tool's own error untouched.
		fmt.Fprint(os.Stderr, result.Stderr)
		return &exitError{code: result.ExitCode}
	}

	raw := result.Stdout
	filtered := filter.FilterListing(raw, showAll, cfg.NoiseNames, cfg.Render)
	fmt.Print(filtered)

	reportReduction(raw, filtered)
	sink.Track(track.Record{
		Command:  "ls " + strings.Join(lsArgs, " "),
		Display:  "rtk ls",
		Raw:      raw,
		Filtered: filtered,
		Duration: result.Duration,
	})
	return nil
}
