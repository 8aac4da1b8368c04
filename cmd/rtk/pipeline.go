package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chiralitie/rtk/internal/proc"
	"github.com/chiralitie/rtk/internal/track"
)

// exitError propagates the wrapped tool's exit code through cobra up to
// main, which converts it into the process exit status.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// runWrapped is the shared pipeline for cargo-style commands: spawn the
// tool, capture everything, classify and render the merged output, print
// the summary, report to the tracking sink, and propagate the exit status.
func runWrapped(cmd *cobra.Command, binary string, args []string, filterFn func(string) string) error {
	display := "rtk " + strings.TrimSpace(strings.Join(append([]string{binary}, args...), " "))
	command := strings.TrimSpace(strings.Join(append([]string{binary}, args...), " "))

	if verbose > 0 {
		fmt.Fprintf(os.Stderr, "Running: %s\n", command)
	}

	var runner proc.Runner
	result, err := runner.Run(cmd.Context(), binary, args)
	if err != nil {
		return err
	}

	raw := result.Combined()
	filtered := filterFn(raw)
	fmt.Println(filtered)

	reportReduction(raw, filtered)
	sink.Track(track.Record{
		Command:  command,
		Display:  display,
		Raw:      raw,
		Filtered: filtered,
		Duration: result.Duration,
	})
	logger.Debug("wrapped invocation complete",
		zap.String("command", command),
		zap.Int("exit_code", result.ExitCode),
		zap.Duration("duration", result.Duration))

	if !result.Success() {
		return &exitError{code: result.ExitCode}
	}
	return nil
}

// reportReduction emits the verbose line-count report on stderr, never
// mixed into the summary on stdout.
func reportReduction(raw, filtered string) {
	if verbose == 0 {
		return
	}
	rawLines := countNonEmpty(raw)
	filteredLines := countNonEmpty(filtered)
	reduction := 0
	if rawLines > 0 {
		reduction = 100 - filteredLines*100/rawLines
	}
	fmt.Fprintf(os.Stderr, "Lines: %d → %d (%d%% reduction)\n", rawLines, filteredLines, reduction)
}

func countNonEmpty(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
