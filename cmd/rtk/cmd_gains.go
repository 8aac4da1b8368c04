package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var gainsCmd = &cobra.Command{
	Use:   "gains",
	Short: "Show accumulated token savings from wrapped invocations",
	RunE:  runGains,
}

func runGains(cmd *cobra.Command, args []string) error {
	if store == nil {
		return fmt.Errorf("tracking is disabled; no gains to report")
	}

	gains, err := store.Gains()
	if err != nil {
		return err
	}
	if gains.Invocations == 0 {
		fmt.Println("No tracked invocations yet. Run some commands through rtk first.")
		return nil
	}

	fmt.Printf("rtk gains: %d invocations\n", gains.Invocations)
	fmt.Printf("  lines: %d → %d (%d%% reduction)\n", gains.RawLines, gains.FilteredLines, gains.LineReduction())
	fmt.Printf("  bytes: %d → %d\n", gains.RawBytes, gains.FilteredBytes)
	for _, cg := range gains.PerCommand {
		fmt.Printf("  %-24s %4dx  %d → %d lines\n", cg.Display, cg.Invocations, cg.RawLines, cg.FilteredLines)
	}
	return nil
}
