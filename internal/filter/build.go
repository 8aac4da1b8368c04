package filter

import (
	"fmt"
	"strings"
)

// BuildReport is the classified form of a cargo build invocation's output.
type BuildReport struct {
	Issues        []CompileIssue
	Errors        int
	Warnings      int
	CompiledUnits int
}

// blockState tracks whether the classifier is currently inside an issue
// block. Boundary handling lives in blockTransition so it can be tested in
// isolation.
type blockState int

const (
	blockIdle blockState = iota
	blockOpen
)

// blockAction is the decision blockTransition makes for one input line.
type blockAction int

const (
	actionDrop     blockAction = iota // line consumed as noise
	actionOpen                        // line starts a new block (flushing any open one)
	actionAppend                      // line joins the open block
	actionFlush                       // blank line closes the open block
)

// blockTransition decides how one line moves the build classifier between
// states. accumulated is the size of the currently open block; minLines is
// the threshold below which a blank line is treated as part of the block
// rather than a boundary.
func blockTransition(state blockState, line string, accumulated, minLines int) blockAction {
	if _, ok := issueMarker(line); ok && !isAggregateLine(line) {
		return actionOpen
	}
	if state == blockIdle {
		return actionDrop
	}
	if strings.TrimSpace(line) == "" && accumulated > minLines {
		return actionFlush
	}
	return actionAppend
}

// ClassifyBuild parses raw cargo build output into a BuildReport. Every
// line is consumed exactly once: counted as a compiled unit, dropped as
// noise, or folded into an issue block.
func ClassifyBuild(raw string, limits Limits) *BuildReport {
	report := &BuildReport{}
	state := blockIdle
	var current []string
	var severity Severity

	flush := func() {
		if len(current) == 0 {
			return
		}
		report.Issues = append(report.Issues, CompileIssue{
			Severity: severity,
			Header:   current[0],
			Body:     append([]string(nil), current[1:]...),
		})
		current = current[:0]
	}

	for _, line := range strings.Split(raw, "\n") {
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "Compiling") {
			report.CompiledUnits++
			continue
		}
		if isProgressLine(line) || isAggregateLine(line) {
			continue
		}

		switch blockTransition(state, line, len(current), limits.BlockCloseMinLines) {
		case actionOpen:
			flush()
			sev, _ := issueMarker(line)
			severity = sev
			if sev == SeverityError {
				report.Errors++
			} else {
				report.Warnings++
			}
			current = append(current, line)
			state = blockOpen
		case actionAppend:
			current = append(current, line)
		case actionFlush:
			flush()
			state = blockIdle
		case actionDrop:
		}
	}
	flush()

	return report
}

// Render turns the report into a bounded summary. A clean build collapses
// to a single success line; otherwise issue blocks are reproduced verbatim
// under a counting header, capped at limits.MaxIssueBlocks.
func (r *BuildReport) Render(limits Limits) string {
	if r.Errors == 0 && r.Warnings == 0 {
		return fmt.Sprintf("✓ cargo build (%d crates compiled)", r.CompiledUnits)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "cargo build: %d errors, %d warnings (%d crates)\n", r.Errors, r.Warnings, r.CompiledUnits)
	b.WriteString(separator + "\n")

	shown := r.Issues
	if len(shown) > limits.MaxIssueBlocks {
		shown = shown[:limits.MaxIssueBlocks]
	}
	for i, issue := range shown {
		b.WriteString(strings.Join(issue.Lines(), "\n"))
		b.WriteByte('\n')
		if i < len(r.Issues)-1 {
			b.WriteByte('\n')
		}
	}
	if len(r.Issues) > limits.MaxIssueBlocks {
		fmt.Fprintf(&b, "\n... +%d more issues\n", len(r.Issues)-limits.MaxIssueBlocks)
	}

	return strings.TrimSpace(b.String())
}

// FilterBuild classifies and renders in one step.
func FilterBuild(raw string, limits Limits) string {
	return ClassifyBuild(raw, limits).Render(limits)
}
