// Package filter rewrites verbose tool output into compact summaries for
// token-constrained consumers (LLM agents). One classifier/renderer pair per
// wrapped tool: cargo build, cargo test, cargo clippy, and ls.
//
// Classifiers parse a complete captured output buffer into ordered records;
// renderers turn those records into a bounded summary. Nothing that signals
// a failure is ever dropped - only progress chatter, passing-test lines, and
// tool banners are suppressed.
package filter

import "strings"

// Severity classifies a compiler or lint diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// CompileIssue is one error/warning block from cargo build output.
// Header is the marker line, Body the following lines in original order.
type CompileIssue struct {
	Severity Severity
	Header   string
	Body     []string
}

// Lines returns the full block, header first.
func (ci CompileIssue) Lines() []string {
	return append([]string{ci.Header}, ci.Body...)
}

// TestFailure is one entry from the cargo test failures section.
type TestFailure struct {
	Name   string
	Detail []string
}

// RuleGroup collects all occurrences of one lint rule.
// Count tracks marker lines; Locations the "--> file:line:col" lines that
// followed them. They normally match, but a marker with no location still
// counts.
type RuleGroup struct {
	Rule      string
	Severity  Severity
	Count     int
	Locations []string
}

// Entry is one classified line of a long-format directory listing.
type Entry struct {
	IsDir  bool
	IsFile bool
	Name   string
	Ext    string
}

// Limits holds every rendering policy constant so that policy can be tuned
// without touching parsing logic.
type Limits struct {
	// MaxIssueBlocks caps rendered build issue blocks.
	MaxIssueBlocks int `yaml:"max_issue_blocks"`
	// BlockCloseMinLines is the minimum accumulated size before a blank
	// line is allowed to close an issue block. Short diagnostics often
	// contain a transient blank line that must not split them.
	BlockCloseMinLines int `yaml:"block_close_min_lines"`
	// MaxFailures caps enumerated test failures.
	MaxFailures int `yaml:"max_failures"`
	// FailureBodyChars truncates each rendered failure body.
	FailureBodyChars int `yaml:"failure_body_chars"`
	// MaxRules caps rendered lint rule groups.
	MaxRules int `yaml:"max_rules"`
	// MaxRuleLocations caps example locations per lint rule.
	MaxRuleLocations int `yaml:"max_rule_locations"`
	// MaxExtensions caps the extension breakdown in listing summaries.
	MaxExtensions int `yaml:"max_extensions"`
	// FallbackLines is how many trailing raw lines to emit when test
	// output has no recognizable structure at all.
	FallbackLines int `yaml:"fallback_lines"`
}

// DefaultLimits returns the stock rendering policy.
func DefaultLimits() Limits {
	return Limits{
		MaxIssueBlocks:     15,
		BlockCloseMinLines: 3,
		MaxFailures:        10,
		FailureBodyChars:   200,
		MaxRules:           15,
		MaxRuleLocations:   3,
		MaxExtensions:      5,
		FallbackLines:      5,
	}
}

const separator = "═══════════════════════════════════════"

// truncate cuts s to at most max runes, appending an ellipsis when cut.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// isProgressLine reports whether the line is cargo progress chatter that
// carries no signal for the reader.
func isProgressLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	for _, prefix := range []string{"Compiling", "Checking", "Downloading", "Downloaded", "Finished"} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// isAggregateLine reports whether the line is a tool-produced summary that
// duplicates counts the filters recompute themselves.
func isAggregateLine(line string) bool {
	if strings.HasPrefix(line, "error") &&
		(strings.Contains(line, "aborting due to") || strings.Contains(line, "could not compile")) {
		return true
	}
	if strings.HasPrefix(line, "warning") &&
		strings.Contains(line, "generated") && strings.Contains(line, "warning") {
		return true
	}
	return false
}

// issueMarker inspects a line for a diagnostic marker at line start,
// returning the severity when present. Markers optionally carry a bracketed
// code: "error[E0308]:", "warning: ... [clippy::rule]".
func issueMarker(line string) (Severity, bool) {
	switch {
	case strings.HasPrefix(line, "error:"), strings.HasPrefix(line, "error["):
		return SeverityError, true
	case strings.HasPrefix(line, "warning:"), strings.HasPrefix(line, "warning["):
		return SeverityWarning, true
	}
	return 0, false
}
