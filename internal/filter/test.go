package filter

import (
	"fmt"
	"strings"
)

// TestReport is the classified form of a cargo test invocation's output.
type TestReport struct {
	Failures []TestFailure
	// Summary holds the "test result: ..." lines, one per test binary.
	Summary []string
}

// failureName pulls the test name out of a "---- name stdout ----" header.
func failureName(lines []string) string {
	for _, line := range lines {
		if strings.HasPrefix(line, "---- ") {
			rest := strings.TrimPrefix(line, "---- ")
			if idx := strings.Index(rest, " ----"); idx >= 0 {
				rest = rest[:idx]
			}
			return strings.TrimSuffix(strings.TrimSpace(rest), " stdout")
		}
	}
	if len(lines) > 0 {
		return strings.TrimSpace(lines[0])
	}
	return ""
}

// ClassifyTest parses raw cargo test output into a TestReport. Passing
// tests and build progress are dropped; the failures section is split into
// per-test records; result summary lines are captured wherever they appear.
func ClassifyTest(raw string) *TestReport {
	report := &TestReport{}
	inFailureSection := false
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		report.Failures = append(report.Failures, TestFailure{
			Name:   failureName(current),
			Detail: append([]string(nil), current...),
		})
		current = current[:0]
	}

	for _, line := range strings.Split(raw, "\n") {
		if isProgressLine(line) {
			continue
		}
		if strings.HasPrefix(line, "running ") ||
			(strings.HasPrefix(line, "test ") && strings.HasSuffix(line, "... ok")) {
			continue
		}
		if line == "failures:" {
			inFailureSection = true
			continue
		}

		if inFailureSection {
			switch {
			case strings.HasPrefix(line, "test result:"):
				inFailureSection = false
				report.Summary = append(report.Summary, line)
			case strings.HasPrefix(line, "    "), strings.HasPrefix(line, "---- "):
				current = append(current, line)
			case strings.TrimSpace(line) == "":
				flush()
			default:
				current = append(current, line)
			}
			continue
		}

		if strings.HasPrefix(line, "test result:") {
			report.Summary = append(report.Summary, line)
		}
	}
	flush()

	return report
}

// Render turns the report into a bounded summary. All-pass runs collapse to
// the checked summary lines. Failures are enumerated with truncated bodies.
// Output that yielded neither failures nor a summary degrades to the last
// few meaningful raw lines so the reader never sees nothing.
func (r *TestReport) Render(raw string, limits Limits) string {
	var b strings.Builder

	if len(r.Failures) == 0 && len(r.Summary) > 0 {
		for _, line := range r.Summary {
			fmt.Fprintf(&b, "✓ %s\n", line)
		}
		return strings.TrimSpace(b.String())
	}

	if len(r.Failures) > 0 {
		fmt.Fprintf(&b, "FAILURES (%d):\n", len(r.Failures))
		b.WriteString(separator + "\n")
		shown := r.Failures
		if len(shown) > limits.MaxFailures {
			shown = shown[:limits.MaxFailures]
		}
		for i, failure := range shown {
			fmt.Fprintf(&b, "%d. %s\n", i+1, truncate(strings.Join(failure.Detail, "\n"), limits.FailureBodyChars))
		}
		if len(r.Failures) > limits.MaxFailures {
			fmt.Fprintf(&b, "\n... +%d more failures\n", len(r.Failures)-limits.MaxFailures)
		}
		b.WriteByte('\n')
	}

	for _, line := range r.Summary {
		fmt.Fprintf(&b, "%s\n", line)
	}

	if strings.TrimSpace(b.String()) == "" {
		return fallbackTail(raw, limits.FallbackLines)
	}
	return strings.TrimSpace(b.String())
}

// fallbackTail returns the last n non-empty, non-progress lines of raw
// output. Used when the test runner's format was not recognized at all.
func fallbackTail(raw string, n int) string {
	var meaningful []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" || isProgressLine(line) {
			continue
		}
		meaningful = append(meaningful, line)
	}
	if len(meaningful) > n {
		meaningful = meaningful[len(meaningful)-n:]
	}
	return strings.TrimSpace(strings.Join(meaningful, "\n"))
}

// FilterTest classifies and renders in one step.
func FilterTest(raw string, limits Limits) string {
	return ClassifyTest(raw).Render(raw, limits)
}
