package filter

import (
	"fmt"
	"sort"
	"strings"
)

// LintReport is the classified form of a cargo clippy invocation's output.
// Groups preserve first-seen order until Render sorts a copy by count.
type LintReport struct {
	Groups   []RuleGroup
	Errors   int
	Warnings int
}

// ruleName extracts the grouping key from a marker line: the bracketed
// lint code when present ("[unused_variables]", "[clippy::rule]"),
// otherwise the message text with its severity prefix stripped.
func ruleName(line string, sev Severity) string {
	if start := strings.LastIndex(line, "["); start >= 0 {
		if end := strings.LastIndex(line, "]"); end > start {
			return line[start+1 : end]
		}
		return line
	}
	prefix := "warning: "
	if sev == SeverityError {
		prefix = "error: "
	}
	return strings.TrimPrefix(line, prefix)
}

// ClassifyLint parses raw cargo clippy output into a LintReport, grouping
// diagnostics by rule. Grouping uses an index over a slice rather than a
// bare map so enumeration order stays deterministic.
func ClassifyLint(raw string) *LintReport {
	report := &LintReport{}
	index := make(map[string]int)
	currentRule := ""

	for _, line := range strings.Split(raw, "\n") {
		if isProgressLine(line) || isAggregateLine(line) {
			continue
		}

		if sev, ok := issueMarker(line); ok {
			if sev == SeverityError {
				report.Errors++
			} else {
				report.Warnings++
			}
			currentRule = ruleName(line, sev)
			if i, ok := index[currentRule]; ok {
				report.Groups[i].Count++
			} else {
				index[currentRule] = len(report.Groups)
				report.Groups = append(report.Groups, RuleGroup{Rule: currentRule, Severity: sev, Count: 1})
			}
			continue
		}

		if loc, ok := strings.CutPrefix(strings.TrimLeft(line, " \t"), "--> "); ok && currentRule != "" {
			i := index[currentRule]
			report.Groups[i].Locations = append(report.Groups[i].Locations, loc)
		}
	}

	return report
}

// Render turns the report into a bounded summary: rules sorted by
// descending occurrence count (stable, so tied rules keep first-seen
// order), each with a few example locations.
func (r *LintReport) Render(limits Limits) string {
	if r.Errors == 0 && r.Warnings == 0 {
		return "✓ cargo clippy: No issues found"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "cargo clippy: %d errors, %d warnings\n", r.Errors, r.Warnings)
	b.WriteString(separator + "\n")

	sorted := append([]RuleGroup(nil), r.Groups...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })

	shown := sorted
	if len(shown) > limits.MaxRules {
		shown = shown[:limits.MaxRules]
	}
	for _, group := range shown {
		fmt.Fprintf(&b, "  %s (%dx)\n", group.Rule, group.Count)
		locations := group.Locations
		if len(locations) > limits.MaxRuleLocations {
			locations = locations[:limits.MaxRuleLocations]
		}
		for _, loc := range locations {
			fmt.Fprintf(&b, "    %s\n", loc)
		}
		if len(group.Locations) > limits.MaxRuleLocations {
			fmt.Fprintf(&b, "    ... +%d more\n", len(group.Locations)-limits.MaxRuleLocations)
		}
	}
	if len(sorted) > limits.MaxRules {
		fmt.Fprintf(&b, "\n... +%d more rules\n", len(sorted)-limits.MaxRules)
	}

	return strings.TrimSpace(b.String())
}

// FilterLint classifies and renders in one step.
func FilterLint(raw string, limits Limits) string {
	return ClassifyLint(raw).Render(limits)
}
