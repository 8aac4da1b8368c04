package filter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFilterBuildSuccess(t *testing.T) {
	t.Parallel()

	output := `   Compiling libc v0.2.153
   Compiling cfg-if v1.0.0
   Compiling rtk v0.5.0
    Finished dev [unoptimized + debuginfo] target(s) in 15.23s
`
	result := FilterBuild(output, DefaultLimits())
	if result != "✓ cargo build (3 crates compiled)" {
		t.Errorf("unexpected success summary: %q", result)
	}
}

func TestFilterBuildErrors(t *testing.T) {
	t.Parallel()

	output := `   Compiling rtk v0.5.0
error[E0308]: mismatched types
 --> src/main.rs:10:5
  |
10|     "hello"
  |     ^^^^^^^ expected ` + "`i32`, found `&str`" + `

error: aborting due to 1 previous error
`
	result := FilterBuild(output, DefaultLimits())
	if !strings.Contains(result, "1 errors") {
		t.Errorf("missing error count: %q", result)
	}
	if !strings.Contains(result, "E0308") {
		t.Errorf("missing error code: %q", result)
	}
	if !strings.Contains(result, "mismatched types") {
		t.Errorf("missing error message: %q", result)
	}
	if strings.Contains(result, "aborting due to") {
		t.Errorf("aggregate line should be dropped: %q", result)
	}
}

func TestClassifyBuildRecords(t *testing.T) {
	t.Parallel()

	output := `   Compiling rtk v0.5.0
warning: unused import
 --> src/lib.rs:1:5

error: something broke
 --> src/main.rs:2:1
`
	// Both blocks stay open at the blank line (too short to close) and at
	// EOF respectively; both flush.
	got := ClassifyBuild(output, DefaultLimits())
	want := &BuildReport{
		Issues: []CompileIssue{
			{
				Severity: SeverityWarning,
				Header:   "warning: unused import",
				Body:     []string{" --> src/lib.rs:1:5", ""},
			},
			{
				Severity: SeverityError,
				Header:   "error: something broke",
				Body:     []string{" --> src/main.rs:2:1", ""},
			},
		},
		Errors:        1,
		Warnings:      1,
		CompiledUnits: 1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterBuildOverflow(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := 0; i < 18; i++ {
		fmt.Fprintf(&b, "error: problem number %d\n", i)
	}
	result := FilterBuild(b.String(), DefaultLimits())

	if !strings.Contains(result, "18 errors") {
		t.Errorf("missing total count: %q", result)
	}
	if !strings.Contains(result, "problem number 14") {
		t.Errorf("15th block should render: %q", result)
	}
	if strings.Contains(result, "problem number 15") {
		t.Errorf("16th block should not render: %q", result)
	}
	if !strings.Contains(result, "... +3 more issues") {
		t.Errorf("missing overflow note: %q", result)
	}
}

func TestFilterBuildCounterMatchesBlocks(t *testing.T) {
	t.Parallel()

	output := "error: one\n\nwarning: two\n\nerror: three\n"
	report := ClassifyBuild(output, DefaultLimits())
	if got := report.Errors + report.Warnings; got != len(report.Issues) {
		t.Errorf("counters %d != %d issue blocks", got, len(report.Issues))
	}
}

func TestBlockTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		state       blockState
		line        string
		accumulated int
		want        blockAction
	}{
		{"marker_opens_from_idle", blockIdle, "error: bad", 0, actionOpen},
		{"marker_interrupts_open_block", blockOpen, "warning: meh", 5, actionOpen},
		{"bracketed_marker", blockIdle, "error[E0308]: mismatched types", 0, actionOpen},
		{"aggregate_marker_dropped_idle", blockIdle, "error: aborting due to 2 previous errors", 0, actionDrop},
		{"noise_dropped_when_idle", blockIdle, "some random line", 0, actionDrop},
		{"body_line_appends", blockOpen, "  |  ^^^ here", 2, actionAppend},
		{"early_blank_stays_in_block", blockOpen, "", 2, actionAppend},
		{"late_blank_closes_block", blockOpen, "", 4, actionFlush},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := blockTransition(tc.state, tc.line, tc.accumulated, 3)
			if got != tc.want {
				t.Errorf("blockTransition(%v, %q, %d) = %v, want %v",
					tc.state, tc.line, tc.accumulated, got, tc.want)
			}
		})
	}
}

func TestFilterBuildIdempotent(t *testing.T) {
	t.Parallel()

	output := `   Compiling rtk v0.5.0
   Downloading crates ...
    Finished dev target(s) in 1.0s
`
	once := FilterBuild(output, DefaultLimits())
	for _, banner := range []string{"Compiling", "Downloading", "Finished"} {
		if strings.Contains(once, banner) {
			t.Errorf("filtered output still contains %q: %q", banner, once)
		}
	}
}
