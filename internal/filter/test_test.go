package filter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterTestAllPass(t *testing.T) {
	t.Parallel()

	output := `   Compiling rtk v0.5.0
    Finished test [unoptimized + debuginfo] target(s) in 2.53s
     Running target/debug/deps/rtk-abc123

running 15 tests
test utils::tests::test_truncate_short_string ... ok
test utils::tests::test_truncate_long_string ... ok
test utils::tests::test_strip_ansi_simple ... ok

test result: ok. 15 passed; 0 failed; 0 ignored; 0 measured; 0 filtered out; finished in 0.01s
`
	result := FilterTest(output, DefaultLimits())

	assert.Equal(t, "✓ test result: ok. 15 passed; 0 failed; 0 ignored; 0 measured; 0 filtered out; finished in 0.01s", result)
	assert.NotContains(t, result, "Compiling")
	assert.NotContains(t, result, "test utils")
}

func TestFilterTestFailures(t *testing.T) {
	t.Parallel()

	output := `running 5 tests
test foo::test_a ... ok
test foo::test_b ... FAILED
test foo::test_c ... ok

failures:

---- foo::test_b stdout ----
thread 'foo::test_b' panicked at 'assert_eq!(1, 2)'

failures:
    foo::test_b

test result: FAILED. 4 passed; 1 failed; 0 ignored; 0 measured; 0 filtered out
`
	result := FilterTest(output, DefaultLimits())

	assert.Contains(t, result, "FAILURES")
	assert.Contains(t, result, "test_b")
	assert.Contains(t, result, "test result:")
	assert.NotContains(t, result, "test foo::test_a")
}

func TestClassifyTestRecords(t *testing.T) {
	t.Parallel()

	output := `failures:

---- alpha stdout ----
thread 'alpha' panicked at src/a.rs:1:1

---- beta stdout ----
thread 'beta' panicked at src/b.rs:2:2

test result: FAILED. 0 passed; 2 failed
`
	report := ClassifyTest(output)

	require.Len(t, report.Failures, 2)
	assert.Equal(t, "alpha", report.Failures[0].Name)
	assert.Equal(t, "beta", report.Failures[1].Name)
	require.Len(t, report.Summary, 1)
	assert.Equal(t, "test result: FAILED. 0 passed; 2 failed", report.Summary[0])
}

func TestFilterTestFailureTruncation(t *testing.T) {
	t.Parallel()

	detail := strings.Repeat("x", 500)
	output := fmt.Sprintf("failures:\n\n---- big stdout ----\n    %s\n\ntest result: FAILED. 0 passed; 1 failed\n", detail)
	result := FilterTest(output, DefaultLimits())

	assert.Contains(t, result, "1. ")
	assert.Contains(t, result, "...")
	// Header line plus 200 runes plus ellipsis; the 500-char detail must
	// not appear in full.
	assert.NotContains(t, result, detail)
}

func TestFilterTestFailureOverflow(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("failures:\n\n")
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, "---- t%d stdout ----\n    boom %d\n\n", i, i)
	}
	b.WriteString("test result: FAILED. 0 passed; 12 failed\n")

	result := FilterTest(b.String(), DefaultLimits())

	assert.Contains(t, result, "FAILURES (12):")
	assert.Contains(t, result, "10. ")
	assert.NotContains(t, result, "11. ----")
	assert.Contains(t, result, "... +2 more failures")
	// Summary lines always come last.
	assert.True(t, strings.HasSuffix(result, "test result: FAILED. 0 passed; 12 failed"))
}

func TestFilterTestFallback(t *testing.T) {
	t.Parallel()

	output := `   Compiling rtk v0.5.0
something completely unexpected
another strange line
third line
fourth line
fifth line
sixth line
`
	result := FilterTest(output, DefaultLimits())

	require.NotEmpty(t, strings.TrimSpace(result))
	assert.NotContains(t, result, "Compiling")
	// Last five meaningful lines survive; the first unexpected one is cut.
	assert.Contains(t, result, "sixth line")
	assert.NotContains(t, result, "something completely unexpected")
}
