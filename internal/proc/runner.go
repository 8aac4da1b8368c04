// Package proc spawns wrapped tools and captures their complete output.
// Execution is fully synchronous: the caller blocks until the child exits
// and receives the whole buffered output. A hang in the child is a hang in
// the wrapper; there is deliberately no timeout here.
package proc

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// execCommandContext is swappable for tests (helper-process mocking).
var execCommandContext = exec.CommandContext

// Result holds everything captured from one tool invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Combined merges stdout and stderr into the single buffer the classifiers
// operate on. Interleaving is approximate when the child wrote both streams
// concurrently; that is accepted, not guaranteed.
func (r *Result) Combined() string {
	return r.Stdout + "\n" + r.Stderr
}

// Success reports whether the child exited zero.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// Runner executes external tools on the host.
type Runner struct{}

// Run spawns binary with args, inheriting the parent environment and
// working directory, and blocks until it exits. A non-zero exit is not an
// error; it is reported through Result.ExitCode. Only spawn failure
// (binary missing, not executable) returns an error.
func (Runner) Run(ctx context.Context, binary string, args []string) (*Result, error) {
	cmd := execCommandContext(ctx, binary, args...)
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	err := cmd.Run()
	result := &Result{
		Stdout:   sanitize(stdout.Bytes()),
		Stderr:   sanitize(stderr.Bytes()),
		Duration: time.Since(started),
	}

	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return nil, fmt.Errorf("failed to run %s: %w", binary, err)
		}
		// Child ran and returned non-zero; that is its business.
		result.ExitCode = exitErr.ExitCode()
	}

	return result, nil
}

// sanitize recovers text from the child's output with lossy substitution.
// Invalid bytes become the replacement rune rather than failing the run.
func sanitize(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
