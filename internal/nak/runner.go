// Package nak wraps the external nak command line tool, the only path to
// the event network: querying records and signing/publishing events.
package nak

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds each outbound query or publish call. A call that
// exceeds it is a hard failure for the current version, never retried
// within a run.
const DefaultTimeout = 30 * time.Second

// ExternalError wraps a failed invocation of the external tool: non-zero
// exit, missing binary, or timeout.
type ExternalError struct {
	Op     string
	Stderr string
	Err    error
}

func (e *ExternalError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("nak %s failed: %v: %s", e.Op, e.Err, e.Stderr)
	}
	return fmt.Sprintf("nak %s failed: %v", e.Op, e.Err)
}

func (e *ExternalError) Unwrap() error { return e.Err }

// IsExternal returns true if the error came from the external tool.
// Uses errors.As to handle wrapped errors.
func IsExternal(err error) bool {
	var ee *ExternalError
	return errors.As(err, &ee)
}

// Runner executes the external tool. The single-method interface keeps the
// whole pipeline testable without a nak binary or live relays.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// ExecRunner invokes the real nak binary with a per-call timeout.
type ExecRunner struct {
	Timeout time.Duration
}

// NewExecRunner creates a runner with the default per-call timeout.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Timeout: DefaultTimeout}
}

// Run executes nak with the given arguments and returns its stdout.
func (r *ExecRunner) Run(ctx context.Context, args ...string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "nak", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		op := "nak"
		if len(args) > 0 {
			op = args[0]
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", &ExternalError{Op: op, Err: fmt.Errorf("nak not found in PATH; install it from https://github.com/fiatjaf/nak/releases")}
		}
		if ctx.Err() != nil {
			return "", &ExternalError{Op: op, Err: fmt.Errorf("timed out after %s", r.Timeout)}
		}
		return "", &ExternalError{Op: op, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}

	return stdout.String(), nil
}
