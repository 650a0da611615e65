package action

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"time"

	"taskrelay/internal/logging"
)

// maxStreamBytes caps each captured stream. Subprocess output past the cap
// is dropped, matching the read ceiling policy elsewhere.
const maxStreamBytes = 5 * 1024 * 1024

// runOutcome is the raw outcome of one subprocess invocation.
type runOutcome struct {
	Stdout   string
	Stderr   string
	TimedOut bool

	// StartErr is set when the process could not run at all (missing
	// binary, permission). A nonzero exit is NOT a start error; exit
	// codes are deliberately not interpreted here.
	StartErr error
}

// run executes a binary under the environment's hard timeout, capturing
// stdout and stderr separately with per-stream caps.
func (e Env) run(ctx context.Context, binary string, args ...string) runOutcome {
	timeout := e.CommandTimeout
	if timeout <= 0 {
		timeout = 300 * time.Second
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, binary, args...)
	cmd.Dir = e.Root

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitedWriter{w: &stdout, max: maxStreamBytes}
	cmd.Stderr = &limitedWriter{w: &stderr, max: maxStreamBytes}

	start := time.Now()
	err := cmd.Run()
	logging.ActionsDebug("ran %s %v in %s (err=%v)", binary, args, time.Since(start), err)

	outcome := runOutcome{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err == nil {
		return outcome
	}
	if execCtx.Err() == context.DeadlineExceeded {
		outcome.TimedOut = true
		return outcome
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Ran to completion with a nonzero exit; the consumer
		// interprets exit status, not the executor.
		return outcome
	}
	outcome.StartErr = err
	return outcome
}

// limitedWriter caps bytes written through to the underlying writer while
// pretending every write succeeded, so the subprocess never sees EPIPE.
type limitedWriter struct {
	w       io.Writer
	max     int64
	written int64
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	if lw.written >= lw.max {
		return n, nil
	}
	if remaining := lw.max - lw.written; int64(n) > remaining {
		written, err := lw.w.Write(p[:remaining])
		lw.written += int64(written)
		return n, err
	}
	written, err := lw.w.Write(p)
	lw.written += int64(written)
	return n, err
}
