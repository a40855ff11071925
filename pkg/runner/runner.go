/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

// Package runner executes external tooling (helm, kubectl) and normalizes
// the failure modes callers care about: binary missing, non-zero exit,
// timeout.
package runner

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/iitd/falcon-deploy/pkg/errors"
)

// Result carries the outcome of a finished process.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Options controls how a single invocation runs.
type Options struct {
	// CaptureOutput buffers stdout/stderr into the Result instead of
	// streaming them.
	CaptureOutput bool

	// Stream receives live output when CaptureOutput is false. Defaults to
	// os.Stdout.
	Stream io.Writer

	// Timeout bounds the invocation when positive.
	Timeout time.Duration
}

// Runner runs a command described by its argv.
type Runner interface {
	Run(ctx context.Context, argv []string, opts Options) (*Result, error)
}

// ExecRunner runs commands as real subprocesses.
type ExecRunner struct {
	logger *slog.Logger
}

// NewExecRunner creates a subprocess runner. A nil logger falls back to the
// default.
func NewExecRunner(logger *slog.Logger) *ExecRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecRunner{logger: logger}
}

func (r *ExecRunner) Run(ctx context.Context, argv []string, opts Options) (*Result, error) {
	if len(argv) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "empty command")
	}

	if _, err := exec.LookPath(argv[0]); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExecNotFound,
			fmt.Sprintf("required tool %q not found on PATH", argv[0]), err)
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var stdout, stderr bytes.Buffer
	if opts.CaptureOutput {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		stream := opts.Stream
		if stream == nil {
			stream = os.Stdout
		}
		cmd.Stdout = stream
		cmd.Stderr = stream
	}

	r.logger.Debug("running command", "command", strings.Join(argv, " "))
	err := cmd.Run()

	res := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err == nil {
		return res, nil
	}

	if ctx.Err() == context.DeadlineExceeded {
		res.ExitCode = -1
		return res, errors.Wrap(errors.ErrCodeTimeout,
			fmt.Sprintf("command %q timed out after %s", argv[0], opts.Timeout), err)
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, errors.WrapWithContext(errors.ErrCodeExecNonZero,
			fmt.Sprintf("command %q exited with code %d", argv[0], res.ExitCode), err,
			map[string]any{"command": strings.Join(argv, " "), "exit_code": res.ExitCode})
	}

	res.ExitCode = -1
	return res, errors.Wrap(errors.ErrCodeInternal,
		fmt.Sprintf("command %q failed to run", argv[0]), err)
}
