/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

// Package executor runs deployment plans: it presents the plan, obtains one
// confirmation for the whole run, executes operations in order, and verifies
// each component afterwards.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iitd/falcon-deploy/pkg/clipboard"
	"github.com/iitd/falcon-deploy/pkg/component"
	"github.com/iitd/falcon-deploy/pkg/errors"
	"github.com/iitd/falcon-deploy/pkg/plan"
	"github.com/iitd/falcon-deploy/pkg/runner"
)

// Outer bound on a single verification step, on top of the step's own
// kubectl timeout.
const verificationTimeout = 3 * time.Minute

// GroupState tracks a component group through the run.
type GroupState string

const (
	StatePending              GroupState = "pending"
	StateRunning              GroupState = "running"
	StateSucceeded            GroupState = "succeeded"
	StateAborted              GroupState = "aborted"
	StateVerifying            GroupState = "verifying"
	StateVerifiedOk           GroupState = "verified"
	StateVerifiedWithWarnings GroupState = "verified_with_warnings"
)

// InteractionPolicy answers the single pre-run confirmation.
type InteractionPolicy interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to InteractionPolicy.
type ConfirmFunc func(prompt string) (bool, error)

func (f ConfirmFunc) Confirm(prompt string) (bool, error) { return f(prompt) }

// ComponentReport is the per-component outcome.
type ComponentReport struct {
	Component component.Component
	State     GroupState
	Warnings  []string
}

// Report is the outcome of one execution run.
type Report struct {
	RunID       string
	NothingToDo bool
	Declined    bool
	// ManualCommands holds the exported deployment commands when the
	// operator declined execution.
	ManualCommands []string
	Components     []ComponentReport
}

// Executor drives plan execution against a Runner.
type Executor struct {
	runner runner.Runner
	sink   Sink
	policy InteractionPolicy
	clip   clipboard.Clipboard
	logger *slog.Logger
}

// New creates an executor. A nil sink writes to the console; a nil policy
// auto-approves; a nil clipboard uses the system one.
func New(r runner.Runner, sink Sink, policy InteractionPolicy, clip clipboard.Clipboard, logger *slog.Logger) *Executor {
	if sink == nil {
		sink = NewConsoleSink(nil)
	}
	if policy == nil {
		policy = ConfirmFunc(func(string) (bool, error) { return true, nil })
	}
	if clip == nil {
		clip = clipboard.System()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{runner: r, sink: sink, policy: policy, clip: clip, logger: logger}
}

// Execute runs the plan. An empty plan short-circuits without asking for
// confirmation. A declined confirmation exports the deployment commands for
// manual use instead of running anything. A failing operation that does not
// tolerate failure aborts the component and every component after it.
func (e *Executor) Execute(ctx context.Context, p *plan.Plan) (*Report, error) {
	report := &Report{RunID: uuid.NewString()}
	e.logger.Info("starting execution run", "run_id", report.RunID)

	if p == nil || p.Empty() {
		report.NothingToDo = true
		e.sink.Infof("Nothing to do: all selected components are already up to date.")
		return report, nil
	}

	e.presentPlan(p)

	approved, err := e.policy.Confirm("Proceed with the plan above?")
	if err != nil {
		return report, err
	}
	if !approved {
		report.Declined = true
		report.ManualCommands = p.DeployCommands()
		e.exportManual(report.ManualCommands)
		return report, nil
	}

	aborted := false
	var abortErr error
	for _, g := range p.Groups {
		cr := ComponentReport{Component: g.Component, State: StatePending}
		if aborted {
			cr.State = StateAborted
			report.Components = append(report.Components, cr)
			continue
		}

		cr.State = StateRunning
		e.sink.Infof("")
		e.sink.Infof("=== %s ===", g.Component.DisplayName())

		if err := e.runOps(ctx, g.Deploy, &cr, runner.Options{}); err != nil {
			cr.State = StateAborted
			aborted = true
			abortErr = err
			e.sink.Errorf("%s failed: %v", g.Component.DisplayName(), err)
			report.Components = append(report.Components, cr)
			continue
		}
		cr.State = StateSucceeded

		if len(g.Verify) > 0 {
			cr.State = StateVerifying
			e.verify(ctx, g, &cr)
		}
		report.Components = append(report.Components, cr)
	}

	e.summarize(report)
	if abortErr != nil {
		return report, abortErr
	}
	return report, nil
}

func (e *Executor) presentPlan(p *plan.Plan) {
	e.sink.Infof("Execution plan:")
	for _, g := range p.Groups {
		e.sink.Infof("  %s", g.Component.DisplayName())
		for _, op := range g.Deploy {
			e.sink.Infof("    - %s", op.Description)
		}
		for _, op := range g.Verify {
			e.sink.Infof("    - %s (verification)", op.Description)
		}
	}
}

func (e *Executor) exportManual(cmds []string) {
	script := strings.Join(cmds, "\n")
	e.sink.Warnf("Execution declined. Run these commands manually:")
	e.sink.Infof("%s", script)
	if e.clip.Available() {
		if err := e.clip.Copy(script); err != nil {
			e.logger.Debug("clipboard copy failed", "error", err)
		} else {
			e.sink.Infof("Commands copied to clipboard.")
		}
	}
}

// runOps executes a sequence of operations; an error from an operation that
// tolerates failure is reported as a warning and execution continues.
func (e *Executor) runOps(ctx context.Context, ops []component.Operation, cr *ComponentReport, base runner.Options) error {
	for _, op := range ops {
		e.sink.Infof("-> %s", op.Description)
		opts := base
		opts.CaptureOutput = op.CaptureOutput
		opts.Stream = e.sink.Writer()

		res, err := e.runner.Run(ctx, op.Argv, opts)
		if err == nil {
			if op.CaptureOutput && res.Stdout != "" {
				e.sink.Infof("%s", strings.TrimRight(res.Stdout, "\n"))
			}
			continue
		}

		if op.ToleratesFailure {
			e.sink.Warnf("%s failed (ignored): %v", op.Description, err)
			cr.Warnings = append(cr.Warnings, fmt.Sprintf("%s: %v", op.Description, err))
			continue
		}
		return err
	}
	return nil
}

// verify runs the group's verification steps. Verification failures never
// abort the run; they downgrade the component to verified-with-warnings.
func (e *Executor) verify(ctx context.Context, g plan.Group, cr *ComponentReport) {
	degraded := false
	for _, op := range g.Verify {
		e.sink.Infof("-> %s", op.Description)
		opts := runner.Options{
			CaptureOutput: op.CaptureOutput,
			Stream:        e.sink.Writer(),
			Timeout:       verificationTimeout,
		}
		res, err := e.runner.Run(ctx, op.Argv, opts)
		if err != nil {
			degraded = true
			cr.Warnings = append(cr.Warnings, fmt.Sprintf("%s: %v", op.Description, err))
			e.sink.Warnf("verification step failed: %v", err)
			if errors.IsCode(err, errors.ErrCodeExecNotFound) {
				// The remaining steps need the same missing binary.
				e.sink.Warnf("skipping remaining verification for %s", g.Component.DisplayName())
				break
			}
			continue
		}
		if op.CaptureOutput && res.Stdout != "" {
			e.sink.Infof("%s", strings.TrimRight(res.Stdout, "\n"))
		}
	}
	if degraded {
		cr.State = StateVerifiedWithWarnings
	} else {
		cr.State = StateVerifiedOk
	}
}

func (e *Executor) summarize(report *Report) {
	e.sink.Infof("")
	e.sink.Infof("Run %s summary:", report.RunID)
	for _, cr := range report.Components {
		switch cr.State {
		case StateVerifiedOk, StateSucceeded:
			e.sink.Successf("  %-40s %s", cr.Component.DisplayName(), cr.State)
		case StateVerifiedWithWarnings:
			e.sink.Warnf("  %-40s %s (%d warnings)", cr.Component.DisplayName(), cr.State, len(cr.Warnings))
		case StateAborted:
			e.sink.Errorf("  %-40s %s", cr.Component.DisplayName(), cr.State)
		default:
			e.sink.Infof("  %-40s %s", cr.Component.DisplayName(), cr.State)
		}
	}
}
