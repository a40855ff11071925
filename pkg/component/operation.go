/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

package component

import "strings"

// Operation is a single argv-style step owned by a component. Operations are
// immutable once built.
type Operation struct {
	// Component owns this operation for grouping and reporting.
	Component Component

	// Description is the human-readable step summary shown in the plan.
	Description string

	// Argv is the command invocation, program first.
	Argv []string

	// Verification marks post-apply checks; verification failures downgrade
	// to per-component warnings and are excluded from manual export.
	Verification bool

	// CaptureOutput runs the step with captured output instead of streaming.
	CaptureOutput bool

	// ToleratesFailure lets a non-zero exit continue the plan with a warning.
	ToleratesFailure bool
}

// Command renders the operation argv as a single shell-style line.
func (o Operation) Command() string {
	return strings.Join(o.Argv, " ")
}
