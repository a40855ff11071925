/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

// Package plan assembles ordered operation sequences for selected components.
package plan

import (
	"github.com/iitd/falcon-deploy/pkg/component"
	"github.com/iitd/falcon-deploy/pkg/config"
)

// Group is the plan slice belonging to one component: the deployment steps
// and the verification steps that follow them.
type Group struct {
	Component component.Component
	Deploy    []component.Operation
	Verify    []component.Operation
}

// Plan is an ordered set of component groups. Group order is canonical
// regardless of how components were selected.
type Plan struct {
	Groups []Group
}

// Empty reports whether the plan carries no work at all.
func (p *Plan) Empty() bool {
	for _, g := range p.Groups {
		if len(g.Deploy) > 0 || len(g.Verify) > 0 {
			return false
		}
	}
	return true
}

// Operations returns the flattened sequence, deploy steps before
// verification steps within each group.
func (p *Plan) Operations() []component.Operation {
	var ops []component.Operation
	for _, g := range p.Groups {
		ops = append(ops, g.Deploy...)
		ops = append(ops, g.Verify...)
	}
	return ops
}

// DeployCommands returns the shell command lines for the deployment steps
// only. Verification steps are omitted: they are progress checks, not state
// changes, and have no place in a manually executed script.
func (p *Plan) DeployCommands() []string {
	var cmds []string
	for _, g := range p.Groups {
		for _, op := range g.Deploy {
			cmds = append(cmds, op.Command())
		}
	}
	return cmds
}

// Input describes one component's contribution to a deployment plan.
type Input struct {
	Component  component.Component
	Config     *config.ComponentConfig
	ValuesPath string
	NewInstall bool
}

// Build assembles a deployment plan from the given inputs. Inputs are laid
// out in canonical component order no matter how they were supplied, so
// node-level components always precede workload-level ones.
func Build(inputs []Input) *Plan {
	byComponent := make(map[component.Component]Input, len(inputs))
	for _, in := range inputs {
		byComponent[in.Component] = in
	}

	p := &Plan{}
	for _, c := range component.All() {
		in, ok := byComponent[c]
		if !ok || in.Config == nil {
			continue
		}
		g := Group{Component: c}
		for _, op := range c.BuildOperations(in.Config, in.ValuesPath, in.NewInstall) {
			if op.Verification {
				g.Verify = append(g.Verify, op)
			} else {
				g.Deploy = append(g.Deploy, op)
			}
		}
		p.Groups = append(p.Groups, g)
	}
	return p
}

// BuildUninstall assembles a removal plan for the selected components, using
// each component's configured namespace when known and its default
// otherwise.
func BuildUninstall(selected []component.Component, cfg *config.DeploymentConfig) *Plan {
	wanted := make(map[component.Component]bool, len(selected))
	for _, c := range selected {
		wanted[c] = true
	}

	p := &Plan{}
	for _, c := range component.All() {
		if !wanted[c] {
			continue
		}
		namespace := c.DefaultNamespace()
		if cfg != nil {
			if cc := cfg.Component(c.Key()); cc != nil && cc.Namespace != "" {
				namespace = cc.Namespace
			}
		}
		p.Groups = append(p.Groups, Group{
			Component: c,
			Deploy:    c.UninstallOps(namespace),
		})
	}
	return p
}
