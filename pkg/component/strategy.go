/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

package component

import (
	"fmt"

	"github.com/iitd/falcon-deploy/pkg/config"
)

// WorkloadKind is the Kubernetes controller type used for rollout
// verification.
type WorkloadKind string

const (
	WorkloadDaemonSet  WorkloadKind = "daemonset"
	WorkloadDeployment WorkloadKind = "deployment"
	WorkloadNone       WorkloadKind = ""
)

// Runtime analyzer deployment modes.
const (
	RuntimeModeWatcher = "watcher"
	RuntimeModeSocket  = "socket"
)

// Verification settings.
const (
	rolloutTimeout = "120s"
	logsTailLines  = "50"
)

// Pod-security labels applied to namespaces that run privileged workloads.
var podSecurityLabels = []string{
	"pod-security.kubernetes.io/enforce=privileged",
	"pod-security.kubernetes.io/audit=privileged",
	"pod-security.kubernetes.io/warn=privileged",
}

// strategy holds the per-variant behavior. The variant set is fixed, so the
// dispatch is a plain table of pure functions instead of an interface
// hierarchy.
type strategy struct {
	workloadKind     func(cfg *config.ComponentConfig) WorkloadKind
	renderValues     func(cfg *config.ComponentConfig, parent *config.DeploymentConfig, omitSecret bool) map[string]any
	labelsNamespace  bool
	installedTagPath []string
}

var strategies = [componentCount]strategy{
	Sensor: {
		workloadKind:     func(*config.ComponentConfig) WorkloadKind { return WorkloadDaemonSet },
		renderValues:     sensorValues,
		labelsNamespace:  true,
		installedTagPath: []string{"node", "image", "tag"},
	},
	AdmissionController: {
		workloadKind:     func(*config.ComponentConfig) WorkloadKind { return WorkloadDeployment },
		renderValues:     admissionValues,
		installedTagPath: []string{"image", "tag"},
	},
	RuntimeAnalyzer: {
		workloadKind:     runtimeAnalyzerWorkloadKind,
		renderValues:     runtimeAnalyzerValues,
		labelsNamespace:  true,
		installedTagPath: []string{"image", "tag"},
	},
}

// WorkloadKind returns the controller type the component runs as, given its
// configuration.
func (c Component) WorkloadKind(cfg *config.ComponentConfig) WorkloadKind {
	return strategies[c].workloadKind(cfg)
}

// InstalledTagPath is the key path of the image tag inside the deployed
// release values (helm get values -o json).
func (c Component) InstalledTagPath() []string {
	return strategies[c].installedTagPath
}

// RenderValues produces the configuration payload for the component.
// The pull-token is attached to the image spec when present on the parent,
// the secret is withheld when omitSecret is set, and the ExtraValues overlay
// is merged last, shallow, last-write-wins.
func (c Component) RenderValues(cfg *config.ComponentConfig, parent *config.DeploymentConfig, omitSecret bool) map[string]any {
	values := strategies[c].renderValues(cfg, parent, omitSecret)
	for k, v := range cfg.ExtraValues {
		values[k] = v
	}
	return values
}

// PreInstallOps returns the namespace preparation steps run before a new
// install. Namespace creation tolerates failure so reruns stay idempotent.
func (c Component) PreInstallOps(cfg *config.ComponentConfig) []Operation {
	if !strategies[c].labelsNamespace {
		return nil
	}
	ops := []Operation{{
		Component:        c,
		Description:      "Create namespace",
		Argv:             []string{"kubectl", "create", "namespace", cfg.Namespace},
		ToleratesFailure: true,
	}}
	for _, label := range podSecurityLabels {
		ops = append(ops, Operation{
			Component:   c,
			Description: fmt.Sprintf("Label namespace (%s)", label),
			Argv:        []string{"kubectl", "label", "ns", "--overwrite", cfg.Namespace, label},
		})
	}
	return ops
}

// ApplyOp returns the single idempotent upgrade-or-install invocation,
// referencing the rendered values file by path. Safe whether or not the
// release already exists.
func (c Component) ApplyOp(cfg *config.ComponentConfig, valuesPath string) Operation {
	return Operation{
		Component:   c,
		Description: fmt.Sprintf("Deploy %s with Helm", c.DisplayName()),
		Argv: []string{
			"helm", "upgrade", "--install", c.ReleaseName(), c.ChartRef(),
			"-n", cfg.Namespace,
			"--create-namespace",
			"-f", valuesPath,
		},
	}
}

// VerificationOps returns the post-apply checks: one rollout wait (skipped
// when the workload kind is none) and one log tail.
func (c Component) VerificationOps(cfg *config.ComponentConfig) []Operation {
	var ops []Operation
	if kind := c.WorkloadKind(cfg); kind != WorkloadNone {
		ops = append(ops, Operation{
			Component:   c,
			Description: fmt.Sprintf("Wait for %s to be ready", kind),
			Argv: []string{
				"kubectl", "rollout", "status",
				fmt.Sprintf("%s/%s", kind, c.ReleaseName()),
				"-n", cfg.Namespace,
				"--timeout=" + rolloutTimeout,
			},
			Verification: true,
		})
	}
	ops = append(ops, Operation{
		Component:   c,
		Description: "Check container logs",
		Argv: []string{
			"kubectl", "logs",
			"-n", cfg.Namespace,
			"-l", "app.kubernetes.io/name=" + c.ReleaseName(),
			"--tail=" + logsTailLines,
		},
		Verification:  true,
		CaptureOutput: true,
	})
	return ops
}

// BuildOperations assembles the full ordered sequence for the component:
// pre-install steps (new installs only), the apply step, then verification.
func (c Component) BuildOperations(cfg *config.ComponentConfig, valuesPath string, isNewInstall bool) []Operation {
	var ops []Operation
	if isNewInstall {
		ops = append(ops, c.PreInstallOps(cfg)...)
	}
	ops = append(ops, c.ApplyOp(cfg, valuesPath))
	ops = append(ops, c.VerificationOps(cfg)...)
	return ops
}

// UninstallOps returns the removal sequence: helm uninstall followed by a
// namespace delete that tolerates failure (shared namespaces may refuse).
func (c Component) UninstallOps(namespace string) []Operation {
	return []Operation{
		{
			Component:   c,
			Description: fmt.Sprintf("Uninstall Helm release %q", c.ReleaseName()),
			Argv:        []string{"helm", "uninstall", c.ReleaseName(), "-n", namespace},
		},
		{
			Component:        c,
			Description:      fmt.Sprintf("Delete namespace %q", namespace),
			Argv:             []string{"kubectl", "delete", "namespace", namespace, "--ignore-not-found"},
			ToleratesFailure: true,
		},
	}
}

func runtimeAnalyzerWorkloadKind(cfg *config.ComponentConfig) WorkloadKind {
	if cfg.RuntimeMode == RuntimeModeSocket {
		return WorkloadDaemonSet
	}
	return WorkloadDeployment
}

// imageSpec builds the shared image block, attaching the pull-token when the
// parent carries one.
func imageSpec(cfg *config.ComponentConfig, parent *config.DeploymentConfig) map[string]any {
	image := map[string]any{
		"repository": cfg.ImageRepo,
		"tag":        cfg.ImageTag,
		"pullPolicy": "Always",
	}
	if parent.RegistryToken != "" {
		image["registryConfigJSON"] = parent.RegistryToken
	}
	return image
}

func sensorValues(cfg *config.ComponentConfig, parent *config.DeploymentConfig, _ bool) map[string]any {
	return map[string]any{
		"falcon": map[string]any{"cid": parent.CID},
		"node": map[string]any{
			"enabled": true,
			"image":   imageSpec(cfg, parent),
			"backend": cfg.Backend,
		},
	}
}

func admissionValues(cfg *config.ComponentConfig, parent *config.DeploymentConfig, _ bool) map[string]any {
	return map[string]any{
		"falcon":      map[string]any{"cid": parent.CID},
		"image":       imageSpec(cfg, parent),
		"clusterName": cfg.ClusterName,
	}
}

func runtimeAnalyzerValues(cfg *config.ComponentConfig, parent *config.DeploymentConfig, omitSecret bool) map[string]any {
	csConfig := map[string]any{
		"cid":         parent.CID,
		"clientID":    parent.ClientID,
		"agentRegion": parent.CloudRegion,
		"clusterName": cfg.ClusterName,
	}
	if !omitSecret {
		csConfig["clientSecret"] = parent.ClientSecret
	}

	values := map[string]any{
		"image":             imageSpec(cfg, parent),
		"crowdstrikeConfig": csConfig,
	}

	// Deployment and daemonset enablement are mutually exclusive and follow
	// the configured mode; socket mode additionally names the node runtime.
	switch cfg.RuntimeMode {
	case RuntimeModeSocket:
		values["deployment"] = map[string]any{"enabled": false}
		values["daemonset"] = map[string]any{"enabled": true}
		csConfig["agentRuntime"] = cfg.ContainerRuntime
	default:
		values["deployment"] = map[string]any{"enabled": true}
		values["daemonset"] = map[string]any{"enabled": false}
	}
	return values
}
