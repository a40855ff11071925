/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

package config

// Default wizard values.
const (
	DefaultCloudRegion   = "eu-1"
	DefaultLocalRegistry = "localhost:5000"
)

// ComponentConfig holds the per-component deployment settings. One instance
// exists per selected component, keyed by component identity inside
// DeploymentConfig. ImageRepo stays empty until the image has been staged
// into the local registry.
type ComponentConfig struct {
	Namespace string `json:"namespace"`
	ImageTag  string `json:"image_tag"`
	ImageRepo string `json:"image_repo,omitempty"`

	// Backend is the sensor backend mode (bpf or kernel). Sensor only.
	Backend string `json:"backend,omitempty"`

	// ClusterName identifies the cluster to the vendor backend.
	// Admission controller and runtime analyzer only.
	ClusterName string `json:"cluster_name,omitempty"`

	// RuntimeMode selects the runtime analyzer deployment shape:
	// "watcher" (deployment) or "socket" (daemonset). Runtime analyzer only.
	RuntimeMode string `json:"runtime_mode,omitempty"`

	// ContainerRuntime names the node container runtime for socket mode.
	ContainerRuntime string `json:"container_runtime,omitempty"`

	// ExtraValues is a free-form overlay merged into the rendered payload
	// last, shallow, last-write-wins.
	ExtraValues map[string]any `json:"extra_values,omitempty"`
}

// DeploymentConfig is the unified configuration record for a run.
//
// The client secret must be present before any authenticated call is made.
// RegistryToken is session-only: it is never persisted and must be cleared
// before the record is written.
type DeploymentConfig struct {
	CID           string `json:"cid"`
	ClientID      string `json:"client_id"`
	ClientSecret  string `json:"client_secret"`
	CloudRegion   string `json:"cloud_region"`
	LocalRegistry string `json:"local_registry"`

	// Components maps component key (e.g. "sensor") to its configuration.
	Components map[string]*ComponentConfig `json:"components"`

	// RegistryToken is the ephemeral base64 pull-token for the local
	// registry. Session-only.
	RegistryToken string `json:"-"`
}

// Component returns the configuration for the given component key, or nil.
func (c *DeploymentConfig) Component(key string) *ComponentConfig {
	if c == nil || c.Components == nil {
		return nil
	}
	return c.Components[key]
}

// SetComponent stores the configuration for the given component key.
func (c *DeploymentConfig) SetComponent(key string, cfg *ComponentConfig) {
	if c.Components == nil {
		c.Components = make(map[string]*ComponentConfig)
	}
	c.Components[key] = cfg
}
