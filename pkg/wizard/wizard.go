/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

package wizard

import (
	"fmt"
	"os"
	"strings"

	"github.com/iitd/falcon-deploy/pkg/cloud"
	"github.com/iitd/falcon-deploy/pkg/component"
	"github.com/iitd/falcon-deploy/pkg/config"
	"github.com/iitd/falcon-deploy/pkg/errors"
	"github.com/iitd/falcon-deploy/pkg/version"
)

// Environment fallbacks for credential prompts.
const (
	envCID          = "FALCON_CID"
	envClientID     = "FALCON_CLIENT_ID"
	envClientSecret = "FALCON_CLIENT_SECRET"
)

// Wizard drives the interactive configuration flow.
type Wizard struct {
	ui UI
}

// New creates a wizard over the given UI.
func New(ui UI) *Wizard {
	return &Wizard{ui: ui}
}

// SelectComponents asks which components to work on. At least one must be
// chosen.
func (w *Wizard) SelectComponents(action string) ([]component.Component, error) {
	var picked []string
	title := fmt.Sprintf("Choose components to %s", action)
	if err := w.ui.MultiSelect(title, component.Keys(), &picked); err != nil {
		return nil, err
	}
	if len(picked) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "no components selected")
	}

	selected := make([]component.Component, 0, len(picked))
	for _, key := range picked {
		c, err := component.Parse(key)
		if err != nil {
			return nil, err
		}
		selected = append(selected, c)
	}
	return selected, nil
}

// Collect gathers the full deployment configuration for the selected
// components, seeding each prompt from the existing configuration and then
// from the environment.
func (w *Wizard) Collect(selected []component.Component, existing *config.DeploymentConfig) (*config.DeploymentConfig, error) {
	cfg := &config.DeploymentConfig{
		CID:           defaultFor(existing, func(c *config.DeploymentConfig) string { return c.CID }, envCID),
		ClientID:      defaultFor(existing, func(c *config.DeploymentConfig) string { return c.ClientID }, envClientID),
		ClientSecret:  defaultFor(existing, func(c *config.DeploymentConfig) string { return c.ClientSecret }, envClientSecret),
		CloudRegion:   config.DefaultCloudRegion,
		LocalRegistry: config.DefaultLocalRegistry,
	}
	if existing != nil {
		if existing.CloudRegion != "" {
			cfg.CloudRegion = existing.CloudRegion
		}
		if existing.LocalRegistry != "" {
			cfg.LocalRegistry = existing.LocalRegistry
		}
		// Settings for components outside this run's selection carry over.
		for key, cc := range existing.Components {
			copied := *cc
			cfg.SetComponent(key, &copied)
		}
	}

	if err := w.ui.Input("CrowdStrike CID", &cfg.CID); err != nil {
		return nil, err
	}
	if err := w.ui.Input("Falcon API client ID", &cfg.ClientID); err != nil {
		return nil, err
	}
	if err := w.ui.SecretInput("Falcon API client secret", &cfg.ClientSecret); err != nil {
		return nil, err
	}
	if err := w.ui.Select("Falcon cloud region", cloud.RegionNames(), &cfg.CloudRegion); err != nil {
		return nil, err
	}
	if err := w.ui.Input("Local registry URL", &cfg.LocalRegistry); err != nil {
		return nil, err
	}

	cfg.CID = strings.TrimSpace(cfg.CID)
	cfg.ClientID = strings.TrimSpace(cfg.ClientID)
	cfg.ClientSecret = strings.TrimSpace(cfg.ClientSecret)
	cfg.LocalRegistry = strings.TrimSpace(cfg.LocalRegistry)

	for _, c := range selected {
		var prior *config.ComponentConfig
		if existing != nil {
			prior = existing.Component(c.Key())
		}
		cc, err := w.collectComponent(c, prior)
		if err != nil {
			return nil, err
		}
		cfg.SetComponent(c.Key(), cc)
	}
	return cfg, nil
}

func (w *Wizard) collectComponent(c component.Component, prior *config.ComponentConfig) (*config.ComponentConfig, error) {
	cc := &config.ComponentConfig{
		Namespace: c.DefaultNamespace(),
		ImageTag:  version.LatestKeyword,
	}
	if prior != nil {
		*cc = *prior
		if cc.Namespace == "" {
			cc.Namespace = c.DefaultNamespace()
		}
		if cc.ImageTag == "" {
			cc.ImageTag = version.LatestKeyword
		}
	}

	title := func(field string) string {
		return fmt.Sprintf("%s: %s", c.DisplayName(), field)
	}

	if err := w.ui.Input(title("Kubernetes namespace"), &cc.Namespace); err != nil {
		return nil, err
	}
	if err := w.ui.Input(title("Image tag (or latest)"), &cc.ImageTag); err != nil {
		return nil, err
	}

	switch c {
	case component.Sensor:
		if cc.Backend == "" {
			cc.Backend = "bpf"
		}
		if err := w.ui.Select(title("Sensor backend"), []string{"bpf", "kernel"}, &cc.Backend); err != nil {
			return nil, err
		}
	case component.AdmissionController:
		if err := w.ui.Input(title("Kubernetes cluster name"), &cc.ClusterName); err != nil {
			return nil, err
		}
	case component.RuntimeAnalyzer:
		if err := w.ui.Input(title("Kubernetes cluster name"), &cc.ClusterName); err != nil {
			return nil, err
		}
		if cc.RuntimeMode == "" {
			cc.RuntimeMode = component.RuntimeModeWatcher
		}
		if err := w.ui.Select(title("Deployment mode"),
			[]string{component.RuntimeModeWatcher, component.RuntimeModeSocket}, &cc.RuntimeMode); err != nil {
			return nil, err
		}
		if cc.RuntimeMode == component.RuntimeModeSocket {
			if cc.ContainerRuntime == "" {
				cc.ContainerRuntime = "containerd"
			}
			if err := w.ui.Select(title("Container runtime"),
				[]string{"docker", "podman", "containerd", "crio"}, &cc.ContainerRuntime); err != nil {
				return nil, err
			}
		}
	}

	cc.Namespace = strings.TrimSpace(cc.Namespace)
	cc.ImageTag = strings.TrimSpace(cc.ImageTag)
	cc.ClusterName = strings.TrimSpace(cc.ClusterName)
	return cc, nil
}

// EnsureSecret prompts for the API client secret when the stored
// configuration does not carry one.
func (w *Wizard) EnsureSecret(cfg *config.DeploymentConfig) error {
	if cfg.ClientSecret != "" {
		return nil
	}
	if err := w.ui.SecretInput("Falcon API client secret", &cfg.ClientSecret); err != nil {
		return err
	}
	cfg.ClientSecret = strings.TrimSpace(cfg.ClientSecret)
	if cfg.ClientSecret == "" {
		return errors.New(errors.ErrCodePrerequisite, "client secret is required to proceed")
	}
	return nil
}

// AskTag prompts for an explicit image tag, used when automatic version
// resolution fails. An empty answer means the operator chose to skip the
// component; only a genuine UI abort is returned as an error.
func (w *Wizard) AskTag(c component.Component) (string, error) {
	var tag string
	if err := w.ui.Input(fmt.Sprintf("%s: enter image tag manually (empty to skip)", c.DisplayName()), &tag); err != nil {
		return "", err
	}
	return strings.TrimSpace(tag), nil
}

// Confirm asks a yes/no question, defaulting to no.
func (w *Wizard) Confirm(prompt string) (bool, error) {
	var yes bool
	if err := w.ui.Confirm(prompt, &yes); err != nil {
		return false, err
	}
	return yes, nil
}

func defaultFor(existing *config.DeploymentConfig, get func(*config.DeploymentConfig) string, envKey string) string {
	if existing != nil {
		if v := get(existing); v != "" {
			return v
		}
	}
	return os.Getenv(envKey)
}
