/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

package component

import (
	"fmt"
	"strings"
)

// Component identifies one of the deployable Falcon components. The set is
// closed and known at build time; per-component behavior is dispatched
// through static tables rather than interfaces.
type Component int

const (
	// Sensor is the Falcon node sensor (daemonset).
	Sensor Component = iota
	// AdmissionController is the Kubernetes admission controller (deployment).
	AdmissionController
	// RuntimeAnalyzer is the image assessment at runtime component; its
	// workload kind depends on the configured runtime mode.
	RuntimeAnalyzer

	componentCount
)

// All returns every component in fixed enumeration order. Plans are always
// built in this order regardless of how the user selected components.
func All() []Component {
	return []Component{Sensor, AdmissionController, RuntimeAnalyzer}
}

// attributes are the fixed, immutable per-component settings.
type attributes struct {
	key              string
	displayName      string
	releaseName      string
	chartRef         string
	defaultNamespace string
	aliases          []string
}

var attrs = [componentCount]attributes{
	Sensor: {
		key:              "sensor",
		displayName:      "Falcon Sensor",
		releaseName:      "falcon-sensor",
		chartRef:         "crowdstrike/falcon-sensor",
		defaultNamespace: "falcon-system",
	},
	AdmissionController: {
		key:              "admission-controller",
		displayName:      "Kubernetes Admission Controller",
		releaseName:      "falcon-kac",
		chartRef:         "crowdstrike/falcon-kac",
		defaultNamespace: "falcon-kac",
		aliases:          []string{"kac"},
	},
	RuntimeAnalyzer: {
		key:              "runtime-analyzer",
		displayName:      "Image Assessment at Runtime",
		releaseName:      "falcon-imageanalyzer",
		chartRef:         "crowdstrike/falcon-image-analyzer",
		defaultNamespace: "falcon-imageanalyzer",
		aliases:          []string{"iar"},
	},
}

// Key returns the stable identifier used in config files and CLI flags.
func (c Component) Key() string {
	return attrs[c].key
}

// DisplayName returns the human-readable component name.
func (c Component) DisplayName() string {
	return attrs[c].displayName
}

// ReleaseName returns the Helm release id for the component.
func (c Component) ReleaseName() string {
	return attrs[c].releaseName
}

// ChartRef returns the Helm chart reference applied for the component.
func (c Component) ChartRef() string {
	return attrs[c].chartRef
}

// DefaultNamespace returns the default installation namespace.
func (c Component) DefaultNamespace() string {
	return attrs[c].defaultNamespace
}

// ImageName returns the image name, which matches the release id.
func (c Component) ImageName() string {
	return attrs[c].releaseName
}

// ImagePath returns the image repository path within the vendor registry for
// the given cloud tag, without the registry host.
func (c Component) ImagePath(cloudTag string) string {
	return fmt.Sprintf("%s/%s/release/%s", c.ImageName(), cloudTag, c.ImageName())
}

// String implements fmt.Stringer.
func (c Component) String() string {
	return attrs[c].key
}

// Parse resolves a component key or alias (case-insensitive) to a Component.
func Parse(s string) (Component, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, c := range All() {
		if name == attrs[c].key {
			return c, nil
		}
		for _, alias := range attrs[c].aliases {
			if name == alias {
				return c, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown component %q", s)
}

// Keys returns the canonical keys for every component, in fixed order.
func Keys() []string {
	keys := make([]string, 0, componentCount)
	for _, c := range All() {
		keys = append(keys, attrs[c].key)
	}
	return keys
}
