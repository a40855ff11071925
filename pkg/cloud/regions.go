/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

// Package cloud talks to the vendor's cloud API: OAuth2 tokens, registry
// credentials, and image tag catalogs.
package cloud

import "github.com/iitd/falcon-deploy/pkg/config"

// Region describes one cloud region's endpoints.
type Region struct {
	Name     string
	APIBase  string
	CloudTag string
	Registry string
}

var regions = map[string]Region{
	"us-1":     {Name: "us-1", APIBase: "api.crowdstrike.com", CloudTag: "us-1", Registry: "registry.crowdstrike.com"},
	"us-2":     {Name: "us-2", APIBase: "api.us-2.crowdstrike.com", CloudTag: "us-2", Registry: "registry.crowdstrike.com"},
	"eu-1":     {Name: "eu-1", APIBase: "api.eu-1.crowdstrike.com", CloudTag: "eu-1", Registry: "registry.crowdstrike.com"},
	"us-gov-1": {Name: "us-gov-1", APIBase: "api.laggar.gcw.crowdstrike.com", CloudTag: "gov1", Registry: "registry.laggar.gcw.crowdstrike.com"},
	"us-gov-2": {Name: "us-gov-2", APIBase: "api.us-gov-2.crowdstrike.mil", CloudTag: "gov2", Registry: "registry.us-gov-2.crowdstrike.mil"},
}

// networkRequirements lists the hosts each region's agents must reach on 443.
var networkRequirements = map[string][]string{
	"us-1":     {"ts01-b.cloudsink.net", "falcon.crowdstrike.com", "api.crowdstrike.com"},
	"us-2":     {"ts01-gyr-maverick.cloudsink.net", "falcon.us-2.crowdstrike.com", "api.us-2.crowdstrike.com"},
	"eu-1":     {"ts01-lanner-lion.cloudsink.net", "falcon.eu-1.crowdstrike.com", "api.eu-1.crowdstrike.com"},
	"us-gov-1": {"ts01-laggar-gcw.cloudsink.net", "falcon.laggar.gcw.crowdstrike.com", "api.laggar.gcw.crowdstrike.com"},
	"us-gov-2": {"ts01-us-gov-2.crowdstrike.mil", "falcon.us-gov-2.crowdstrike.mil", "api.us-gov-2.crowdstrike.mil"},
}

// GetRegion resolves a region by name, falling back to the default region
// for unknown names.
func GetRegion(name string) Region {
	if r, ok := regions[name]; ok {
		return r
	}
	return regions[config.DefaultCloudRegion]
}

// RegionNames returns the supported region names in a stable order.
func RegionNames() []string {
	return []string{"us-1", "us-2", "eu-1", "us-gov-1", "us-gov-2"}
}

// RequiredEndpoints returns the hosts the given region needs reachable,
// falling back to the default region's set for unknown names.
func RequiredEndpoints(region string) []string {
	if hosts, ok := networkRequirements[region]; ok {
		return hosts
	}
	return networkRequirements[config.DefaultCloudRegion]
}
