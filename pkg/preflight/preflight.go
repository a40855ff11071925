/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

// Package preflight verifies the workstation before any deployment work:
// required tooling, cluster reachability, and cloud endpoint connectivity.
package preflight

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/iitd/falcon-deploy/pkg/errors"
	"github.com/iitd/falcon-deploy/pkg/runner"
)

// Minimum tooling versions.
const (
	MinHelmVersion    = "3.0.0"
	MinKubectlVersion = "1.20.0"
)

var semverPattern = regexp.MustCompile(`(\d+\.\d+\.\d+)`)

// binaryCheck describes one tool probe.
type binaryCheck struct {
	name       string
	versionCmd []string
	minVersion string
}

var binaryChecks = []binaryCheck{
	{name: "helm", versionCmd: []string{"helm", "version", "--short"}, minVersion: MinHelmVersion},
	{name: "kubectl", versionCmd: []string{"kubectl", "version", "--client"}, minVersion: MinKubectlVersion},
}

// CheckBinaries verifies that helm and kubectl are present and recent
// enough. A missing binary fails hard; an unparseable version only warns,
// since vendored builds mangle their version strings.
func CheckBinaries(ctx context.Context, r runner.Runner, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	for _, check := range binaryChecks {
		res, err := r.Run(ctx, check.versionCmd, runner.Options{CaptureOutput: true})
		if err != nil {
			if errors.IsCode(err, errors.ErrCodeExecNotFound) {
				return errors.Wrap(errors.ErrCodePrerequisite,
					fmt.Sprintf("%s not found on PATH", check.name), err)
			}
			logger.Warn("unable to verify tool version, continuing",
				"tool", check.name, "error", err)
			continue
		}

		found := semverPattern.FindString(res.Stdout + res.Stderr)
		if found == "" {
			logger.Warn("unable to parse tool version, continuing", "tool", check.name)
			continue
		}
		if compareSemver(found, check.minVersion) < 0 {
			return errors.NewWithContext(errors.ErrCodePrerequisite,
				fmt.Sprintf("%s %s detected, need at least %s", check.name, found, check.minVersion),
				map[string]any{"tool": check.name, "found": found, "minimum": check.minVersion})
		}
		logger.Debug("tool check passed", "tool", check.name, "version", found)
	}
	return nil
}

func compareSemver(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		ai, _ := strconv.Atoi(as[i])
		bi, _ := strconv.Atoi(bs[i])
		if ai != bi {
			if ai < bi {
				return -1
			}
			return 1
		}
	}
	return len(as) - len(bs)
}
