/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

package runner

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iitd/falcon-deploy/pkg/errors"
)

const (
	helmRepoName = "crowdstrike"
	helmRepoURL  = "https://crowdstrike.github.io/falcon-helm"
)

// ReleaseExists reports whether the named Helm release is present in the
// namespace. A non-zero helm exit means "not installed"; only a missing helm
// binary surfaces as an error.
func ReleaseExists(ctx context.Context, r Runner, release, namespace string) (bool, error) {
	_, err := r.Run(ctx, []string{"helm", "status", release, "-n", namespace}, Options{CaptureOutput: true})
	if err == nil {
		return true, nil
	}
	if errors.IsCode(err, errors.ErrCodeExecNonZero) {
		return false, nil
	}
	return false, err
}

// InstalledImageTag reads the deployed release values and walks keyPath to
// the image tag. An absent key yields an empty tag, not an error: older
// charts may shape their values differently.
func InstalledImageTag(ctx context.Context, r Runner, release, namespace string, keyPath []string) (string, error) {
	res, err := r.Run(ctx,
		[]string{"helm", "get", "values", release, "-n", namespace, "-o", "json"},
		Options{CaptureOutput: true})
	if err != nil {
		return "", err
	}

	var values map[string]any
	if err := json.Unmarshal([]byte(res.Stdout), &values); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal,
			fmt.Sprintf("parse deployed values for release %q", release), err)
	}

	node := any(values)
	for _, key := range keyPath {
		m, ok := node.(map[string]any)
		if !ok {
			return "", nil
		}
		if node, ok = m[key]; !ok {
			return "", nil
		}
	}
	tag, _ := node.(string)
	return tag, nil
}

// SetupRepo registers the chart repository and refreshes its index so chart
// references resolve during deployment. The bare add/update forms keep the
// command compatible with every helm release the preflight floor admits.
func SetupRepo(ctx context.Context, r Runner) error {
	if _, err := r.Run(ctx,
		[]string{"helm", "repo", "add", helmRepoName, helmRepoURL},
		Options{CaptureOutput: true}); err != nil {
		return err
	}
	_, err := r.Run(ctx, []string{"helm", "repo", "update"}, Options{CaptureOutput: true})
	return err
}
