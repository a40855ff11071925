/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

package component

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/iitd/falcon-deploy/pkg/errors"
)

// ValuesFileName returns the artifact file name for the component's rendered
// values.
func (c Component) ValuesFileName() string {
	return c.ReleaseName() + "-values.yml"
}

// WriteValuesFile serializes the values payload to YAML under dir and returns
// the file path. Mode 0600: the payload may carry a registry pull-token.
func (c Component) WriteValuesFile(dir string, values map[string]any) (string, error) {
	data, err := yaml.Marshal(values)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("marshal values for %s", c.Key()), err)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("create values directory %s", dir), err)
	}
	path := filepath.Join(dir, c.ValuesFileName())
	content := append([]byte(fmt.Sprintf("# Helm values for %s (%s)\n", c.DisplayName(), c.ReleaseName())), data...)
	if err := os.WriteFile(path, content, 0600); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("write values file %s", path), err)
	}
	return path, nil
}
