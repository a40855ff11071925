/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

package registry

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/iitd/falcon-deploy/pkg/errors"
)

// PullToken produces the base64-encoded docker config for the local
// registry, suitable for a chart's registryConfigJSON value. It returns an
// empty token when no auth entry exists for the registry: the cluster then
// needs a manually created pull secret.
func PullToken(localRegistry string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "resolve home directory", err)
	}
	return pullTokenFrom(filepath.Join(home, ".docker", "config.json"), localRegistry)
}

func pullTokenFrom(path, localRegistry string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(errors.ErrCodeInternal, "read docker config", err)
	}

	var cfg struct {
		Auths map[string]json.RawMessage `json:"auths"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "parse docker config", err)
	}
	if _, ok := cfg.Auths[localRegistry]; !ok {
		return "", nil
	}
	// The whole config is embedded so the kubelet sees the same auth entries
	// the operator's docker client does.
	return base64.StdEncoding.EncodeToString(data), nil
}
