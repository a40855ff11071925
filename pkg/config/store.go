/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	configDirName  = "iitd/csf"
	configFileName = "falcon-deployment-config.json"
)

// Store persists the unified configuration record as a JSON file under the
// user's config directory (~/.config/iitd/csf by default).
type Store struct {
	path string
}

// NewStore creates a store rooted at the default config location.
func NewStore() (*Store, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return &Store{path: filepath.Join(base, configDirName, configFileName)}, nil
}

// NewStoreAt creates a store at an explicit file path. Used in tests.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Path returns the config file location.
func (s *Store) Path() string {
	return s.path
}

// Dir returns the directory holding the config file and rendered artifacts.
func (s *Store) Dir() string {
	return filepath.Dir(s.path)
}

// Load reads the configuration record. A missing file returns (nil, nil).
func (s *Store) Load() (*DeploymentConfig, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", s.path, err)
	}

	var cfg DeploymentConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", s.path, err)
	}
	return &cfg, nil
}

// Save writes the configuration record. The ephemeral registry pull-token is
// never written (it is not part of the serialized form), and the client
// secret is blanked when omitSecret is set.
func (s *Store) Save(cfg *DeploymentConfig, omitSecret bool) error {
	if err := os.MkdirAll(s.Dir(), 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	out := *cfg
	out.RegistryToken = ""
	if omitSecret {
		out.ClientSecret = ""
	}

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config %s: %w", s.path, err)
	}
	return nil
}

// Remove deletes the configuration file. Missing file is not an error.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove config %s: %w", s.path, err)
	}
	return nil
}
