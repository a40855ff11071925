package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *DeploymentConfig {
	return &DeploymentConfig{
		CID:           "ABCDEF1234567890-12",
		ClientID:      "client-id",
		ClientSecret:  "super-secret",
		CloudRegion:   "eu-1",
		LocalRegistry: "localhost:5000",
		RegistryToken: "ephemeral-token",
		Components: map[string]*ComponentConfig{
			"sensor": {
				Namespace: "falcon-system",
				ImageTag:  "7.2.0",
				Backend:   "bpf",
			},
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := NewStoreAt(path)

	require.NoError(t, store.Save(testConfig(), false))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, "ABCDEF1234567890-12", loaded.CID)
	assert.Equal(t, "super-secret", loaded.ClientSecret)
	assert.Equal(t, "", loaded.RegistryToken, "pull token is session-only")

	sensor := loaded.Component("sensor")
	require.NotNil(t, sensor)
	assert.Equal(t, "falcon-system", sensor.Namespace)
	assert.Equal(t, "bpf", sensor.Backend)
}

func TestStoreSaveOmitSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := NewStoreAt(path)

	require.NoError(t, store.Save(testConfig(), true))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "", loaded.ClientSecret)

	// The raw file must not contain the secret or the pull token either.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "super-secret")
	assert.NotContains(t, string(raw), "ephemeral-token")
}

func TestStoreSaveNeverWritesPullToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := NewStoreAt(path)

	require.NoError(t, store.Save(testConfig(), false))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	_, hasToken := decoded["registry_token"]
	assert.False(t, hasToken)
	assert.NotContains(t, string(raw), "ephemeral-token")
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStoreAt(filepath.Join(t.TempDir(), "nope", "config.json"))
	cfg, err := store.Load()
	assert.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewStoreAt(path).Load()
	assert.Error(t, err)
}

func TestStoreRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := NewStoreAt(path)

	require.NoError(t, store.Save(testConfig(), true))
	require.NoError(t, store.Remove())
	assert.NoFileExists(t, path)

	// Removing twice is fine.
	assert.NoError(t, store.Remove())
}

func TestSetComponent(t *testing.T) {
	cfg := &DeploymentConfig{}
	assert.Nil(t, cfg.Component("sensor"))

	cfg.SetComponent("sensor", &ComponentConfig{Namespace: "falcon-system"})
	require.NotNil(t, cfg.Component("sensor"))
	assert.Equal(t, "falcon-system", cfg.Component("sensor").Namespace)
}
