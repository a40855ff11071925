/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

package registry

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageRequestLocalImage(t *testing.T) {
	req := StageRequest{
		SourcePath:    "falcon-sensor/eu-1/release/falcon-sensor",
		LocalRegistry: "localhost:5000",
	}
	assert.Equal(t, "localhost:5000/falcon-sensor", req.LocalImage())
}

func TestIsPlainHTTP(t *testing.T) {
	assert.True(t, isPlainHTTP("localhost:5000"))
	assert.True(t, isPlainHTTP("127.0.0.1:5000"))
	assert.False(t, isPlainHTTP("registry.crowdstrike.com"))
	assert.False(t, isPlainHTTP("harbor.internal.example.com"))
}

func TestValidateRegistry(t *testing.T) {
	assert.NoError(t, ValidateRegistry("localhost:5000"))
	assert.NoError(t, ValidateRegistry("https://harbor.example.com"))
	assert.Error(t, ValidateRegistry("not a registry!!"))
}

func TestPullToken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"auths":{"localhost:5000":{"auth":"dXNlcjpwYXNz"}}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	tok, err := pullTokenFrom(path, "localhost:5000")
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(tok)
	require.NoError(t, err)
	assert.Equal(t, content, string(decoded))
}

func TestPullTokenNoAuthEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"auths":{"ghcr.io":{}}}`), 0600))

	tok, err := pullTokenFrom(path, "localhost:5000")
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestPullTokenMissingConfig(t *testing.T) {
	tok, err := pullTokenFrom(filepath.Join(t.TempDir(), "missing.json"), "localhost:5000")
	require.NoError(t, err)
	assert.Empty(t, tok)
}
