/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

package cloud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iitd/falcon-deploy/pkg/errors"
)

func TestGetRegion(t *testing.T) {
	assert.Equal(t, "api.us-2.crowdstrike.com", GetRegion("us-2").APIBase)
	assert.Equal(t, "gov1", GetRegion("us-gov-1").CloudTag)

	// Unknown regions fall back to the default.
	assert.Equal(t, "eu-1", GetRegion("mars-1").Name)
}

func TestRequiredEndpoints(t *testing.T) {
	hosts := RequiredEndpoints("us-1")
	require.Len(t, hosts, 3)
	assert.Contains(t, hosts, "api.crowdstrike.com")

	assert.Equal(t, RequiredEndpoints("eu-1"), RequiredEndpoints("unknown"))
}

func TestAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oauth2/token", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-123",
			"token_type":   "bearer",
			"expires_in":   1799,
		})
	}))
	defer srv.Close()

	c := NewAPIClient(GetRegion("eu-1"))
	c.baseURL = srv.URL

	tok, err := c.AccessToken(context.Background(), "id", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", tok)
}

func TestAccessTokenRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"errors":[{"message":"access denied"}]}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewAPIClient(GetRegion("eu-1"))
	c.baseURL = srv.URL

	_, err := c.AccessToken(context.Background(), "id", "bad-secret")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAuth))
}

func TestRegistryCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/container-security/entities/image-registry-credentials/v1", r.URL.Path)
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"resources": []map[string]any{{"token": "registry-pass"}},
		})
	}))
	defer srv.Close()

	c := NewAPIClient(GetRegion("eu-1"))
	c.baseURL = srv.URL

	user, pass, err := c.RegistryCredentials(context.Background(), "tok-123", "ABCDEF0123-45")
	require.NoError(t, err)
	assert.Equal(t, "fc-abcdef0123", user)
	assert.Equal(t, "registry-pass", pass)
}

func TestRegistryCredentialsEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"resources": []any{}})
	}))
	defer srv.Close()

	c := NewAPIClient(GetRegion("eu-1"))
	c.baseURL = srv.URL

	_, _, err := c.RegistryCredentials(context.Background(), "tok-123", "CID-45")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAuth))
}

func TestCatalogListTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/falcon-sensor/eu-1/release/falcon-sensor/tags/list", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "fc-abc", user)
		require.Equal(t, "pw", pass)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"name": "falcon-sensor",
			"tags": []string{"7.19.0-17201-1", "7.20.0-17306-1", "latest"},
		})
	}))
	defer srv.Close()

	c := NewCatalog(GetRegion("eu-1"), "fc-abc", "pw")
	c.baseURL = srv.URL

	tags, err := c.ListTags(context.Background(), "falcon-sensor/eu-1/release/falcon-sensor")
	require.NoError(t, err)
	assert.Equal(t, []string{"7.19.0-17201-1", "7.20.0-17306-1", "latest"}, tags)
}

func TestCatalogListTagsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewCatalog(GetRegion("eu-1"), "fc-abc", "bad")
	c.baseURL = srv.URL

	_, err := c.ListTags(context.Background(), "falcon-sensor/eu-1/release/falcon-sensor")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCatalog))
}
