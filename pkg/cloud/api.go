/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

package cloud

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/iitd/falcon-deploy/pkg/errors"
)

const requestTimeout = 30 * time.Second

// APIClient authenticates against one cloud region's API.
type APIClient struct {
	region Region
	client *http.Client

	// baseURL overrides the region API base in tests.
	baseURL string
}

// NewAPIClient creates a client for the given region.
func NewAPIClient(region Region) *APIClient {
	return &APIClient{
		region: region,
		client: &http.Client{Timeout: requestTimeout},
	}
}

func (c *APIClient) apiURL(path string) string {
	if c.baseURL != "" {
		return c.baseURL + path
	}
	return fmt.Sprintf("https://%s%s", c.region.APIBase, path)
}

// AccessToken exchanges client credentials for a bearer token.
func (c *APIClient) AccessToken(ctx context.Context, clientID, clientSecret string) (string, error) {
	cfg := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     c.apiURL("/oauth2/token"),
	}
	tok, err := cfg.Token(ctx)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeAuth, "obtain OAuth2 access token", err)
	}
	return tok.AccessToken, nil
}

// RegistryCredentials returns the username and password for the vendor image
// registry. The username derives from the customer ID; the password comes
// from the registry credentials endpoint.
func (c *APIClient) RegistryCredentials(ctx context.Context, accessToken, cid string) (username, password string, err error) {
	cidPrefix, _, _ := strings.Cut(cid, "-")
	username = "fc-" + strings.ToLower(cidPrefix)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.apiURL("/container-security/entities/image-registry-credentials/v1"), nil)
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeInternal, "build registry credentials request", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeConnection, "request registry credentials", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", "", errors.NewWithContext(errors.ErrCodeAuth,
			fmt.Sprintf("registry credentials request returned %d", resp.StatusCode),
			map[string]any{"body": string(body)})
	}

	var payload struct {
		Resources []struct {
			Token string `json:"token"`
		} `json:"resources"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", "", errors.Wrap(errors.ErrCodeAuth, "decode registry credentials response", err)
	}
	if len(payload.Resources) == 0 || payload.Resources[0].Token == "" {
		return "", "", errors.New(errors.ErrCodeAuth, "registry credentials response is empty")
	}
	return username, payload.Resources[0].Token, nil
}

// Catalog queries tag lists from the vendor image registry.
type Catalog struct {
	registry string
	username string
	password string
	client   *http.Client

	// baseURL overrides the registry host in tests.
	baseURL string
}

// NewCatalog creates a tag catalog client for the region's registry using
// the given credentials.
func NewCatalog(region Region, username, password string) *Catalog {
	return &Catalog{
		registry: region.Registry,
		username: username,
		password: password,
		client:   &http.Client{Timeout: requestTimeout},
	}
}

// ListTags fetches the available tags for an image path.
func (c *Catalog) ListTags(ctx context.Context, imagePath string) ([]string, error) {
	base := c.baseURL
	if base == "" {
		base = "https://" + c.registry
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/v2/%s/tags/list", base, imagePath), nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "build tag list request", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalog,
			fmt.Sprintf("query tag catalog for %s", imagePath), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewWithContext(errors.ErrCodeCatalog,
			fmt.Sprintf("tag catalog for %s returned %d", imagePath, resp.StatusCode),
			map[string]any{"image": imagePath, "status": resp.StatusCode})
	}

	var payload struct {
		Tags []string `json:"tags"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalog, "decode tag catalog response", err)
	}
	return payload.Tags, nil
}
