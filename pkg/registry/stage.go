/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

// Package registry stages vendor images into the local registry and handles
// registry references and pull-tokens.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/distribution/reference"
	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"

	"github.com/iitd/falcon-deploy/pkg/errors"
)

// Credentials authenticate one registry endpoint.
type Credentials struct {
	Username string
	Password string
}

// StageRequest describes one image copy from the vendor registry into the
// local one.
type StageRequest struct {
	// SourceRegistry is the vendor registry host.
	SourceRegistry string
	// SourcePath is the repository path within the vendor registry.
	SourcePath string
	// SourceCreds authenticate against the vendor registry.
	SourceCreds Credentials
	// LocalRegistry is the local registry host (host:port).
	LocalRegistry string
	// LocalCreds authenticate against the local registry; zero means
	// anonymous.
	LocalCreds Credentials
	// Tag is the exact image tag to copy.
	Tag string
}

// LocalImage returns the repository reference the image lands at, without
// the tag.
func (r StageRequest) LocalImage() string {
	name := r.SourcePath
	if i := strings.LastIndex(r.SourcePath, "/"); i >= 0 {
		name = r.SourcePath[i+1:]
	}
	return fmt.Sprintf("%s/%s", stripProtocol(r.LocalRegistry), name)
}

// Stage copies the image manifest and layers directly between registries.
// No local container engine is involved.
func Stage(ctx context.Context, logger *slog.Logger, req StageRequest) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if req.Tag == "" {
		return "", errors.New(errors.ErrCodeInvalidRequest, "image tag is required for staging")
	}

	src, err := newRepository(
		fmt.Sprintf("%s/%s", stripProtocol(req.SourceRegistry), req.SourcePath),
		req.SourceCreds)
	if err != nil {
		return "", err
	}

	localRef := req.LocalImage()
	dst, err := newRepository(localRef, req.LocalCreds)
	if err != nil {
		return "", err
	}

	logger.Info("staging image",
		"source", fmt.Sprintf("%s:%s", src.Reference.String(), req.Tag),
		"target", fmt.Sprintf("%s:%s", localRef, req.Tag))

	desc, err := oras.Copy(ctx, src, req.Tag, dst, req.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeConnection,
			fmt.Sprintf("stage image %s:%s into %s", req.SourcePath, req.Tag, req.LocalRegistry), err)
	}

	logger.Info("image staged",
		"digest", desc.Digest.String(),
		"multi_arch", desc.MediaType == ociv1.MediaTypeImageIndex)
	return localRef, nil
}

// ValidateRegistry checks that host names a usable registry endpoint.
func ValidateRegistry(host string) error {
	probe := fmt.Sprintf("%s/probe:latest", stripProtocol(host))
	if _, err := reference.ParseNormalizedNamed(probe); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid registry address %q", host), err)
	}
	return nil
}

func newRepository(ref string, creds Credentials) (*remote.Repository, error) {
	if _, err := reference.ParseNormalizedNamed(ref); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid image reference %q", ref), err)
	}
	repo, err := remote.NewRepository(ref)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal,
			fmt.Sprintf("initialize repository %q", ref), err)
	}
	repo.PlainHTTP = isPlainHTTP(repo.Reference.Registry)
	client := &auth.Client{
		Client: http.DefaultClient,
		Cache:  auth.NewCache(),
	}
	if creds.Username != "" || creds.Password != "" {
		client.Credential = auth.StaticCredential(repo.Reference.Registry, auth.Credential{
			Username: creds.Username,
			Password: creds.Password,
		})
	}
	repo.Client = client
	return repo, nil
}

// isPlainHTTP treats loopback registries as HTTP. Everything else speaks
// TLS.
func isPlainHTTP(host string) bool {
	return strings.HasPrefix(host, "localhost") ||
		strings.HasPrefix(host, "127.") ||
		strings.HasPrefix(host, "[::1]")
}

func stripProtocol(registry string) string {
	registry = strings.TrimPrefix(registry, "https://")
	registry = strings.TrimPrefix(registry, "http://")
	return registry
}
