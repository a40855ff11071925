/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

package preflight

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/iitd/falcon-deploy/pkg/errors"
	"github.com/iitd/falcon-deploy/pkg/runner"
)

func TestCheckBinaries(t *testing.T) {
	f := runner.NewFake()
	f.Script("helm version", &runner.Result{Stdout: "v3.14.2+gc309b6f"}, nil)
	f.Script("kubectl version", &runner.Result{Stdout: "Client Version: v1.29.1"}, nil)

	assert.NoError(t, CheckBinaries(context.Background(), f, nil))
}

func TestCheckBinariesMissingHelm(t *testing.T) {
	f := runner.NewFake()
	f.Script("helm version", nil, errors.New(errors.ErrCodeExecNotFound, "helm not found"))

	err := CheckBinaries(context.Background(), f, nil)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodePrerequisite))
}

func TestCheckBinariesTooOld(t *testing.T) {
	f := runner.NewFake()
	f.Script("helm version", &runner.Result{Stdout: "v2.17.0"}, nil)

	err := CheckBinaries(context.Background(), f, nil)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodePrerequisite))
}

func TestCheckBinariesUnparseableVersionWarnsOnly(t *testing.T) {
	f := runner.NewFake()
	f.Script("helm version", &runner.Result{Stdout: "devel-build"}, nil)
	f.Script("kubectl version", &runner.Result{Stdout: "Client Version: v1.29.1"}, nil)

	assert.NoError(t, CheckBinaries(context.Background(), f, nil))
}

func TestCompareSemver(t *testing.T) {
	assert.Negative(t, compareSemver("2.17.0", "3.0.0"))
	assert.Positive(t, compareSemver("3.14.2", "3.0.0"))
	assert.Zero(t, compareSemver("1.20.0", "1.20.0"))
	assert.Positive(t, compareSemver("1.21.0", "1.20.0"))
}

func TestCheckCluster(t *testing.T) {
	client := fake.NewSimpleClientset(&corev1.Node{})
	assert.NoError(t, CheckCluster(context.Background(), client))
}

func TestCheckClusterNoNodes(t *testing.T) {
	client := fake.NewSimpleClientset()

	err := CheckCluster(context.Background(), client)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConnection))
}

func TestProbeEndpoints(t *testing.T) {
	results := ProbeEndpoints(context.Background(), []string{"256.256.256.256"})
	require.Len(t, results, 1)
	assert.False(t, results[0].Reachable)
	assert.NotEmpty(t, results[0].Detail)
	assert.False(t, AllReachable(results))

	assert.True(t, AllReachable(nil))
}
