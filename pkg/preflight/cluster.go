/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	"github.com/iitd/falcon-deploy/pkg/errors"
)

// BuildKubeClient creates a Kubernetes client from the given kubeconfig
// path. An empty path falls back to KUBECONFIG, then ~/.kube/config, then
// in-cluster service account credentials.
func BuildKubeClient(kubeconfig string) (kubernetes.Interface, error) {
	var cfg *rest.Config
	var err error

	if kubeconfig == "" {
		kubeconfig = os.Getenv("KUBECONFIG")
		if kubeconfig == "" {
			candidate := filepath.Join(homedir.HomeDir(), ".kube", "config")
			if _, statErr := os.Stat(candidate); statErr == nil {
				kubeconfig = candidate
			}
		}
	}

	if kubeconfig == "" {
		cfg, err = rest.InClusterConfig()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeConnection, "no kubeconfig found and in-cluster config unavailable", err)
		}
	} else {
		cfg, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeConnection,
				fmt.Sprintf("build kube config from %s", kubeconfig), err)
		}
	}

	client, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConnection, "create kubernetes client", err)
	}
	return client, nil
}

// CheckCluster verifies the cluster answers API requests by listing nodes.
func CheckCluster(ctx context.Context, client kubernetes.Interface) error {
	nodes, err := client.CoreV1().Nodes().List(ctx, metav1.ListOptions{Limit: 1})
	if err != nil {
		return errors.Wrap(errors.ErrCodeConnection, "kubernetes cluster is not reachable", err)
	}
	if len(nodes.Items) == 0 {
		return errors.New(errors.ErrCodeConnection, "kubernetes cluster reports no nodes")
	}
	return nil
}
