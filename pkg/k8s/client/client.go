// Package client builds Kubernetes clients from kubeconfig files.
package client

import (
	"os"
	"path/filepath"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	"github.com/codefresh-contrib/cfstep-helm/pkg/errors"
)

// BuildKubeClient creates a Kubernetes client from the given kubeconfig file.
//
// When kubeconfig is empty the configuration is discovered from:
//  1. KUBECONFIG environment variable
//  2. ~/.kube/config (if it exists)
//  3. In-cluster configuration (service account)
func BuildKubeClient(kubeconfig string) (*kubernetes.Clientset, error) {
	if kubeconfig == "" {
		kubeconfig = os.Getenv("KUBECONFIG")

		if kubeconfig == "" {
			kubeconfig = filepath.Join(homedir.HomeDir(), ".kube", "config")
			if _, err := os.Stat(kubeconfig); os.IsNotExist(err) {
				kubeconfig = ""
			}
		}
	}

	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidConfiguration, "failed to build kube config", err,
			map[string]any{"kubeconfig": kubeconfig})
	}

	cs, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to create kubernetes client", err)
	}
	return cs, nil
}
