package k8s

import (
	"github.com/pkg/errors"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/solonode/solonode/pkg/constants"
)

// NewClientset builds a Kubernetes client from the admin credentials
// generated by kubeadm.
func NewClientset() (kubernetes.Interface, error) {
	config, err := clientcmd.BuildConfigFromFlags("", constants.AdminKubeconfigFile)
	if err != nil {
		return nil, errors.Wrapf(err, "Error while loading %s", constants.AdminKubeconfigFile)
	}
	client, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, errors.Wrap(err, "Error while creating Kubernetes client")
	}
	return client, nil
}
