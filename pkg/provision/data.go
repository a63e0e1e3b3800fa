package provision

import (
	"k8s.io/client-go/kubernetes"

	"github.com/solonode/solonode/pkg/apis/solonode/v1alpha1"
	"github.com/solonode/solonode/pkg/constants"
	"github.com/solonode/solonode/pkg/helm"
	"github.com/solonode/solonode/pkg/k8s"
)

// Client factories, swappable for tests.
var (
	NewClientset  = k8s.NewClientset
	NewHelmClient = func() (*helm.Client, error) {
		return helm.NewClient(constants.AdminKubeconfigFile, constants.CiliumNamespace)
	}
)

// RunData is the state shared between the stages of one provisioning run.
type RunData struct {
	Config *v1alpha1.ProvisionConfig

	// Filled in by the late stages for the final summary.
	HelmVersion string
	JoinCommand string
	Nodes       []k8s.NodeStatus
	SystemPods  []k8s.PodStatus
	CNIPods     []k8s.PodStatus

	client kubernetes.Interface
}

// Client returns a Kubernetes client for the freshly initialized cluster,
// building it on first use.
func (d *RunData) Client() (kubernetes.Interface, error) {
	if d.client != nil {
		return d.client, nil
	}
	client, err := NewClientset()
	if err != nil {
		return nil, err
	}
	d.client = client
	return client, nil
}
