package k8s

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	v1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// Taints that keep workloads off a control-plane node. The master key is the
// legacy spelling still applied by older kubeadm releases.
var controlPlaneTaintKeys = []string{
	"node-role.kubernetes.io/control-plane",
	"node-role.kubernetes.io/master",
}

// RemoveControlPlaneTaints removes the scheduling taints from every node so
// workloads can run on a single-node cluster. Returns the names of the nodes
// that were modified.
func RemoveControlPlaneTaints(ctx context.Context, client kubernetes.Interface) ([]string, error) {
	nodes, err := client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "Error while listing nodes")
	}

	var modified []string
	for i := range nodes.Items {
		node := &nodes.Items[i]
		kept := filterTaints(node.Spec.Taints)
		if len(kept) == len(node.Spec.Taints) {
			continue
		}

		node.Spec.Taints = kept
		if _, err := client.CoreV1().Nodes().Update(ctx, node, metav1.UpdateOptions{}); err != nil {
			return modified, errors.Wrapf(err, "Error while updating node %s", node.Name)
		}
		log.WithField("node", node.Name).Info("Removed control-plane taints")
		modified = append(modified, node.Name)
	}
	return modified, nil
}

func filterTaints(taints []v1.Taint) []v1.Taint {
	var kept []v1.Taint
	for _, taint := range taints {
		if !isControlPlaneTaint(taint) {
			kept = append(kept, taint)
		}
	}
	return kept
}

func isControlPlaneTaint(taint v1.Taint) bool {
	for _, key := range controlPlaneTaintKeys {
		if taint.Key == key {
			return true
		}
	}
	return false
}
