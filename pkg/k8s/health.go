package k8s

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	v1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// NodeStatus is the operator-visible state of a node.
type NodeStatus struct {
	Name    string
	Ready   bool
	Version string
}

// PodStatus is the operator-visible state of a pod.
type PodStatus struct {
	Namespace string
	Name      string
	Phase     string
	Ready     bool
}

func (p PodStatus) String() string {
	return fmt.Sprintf("%s/%s: %s", p.Namespace, p.Name, p.Phase)
}

// ListNodes returns the status of every cluster node.
func ListNodes(ctx context.Context, client kubernetes.Interface) ([]NodeStatus, error) {
	nodes, err := client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "Error while listing nodes")
	}

	var statuses []NodeStatus
	for _, node := range nodes.Items {
		status := NodeStatus{Name: node.Name, Version: node.Status.NodeInfo.KubeletVersion}
		for _, condition := range node.Status.Conditions {
			if condition.Type == v1.NodeReady {
				status.Ready = condition.Status == v1.ConditionTrue
			}
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// ListPods returns the status of the pods in namespace matching selector.
// An empty selector matches everything.
func ListPods(ctx context.Context, client kubernetes.Interface, namespace, selector string) ([]PodStatus, error) {
	pods, err := client.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		return nil, errors.Wrapf(err, "Error while listing pods in %s", namespace)
	}

	var statuses []PodStatus
	for _, pod := range pods.Items {
		status := PodStatus{
			Namespace: pod.Namespace,
			Name:      pod.Name,
			Phase:     string(pod.Status.Phase),
		}
		for _, condition := range pod.Status.Conditions {
			if condition.Type == v1.PodReady {
				status.Ready = condition.Status == v1.ConditionTrue
			}
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
