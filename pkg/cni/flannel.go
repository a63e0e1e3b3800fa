// Package cni deploys the selected pod networking plugin, Flannel or
// Cilium, onto a freshly initialized cluster.
package cni

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"k8s.io/client-go/kubernetes"

	"github.com/solonode/solonode/pkg/constants"
	"github.com/solonode/solonode/pkg/k8s"
	"github.com/solonode/solonode/pkg/utils"
)

const (
	flannelNamespace = "kube-flannel"
	flannelDaemonSet = "kube-flannel-ds"
)

// InstallFlannel applies the Flannel manifest and waits for its DaemonSet
// rollout. The wait tolerates timeout.
func InstallFlannel(ctx context.Context, client kubernetes.Interface) error {
	log.WithField("manifest", constants.FlannelManifestURL).Info("Applying Flannel manifest...")
	out, err := utils.Exec.Run(true, "/usr/bin/kubectl", "apply", "-f", constants.FlannelManifestURL,
		"--kubeconfig", constants.AdminKubeconfigFile)
	if err != nil {
		return errors.Wrapf(err, "Error while applying Flannel manifest: %s", string(out))
	}
	log.Trace(string(out))

	if err := k8s.WaitForDaemonSetReady(ctx, client, flannelNamespace, flannelDaemonSet,
		constants.FlannelRolloutTimeout); err != nil {
		log.WithError(err).Warn("Flannel rollout did not settle in time")
	}
	return nil
}

// FlannelPods lists the Flannel pods for the health check.
func FlannelPods(ctx context.Context, client kubernetes.Interface) ([]k8s.PodStatus, error) {
	return k8s.ListPods(ctx, client, flannelNamespace, "app=flannel")
}
