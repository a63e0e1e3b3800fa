/*
Copyright © 2025 The solonode authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cni

import (
	"context"
	"fmt"
	"os"

	"github.com/bitfield/script"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"helm.sh/helm/v3/pkg/release"
	"k8s.io/client-go/kubernetes"

	"github.com/solonode/solonode/pkg/constants"
	"github.com/solonode/solonode/pkg/k8s"
	"github.com/solonode/solonode/pkg/utils"
)

// ChartInstaller deploys a chart release into the cluster. Satisfied by
// *helm.Client.
type ChartInstaller interface {
	InstallOrUpgrade(ctx context.Context, releaseName, repoURL, chartName, version string, values map[string]interface{}) (*release.Release, error)
}

const (
	ciliumDaemonSet          = "cilium"
	ciliumOperatorDeployment = "cilium-operator"
	ciliumCLIArchivePath     = "/tmp/cilium-cli.tar.gz"
)

// FetchCiliumCLI downloads the cilium CLI release archive. Swappable for
// tests.
var FetchCiliumCLI = func(url string) ([]byte, error) {
	return script.Get(url).Bytes()
}

// CiliumValues builds the chart values for a cluster-pool IPAM deployment
// covering the given pod CIDR.
func CiliumValues(podCIDR string) map[string]interface{} {
	return map[string]interface{}{
		"ipam": map[string]interface{}{
			"mode": "cluster-pool",
			"operator": map[string]interface{}{
				"clusterPoolIPv4PodCIDRList": []string{podCIDR},
			},
		},
		"operator": map[string]interface{}{
			"replicas": 1,
		},
	}
}

// InstallCiliumCLI installs the cilium CLI binary for the given architecture
// unless it is already present. Returns true when an installation was
// performed.
func InstallCiliumCLI(arch string) (bool, error) {
	if path, err := utils.Exec.LookPath("cilium"); err == nil {
		log.WithField("path", path).Debug("Cilium CLI already installed")
		return false, nil
	}

	url := fmt.Sprintf(constants.CiliumCLIReleaseURLFormat, arch)
	log.WithField("url", url).Info("Installing Cilium CLI...")
	archive, err := FetchCiliumCLI(url)
	if err != nil {
		return false, errors.Wrapf(err, "Error while fetching %s", url)
	}
	if err := utils.FS.WriteFile(ciliumCLIArchivePath, archive, os.FileMode(0644)); err != nil {
		return false, errors.Wrapf(err, "Error while writing %s", ciliumCLIArchivePath)
	}
	defer func() {
		_ = utils.FS.Remove(ciliumCLIArchivePath)
	}()

	out, err := utils.Exec.Run(true, "/usr/bin/tar", "-C", "/usr/local/bin", "-xzf", ciliumCLIArchivePath, "cilium")
	if err != nil {
		return false, errors.Wrapf(err, "Error while extracting Cilium CLI: %s", string(out))
	}
	log.Trace(string(out))
	return true, nil
}

// InstallCilium deploys the Cilium chart with cluster-pool IPAM over the pod
// CIDR, then waits for the agent DaemonSet and operator Deployment rollouts.
// Both waits tolerate timeout.
func InstallCilium(ctx context.Context, client kubernetes.Interface, installer ChartInstaller, podCIDR string) error {
	values := CiliumValues(podCIDR)
	log.WithField("pod_cidr", podCIDR).Info("Deploying Cilium chart...")
	if _, err := installer.InstallOrUpgrade(ctx, constants.CiliumReleaseName,
		constants.CiliumChartRepository, constants.CiliumChartName, "", values); err != nil {
		return errors.Wrap(err, "Error while deploying Cilium chart")
	}

	if err := k8s.WaitForDaemonSetReady(ctx, client, constants.CiliumNamespace, ciliumDaemonSet,
		constants.CiliumRolloutTimeout); err != nil {
		log.WithError(err).Warn("Cilium agent rollout did not settle in time")
	}
	if err := k8s.WaitForDeploymentReady(ctx, client, constants.CiliumNamespace, ciliumOperatorDeployment,
		constants.CiliumRolloutTimeout); err != nil {
		log.WithError(err).Warn("Cilium operator rollout did not settle in time")
	}
	return nil
}

// CiliumPods lists the Cilium pods for the health check.
func CiliumPods(ctx context.Context, client kubernetes.Interface) ([]k8s.PodStatus, error) {
	return k8s.ListPods(ctx, client, constants.CiliumNamespace, "k8s-app=cilium")
}
