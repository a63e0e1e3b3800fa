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
package provision

import (
	"context"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/solonode/solonode/pkg/apis/solonode"
	"github.com/solonode/solonode/pkg/cni"
	"github.com/solonode/solonode/pkg/constants"
	"github.com/solonode/solonode/pkg/containerd"
	"github.com/solonode/solonode/pkg/debian"
	"github.com/solonode/solonode/pkg/helm"
	"github.com/solonode/solonode/pkg/k8s"
	"github.com/solonode/solonode/pkg/utils"
)

// Geteuid is swappable so the privilege check can be exercised in tests.
var Geteuid = os.Geteuid

// Stages returns the ordered stage list of a full provisioning run.
// The only branch is the CNI selector inside the cni-install stage; the
// order itself encodes the systems-level prerequisites (repository before
// tooling, tooling before init, init before kubectl use, kubectl before
// CNI).
func Stages() []Stage {
	return []Stage{
		{Name: "preflight", Short: "Checking privileges and network reachability", Policy: PolicyRequired, Run: runPreflight},
		{Name: "system-prep", Short: "Preparing the system (packages, kernel modules, sysctl)", Policy: PolicyRequired, Run: runSystemPrep},
		{Name: "disable-swap", Short: "Disabling swap", Policy: PolicyBestEffort, Run: runDisableSwap},
		{Name: "container-runtime", Short: "Installing and configuring the container runtime", Policy: PolicyRequired, Run: runContainerRuntime},
		{Name: "package-repo", Short: "Configuring the Kubernetes package repository", Policy: PolicyRequired, Run: runPackageRepo},
		{Name: "core-tooling", Short: "Installing kubelet, kubeadm and kubectl", Policy: PolicyRequired, Run: runCoreTooling},
		{Name: "cluster-init", Short: "Initializing the control plane", Policy: PolicyRequired, Run: runClusterInit},
		{Name: "kubectl-config", Short: "Installing cluster credentials for the invoking user", Policy: PolicyRequired, Run: runKubectlConfig},
		{Name: "helm-install", Short: "Installing Helm", Policy: PolicyRequired, Run: runHelmInstall},
		{Name: "cni-install", Short: "Installing the pod networking plugin", Policy: PolicyRequired, Run: runCNIInstall},
		{Name: "untaint", Short: "Enabling workload scheduling on the control plane", Policy: PolicyBestEffort, Run: runUntaint},
		{Name: "health-check", Short: "Checking cluster health", Policy: PolicyBestEffort, Run: runHealthCheck},
	}
}

func runPreflight(ctx context.Context, data *RunData) (*Result, error) {
	if Geteuid() != 0 {
		return nil, solonode.NewExitError(solonode.ExitNotRoot, "this command must be run as root")
	}

	if err := utils.CheckReachable(constants.ReachabilityProbeAddress, 5*time.Second); err != nil {
		log.WithError(err).Warn("Network reachability check failed, downloads may not work")
	}
	return &Result{}, nil
}

func runSystemPrep(ctx context.Context, data *RunData) (*Result, error) {
	result := &Result{}

	if err := debian.UpdateIndex(); err != nil {
		return result, err
	}
	if err := debian.InstallPackages(constants.BasePackages...); err != nil {
		return result, err
	}
	result.Changed("installed base packages")

	changed, err := debian.LoadKernelModules(constants.KernelModules...)
	if err != nil {
		return result, err
	}
	if changed {
		result.Changed("persisted kernel module list %s", constants.ModulesLoadFile)
	}

	changed, err = debian.WriteSysctlSettings()
	if err != nil {
		return result, err
	}
	if changed {
		result.Changed("wrote sysctl settings %s", constants.SysctlFile)
	}
	if err := debian.ApplySysctlSettings(); err != nil {
		return result, err
	}

	if err := debian.EnsureHostnameResolves(); err != nil {
		log.WithError(err).Warn("Could not pin hostname in hosts file")
	}
	return result, nil
}

func runDisableSwap(ctx context.Context, data *RunData) (*Result, error) {
	result := &Result{}
	changed, err := debian.DisableSwap()
	if err != nil {
		return result, err
	}
	if changed {
		result.Changed("commented swap entries in %s", constants.FstabFile)
	}
	return result, nil
}

func runContainerRuntime(ctx context.Context, data *RunData) (*Result, error) {
	result := &Result{}

	if err := debian.InstallPackages("containerd", "containernetworking-plugins"); err != nil {
		return result, err
	}
	result.Changed("installed container runtime packages")

	generated, err := containerd.GenerateDefaultConfig()
	if err != nil {
		return result, err
	}
	if generated {
		result.Changed("generated %s", constants.ContainerdConfigFile)
	}

	// Config file edits are best-effort, matching the shell installer.
	edited := false
	if changed, err := containerd.EnableSystemdCgroup(); err != nil {
		log.WithError(err).Warn("Could not enable systemd cgroup driver")
	} else if changed {
		edited = true
		result.Changed("enabled systemd cgroup driver")
	}
	if changed, err := containerd.RedirectCNIDirectories(); err != nil {
		log.WithError(err).Warn("Could not redirect CNI directories")
	} else if changed {
		edited = true
		result.Changed("redirected CNI directories")
	}

	if err := debian.EnableService(containerd.ServiceName); err != nil {
		return result, err
	}
	if edited || generated {
		if err := debian.RestartService(containerd.ServiceName); err != nil {
			return result, err
		}
	}
	return result, nil
}

func runPackageRepo(ctx context.Context, data *RunData) (*Result, error) {
	result := &Result{}
	changed, err := debian.ConfigureKubernetesRepository(data.Config.KubernetesMinor, data.Config.Arch)
	if err != nil {
		return result, err
	}
	if changed {
		result.Changed("configured Kubernetes package repository for %s", data.Config.KubernetesMinor)
	}
	return result, debian.UpdateIndex()
}

func runCoreTooling(ctx context.Context, data *RunData) (*Result, error) {
	result := &Result{}
	if err := debian.InstallPackages(constants.KubernetesPackages...); err != nil {
		return result, err
	}
	if err := debian.HoldPackages(constants.KubernetesPackages...); err != nil {
		return result, err
	}
	result.Changed("installed and pinned %v", constants.KubernetesPackages)
	return result, debian.EnableService("kubelet")
}

func runClusterInit(ctx context.Context, data *RunData) (*Result, error) {
	result := &Result{}

	if !data.Config.SkipImagePull {
		if configPath, err := k8s.WriteKubeadmConfiguration(data.Config); err != nil {
			log.WithError(err).Warn("Could not render configuration for image pre-pull")
		} else if err := k8s.PrePullImages(configPath); err != nil {
			log.WithError(err).Warn("Image pre-pull failed, continuing")
		}
	}

	if err := k8s.InitCluster(data.Config); err != nil {
		return result, err
	}
	result.Changed("initialized control plane with pod CIDR %s", data.Config.PodCIDR)
	return result, nil
}

func runKubectlConfig(ctx context.Context, data *RunData) (*Result, error) {
	result := &Result{}
	u, err := debian.InvokingUser()
	if err != nil {
		return result, err
	}
	path, err := k8s.InstallUserKubeconfig(u)
	if err != nil {
		return result, err
	}
	result.Changed("installed cluster credentials at %s for %s", path, u.Username)
	return result, nil
}

func runHelmInstall(ctx context.Context, data *RunData) (*Result, error) {
	result := &Result{}
	installed, err := helm.EnsureInstalled()
	if err != nil {
		return result, err
	}
	if installed {
		result.Changed("installed Helm client")
	}

	if version, err := helm.ClientVersion(); err == nil {
		data.HelmVersion = version
	} else {
		log.WithError(err).Warn("Could not determine Helm version")
	}
	return result, nil
}

func runCNIInstall(ctx context.Context, data *RunData) (*Result, error) {
	result := &Result{}

	switch data.Config.CNI {
	case solonode.CNIFlannel:
		client, err := data.Client()
		if err != nil {
			return result, err
		}
		if err := cni.InstallFlannel(ctx, client); err != nil {
			return result, err
		}
		result.Changed("applied Flannel manifest")

	case solonode.CNICilium:
		installed, err := cni.InstallCiliumCLI(data.Config.Arch)
		if err != nil {
			return result, err
		}
		if installed {
			result.Changed("installed Cilium CLI")
		}

		client, err := data.Client()
		if err != nil {
			return result, err
		}
		helmClient, err := NewHelmClient()
		if err != nil {
			return result, err
		}
		if err := cni.InstallCilium(ctx, client, helmClient, data.Config.PodCIDR); err != nil {
			return result, err
		}
		result.Changed("deployed Cilium chart with pod CIDR %s", data.Config.PodCIDR)

	default:
		// Normally caught by configuration validation before any stage runs.
		return result, solonode.NewExitError(solonode.ExitUnsupportedCNI,
			"unsupported CNI %q", data.Config.CNI)
	}
	return result, nil
}

func runUntaint(ctx context.Context, data *RunData) (*Result, error) {
	result := &Result{}
	client, err := data.Client()
	if err != nil {
		return result, err
	}
	modified, err := k8s.RemoveControlPlaneTaints(ctx, client)
	if err != nil {
		return result, err
	}
	for _, node := range modified {
		result.Changed("removed control-plane taints from %s", node)
	}
	return result, nil
}

func runHealthCheck(ctx context.Context, data *RunData) (*Result, error) {
	result := &Result{}
	client, err := data.Client()
	if err != nil {
		return result, err
	}

	if data.Nodes, err = k8s.ListNodes(ctx, client); err != nil {
		return result, err
	}
	if data.SystemPods, err = k8s.ListPods(ctx, client, "kube-system", ""); err != nil {
		return result, err
	}

	switch data.Config.CNI {
	case solonode.CNICilium:
		data.CNIPods, err = cni.CiliumPods(ctx, client)
	default:
		data.CNIPods, err = cni.FlannelPods(ctx, client)
	}
	if err != nil {
		log.WithError(err).Warn("Could not list CNI pods")
	}

	if data.JoinCommand, err = k8s.JoinCommand(); err != nil {
		log.WithError(err).Warn("Could not create join command")
	}
	return result, nil
}
