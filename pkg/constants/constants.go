package constants

import "time"

// Configuration defaults.
const (
	DefaultKubernetesMinor = "v1.33"
	DefaultPodCIDR         = "10.244.0.0/16"
	DefaultArch            = "amd64"
	DefaultCNI             = "flannel"
)

// Host files written or edited by the provisioner.
const (
	ModulesLoadFile        = "/etc/modules-load.d/kubernetes.conf"
	SysctlFile             = "/etc/sysctl.d/99-kubernetes-cri.conf"
	FstabFile              = "/etc/fstab"
	ContainerdConfigDir    = "/etc/containerd"
	ContainerdConfigFile   = "/etc/containerd/config.toml"
	AptKeyringsDir         = "/etc/apt/keyrings"
	KubernetesKeyringFile  = "/etc/apt/keyrings/kubernetes-apt-keyring.gpg"
	KubernetesSourceFile   = "/etc/apt/sources.list.d/kubernetes.list"
	AdminKubeconfigFile    = "/etc/kubernetes/admin.conf"
	CNIBinDir              = "/opt/cni/bin"
	CNIConfDir             = "/etc/cni/net.d"
	JournalDirectory       = "/var/lib/solonode"
	JournalFile            = "/var/lib/solonode/journal.yaml"
	ConfigurationDirectory = "/etc/solonode"
	EnvironmentFile        = "/etc/solonode/solonode.env"
)

// Upstream endpoints.
const (
	PackageRepositoryURLFormat = "https://pkgs.k8s.io/core:/stable:/%s/deb/"
	PackageRepositoryKeyFormat = "https://pkgs.k8s.io/core:/stable:/%s/deb/Release.key"
	FlannelManifestURL         = "https://github.com/flannel-io/flannel/releases/latest/download/kube-flannel.yml"
	HelmInstallScriptURL       = "https://raw.githubusercontent.com/helm/helm/main/scripts/get-helm-3"
	CiliumCLIReleaseURLFormat  = "https://github.com/cilium/cilium-cli/releases/latest/download/cilium-linux-%s.tar.gz"
	CiliumChartRepository      = "https://helm.cilium.io/"
	ReachabilityProbeAddress   = "pkgs.k8s.io:443"
)

// Cilium chart coordinates.
const (
	CiliumChartName   = "cilium"
	CiliumReleaseName = "cilium"
	CiliumNamespace   = "kube-system"
)

// Rollout wait timeouts. Both waits tolerate expiry.
const (
	FlannelRolloutTimeout = 180 * time.Second
	CiliumRolloutTimeout  = 240 * time.Second
)

// Base packages installed during system preparation.
var BasePackages = []string{
	"ca-certificates",
	"curl",
	"gnupg",
	"apt-transport-https",
}

// Kernel modules required by the container runtime and kube-proxy.
var KernelModules = []string{"overlay", "br_netfilter"}

// Packages installed from the Kubernetes repository and pinned afterwards.
var KubernetesPackages = []string{"kubelet", "kubeadm", "kubectl"}
