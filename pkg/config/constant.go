package config

// Viper keys for the provisioning configuration. Each key is also bound to
// the bare environment variable of the shell installer it replaces.
const (
	KubernetesMinor = "provision.k8s_minor"
	PodCIDR         = "provision.pod_cidr"
	Arch            = "provision.arch"
	CNI             = "provision.cni"
	SkipImagePull   = "provision.skip_image_pull"
)

// Environment variable names kept for compatibility with the shell installer.
const (
	EnvKubernetesMinor = "K8S_MINOR"
	EnvPodCIDR         = "POD_CIDR"
	EnvArch            = "ARCH"
	EnvCNI             = "CNI"
)
