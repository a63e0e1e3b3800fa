package options

const (
	// General
	Config    = "config"
	Verbosity = "verbosity"
	Json      = "json"

	// Pipeline
	DryRun = "dry-run"

	// Configuration
	KubernetesMinor = "kubernetes-minor"
	PodCIDR         = "pod-cidr"
	Arch            = "arch"
	CNI             = "cni"
	SkipImagePull   = "skip-image-pull"
)
