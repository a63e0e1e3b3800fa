package v1alpha1

import (
	"fmt"
	"net"
	"regexp"

	"github.com/solonode/solonode/pkg/apis/solonode"
)

// ProvisionConfig holds the four scalar settings of a provisioning run.
// It is resolved once at startup and immutable for the run's duration.
type ProvisionConfig struct {
	// KubernetesMinor selects the pkgs.k8s.io repository line, e.g. "v1.33".
	KubernetesMinor string `json:"kubernetesMinor,omitempty" mapstructure:"k8s_minor"`
	// PodCIDR is the IP block reserved for pod networking cluster-wide.
	PodCIDR string `json:"podCIDR,omitempty" mapstructure:"pod_cidr"`
	// Arch is the CPU architecture used for package and binary downloads.
	Arch string `json:"arch,omitempty" mapstructure:"arch"`
	// CNI selects the pod networking plugin: "flannel" or "cilium".
	CNI string `json:"cni,omitempty" mapstructure:"cni"`
	// SkipImagePull disables the best-effort control-plane image pre-pull.
	SkipImagePull bool `json:"skipImagePull,omitempty" mapstructure:"skip_image_pull"`
}

var minorVersionRe = regexp.MustCompile(`^v\d+\.\d+$`)

// Validate checks the configuration before any stage runs. An unsupported
// CNI selector yields the documented exit code 2.
func (c *ProvisionConfig) Validate() error {
	if c.CNI != solonode.CNIFlannel && c.CNI != solonode.CNICilium {
		return solonode.NewExitError(solonode.ExitUnsupportedCNI,
			"unsupported CNI %q (accepted values: %s, %s)", c.CNI, solonode.CNIFlannel, solonode.CNICilium)
	}
	if _, _, err := net.ParseCIDR(c.PodCIDR); err != nil {
		return fmt.Errorf("invalid pod CIDR %q: %w", c.PodCIDR, err)
	}
	if !minorVersionRe.MatchString(c.KubernetesMinor) {
		return fmt.Errorf("invalid Kubernetes minor version %q (expected e.g. v1.33)", c.KubernetesMinor)
	}
	return nil
}
