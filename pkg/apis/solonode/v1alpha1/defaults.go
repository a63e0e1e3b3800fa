package v1alpha1

import (
	"github.com/solonode/solonode/pkg/constants"
)

func SetDefaults_ProvisionConfig(obj *ProvisionConfig) {
	if obj.KubernetesMinor == "" {
		obj.KubernetesMinor = constants.DefaultKubernetesMinor
	}
	if obj.PodCIDR == "" {
		obj.PodCIDR = constants.DefaultPodCIDR
	}
	if obj.Arch == "" {
		obj.Arch = constants.DefaultArch
	}
	if obj.CNI == "" {
		obj.CNI = constants.DefaultCNI
	}
}
