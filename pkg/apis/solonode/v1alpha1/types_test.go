package v1alpha1

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/solonode/solonode/pkg/apis/solonode"
)

func TestDefaults(t *testing.T) {
	config := &ProvisionConfig{}
	SetDefaults_ProvisionConfig(config)

	assert.Equal(t, "v1.33", config.KubernetesMinor)
	assert.Equal(t, "10.244.0.0/16", config.PodCIDR)
	assert.Equal(t, "amd64", config.Arch)
	assert.Equal(t, solonode.CNIFlannel, config.CNI)
}

func TestDefaultsKeepExplicitValues(t *testing.T) {
	config := &ProvisionConfig{
		KubernetesMinor: "v1.34",
		PodCIDR:         "10.96.0.0/12",
		CNI:             solonode.CNICilium,
	}
	SetDefaults_ProvisionConfig(config)

	assert.Equal(t, "v1.34", config.KubernetesMinor)
	assert.Equal(t, "10.96.0.0/12", config.PodCIDR)
	assert.Equal(t, "amd64", config.Arch)
	assert.Equal(t, solonode.CNICilium, config.CNI)
}

func TestValidate(t *testing.T) {
	config := &ProvisionConfig{}
	SetDefaults_ProvisionConfig(config)
	assert.NoError(t, config.Validate())

	config.CNI = solonode.CNICilium
	assert.NoError(t, config.Validate())
}

func TestValidateUnsupportedCNI(t *testing.T) {
	config := &ProvisionConfig{CNI: "weave"}
	SetDefaults_ProvisionConfig(config)
	err := config.Validate()
	assert.Error(t, err)

	var exitErr *solonode.ExitError
	assert.True(t, errors.As(err, &exitErr))
	assert.Equal(t, solonode.ExitUnsupportedCNI, exitErr.Code)
}

func TestValidateBadValues(t *testing.T) {
	config := &ProvisionConfig{PodCIDR: "not-a-cidr"}
	SetDefaults_ProvisionConfig(config)
	assert.ErrorContains(t, config.Validate(), "invalid pod CIDR")

	config = &ProvisionConfig{KubernetesMinor: "1.33"}
	SetDefaults_ProvisionConfig(config)
	assert.ErrorContains(t, config.Validate(), "invalid Kubernetes minor version")
}
