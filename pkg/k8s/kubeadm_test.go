package k8s

import (
	"bytes"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/suite"

	"github.com/solonode/solonode/pkg/apis/solonode/v1alpha1"
	"github.com/solonode/solonode/pkg/constants"
	tu "github.com/solonode/solonode/pkg/testutils"
	"github.com/solonode/solonode/pkg/utils"
)

type KubeadmTestSuite struct {
	suite.Suite
	Executor    *tu.MockExecutor
	OldExecutor utils.Executor
	OldFS       utils.FileSystem
}

func (s *KubeadmTestSuite) SetupTest() {
	s.Executor = &tu.MockExecutor{}
	s.OldExecutor = utils.Exec
	utils.Exec = s.Executor
	s.OldFS = utils.FS
	utils.FS = utils.NewMemMapFS()
}

func (s *KubeadmTestSuite) TearDownTest() {
	utils.Exec = s.OldExecutor
	utils.FS = s.OldFS
}

func (s *KubeadmTestSuite) TestCreateKubeadmConfiguration() {
	assert := s.Require()
	config := &v1alpha1.ProvisionConfig{
		KubernetesMinor: "v1.33",
		PodCIDR:         "10.244.0.0/16",
	}

	out := new(bytes.Buffer)
	assert.NoError(CreateKubeadmConfiguration(out, config), "Error while creating configuration")

	expected := dedent.Dedent(`
		apiVersion: kubeadm.k8s.io/v1beta4
		kind: ClusterConfiguration
		networking:
		  podSubnet: 10.244.0.0/16
		---
		apiVersion: kubeadm.k8s.io/v1beta4
		kind: InitConfiguration
		nodeRegistration:
		  criSocket: unix:///run/containerd/containerd.sock
		`)
	assert.Equal(expected, out.String(), "Configurations should be equal")
}

func (s *KubeadmTestSuite) TestInitCluster() {
	assert := s.Require()
	config := &v1alpha1.ProvisionConfig{PodCIDR: "10.244.0.0/16"}
	s.Executor.On("Run", true, "/usr/bin/kubeadm", "init", "--config", kubeadmConfigFile).Return("", nil)

	assert.NoError(InitCluster(config))

	content, err := utils.FS.ReadFile(kubeadmConfigFile)
	assert.NoError(err)
	assert.Contains(string(content), "podSubnet: 10.244.0.0/16")
	s.Executor.AssertExpectations(s.T())
}

func (s *KubeadmTestSuite) TestInitClusterRefusesSecondRun() {
	assert := s.Require()
	assert.NoError(utils.FS.WriteFile(constants.AdminKubeconfigFile, []byte("kubeconfig"), 0600))

	err := InitCluster(&v1alpha1.ProvisionConfig{PodCIDR: "10.244.0.0/16"})
	assert.Error(err, "Bootstrap must fail on an already initialized node")
	assert.Contains(err.Error(), "already initialized")
	s.Executor.AssertNotCalled(s.T(), "Run", true, "/usr/bin/kubeadm", "init", "--config", kubeadmConfigFile)
}

func (s *KubeadmTestSuite) TestJoinCommand() {
	assert := s.Require()
	s.Executor.On("Run", false, "/usr/bin/kubeadm", "token", "create", "--print-join-command").
		Return("kubeadm join 192.168.1.10:6443 --token abcdef.0123456789abcdef\n", nil)

	joinCommand, err := JoinCommand()
	assert.NoError(err)
	assert.Equal("kubeadm join 192.168.1.10:6443 --token abcdef.0123456789abcdef", joinCommand)
}

func TestKubeadm(t *testing.T) {
	suite.Run(t, new(KubeadmTestSuite))
}
