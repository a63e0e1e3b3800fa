package debian

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/solonode/solonode/pkg/constants"
	tu "github.com/solonode/solonode/pkg/testutils"
	"github.com/solonode/solonode/pkg/utils"
)

type ModulesTestSuite struct {
	suite.Suite
	Executor    *tu.MockExecutor
	OldExecutor utils.Executor
	OldFS       utils.FileSystem
}

func (s *ModulesTestSuite) SetupTest() {
	s.Executor = &tu.MockExecutor{}
	s.OldExecutor = utils.Exec
	utils.Exec = s.Executor
	s.OldFS = utils.FS
	utils.FS = utils.NewMemMapFS()
}

func (s *ModulesTestSuite) TearDownTest() {
	utils.Exec = s.OldExecutor
	utils.FS = s.OldFS
}

func (s *ModulesTestSuite) TestLoadKernelModules() {
	assert := s.Require()
	s.Executor.On("Run", true, "/sbin/modprobe", "overlay").Return("", nil)
	s.Executor.On("Run", true, "/sbin/modprobe", "br_netfilter").Return("", nil)

	changed, err := LoadKernelModules("overlay", "br_netfilter")
	assert.NoError(err)
	assert.True(changed)

	content, err := utils.FS.ReadFile(constants.ModulesLoadFile)
	assert.NoError(err)
	assert.Equal("overlay\nbr_netfilter\n", string(content))
	s.Executor.AssertExpectations(s.T())
}

func (s *ModulesTestSuite) TestLoadKernelModulesPersistedListUnchanged() {
	assert := s.Require()
	assert.NoError(utils.FS.WriteFile(constants.ModulesLoadFile, []byte("overlay\nbr_netfilter\n"), 0644))
	s.Executor.On("Run", true, "/sbin/modprobe", "overlay").Return("", nil)
	s.Executor.On("Run", true, "/sbin/modprobe", "br_netfilter").Return("", nil)

	changed, err := LoadKernelModules("overlay", "br_netfilter")
	assert.NoError(err)
	assert.False(changed, "Module list file should be left alone")
}

func (s *ModulesTestSuite) TestWriteSysctlSettings() {
	assert := s.Require()

	changed, err := WriteSysctlSettings()
	assert.NoError(err)
	assert.True(changed)

	content, err := utils.FS.ReadFile(constants.SysctlFile)
	assert.NoError(err)
	assert.Contains(string(content), "net.bridge.bridge-nf-call-iptables  = 1")
	assert.Contains(string(content), "net.ipv4.ip_forward                 = 1")

	changed, err = WriteSysctlSettings()
	assert.NoError(err)
	assert.False(changed, "Second write should be skipped")
}

func TestModules(t *testing.T) {
	suite.Run(t, new(ModulesTestSuite))
}
