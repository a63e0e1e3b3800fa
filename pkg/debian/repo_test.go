package debian

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/solonode/solonode/pkg/constants"
	tu "github.com/solonode/solonode/pkg/testutils"
	"github.com/solonode/solonode/pkg/utils"
)

type RepoTestSuite struct {
	suite.Suite
	Executor    *tu.MockExecutor
	OldExecutor utils.Executor
	OldFS       utils.FileSystem
	OldFetch    func(url string) ([]byte, error)
	FetchedURLs []string
}

func (s *RepoTestSuite) SetupTest() {
	s.Executor = &tu.MockExecutor{}
	s.OldExecutor = utils.Exec
	utils.Exec = s.Executor
	s.OldFS = utils.FS
	utils.FS = utils.NewMemMapFS()
	s.OldFetch = FetchSigningKey
	s.FetchedURLs = nil
	FetchSigningKey = func(url string) ([]byte, error) {
		s.FetchedURLs = append(s.FetchedURLs, url)
		return []byte("fake-armored-key"), nil
	}
}

func (s *RepoTestSuite) TearDownTest() {
	utils.Exec = s.OldExecutor
	utils.FS = s.OldFS
	FetchSigningKey = s.OldFetch
}

func (s *RepoTestSuite) TestConfigureRepository() {
	assert := s.Require()
	s.Executor.On("Pipe", mock.Anything, true, "/usr/bin/gpg",
		"--dearmor", "--batch", "--yes", "-o", constants.KubernetesKeyringFile).Return("", nil)

	changed, err := ConfigureKubernetesRepository("v1.33", "amd64")
	assert.NoError(err)
	assert.True(changed)
	assert.Equal([]string{"https://pkgs.k8s.io/core:/stable:/v1.33/deb/Release.key"}, s.FetchedURLs)

	content, err := utils.FS.ReadFile(constants.KubernetesSourceFile)
	assert.NoError(err)
	assert.Equal(
		"deb [signed-by=/etc/apt/keyrings/kubernetes-apt-keyring.gpg arch=amd64] https://pkgs.k8s.io/core:/stable:/v1.33/deb/ /\n",
		string(content))
	s.Executor.AssertExpectations(s.T())
}

func (s *RepoTestSuite) TestConfigureRepositoryIsIdempotent() {
	assert := s.Require()
	// Simulate a previous run: keyring present and source already written.
	assert.NoError(utils.FS.WriteFile(constants.KubernetesKeyringFile, []byte("binary-key"), 0644))
	assert.NoError(utils.FS.WriteFile(constants.KubernetesSourceFile, []byte(
		"deb [signed-by=/etc/apt/keyrings/kubernetes-apt-keyring.gpg arch=amd64] https://pkgs.k8s.io/core:/stable:/v1.33/deb/ /\n"), 0644))

	changed, err := ConfigureKubernetesRepository("v1.33", "amd64")
	assert.NoError(err)
	assert.False(changed, "Nothing should change on a re-run")
	assert.Empty(s.FetchedURLs, "The signing key should not be fetched again")
	s.Executor.AssertNotCalled(s.T(), "Pipe", mock.Anything, mock.Anything, mock.Anything)
}

func (s *RepoTestSuite) TestConfigureRepositoryMinorChange() {
	assert := s.Require()
	assert.NoError(utils.FS.WriteFile(constants.KubernetesKeyringFile, []byte("binary-key"), 0644))
	assert.NoError(utils.FS.WriteFile(constants.KubernetesSourceFile, []byte(
		"deb [signed-by=/etc/apt/keyrings/kubernetes-apt-keyring.gpg arch=amd64] https://pkgs.k8s.io/core:/stable:/v1.32/deb/ /\n"), 0644))

	changed, err := ConfigureKubernetesRepository("v1.33", "amd64")
	assert.NoError(err)
	assert.True(changed, "A different minor should rewrite the source")
}

func TestRepo(t *testing.T) {
	suite.Run(t, new(RepoTestSuite))
}
