package cni

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"helm.sh/helm/v3/pkg/release"
	"k8s.io/client-go/kubernetes/fake"

	tu "github.com/solonode/solonode/pkg/testutils"
	"github.com/solonode/solonode/pkg/utils"
)

type CiliumTestSuite struct {
	suite.Suite
	Executor    *tu.MockExecutor
	OldExecutor utils.Executor
	OldFS       utils.FileSystem
	OldFetch    func(url string) ([]byte, error)
	FetchedURLs []string
}

func (s *CiliumTestSuite) SetupTest() {
	s.Executor = &tu.MockExecutor{}
	s.OldExecutor = utils.Exec
	utils.Exec = s.Executor
	s.OldFS = utils.FS
	utils.FS = utils.NewMemMapFS()
	s.OldFetch = FetchCiliumCLI
	s.FetchedURLs = nil
	FetchCiliumCLI = func(url string) ([]byte, error) {
		s.FetchedURLs = append(s.FetchedURLs, url)
		return []byte("fake-archive"), nil
	}
}

func (s *CiliumTestSuite) TearDownTest() {
	utils.Exec = s.OldExecutor
	utils.FS = s.OldFS
	FetchCiliumCLI = s.OldFetch
}

func (s *CiliumTestSuite) TestCiliumValues() {
	assert := s.Require()
	values := CiliumValues("10.96.0.0/12")

	ipam, ok := values["ipam"].(map[string]interface{})
	assert.True(ok)
	assert.Equal("cluster-pool", ipam["mode"])

	operator, ok := ipam["operator"].(map[string]interface{})
	assert.True(ok)
	assert.Equal([]string{"10.96.0.0/12"}, operator["clusterPoolIPv4PodCIDRList"])
}

// fakeChartInstaller records the single chart deployment it receives.
type fakeChartInstaller struct {
	releaseName string
	repoURL     string
	chartName   string
	values      map[string]interface{}
}

func (f *fakeChartInstaller) InstallOrUpgrade(ctx context.Context, releaseName, repoURL, chartName, version string, values map[string]interface{}) (*release.Release, error) {
	f.releaseName = releaseName
	f.repoURL = repoURL
	f.chartName = chartName
	f.values = values
	return &release.Release{Name: releaseName}, nil
}

func (s *CiliumTestSuite) TestInstallCilium() {
	assert := s.Require()
	installer := &fakeChartInstaller{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // skip the rollout waits, they tolerate interruption

	assert.NoError(InstallCilium(ctx, fake.NewSimpleClientset(), installer, "10.244.0.0/16"))
	assert.Equal("cilium", installer.releaseName)
	assert.Equal("https://helm.cilium.io/", installer.repoURL)
	assert.Equal("cilium", installer.chartName)

	ipam, ok := installer.values["ipam"].(map[string]interface{})
	assert.True(ok)
	assert.Equal("cluster-pool", ipam["mode"])
	operator, ok := ipam["operator"].(map[string]interface{})
	assert.True(ok)
	assert.Equal([]string{"10.244.0.0/16"}, operator["clusterPoolIPv4PodCIDRList"])
}

func (s *CiliumTestSuite) TestInstallCiliumCLI() {
	assert := s.Require()
	s.Executor.On("LookPath", "cilium").Return("", &notFoundError{})
	s.Executor.On("Run", true, "/usr/bin/tar", "-C", "/usr/local/bin", "-xzf", ciliumCLIArchivePath, "cilium").
		Return("", nil)

	installed, err := InstallCiliumCLI("arm64")
	assert.NoError(err)
	assert.True(installed)
	assert.Equal([]string{"https://github.com/cilium/cilium-cli/releases/latest/download/cilium-linux-arm64.tar.gz"},
		s.FetchedURLs)

	// The downloaded archive is removed after extraction.
	exists, err := utils.FS.Exists(ciliumCLIArchivePath)
	assert.NoError(err)
	assert.False(exists)
	s.Executor.AssertExpectations(s.T())
}

func (s *CiliumTestSuite) TestInstallCiliumCLIAlreadyPresent() {
	assert := s.Require()
	s.Executor.On("LookPath", "cilium").Return("/usr/local/bin/cilium", nil)

	installed, err := InstallCiliumCLI("amd64")
	assert.NoError(err)
	assert.False(installed)
	assert.Empty(s.FetchedURLs, "No download should happen when the CLI is present")
}

type notFoundError struct{}

func (e *notFoundError) Error() string { return "executable file not found in $PATH" }

func TestCilium(t *testing.T) {
	suite.Run(t, new(CiliumTestSuite))
}
