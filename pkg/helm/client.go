package helm

import (
	"context"
	"os"
	"time"

	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/cli"
	"helm.sh/helm/v3/pkg/getter"
	"helm.sh/helm/v3/pkg/kube"
	"helm.sh/helm/v3/pkg/release"
	"helm.sh/helm/v3/pkg/repo"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Client deploys charts into the cluster through the Helm action API.
type Client struct {
	namespace    string
	actionConfig *action.Configuration
}

// NewClient creates a Helm client from a kubeconfig file path.
func NewClient(kubeconfigPath, namespace string) (*Client, error) {
	actionConfig := new(action.Configuration)
	restGetter := kube.GetConfig(kubeconfigPath, "", namespace)

	logFn := func(format string, v ...interface{}) {
		log.Tracef(format, v...)
	}
	if err := actionConfig.Init(restGetter, namespace, "secret", logFn); err != nil {
		return nil, errors.Wrap(err, "Error while initializing Helm action configuration")
	}

	return &Client{namespace: namespace, actionConfig: actionConfig}, nil
}

// InstallOrUpgrade installs a chart or upgrades it when the release already
// exists.
func (c *Client) InstallOrUpgrade(ctx context.Context, releaseName, repoURL, chartName, version string, values map[string]interface{}) (*release.Release, error) {
	histClient := action.NewHistory(c.actionConfig)
	histClient.Max = 1
	if _, err := histClient.Run(releaseName); err != nil {
		return c.install(ctx, releaseName, repoURL, chartName, version, values)
	}
	return c.upgrade(ctx, releaseName, repoURL, chartName, version, values)
}

func (c *Client) install(ctx context.Context, releaseName, repoURL, chartName, version string, values map[string]interface{}) (*release.Release, error) {
	installClient := action.NewInstall(c.actionConfig)
	installClient.ReleaseName = releaseName
	installClient.Namespace = c.namespace
	installClient.CreateNamespace = true
	installClient.Version = version
	installClient.Timeout = 10 * time.Minute

	loaded, err := c.loadChart(repoURL, chartName, version)
	if err != nil {
		return nil, err
	}

	return installClient.RunWithContext(ctx, loaded, values)
}

func (c *Client) upgrade(ctx context.Context, releaseName, repoURL, chartName, version string, values map[string]interface{}) (*release.Release, error) {
	upgradeClient := action.NewUpgrade(c.actionConfig)
	upgradeClient.Namespace = c.namespace
	upgradeClient.Version = version
	upgradeClient.Timeout = 10 * time.Minute

	loaded, err := c.loadChart(repoURL, chartName, version)
	if err != nil {
		return nil, err
	}

	return upgradeClient.RunWithContext(ctx, releaseName, loaded, values)
}

func (c *Client) loadChart(repoURL, chartName, version string) (*chart.Chart, error) {
	settings := cli.New()

	chartPath, err := repo.FindChartInRepoURL(repoURL, chartName, version, "", "", "", getter.All(settings))
	if err != nil {
		return nil, errors.Wrapf(err, "Error while finding chart %s in %s", chartName, repoURL)
	}
	defer func() {
		_ = os.Remove(chartPath)
	}()

	return loader.Load(chartPath)
}
