// Package helm installs the Helm client and drives chart deployments
// through the Helm SDK.
package helm

import (
	"bytes"
	"strings"

	"github.com/bitfield/script"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/solonode/solonode/pkg/constants"
	"github.com/solonode/solonode/pkg/utils"
)

// FetchInstallScript downloads the get-helm-3 install script. Swappable for
// tests.
var FetchInstallScript = func(url string) ([]byte, error) {
	return script.Get(url).Bytes()
}

// EnsureInstalled installs the Helm v3 client unless it is already present.
// Returns true when an installation was performed.
func EnsureInstalled() (bool, error) {
	if path, err := utils.Exec.LookPath("helm"); err == nil {
		log.WithField("path", path).Debug("Helm already installed")
		return false, nil
	}

	log.Info("Installing Helm...")
	installScript, err := FetchInstallScript(constants.HelmInstallScriptURL)
	if err != nil {
		return false, errors.Wrapf(err, "Error while fetching %s", constants.HelmInstallScriptURL)
	}

	out, err := utils.Exec.Pipe(bytes.NewReader(installScript), true, "/bin/bash")
	if err != nil {
		return false, errors.Wrapf(err, "Error while running Helm install script: %s", string(out))
	}
	log.Trace(string(out))
	return true, nil
}

// ClientVersion returns the version of the installed Helm client.
func ClientVersion() (string, error) {
	out, err := utils.Exec.Run(false, "helm", "version", "--short")
	if err != nil {
		return "", errors.Wrap(err, "Error while getting Helm version")
	}
	return strings.TrimSpace(string(out)), nil
}
