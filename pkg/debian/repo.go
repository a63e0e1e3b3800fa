/*
Copyright © 2025 The solonode authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package debian

import (
	"bytes"
	"fmt"
	"os"

	"github.com/bitfield/script"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/solonode/solonode/pkg/constants"
	"github.com/solonode/solonode/pkg/utils"
)

// FetchSigningKey downloads the package repository signing key. Swappable
// for tests.
var FetchSigningKey = func(url string) ([]byte, error) {
	return script.Get(url).Bytes()
}

// ConfigureKubernetesRepository installs the signing key and APT source for
// the pkgs.k8s.io repository scoped to the given minor version. Both writes
// are skipped when their current content already matches. Returns true when
// anything changed.
func ConfigureKubernetesRepository(minor, arch string) (bool, error) {
	changed := false

	if err := utils.FS.MkdirAll(constants.AptKeyringsDir, os.FileMode(0755)); err != nil {
		return false, errors.Wrapf(err, "Error while creating %s", constants.AptKeyringsDir)
	}

	exists, err := utils.FS.Exists(constants.KubernetesKeyringFile)
	if err != nil {
		return false, errors.Wrapf(err, "Error while checking %s", constants.KubernetesKeyringFile)
	}
	if !exists {
		keyURL := fmt.Sprintf(constants.PackageRepositoryKeyFormat, minor)
		log.WithField("url", keyURL).Info("Fetching repository signing key...")
		key, err := FetchSigningKey(keyURL)
		if err != nil {
			return false, errors.Wrapf(err, "Error while fetching signing key from %s", keyURL)
		}

		out, err := utils.Exec.Pipe(bytes.NewReader(key), true, "/usr/bin/gpg",
			"--dearmor", "--batch", "--yes", "-o", constants.KubernetesKeyringFile)
		if err != nil {
			return false, errors.Wrapf(err, "Error while installing signing key: %s", string(out))
		}
		log.Trace(string(out))
		changed = true
	}

	sourceChanged, err := writeRepositorySource(minor, arch)
	if err != nil {
		return false, err
	}
	return changed || sourceChanged, nil
}

func writeRepositorySource(minor, arch string) (bool, error) {
	repoURL := fmt.Sprintf(constants.PackageRepositoryURLFormat, minor)
	source := fmt.Sprintf("deb [signed-by=%s arch=%s] %s /\n",
		constants.KubernetesKeyringFile, arch, repoURL)

	existing, err := utils.FS.ReadFile(constants.KubernetesSourceFile)
	if err == nil && string(existing) == source {
		log.Debug("Repository source already up to date")
		return false, nil
	}

	log.WithField("file", constants.KubernetesSourceFile).Info("Writing repository source...")
	if err := utils.FS.WriteFile(constants.KubernetesSourceFile, []byte(source), os.FileMode(0644)); err != nil {
		return false, errors.Wrapf(err, "Error while writing %s", constants.KubernetesSourceFile)
	}
	return true, nil
}
