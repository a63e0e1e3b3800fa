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

// Package containerd configures the container runtime: default config
// generation, systemd cgroup driver and CNI directory redirection.
package containerd

import (
	"fmt"
	"os"
	"strings"

	"github.com/bitfield/script"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/solonode/solonode/pkg/constants"
	"github.com/solonode/solonode/pkg/utils"
)

// ServiceName is the systemd unit of the container runtime.
const ServiceName = "containerd"

// GenerateDefaultConfig writes the runtime's default configuration to
// /etc/containerd/config.toml. An existing configuration is left alone.
// Returns true when the file was written.
func GenerateDefaultConfig() (bool, error) {
	if err := utils.FS.MkdirAll(constants.ContainerdConfigDir, os.FileMode(0755)); err != nil {
		return false, errors.Wrapf(err, "Error while creating %s", constants.ContainerdConfigDir)
	}

	exists, err := utils.FS.Exists(constants.ContainerdConfigFile)
	if err != nil {
		return false, errors.Wrapf(err, "Error while checking %s", constants.ContainerdConfigFile)
	}
	if exists {
		log.Debug("Runtime configuration already present")
		return false, nil
	}

	log.Info("Generating default runtime configuration...")
	out, err := utils.Exec.Run(false, "/usr/bin/containerd", "config", "default")
	if err != nil {
		return false, errors.Wrap(err, "Error while generating runtime configuration")
	}
	if err := utils.FS.WriteFile(constants.ContainerdConfigFile, out, os.FileMode(0644)); err != nil {
		return false, errors.Wrapf(err, "Error while writing %s", constants.ContainerdConfigFile)
	}
	return true, nil
}

// EnableSystemdCgroup switches the runtime's cgroup driver to systemd.
func EnableSystemdCgroup() (bool, error) {
	return editConfig(func(line string) string {
		if strings.TrimSpace(line) == "SystemdCgroup = false" {
			return strings.Replace(line, "SystemdCgroup = false", "SystemdCgroup = true", 1)
		}
		return line
	})
}

// RedirectCNIDirectories points the runtime's CNI bin and conf directories
// at the locations the CNI installers use.
func RedirectCNIDirectories() (bool, error) {
	return editConfig(func(line string) string {
		trimmed := strings.TrimSpace(line)
		// TrimSpace also strips trailing whitespace, so the indent must be
		// computed from the left side only.
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		switch {
		case strings.HasPrefix(trimmed, "bin_dir ="):
			return fmt.Sprintf("%sbin_dir = %q", indent, constants.CNIBinDir)
		case strings.HasPrefix(trimmed, "conf_dir ="):
			return fmt.Sprintf("%sconf_dir = %q", indent, constants.CNIConfDir)
		}
		return line
	})
}

// editConfig applies a line transformation to the runtime configuration
// file, writing it back only when something changed.
func editConfig(transform func(string) string) (bool, error) {
	lines, err := utils.FS.Pipe(constants.ContainerdConfigFile).Slice()
	if err != nil {
		return false, errors.Wrapf(err, "Error while reading %s", constants.ContainerdConfigFile)
	}

	changed := false
	for i, line := range lines {
		if updated := transform(line); updated != line {
			lines[i] = updated
			changed = true
		}
	}
	if !changed {
		return false, nil
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if _, err := utils.FS.WritePipe(constants.ContainerdConfigFile, script.Slice(lines), flags, os.FileMode(0644)); err != nil {
		return false, errors.Wrapf(err, "Error while writing %s", constants.ContainerdConfigFile)
	}
	return true, nil
}
