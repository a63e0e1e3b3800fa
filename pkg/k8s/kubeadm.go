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
package k8s

import (
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/solonode/solonode/pkg/apis/solonode/v1alpha1"
	"github.com/solonode/solonode/pkg/constants"
	"github.com/solonode/solonode/pkg/utils"
)

const kubeadmConfigFile = "/etc/solonode/kubeadm.yaml"

const kubeadmConfigTemplate = `
apiVersion: kubeadm.k8s.io/v1beta4
kind: ClusterConfiguration
networking:
  podSubnet: {{ .PodCIDR }}
---
apiVersion: kubeadm.k8s.io/v1beta4
kind: InitConfiguration
nodeRegistration:
  criSocket: unix:///run/containerd/containerd.sock
`

func CreateKubeadmConfiguration(wr io.Writer, config *v1alpha1.ProvisionConfig) error {
	tmpl, err := template.New("config").Parse(kubeadmConfigTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(wr, config)
}

// WriteKubeadmConfiguration renders the kubeadm configuration for the run
// and persists it for inspection. Returns the file path.
func WriteKubeadmConfiguration(config *v1alpha1.ProvisionConfig) (string, error) {
	if err := utils.FS.MkdirAll(constants.ConfigurationDirectory, os.FileMode(0755)); err != nil {
		return "", errors.Wrapf(err, "Error while creating %s", constants.ConfigurationDirectory)
	}

	var sb strings.Builder
	if err := CreateKubeadmConfiguration(&sb, config); err != nil {
		return "", errors.Wrap(err, "Error while rendering kubeadm configuration")
	}
	if err := utils.FS.WriteFile(kubeadmConfigFile, []byte(sb.String()), os.FileMode(0600)); err != nil {
		return "", errors.Wrapf(err, "Error while writing %s", kubeadmConfigFile)
	}
	return kubeadmConfigFile, nil
}

func RunKubeadm(parameters ...string) error {
	log.Info("Running ", "/usr/bin/kubeadm ", strings.Join(parameters, " "), "...")
	if out, err := utils.Exec.Run(true, "/usr/bin/kubeadm", parameters...); err != nil {
		return errors.Wrap(err, string(out))
	} else {
		log.Trace(string(out))
	}
	return nil
}

// IsClusterInitialized reports whether the node already carries an
// initialized control plane.
func IsClusterInitialized() (bool, error) {
	return utils.FS.Exists(constants.AdminKubeconfigFile)
}

// PrePullImages pre-pulls the control-plane images. Best-effort.
func PrePullImages(configPath string) error {
	return RunKubeadm("config", "images", "pull", "--config", configPath)
}

// InitCluster bootstraps the control plane. Refuses to run on an already
// initialized node: kubeadm init does not tolerate re-invocation.
func InitCluster(config *v1alpha1.ProvisionConfig) error {
	initialized, err := IsClusterInitialized()
	if err != nil {
		return errors.Wrapf(err, "Error while checking %s", constants.AdminKubeconfigFile)
	}
	if initialized {
		return errors.Errorf("control plane already initialized (%s exists); run kubeadm reset first",
			constants.AdminKubeconfigFile)
	}

	configPath, err := WriteKubeadmConfiguration(config)
	if err != nil {
		return err
	}

	return RunKubeadm("init", "--config", configPath)
}

// JoinCommand returns the command that joins a worker node to the cluster.
func JoinCommand() (string, error) {
	out, err := utils.Exec.Run(false, "/usr/bin/kubeadm", "token", "create", "--print-join-command")
	if err != nil {
		return "", errors.Wrap(err, "Error while creating join command")
	}
	return strings.TrimSpace(string(out)), nil
}
