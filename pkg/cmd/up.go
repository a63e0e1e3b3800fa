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
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/solonode/solonode/pkg/apis/solonode/v1alpha1"
	"github.com/solonode/solonode/pkg/cmd/options"
	"github.com/solonode/solonode/pkg/config"
	"github.com/solonode/solonode/pkg/provision"
)

var dryRun bool

func NewUpCmd(provisionConfig *v1alpha1.ProvisionConfig) *cobra.Command {

	var upCmd = &cobra.Command{
		Use:   "up",
		Short: "Provision the cluster",
		Long: `Provisions the control plane. Performs the following operations:

- Prepares the host (packages, kernel modules, sysctl, swap),
- Installs and configures containerd,
- Installs kubelet, kubeadm and kubectl from pkgs.k8s.io,
- Runs kubeadm init with the configured pod CIDR,
- Installs Helm and the selected CNI plugin,
- Removes the control-plane taints and checks cluster health.
`,
		PersistentPreRun: config.ProvisionPersistentPreRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			return performUp(cmd, provisionConfig)
		},
	}
	flags := upCmd.Flags()

	flags.BoolVar(&dryRun, options.DryRun, false, "Print the stages without executing them")
	config.ConfigureProvisionCommand(flags, provisionConfig)

	return upCmd
}

func performUp(cmd *cobra.Command, provisionConfig *v1alpha1.ProvisionConfig) error {
	if err := config.DecodeProvisionConfig(provisionConfig); err != nil {
		return err
	}
	// Validation happens before any stage runs so that an unsupported CNI
	// selector aborts without side effects.
	if err := provisionConfig.Validate(); err != nil {
		return err
	}

	pipeline := &provision.Pipeline{
		Stages: provision.Stages(),
		Out:    os.Stdout,
		DryRun: dryRun,
	}
	data := &provision.RunData{Config: provisionConfig}

	if _, err := pipeline.Run(cmd.Context(), data); err != nil {
		return err
	}
	if !dryRun {
		provision.PrintSummary(os.Stdout, data)
	}
	return nil
}
