package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/solonode/solonode/pkg/apis/solonode"
	"github.com/solonode/solonode/pkg/apis/solonode/v1alpha1"
	"github.com/solonode/solonode/pkg/cni"
	"github.com/solonode/solonode/pkg/config"
	"github.com/solonode/solonode/pkg/k8s"
	"github.com/solonode/solonode/pkg/provision"
)

func NewStatusCmd(provisionConfig *v1alpha1.ProvisionConfig) *cobra.Command {

	var statusCmd = &cobra.Command{
		Use:              "status",
		Short:            "Show the cluster status",
		Long:             `Lists system pods, node status and CNI pods of a provisioned cluster.`,
		PersistentPreRun: config.ProvisionPersistentPreRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			return performStatus(cmd, provisionConfig)
		},
	}
	config.ConfigureProvisionCommand(statusCmd.Flags(), provisionConfig)

	return statusCmd
}

func performStatus(cmd *cobra.Command, provisionConfig *v1alpha1.ProvisionConfig) error {
	if err := config.DecodeProvisionConfig(provisionConfig); err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := k8s.NewClientset()
	if err != nil {
		return err
	}

	data := &provision.RunData{Config: provisionConfig}
	if data.Nodes, err = k8s.ListNodes(ctx, client); err != nil {
		return err
	}
	if data.SystemPods, err = k8s.ListPods(ctx, client, "kube-system", ""); err != nil {
		return err
	}
	if provisionConfig.CNI == solonode.CNICilium {
		data.CNIPods, _ = cni.CiliumPods(ctx, client)
	} else {
		data.CNIPods, _ = cni.FlannelPods(ctx, client)
	}

	provision.PrintSummary(os.Stdout, data)
	return nil
}
