package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solonode/solonode/pkg/k8s"
)

func NewJoinCommandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join-command",
		Short: "Print the command that joins a worker node",
		RunE: func(cmd *cobra.Command, args []string) error {
			joinCommand, err := k8s.JoinCommand()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), joinCommand)
			return nil
		},
	}
}
