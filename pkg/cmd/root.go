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

// cSpell: disable
import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/solonode/solonode/pkg/apis/solonode/v1alpha1"
	"github.com/solonode/solonode/pkg/cmd/options"
	"github.com/solonode/solonode/pkg/constants"
)

// cSpell: enable

var (
	cfgFile  string
	v        string
	jsonLogs bool
)

// NewRootCmd creates a new root command.
func NewRootCmd() *cobra.Command {
	cobra.OnInitialize(initConfig)
	cobra.EnableTraverseRunHooks = true

	rootCmd := &cobra.Command{
		Use:   "solonode",
		Short: "Provision a one-node Kubernetes control plane",
		Long: `Provisions a single-node Kubernetes control plane on a fresh
Debian-family host: OS packages, kernel settings, containerd, kubeadm
tooling, control-plane bootstrap, Helm and a CNI plugin.`,
		Example:       `> sudo solonode up --cni cilium`,
		Version:       "v0.1.0", // <---VERSION--->
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return SetUpLogs(os.Stderr, v, jsonLogs)
	}
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, options.Config, "", "config file (default is $HOME/.config/solonode/solonode.yaml or /etc/solonode/solonode.yaml)")
	flags.StringVarP(&v, options.Verbosity, "v", log.InfoLevel.String(), "Log level (debug, info, warn, error, fatal, panic)")
	flags.BoolVar(&jsonLogs, options.Json, false, "Log messages in JSON")

	provisionConfig := &v1alpha1.ProvisionConfig{}

	rootCmd.AddCommand(NewUpCmd(provisionConfig))
	rootCmd.AddCommand(NewStatusCmd(provisionConfig))
	rootCmd.AddCommand(NewJoinCommandCmd())

	return rootCmd
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Optional environment file kept for parity with the shell installer.
	_ = godotenv.Load(constants.EnvironmentFile)

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigType("yaml")
		viper.SetConfigName("solonode")
		viper.AddConfigPath("$HOME/.config/solonode/")
		viper.AddConfigPath(constants.ConfigurationDirectory)
	}

	viper.AutomaticEnv() // read in environment variables that match
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func SetUpLogs(out io.Writer, level string, json bool) error {
	log.SetOutput(out)
	if json {
		log.SetFormatter(&log.JSONFormatter{})
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return errors.Wrap(err, "parsing log level")
	}
	log.SetLevel(lvl)
	return nil
}
