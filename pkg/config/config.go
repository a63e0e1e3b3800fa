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
package config

// cSpell: disable
import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/solonode/solonode/pkg/apis/solonode/v1alpha1"
	"github.com/solonode/solonode/pkg/cmd/options"
)

// cSpell: enable

// ConfigureProvisionCommand registers the provisioning flags on flagSet,
// seeded with the configuration defaults.
func ConfigureProvisionCommand(flagSet *flag.FlagSet, provisionConfig *v1alpha1.ProvisionConfig) {
	v1alpha1.SetDefaults_ProvisionConfig(provisionConfig)

	flagSet.StringVar(&provisionConfig.KubernetesMinor, options.KubernetesMinor, provisionConfig.KubernetesMinor,
		"Kubernetes package repository minor version")
	flagSet.StringVar(&provisionConfig.PodCIDR, options.PodCIDR, provisionConfig.PodCIDR,
		"Pod network CIDR block")
	flagSet.StringVar(&provisionConfig.Arch, options.Arch, provisionConfig.Arch,
		"CPU architecture for downloads")
	flagSet.StringVar(&provisionConfig.CNI, options.CNI, provisionConfig.CNI,
		"Pod networking plugin (flannel or cilium)")
	flagSet.BoolVar(&provisionConfig.SkipImagePull, options.SkipImagePull, provisionConfig.SkipImagePull,
		"Skip the control-plane image pre-pull")
}

// ProvisionPersistentPreRun binds the provisioning flags and the shell
// installer's bare environment variables into viper.
func ProvisionPersistentPreRun(cmd *cobra.Command, args []string) {
	flags := cmd.Flags()
	_ = viper.BindPFlag(KubernetesMinor, flags.Lookup(options.KubernetesMinor))
	_ = viper.BindPFlag(PodCIDR, flags.Lookup(options.PodCIDR))
	_ = viper.BindPFlag(Arch, flags.Lookup(options.Arch))
	_ = viper.BindPFlag(CNI, flags.Lookup(options.CNI))
	_ = viper.BindPFlag(SkipImagePull, flags.Lookup(options.SkipImagePull))

	_ = viper.BindEnv(KubernetesMinor, EnvKubernetesMinor)
	_ = viper.BindEnv(PodCIDR, EnvPodCIDR)
	_ = viper.BindEnv(Arch, EnvArch)
	_ = viper.BindEnv(CNI, EnvCNI)
}

// DecodeProvisionConfig decodes the configuration from viper. This allows
// providing configuration values as environment variables.
func DecodeProvisionConfig(provisionConfig *v1alpha1.ProvisionConfig) error {
	// Cannot use Unmarshal. Look here: https://github.com/spf13/viper/issues/368
	decoderConfig := mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           provisionConfig,
		Metadata:         nil,
	}

	decoder, err := mapstructure.NewDecoder(&decoderConfig)
	if err != nil {
		return errors.Wrap(err, "While creating decoder")
	}

	if err := decoder.Decode(viper.AllSettings()["provision"]); err != nil {
		return fmt.Errorf("failed to decode provision settings: %w", err)
	}
	return nil
}
