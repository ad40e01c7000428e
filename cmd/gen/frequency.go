/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package gen

import (
	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-dds/pkg/command"
	"jinr.ru/greenlab/go-dds/pkg/config"
)

const (
	HzOptionName = "hz"
)

func NewFrequencyCommand() *cobra.Command {
	var device string
	var hz float64
	var register int
	var deferred bool
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "frequency",
		Short: "Load a frequency register",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			return apiClient.SetFrequency(device, hz, register, !deferred)
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, config.DefaultGeneratorName, "Generator name")
	cmd.Flags().Float64Var(&hz, HzOptionName, 0, "Output frequency in Hz")
	cmd.Flags().IntVar(&register, RegisterOptionName, 0, "Frequency register, 0 or 1")
	cmd.Flags().BoolVar(&deferred, DeferOptionName, false, "Load the register without making it active")
	cmd.MarkFlagRequired(HzOptionName)

	return cmd
}
