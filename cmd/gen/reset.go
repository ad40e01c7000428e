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

func NewResetCommand() *cobra.Command {
	var device string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Pulse the reset bit of a generator",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			return apiClient.Reset(device)
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, config.DefaultGeneratorName, "Generator name")

	return cmd
}
