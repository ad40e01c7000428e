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
	"fmt"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-dds/pkg/command"
	"jinr.ru/greenlab/go-dds/pkg/config"
)

func NewStatusCommand() *cobra.Command {
	var device string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the decoded register mirror of a generator",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			status, err := apiClient.Status(device)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "generator: %s\n", status.Name)
			fmt.Fprintf(out, "mclock: %d Hz\n", status.MClock)
			for i := 0; i < 2; i++ {
				active := " "
				if status.ActiveFrequency == i {
					active = "*"
				}
				fmt.Fprintf(out, "freq%d%s: %f Hz\n", i, active, status.Frequency[i])
			}
			for i := 0; i < 2; i++ {
				active := " "
				if status.ActivePhase == i {
					active = "*"
				}
				fmt.Fprintf(out, "phase%d%s: %f rad\n", i, active, status.Phase[i])
			}
			fmt.Fprintf(out, "waveform: %s\n", status.Waveform)
			fmt.Fprintf(out, "sleep: %s\n", status.Sleep)
			return nil
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, config.DefaultGeneratorName, "Generator name")

	return cmd
}
