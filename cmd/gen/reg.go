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
	"sort"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-dds/pkg/command"
	"jinr.ru/greenlab/go-dds/pkg/config"
)

func NewRegCommand() *cobra.Command {
	var device string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "reg",
		Short: "Dump the raw register mirror of a generator",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			regs, err := apiClient.RegRead(device)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(regs))
			for name := range regs {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, regs[name])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&device, DeviceOptionName, config.DefaultGeneratorName, "Generator name")

	return cmd
}
