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
)

const (
	DeviceOptionName   = "device"
	RegisterOptionName = "register"
	DeferOptionName    = "defer"
)

// NewCommand creates a cobra command object for all generator operations
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Operate a waveform generator",
	}
	cmd.AddCommand(NewFrequencyCommand())
	cmd.AddCommand(NewPhaseCommand())
	cmd.AddCommand(NewWaveformCommand())
	cmd.AddCommand(NewSleepCommand())
	cmd.AddCommand(NewResetCommand())
	cmd.AddCommand(NewStatusCommand())
	cmd.AddCommand(NewRegCommand())
	return cmd
}
