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

package config

const (
	ConfigDir  = ".go-dds"
	ConfigFile = "config"
	DBFile     = "state.db"

	DefaultIP       = "127.0.0.1"
	DefaultLogLevel = "info"

	DefaultGeneratorName = "gen0"
	DefaultSPI           = "SPI0.0"
	DefaultSPIMode       = 2
	DefaultSPIMaxHz      = 5000000
	// DefaultMClock matches the 25 MHz crystal of the common AD9833 modules
	DefaultMClock = 25000000
)
